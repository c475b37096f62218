package testutils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateUUID(t *testing.T) {
	ResetTestCounters()
	assert.Equal(t, "00000001-0000-4000-8000-000000000001", GenerateUUID(true))
	assert.Equal(t, "00000002-0000-4000-8000-000000000002", GenerateUUID(true))

	id := GenerateUUID(false)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, GenerateUUID(false), id)
}

func TestClock(t *testing.T) {
	ResetTestCounters()
	clock := Clock(true)
	first := clock()
	second := clock()
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), first)
	assert.Equal(t, time.Second, second.Sub(first))

	real := Clock(false)
	assert.WithinDuration(t, time.Now(), real(), time.Minute)
}
