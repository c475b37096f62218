package calllog

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"devicecall/pkg/calltypes"
)

func TestBuffer_Empty(t *testing.T) {
	b := New(100)
	assert.Equal(t, "[]", string(b.JSON()))
	assert.Equal(t, 2, b.Size())
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 100, b.Limit())
}

func TestBuffer_Append(t *testing.T) {
	b := New(1000)
	require.NoError(t, b.Append(map[string]int{"a": 1}))
	require.NoError(t, b.Append(map[string]int{"b": 2}))

	assert.Equal(t, `[{"a":1},{"b":2}]`, string(b.JSON()))
	assert.Equal(t, len(b.JSON()), b.Size())
	assert.Equal(t, 2, b.Len())
}

func TestBuffer_EvictsOldest(t *testing.T) {
	// each {"n":i} entry is 7 bytes, three entries serialize to 2+21+2 = 25
	b := New(25)
	for i := 1; i <= 3; i++ {
		require.NoError(t, b.Append(map[string]int{"n": i}))
	}

	assert.Equal(t, `[{"n":2},{"n":3}]`, string(b.JSON()))
	assert.Less(t, b.Size(), 25)
}

func TestBuffer_OversizedRecord(t *testing.T) {
	b := New(20)
	require.NoError(t, b.Append(map[string]int{"n": 1}))
	require.NoError(t, b.Append(map[string]string{"long": strings.Repeat("x", 40)}))

	assert.Equal(t, 0, b.Len())
	assert.Equal(t, "[]", string(b.JSON()))
}

func TestBuffer_AppendCall(t *testing.T) {
	b := New(622)
	call := calltypes.NewCall("light state on", "2025-01-01 00:00:00 UTC")
	require.NoError(t, b.Append(call))

	var records []map[string]any
	require.NoError(t, json.Unmarshal(b.JSON(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "light state on", records[0]["call"])
	assert.Equal(t, "cmd", records[0]["lt"])
}

func TestBuffer_MarshalError(t *testing.T) {
	b := New(100)
	err := b.Append(make(chan int))
	assert.Error(t, err)
	assert.Equal(t, 0, b.Len())
}

func TestBuffer_RecordsAndReset(t *testing.T) {
	b := New(100)
	require.NoError(t, b.Append("x"))
	records := b.Records()
	require.Len(t, records, 1)
	records[0][0] = 'y'
	assert.Equal(t, `["x"]`, string(b.JSON()), "records are copies")

	b.Reset()
	assert.Equal(t, "[]", string(b.JSON()))
	assert.Equal(t, 2, b.Size())
}

// TestBuffer_StaysBelowLimit appends random records and checks the buffer
// never reaches the limit and always keeps the newest records.
func TestBuffer_StaysBelowLimit(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		limit := rapid.IntRange(3, 400).Draw(rt, "limit")
		b := New(limit)

		n := rapid.IntRange(1, 40).Draw(rt, "n")
		var last string
		for i := 0; i < n; i++ {
			last = rapid.StringMatching(`[a-z ]{0,60}`).Draw(rt, "record")
			if err := b.Append(last); err != nil {
				rt.Fatal(err)
			}
			out := b.JSON()
			if len(out) != b.Size() {
				rt.Fatalf("size %d does not match rendered %d", b.Size(), len(out))
			}
			if b.Len() > 0 && b.Size() >= limit {
				rt.Fatalf("size %d reached limit %d", b.Size(), limit)
			}
			if !json.Valid(out) {
				rt.Fatalf("invalid JSON %s", out)
			}
		}

		encoded, _ := json.Marshal(last)
		if len(encoded)+2 < limit {
			records := b.Records()
			if len(records) == 0 || string(records[len(records)-1]) != string(encoded) {
				rt.Fatalf("newest record %s was evicted", encoded)
			}
		}
	})
}
