// Package testutils provides deterministic generators for devicecall.
// In test mode timestamps and ids are predictable so recorded calls and
// published bursts can be compared verbatim.
package testutils

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// Thread-safe counter for deterministic ID generation
	idCounter uint64
	idMutex   sync.Mutex

	// Thread-safe counter for deterministic timestamp generation
	timeCounter int64
	timeMutex   sync.Mutex
)

// GenerateUUID generates a UUID that is deterministic in test mode but random in production.
// In test mode, returns UUIDs in format: 00000001-0000-4000-8000-000000000001, 00000002-0000-4000-8000-000000000002, etc.
func GenerateUUID(testMode bool) string {
	if testMode {
		return getDeterministicUUID()
	}
	return uuid.New().String()
}

// Clock returns the time source for call timestamps: time.Now in production,
// an incrementing clock starting at 2025-01-01T00:00:00Z in test mode.
func Clock(testMode bool) func() time.Time {
	if testMode {
		return getDeterministicTime
	}
	return time.Now
}

// getDeterministicUUID generates a deterministic UUID maintaining UUID v4 format.
func getDeterministicUUID() string {
	idMutex.Lock()
	defer idMutex.Unlock()

	idCounter++

	// Format: xxxxxxxx-xxxx-4xxx-yxxx-xxxxxxxxxxxx
	return fmt.Sprintf("%08x-0000-4000-8000-%012x", idCounter, idCounter)
}

// getDeterministicTime generates incrementing deterministic timestamps.
// First call: 2025-01-01T00:00:00Z, second call: 2025-01-01T00:00:01Z, etc.
func getDeterministicTime() time.Time {
	timeMutex.Lock()
	defer timeMutex.Unlock()

	baseTime := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	t := baseTime.Add(time.Duration(timeCounter) * time.Second)
	timeCounter++
	return t
}

// ResetTestCounters resets the deterministic counters.
// This should only be called from test code to ensure consistent test runs.
func ResetTestCounters() {
	idMutex.Lock()
	timeMutex.Lock()
	defer idMutex.Unlock()
	defer timeMutex.Unlock()

	idCounter = 0
	timeCounter = 0
}
