// Package calllog keeps the most recent call records as a JSON array that
// stays below a byte limit. The oldest records are evicted first.
package calllog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"devicecall/internal/logger"
)

// Buffer is a rolling, size-bounded history of serialized records.
// It is not safe for concurrent use.
type Buffer struct {
	limit   int
	entries []json.RawMessage
	size    int // serialized size of entries as a JSON array
}

// New creates an empty buffer whose serialized form stays below limit bytes.
func New(limit int) *Buffer {
	return &Buffer{limit: limit, size: len("[]")}
}

// Limit returns the byte limit of the buffer.
func (b *Buffer) Limit() int {
	return b.limit
}

// Append serializes record and appends it, then evicts the oldest entries
// until the serialized buffer is below the limit. A record that alone
// doesn't fit leaves the buffer empty.
func (b *Buffer) Append(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize call record: %w", err)
	}

	b.entries = append(b.entries, data)
	b.size = measure(b.entries)

	evicted := 0
	for b.size >= b.limit && len(b.entries) > 0 {
		b.entries = b.entries[1:]
		b.size = measure(b.entries)
		evicted++
	}
	if evicted > 0 {
		logger.Debug("evicted call log entries", "evicted", evicted, "remaining", len(b.entries), "size", b.size)
	}
	return nil
}

// measure returns the size of entries rendered as a JSON array.
func measure(entries []json.RawMessage) int {
	size := len("[]")
	for i, e := range entries {
		if i > 0 {
			size++
		}
		size += len(e)
	}
	return size
}

// Len returns the number of records held.
func (b *Buffer) Len() int {
	return len(b.entries)
}

// Size returns the serialized size in bytes.
func (b *Buffer) Size() int {
	return b.size
}

// JSON returns the buffer as a JSON array.
func (b *Buffer) JSON() []byte {
	var buf bytes.Buffer
	buf.Grow(b.size)
	buf.WriteByte('[')
	for i, e := range b.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(e)
	}
	buf.WriteByte(']')
	return buf.Bytes()
}

// Records returns copies of the serialized records, oldest first.
func (b *Buffer) Records() []json.RawMessage {
	out := make([]json.RawMessage, len(b.entries))
	for i, e := range b.entries {
		out[i] = append(json.RawMessage(nil), e...)
	}
	return out
}

// Reset empties the buffer.
func (b *Buffer) Reset() {
	b.entries = nil
	b.size = len("[]")
}
