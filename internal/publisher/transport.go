package publisher

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
)

// WriterTransport writes each published burst as one JSON line
// {"event": ..., "data": ...} to an io.Writer.
type WriterTransport struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterTransport creates a transport writing to w.
func NewWriterTransport(w io.Writer) *WriterTransport {
	return &WriterTransport{w: w}
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Publish writes the burst line.
func (t *WriterTransport) Publish(event string, payload []byte) error {
	line, err := json.Marshal(envelope{Event: event, Data: payload})
	if err != nil {
		return err
	}
	line = append(line, '\n')

	t.mu.Lock()
	defer t.mu.Unlock()
	if _, err := t.w.Write(line); err != nil {
		return fmt.Errorf("failed to write event %s: %w", event, err)
	}
	return nil
}
