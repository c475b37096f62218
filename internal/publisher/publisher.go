// Package publisher collects finished call records into bursts and hands
// completed bursts to a transport. Records that arrive within the burst wait
// of each other end up in the same burst.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"devicecall/internal/logger"
)

// Transport delivers a serialized burst for an event name.
type Transport interface {
	Publish(event string, payload []byte) error
}

// Burst is a group of records published together.
type Burst struct {
	ID      string            `json:"id"`
	Records []json.RawMessage `json:"b"`
}

// Config configures a Publisher.
type Config struct {
	EventName string
	DeviceID  string
	BurstWait time.Duration
}

// Publisher queues data into bursts and publishes them.
type Publisher struct {
	mu        sync.Mutex
	cfg       Config
	transport Transport
	now       func() time.Time
	log       *log.Logger

	burst     []json.RawMessage
	lastData  time.Time
	bursting  bool
	queue     []Burst
	published int
}

// New creates a publisher that sends bursts through transport.
func New(cfg Config, transport Transport) *Publisher {
	return &Publisher{
		cfg:       cfg,
		transport: transport,
		now:       time.Now,
		log:       logger.NewStyledLogger("Publisher"),
	}
}

// SetClock replaces the time source, used by tests.
func (p *Publisher) SetClock(now func() time.Time) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.now = now
}

// QueueData adds a record to the current burst.
func (p *Publisher) QueueData(record any) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize record for publishing: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.bursting = true
	p.lastData = p.now()
	p.burst = append(p.burst, data)
	return nil
}

// BurstSize returns the number of records in the open burst.
func (p *Publisher) BurstSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.burst)
}

// QueueSize returns the number of completed bursts waiting to be published.
func (p *Publisher) QueueSize() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.queue)
}

// Published returns the number of bursts delivered so far.
func (p *Publisher) Published() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.published
}

// Loop closes the open burst once no data arrived for the burst wait and
// publishes queued bursts. It is called periodically by Run.
func (p *Publisher) Loop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bursting && p.now().Sub(p.lastData) > p.cfg.BurstWait {
		p.queueBurst()
	}
	return p.publishQueued()
}

// Flush closes the open burst regardless of timing and publishes everything.
func (p *Publisher) Flush() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.bursting {
		p.queueBurst()
	}
	return p.publishQueued()
}

// Run calls Loop every interval until ctx is done, then flushes.
func (p *Publisher) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return p.Flush()
		case <-ticker.C:
			if err := p.Loop(); err != nil {
				p.log.Error("publishing failed, keeping bursts queued", "error", err)
			}
		}
	}
}

func (p *Publisher) queueBurst() {
	burst := Burst{ID: p.cfg.DeviceID, Records: p.burst}
	p.log.Debug("adding burst to queue", "records", len(burst.Records))
	p.queue = append(p.queue, burst)
	p.burst = nil
	p.bursting = false
}

// publishQueued sends bursts oldest first and stops at the first failure,
// leaving the failed burst at the head of the queue.
func (p *Publisher) publishQueued() error {
	for len(p.queue) > 0 {
		payload, err := json.Marshal(p.queue[0])
		if err != nil {
			return fmt.Errorf("failed to serialize burst: %w", err)
		}
		if err := p.transport.Publish(p.cfg.EventName, payload); err != nil {
			return fmt.Errorf("failed to publish %s: %w", p.cfg.EventName, err)
		}
		p.queue = p.queue[1:]
		p.published++
	}
	return nil
}
