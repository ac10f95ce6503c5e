// Package eventbus is the hub's in-process typed pub/sub layer with
// idempotent delivery. An optional tap mirrors every event to an external
// broker.
package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
)

// ErrClosed is returned by Publish after Close.
var ErrClosed = errors.New("event bus closed")

// Handler consumes one event. Returning an error only logs it; delivery is
// at-least-once and the dedupe layer is what guards side effects.
type Handler func(ctx context.Context, evt Envelope) error

// Tap observes every published envelope, after local fan-out. Used to
// mirror events into Kafka.
type Tap func(ctx context.Context, evt Envelope)

type subscription struct {
	name    string
	handler Handler
	queue   chan Envelope
}

// Bus is a channel-per-subscription pub/sub: one delivery worker per
// subscription pulls from a bounded queue, so a slow consumer delays only
// itself.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]*subscription
	closed bool

	queueSize int
	dedupe    deduper
	logger    *slog.Logger
	taps      []Tap
	wg        sync.WaitGroup
}

// Option configures a Bus.
type Option func(*Bus)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Bus) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithQueueSize bounds each subscription's delivery queue.
func WithQueueSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.queueSize = n
		}
	}
}

// WithTap mirrors every published envelope to fn.
func WithTap(fn Tap) Option {
	return func(b *Bus) {
		if fn != nil {
			b.taps = append(b.taps, fn)
		}
	}
}

// New builds a bus. The cache backs consumer dedupe; pass nil to disable
// dedupe (tests only).
func New(dedupeCache cache.Cache, opts ...Option) *Bus {
	b := &Bus{
		subs:      make(map[string][]*subscription),
		queueSize: 64,
		dedupe:    deduper{cache: dedupeCache},
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers a named consumer on a topic and starts its delivery
// worker. The name scopes dedupe state, so two differently named consumers
// each process the same event once.
func (b *Bus) Subscribe(topic, name string, h Handler) {
	sub := &subscription{
		name:    name,
		handler: h,
		queue:   make(chan Envelope, b.queueSize),
	}

	b.mu.Lock()
	b.subs[topic] = append(b.subs[topic], sub)
	b.mu.Unlock()

	b.wg.Add(1)
	go b.deliver(sub)
}

func (b *Bus) deliver(sub *subscription) {
	defer b.wg.Done()
	for evt := range sub.queue {
		ctx := context.Background()
		if !b.dedupe.claim(ctx, sub.name, evt.ID) {
			b.logger.DebugContext(ctx, "duplicate event skipped",
				"consumer", sub.name, "topic", evt.Topic, "event_id", evt.ID)
			continue
		}
		if err := sub.handler(ctx, evt); err != nil {
			b.logger.ErrorContext(ctx, "event handler failed",
				"consumer", sub.name, "topic", evt.Topic, "event_id", evt.ID, "error", err)
		}
	}
}

// Publish wraps the payload in a fresh envelope and enqueues it for every
// subscriber of the topic. A full consumer queue blocks the publisher until
// there is room or the context expires.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	evt, err := NewEnvelope(topic, payload)
	if err != nil {
		return err
	}
	return b.PublishEnvelope(ctx, evt)
}

// PublishEnvelope enqueues an existing envelope, preserving its ID. Used
// for redelivery paths such as the Kafka inbound bridge.
func (b *Bus) PublishEnvelope(ctx context.Context, evt Envelope) error {
	// The read lock is held across the sends so Close cannot close a queue
	// mid-publish; workers keep draining, so a full queue still frees up.
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrClosed
	}

	for _, sub := range b.subs[evt.Topic] {
		select {
		case sub.queue <- evt:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	for _, tap := range b.taps {
		tap(ctx, evt)
	}
	return nil
}

// Close stops accepting publishes, drains every queue and waits for the
// workers to finish.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, subs := range b.subs {
		for _, sub := range subs {
			close(sub.queue)
		}
	}
	b.mu.Unlock()

	b.wg.Wait()
}
