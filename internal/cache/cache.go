// Package cache is the hub's best-effort key/TTL store. Correctness never
// depends on it: backend failures degrade to a miss or a skipped write and
// are logged, never returned to callers.
package cache

import (
	"context"
	"time"
)

// Class selects the TTL policy for a key. Distinct classes keep quote
// results, connector tokens, customer-360 snapshots and session-scoped state
// on independent retention clocks.
type Class string

const (
	ClassQuotes    Class = "quotes"
	ClassTokens    Class = "tokens"
	ClassSnapshots Class = "snapshots"
	ClassSessions  Class = "sessions"
)

// TTLPolicy maps each key class to its retention.
type TTLPolicy map[Class]time.Duration

// DefaultTTLPolicy is used when config does not override per-class TTLs.
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		ClassQuotes:    5 * time.Minute,
		ClassTokens:    10 * time.Minute,
		ClassSnapshots: 30 * time.Minute,
		ClassSessions:  15 * time.Minute,
	}
}

// TTL returns the configured retention for class, falling back to the
// sessions default for unknown classes.
func (p TTLPolicy) TTL(class Class) time.Duration {
	if ttl, ok := p[class]; ok && ttl > 0 {
		return ttl
	}
	return 15 * time.Minute
}

// Cache is the key/TTL contract shared by the quote engine, the event bus
// dedupe layer and the orchestrator's snapshot bookkeeping.
type Cache interface {
	// Get returns the cached value and true on a hit. Backend failures
	// surface as a miss.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores a value under the class's TTL. Backend failures skip the
	// write silently.
	Set(ctx context.Context, key string, value []byte, class Class)

	// SetNX stores the value only when the key is absent and reports whether
	// this call won. Used as atomic check-and-set for event dedupe; on
	// backend failure it reports true so a redelivered event is processed
	// rather than dropped.
	SetNX(ctx context.Context, key string, value []byte, class Class) bool

	// Invalidate evicts one key, or every key under a prefix when the
	// argument ends with "*".
	Invalidate(ctx context.Context, keyOrPrefix string)
}
