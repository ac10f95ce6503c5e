package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// Memory is the in-process Cache used in tests and single-node deployments.
// Safe for concurrent use; expired entries are dropped lazily on read and
// swept opportunistically on write.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	policy  TTLPolicy
	clock   func() time.Time
}

// MemoryOption configures a Memory cache.
type MemoryOption func(*Memory)

// WithClock injects a clock for tests.
func WithClock(clock func() time.Time) MemoryOption {
	return func(m *Memory) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMemory builds an in-process cache with the given TTL policy.
func NewMemory(policy TTLPolicy, opts ...MemoryOption) *Memory {
	if policy == nil {
		policy = DefaultTTLPolicy()
	}
	m := &Memory{
		entries: make(map[string]memoryEntry),
		policy:  policy,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok || m.clock().After(entry.expiresAt) {
		return nil, false
	}
	return entry.value, true
}

func (m *Memory) Set(_ context.Context, key string, value []byte, class Class) {
	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(now)
	m.entries[key] = memoryEntry{value: value, expiresAt: now.Add(m.policy.TTL(class))}
}

func (m *Memory) SetNX(_ context.Context, key string, value []byte, class Class) bool {
	now := m.clock()
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok && !now.After(entry.expiresAt) {
		return false
	}
	m.entries[key] = memoryEntry{value: value, expiresAt: now.Add(m.policy.TTL(class))}
	return true
}

func (m *Memory) Invalidate(_ context.Context, keyOrPrefix string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if prefix, ok := strings.CutSuffix(keyOrPrefix, "*"); ok {
		for k := range m.entries {
			if strings.HasPrefix(k, prefix) {
				delete(m.entries, k)
			}
		}
		return
	}
	delete(m.entries, keyOrPrefix)
}

// sweepLocked drops expired entries; bounded so a huge map cannot stall a
// write.
func (m *Memory) sweepLocked(now time.Time) {
	const maxSweep = 64
	n := 0
	for k, entry := range m.entries {
		if now.After(entry.expiresAt) {
			delete(m.entries, k)
		}
		n++
		if n >= maxSweep {
			return
		}
	}
}
