package store

import (
	"context"
	"sync"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// MemoryHistory is the in-process history store for tests and single-node
// deployments.
type MemoryHistory struct {
	mu         sync.RWMutex
	byCustomer map[domain.CustomerID][]Entry
}

// NewMemoryHistory constructs an empty in-memory history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{byCustomer: make(map[domain.CustomerID][]Entry)}
}

func (m *MemoryHistory) Append(_ context.Context, entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.byCustomer[e.Customer] = append(m.byCustomer[e.Customer], e)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryHistory) Recent(_ context.Context, customer domain.CustomerID, limit int) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.byCustomer[customer]
	if len(all) == 0 {
		return nil, ErrNotFound
	}
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]Entry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
