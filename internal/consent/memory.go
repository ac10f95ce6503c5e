package consent

import (
	"context"
	"sync"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// MemoryStore is an in-memory consent store safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	consents map[domain.CustomerID][]domain.Consent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{consents: make(map[domain.CustomerID][]domain.Consent)}
}

func (s *MemoryStore) Save(_ context.Context, c domain.Consent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consents[c.Subject] = append(s.consents[c.Subject], c)
	return nil
}

func (s *MemoryStore) ListBySubject(_ context.Context, subject domain.CustomerID) ([]domain.Consent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Consent{}, s.consents[subject]...), nil
}

func (s *MemoryStore) Revoke(_ context.Context, subject domain.CustomerID, scope domain.ConsentScope, revokedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.consents[subject]
	for i := range records {
		if records[i].Scope == scope && records[i].RevokedAt == nil {
			at := revokedAt
			records[i].RevokedAt = &at
		}
	}
	s.consents[subject] = records
	return nil
}
