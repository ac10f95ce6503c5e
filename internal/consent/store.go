// Package consent records subject consent grants and answers the scope
// checks data-fetching connectors make before touching subject data.
package consent

import (
	"context"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Store persists consent decisions per subject.
type Store interface {
	Save(ctx context.Context, c domain.Consent) error
	ListBySubject(ctx context.Context, subject domain.CustomerID) ([]domain.Consent, error)
	Revoke(ctx context.Context, subject domain.CustomerID, scope domain.ConsentScope, revokedAt time.Time) error
}
