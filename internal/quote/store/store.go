// Package store persists quote comparison history for later analysis.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// ErrNotFound is returned when a customer has no recorded comparisons.
var ErrNotFound = errors.New("no quote history found")

// Entry is one ranked quote from one comparison, flattened for storage.
type Entry struct {
	Fingerprint string            `json:"fingerprint"`
	Customer    domain.CustomerID `json:"customer"`
	Carrier     domain.CarrierID  `json:"carrier"`
	Criteria    string            `json:"criteria"`
	Premium     float64           `json:"premium"`
	Score       float64           `json:"score"`
	TCO         float64           `json:"tco"`
	Partial     bool              `json:"partial"`
	ComparedAt  time.Time         `json:"compared_at"`
}

// HistoryStore records comparison outcomes. Implementations must tolerate
// replays: appending the same fingerprint twice is allowed, the event bus
// dedupe layer is what prevents it in practice.
type HistoryStore interface {
	Append(ctx context.Context, entries []Entry) error
	Recent(ctx context.Context, customer domain.CustomerID, limit int) ([]Entry, error)
}
