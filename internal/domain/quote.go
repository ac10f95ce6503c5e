package domain

import "time"

// Quote is a carrier's offer for a requested coverage. The ranking score is
// computed by the comparison engine, never by the connector that produced it.
type Quote struct {
	Carrier     CarrierID          `json:"carrier"`
	Fingerprint string             `json:"fingerprint"`
	Type        InsuranceType      `json:"type"`
	Premium     float64            `json:"premium"`
	Frequency   PaymentFrequency   `json:"frequency"`
	Coverage    map[string]float64 `json:"coverage,omitempty"` // dimension -> limit
	ValidFrom   time.Time          `json:"valid_from"`
	ValidUntil  time.Time          `json:"valid_until"`
}

// Valid reports whether the quote can still be bound at the given instant.
func (q Quote) Valid(now time.Time) bool {
	return !now.Before(q.ValidFrom) && now.Before(q.ValidUntil)
}
