package domain

import "time"

// ConsentScope labels what a consent grant covers. Scope binding allows
// selective revocation without affecting other data flows.
type ConsentScope string

const (
	ConsentScopePension ConsentScope = "pension_data"
	ConsentScopeCarrier ConsentScope = "carrier_data"
	ConsentScopeQuoting ConsentScope = "quoting"
)

// Consent captures a subject's decision for a specific scope.
type Consent struct {
	Subject   CustomerID   `json:"subject"`
	Scope     ConsentScope `json:"scope"`
	GrantedAt time.Time    `json:"granted_at"`
	ExpiresAt time.Time    `json:"expires_at"`
	RevokedAt *time.Time   `json:"revoked_at,omitempty"`
}

// IsActive returns true when the consent is currently valid.
func (c Consent) IsActive(now time.Time) bool {
	if c.RevokedAt != nil && !c.RevokedAt.After(now) {
		return false
	}
	if !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt) {
		return false
	}
	return !now.Before(c.GrantedAt)
}

// HasActiveConsent scans a subject's grants for an active one in scope.
func HasActiveConsent(consents []Consent, scope ConsentScope, now time.Time) bool {
	for _, c := range consents {
		if c.Scope == scope && c.IsActive(now) {
			return true
		}
	}
	return false
}
