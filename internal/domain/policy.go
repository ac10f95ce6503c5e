package domain

import "time"

// InsuranceType classifies a policy line of business.
type InsuranceType string

const (
	InsuranceVehicle  InsuranceType = "vehicle"
	InsuranceHome     InsuranceType = "home"
	InsuranceHealth   InsuranceType = "health"
	InsuranceLife     InsuranceType = "life"
	InsuranceBusiness InsuranceType = "business"
)

var validInsuranceTypes = map[InsuranceType]bool{
	InsuranceVehicle:  true,
	InsuranceHome:     true,
	InsuranceHealth:   true,
	InsuranceLife:     true,
	InsuranceBusiness: true,
}

// IsValid checks membership in the supported insurance types.
func (t InsuranceType) IsValid() bool { return validInsuranceTypes[t] }

// PolicyStatus is the canonical policy lifecycle state.
type PolicyStatus string

const (
	PolicyActive    PolicyStatus = "active"
	PolicyLapsed    PolicyStatus = "lapsed"
	PolicyCancelled PolicyStatus = "cancelled"
	PolicyPending   PolicyStatus = "pending"
)

var validPolicyStatuses = map[PolicyStatus]bool{
	PolicyActive:    true,
	PolicyLapsed:    true,
	PolicyCancelled: true,
	PolicyPending:   true,
}

// IsValid checks membership in the supported policy statuses.
func (s PolicyStatus) IsValid() bool { return validPolicyStatuses[s] }

// PaymentFrequency determines how often the premium is billed.
type PaymentFrequency string

const (
	PayMonthly   PaymentFrequency = "monthly"
	PayQuarterly PaymentFrequency = "quarterly"
	PayAnnual    PaymentFrequency = "annual"
)

// PaymentsPerYear returns the billing cycles per year, 0 for unknown values.
func (f PaymentFrequency) PaymentsPerYear() int {
	switch f {
	case PayMonthly:
		return 12
	case PayQuarterly:
		return 4
	case PayAnnual:
		return 1
	default:
		return 0
	}
}

// Policy is the canonical insurance policy entity.
// Invariant: Expiry is never before Effective (enforced by normalizers).
type Policy struct {
	Key        PolicyKey          `json:"key"`
	CustomerID CustomerID         `json:"customer_id"`
	Type       InsuranceType      `json:"type"`
	Status     PolicyStatus       `json:"status"`
	Limits     map[string]float64 `json:"limits,omitempty"` // coverage dimension -> limit amount
	Premium    float64            `json:"premium"`
	Frequency  PaymentFrequency   `json:"frequency"`
	Effective  time.Time          `json:"effective"`
	Expiry     time.Time          `json:"expiry"`
}

// IsActive reports whether the policy is in force at the given instant.
func (p Policy) IsActive(now time.Time) bool {
	return p.Status == PolicyActive && !now.Before(p.Effective) && now.Before(p.Expiry)
}

// ExpiresWithin reports whether an active policy lapses within d of now.
func (p Policy) ExpiresWithin(now time.Time, d time.Duration) bool {
	return p.IsActive(now) && p.Expiry.Sub(now) <= d
}
