package domain

import "time"

// SubAccount buckets a pension balance by tax treatment.
type SubAccount string

const (
	SubAccountCompensation SubAccount = "compensation"
	SubAccountSeverance    SubAccount = "severance"
	SubAccountEmployer     SubAccount = "employer"
	SubAccountEmployee     SubAccount = "employee"
)

// MovementKind classifies a pension account movement.
type MovementKind string

const (
	MovementDeposit    MovementKind = "deposit"
	MovementWithdrawal MovementKind = "withdrawal"
	MovementFee        MovementKind = "fee"
	MovementTransfer   MovementKind = "transfer"
	MovementYield      MovementKind = "yield"
)

// Movement is a single pension account transaction.
type Movement struct {
	Kind       MovementKind `json:"kind"`
	SubAccount SubAccount   `json:"sub_account"`
	Amount     float64      `json:"amount"`
	At         time.Time    `json:"at"`
}

// InsuranceRider is an insurance add-on attached to a pension account,
// typically disability or survivors coverage.
type InsuranceRider struct {
	Type    InsuranceType `json:"type"`
	Premium float64       `json:"premium"`
	Limit   float64       `json:"limit"`
}

// PensionAccount is the canonical pension entity. Access to it is gated by a
// currently valid Consent; connectors enforce the gate, not this type.
type PensionAccount struct {
	Fund       FundID                 `json:"fund"`
	CustomerID CustomerID             `json:"customer_id"`
	Balances   map[SubAccount]float64 `json:"balances"`
	Movements  []Movement             `json:"movements,omitempty"`

	// Management fee rates as annual fractions, e.g. 0.005 for 0.5%.
	FeeFromBalance float64 `json:"fee_from_balance"`
	FeeFromDeposit float64 `json:"fee_from_deposit"`

	Riders []InsuranceRider `json:"riders,omitempty"`
}

// TotalBalance sums all sub-account balances.
func (a PensionAccount) TotalBalance() float64 {
	var total float64
	for _, b := range a.Balances {
		total += b
	}
	return total
}

// HasRider reports whether any insurance rider is attached.
func (a PensionAccount) HasRider() bool { return len(a.Riders) > 0 }
