package domain

import "time"

// SettlementStatus tracks whether a commission period has been paid out.
type SettlementStatus string

const (
	SettlementPending SettlementStatus = "pending"
	SettlementSettled SettlementStatus = "settled"
	SettlementFailed  SettlementStatus = "failed"
)

// Commission is a carrier payment owed for a policy over a billing period.
type Commission struct {
	Carrier     CarrierID        `json:"carrier"`
	Policy      PolicyKey        `json:"policy"`
	Amount      float64          `json:"amount"`
	PeriodStart time.Time        `json:"period_start"`
	PeriodEnd   time.Time        `json:"period_end"`
	Status      SettlementStatus `json:"status"`
}
