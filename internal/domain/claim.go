package domain

import "time"

// ClaimStatus is the canonical claim lifecycle state.
type ClaimStatus string

const (
	ClaimFiled       ClaimStatus = "filed"
	ClaimUnderReview ClaimStatus = "under_review"
	ClaimApproved    ClaimStatus = "approved"
	ClaimDenied      ClaimStatus = "denied"
	ClaimPaid        ClaimStatus = "paid"
	ClaimClosed      ClaimStatus = "closed"
)

// claimTransitions encodes the allowed lifecycle:
// filed -> under_review -> approved|denied -> paid|closed.
var claimTransitions = map[ClaimStatus][]ClaimStatus{
	ClaimFiled:       {ClaimUnderReview},
	ClaimUnderReview: {ClaimApproved, ClaimDenied},
	ClaimApproved:    {ClaimPaid, ClaimClosed},
	ClaimDenied:      {ClaimClosed},
	ClaimPaid:        {ClaimClosed},
}

// CanTransition reports whether moving from s to next is a legal lifecycle step.
func (s ClaimStatus) CanTransition(next ClaimStatus) bool {
	for _, allowed := range claimTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

var validClaimStatuses = map[ClaimStatus]bool{
	ClaimFiled:       true,
	ClaimUnderReview: true,
	ClaimApproved:    true,
	ClaimDenied:      true,
	ClaimPaid:        true,
	ClaimClosed:      true,
}

// IsValid checks membership in the supported claim statuses.
func (s ClaimStatus) IsValid() bool { return validClaimStatuses[s] }

// Claim is the canonical claim entity.
// Invariant: SettledAmount never exceeds ClaimedAmount (enforced by normalizers).
type Claim struct {
	ID            string      `json:"id"`
	Policy        PolicyKey   `json:"policy"`
	CustomerID    CustomerID  `json:"customer_id"`
	Status        ClaimStatus `json:"status"`
	ClaimedAmount float64     `json:"claimed_amount"`
	SettledAmount float64     `json:"settled_amount"`

	// Transitions records when each status was entered, in lifecycle order.
	Transitions []ClaimTransition `json:"transitions,omitempty"`
}

// ClaimTransition timestamps one lifecycle step.
type ClaimTransition struct {
	Status ClaimStatus `json:"status"`
	At     time.Time   `json:"at"`
}
