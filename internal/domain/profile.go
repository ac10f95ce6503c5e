package domain

import "time"

// CustomerProfile is a customer's full portfolio as seen by the hub: the
// input to coverage analysis and the customer-360 snapshot payload.
type CustomerProfile struct {
	Customer Customer         `json:"customer"`
	Policies []Policy         `json:"policies,omitempty"`
	Pensions []PensionAccount `json:"pensions,omitempty"`
	Claims   []Claim          `json:"claims,omitempty"`
	Consents []Consent        `json:"consents,omitempty"`
}

// ActivePolicies filters policies in force at the given instant, optionally
// restricted to one insurance type (empty type matches all).
func (p CustomerProfile) ActivePolicies(t InsuranceType, now time.Time) []Policy {
	var out []Policy
	for _, pol := range p.Policies {
		if !pol.IsActive(now) {
			continue
		}
		if t != "" && pol.Type != t {
			continue
		}
		out = append(out, pol)
	}
	return out
}

// ClaimsForType returns the claims filed against policies of one type.
func (p CustomerProfile) ClaimsForType(t InsuranceType) []Claim {
	byKey := make(map[PolicyKey]InsuranceType, len(p.Policies))
	for _, pol := range p.Policies {
		byKey[pol.Key] = pol.Type
	}
	var out []Claim
	for _, c := range p.Claims {
		if byKey[c.Policy] == t {
			out = append(out, c)
		}
	}
	return out
}
