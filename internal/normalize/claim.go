package normalize

import (
	"sort"
	"strings"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Claim maps a carrier-native claim record onto the canonical entity.
// Cross-field rule: settled amount must not exceed claimed amount.
func Claim(carrier domain.CarrierID, rec Record) (domain.Claim, []Warning, error) {
	r := newReader(rec)
	var warnings []Warning

	id := strings.TrimSpace(r.str("claim_id", true))
	policyNumber := strings.TrimSpace(r.str("policy_number", true))
	customer := strings.TrimSpace(r.str("customer_id", false))

	status := domain.ClaimStatus(strings.ToLower(r.str("status", true)))
	if status != "" && !status.IsValid() {
		r.errs.add("status", CodeBadEnum, "not a supported claim status")
	}

	claimed := r.num("claimed_amount", true)
	if claimed < 0 {
		r.errs.add("claimed_amount", CodeBadRange, "claimed amount must not be negative")
	}
	settled := r.num("settled_amount", false)
	if settled < 0 {
		r.errs.add("settled_amount", CodeBadRange, "settled amount must not be negative")
	}
	if settled > claimed {
		r.errs.add("settled_amount", CodeCrossField, "settled amount exceeds claimed amount")
	}

	transitions := claimTransitions(r, &warnings)

	if err := r.errs.err(); err != nil {
		return domain.Claim{}, nil, err
	}

	return domain.Claim{
		ID:            id,
		Policy:        domain.PolicyKey{Carrier: carrier, Number: domain.PolicyNumber(policyNumber)},
		CustomerID:    domain.CustomerID(customer),
		Status:        status,
		ClaimedAmount: claimed,
		SettledAmount: settled,
		Transitions:   transitions,
	}, warnings, nil
}

// claimTransitions reads the optional status history object, one timestamp
// per status name, and orders it chronologically for determinism.
func claimTransitions(r *reader, warnings *[]Warning) []domain.ClaimTransition {
	raw, ok := r.rec["transitions"]
	if !ok || raw == nil {
		return nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		r.errs.add("transitions", CodeBadFormat, "expected object of status -> timestamp")
		return nil
	}

	out := make([]domain.ClaimTransition, 0, len(obj))
	for name, v := range obj {
		status := domain.ClaimStatus(strings.ToLower(name))
		if !status.IsValid() {
			*warnings = append(*warnings, Warning{Field: "transitions." + name, Message: "unknown status, dropped"})
			continue
		}
		sub := newReader(Record{"at": v})
		at := sub.date("at", true)
		if len(sub.errs.fields) > 0 {
			r.errs.add("transitions."+name, CodeBadFormat, "expected RFC 3339 timestamp")
			continue
		}
		out = append(out, domain.ClaimTransition{Status: status, At: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}
