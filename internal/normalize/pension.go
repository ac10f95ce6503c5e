package normalize

import (
	"sort"
	"strings"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

var validSubAccounts = map[domain.SubAccount]bool{
	domain.SubAccountCompensation: true,
	domain.SubAccountSeverance:    true,
	domain.SubAccountEmployer:     true,
	domain.SubAccountEmployee:     true,
}

var validMovementKinds = map[domain.MovementKind]bool{
	domain.MovementDeposit:    true,
	domain.MovementWithdrawal: true,
	domain.MovementFee:        true,
	domain.MovementTransfer:   true,
	domain.MovementYield:      true,
}

// PensionAccount maps a clearinghouse record onto the canonical entity.
func PensionAccount(rec Record) (domain.PensionAccount, []Warning, error) {
	r := newReader(rec)
	var warnings []Warning

	fund := strings.TrimSpace(r.str("fund_id", true))
	customer := strings.TrimSpace(r.str("customer_id", true))

	balances := make(map[domain.SubAccount]float64)
	for name, amount := range r.numMap("balances") {
		sub := domain.SubAccount(strings.ToLower(name))
		if !validSubAccounts[sub] {
			warnings = append(warnings, Warning{Field: "balances." + name, Message: "unknown sub-account, dropped"})
			continue
		}
		balances[sub] = amount
	}

	feeBalance := r.num("fee_from_balance", false)
	feeDeposit := r.num("fee_from_deposit", false)
	if feeBalance < 0 || feeBalance > 1 {
		r.errs.add("fee_from_balance", CodeBadRange, "fee rate must be a fraction in [0, 1]")
	}
	if feeDeposit < 0 || feeDeposit > 1 {
		r.errs.add("fee_from_deposit", CodeBadRange, "fee rate must be a fraction in [0, 1]")
	}

	movements := pensionMovements(r, &warnings)
	riders := pensionRiders(r, &warnings)

	if err := r.errs.err(); err != nil {
		return domain.PensionAccount{}, nil, err
	}

	return domain.PensionAccount{
		Fund:           domain.FundID(fund),
		CustomerID:     domain.CustomerID(customer),
		Balances:       balances,
		Movements:      movements,
		FeeFromBalance: feeBalance,
		FeeFromDeposit: feeDeposit,
		Riders:         riders,
	}, warnings, nil
}

func pensionMovements(r *reader, warnings *[]Warning) []domain.Movement {
	raw, ok := r.rec["movements"]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		r.errs.add("movements", CodeBadFormat, "expected array of movements")
		return nil
	}

	var out []domain.Movement
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			*warnings = append(*warnings, Warning{Field: "movements", Message: "non-object entry dropped"})
			continue
		}
		sub := newReader(Record(obj))
		m := domain.Movement{
			Kind:       domain.MovementKind(strings.ToLower(sub.str("kind", true))),
			SubAccount: domain.SubAccount(strings.ToLower(sub.str("sub_account", true))),
			Amount:     sub.num("amount", true),
			At:         sub.date("at", true),
		}
		if len(sub.errs.fields) > 0 || !validMovementKinds[m.Kind] || !validSubAccounts[m.SubAccount] {
			*warnings = append(*warnings, Warning{Field: "movements", Message: "malformed entry dropped"})
			continue
		}
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func pensionRiders(r *reader, warnings *[]Warning) []domain.InsuranceRider {
	raw, ok := r.rec["riders"]
	if !ok || raw == nil {
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		r.errs.add("riders", CodeBadFormat, "expected array of riders")
		return nil
	}

	var out []domain.InsuranceRider
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			*warnings = append(*warnings, Warning{Field: "riders", Message: "non-object entry dropped"})
			continue
		}
		sub := newReader(Record(obj))
		rider := domain.InsuranceRider{
			Type:    domain.InsuranceType(strings.ToLower(sub.str("type", true))),
			Premium: sub.num("premium", false),
			Limit:   sub.num("limit", false),
		}
		if len(sub.errs.fields) > 0 || !rider.Type.IsValid() {
			*warnings = append(*warnings, Warning{Field: "riders", Message: "malformed entry dropped"})
			continue
		}
		out = append(out, rider)
	}
	return out
}
