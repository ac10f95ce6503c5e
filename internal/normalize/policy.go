package normalize

import (
	"strings"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Policy maps a carrier-native policy record onto the canonical entity.
// Cross-field rule: expiry must not precede effective.
func Policy(carrier domain.CarrierID, rec Record) (domain.Policy, []Warning, error) {
	r := newReader(rec)
	var warnings []Warning

	number := strings.TrimSpace(r.str("policy_number", true))
	customer := strings.TrimSpace(r.str("customer_id", true))

	insType := domain.InsuranceType(strings.ToLower(r.str("insurance_type", true)))
	if insType != "" && !insType.IsValid() {
		r.errs.add("insurance_type", CodeBadEnum, "not a supported insurance type")
	}

	status := domain.PolicyStatus(strings.ToLower(r.str("status", true)))
	if status != "" && !status.IsValid() {
		r.errs.add("status", CodeBadEnum, "not a supported policy status")
	}

	premium := r.num("premium", true)
	if premium < 0 {
		r.errs.add("premium", CodeBadRange, "premium must not be negative")
	}

	frequency := domain.PaymentFrequency(strings.ToLower(r.str("payment_frequency", false)))
	if frequency == "" {
		frequency = domain.PayAnnual
		warnings = append(warnings, Warning{Field: "payment_frequency", Message: "missing, defaulted to annual"})
	} else if frequency.PaymentsPerYear() == 0 {
		r.errs.add("payment_frequency", CodeBadEnum, "not a supported payment frequency")
	}

	effective := r.date("effective_date", true)
	expiry := r.date("expiry_date", true)
	if !effective.IsZero() && !expiry.IsZero() && expiry.Before(effective) {
		r.errs.add("expiry_date", CodeCrossField, "expiry precedes effective date")
	}

	limits := r.numMap("limits")

	if err := r.errs.err(); err != nil {
		return domain.Policy{}, nil, err
	}

	return domain.Policy{
		Key:        domain.PolicyKey{Carrier: carrier, Number: domain.PolicyNumber(number)},
		CustomerID: domain.CustomerID(customer),
		Type:       insType,
		Status:     status,
		Limits:     limits,
		Premium:    premium,
		Frequency:  frequency,
		Effective:  effective,
		Expiry:     expiry,
	}, warnings, nil
}
