package normalize

import (
	"strings"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Quote maps a carrier-native quote response onto the canonical entity.
// The fingerprint is stamped by the comparison engine, not here.
func Quote(carrier domain.CarrierID, rec Record) (domain.Quote, []Warning, error) {
	r := newReader(rec)
	var warnings []Warning

	insType := domain.InsuranceType(strings.ToLower(r.str("insurance_type", true)))
	if insType != "" && !insType.IsValid() {
		r.errs.add("insurance_type", CodeBadEnum, "not a supported insurance type")
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

	validFrom := r.date("valid_from", false)
	validUntil := r.date("valid_until", true)
	if !validFrom.IsZero() && !validUntil.IsZero() && validUntil.Before(validFrom) {
		r.errs.add("valid_until", CodeCrossField, "validity window ends before it starts")
	}

	coverage := r.numMap("coverage")

	if err := r.errs.err(); err != nil {
		return domain.Quote{}, nil, err
	}

	return domain.Quote{
		Carrier:    carrier,
		Type:       insType,
		Premium:    premium,
		Frequency:  frequency,
		Coverage:   coverage,
		ValidFrom:  validFrom,
		ValidUntil: validUntil,
	}, warnings, nil
}
