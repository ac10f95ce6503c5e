package quote

import "github.com/daviderez4/selai-admin-crm-sub006/internal/domain"

// TCO is the cumulative premium cost of a quote over a horizon of whole
// years: premium per payment times payments per year times years.
func TCO(q domain.Quote, horizonYears int) float64 {
	if horizonYears <= 0 {
		return 0
	}
	return q.Premium * float64(q.Frequency.PaymentsPerYear()) * float64(horizonYears)
}
