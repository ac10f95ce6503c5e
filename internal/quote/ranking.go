package quote

import (
	"sort"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Criteria selects the ranking strategy for a comparison.
type Criteria string

const (
	// CriteriaPrice ranks by premium ascending.
	CriteriaPrice Criteria = "price"

	// CriteriaCoverage ranks by coverage completeness descending.
	CriteriaCoverage Criteria = "coverage"

	// CriteriaComposite blends normalized price and coverage completeness.
	CriteriaComposite Criteria = "composite"
)

// Valid reports whether the criteria is one of the known strategies.
func (c Criteria) Valid() bool {
	return c == CriteriaPrice || c == CriteriaCoverage || c == CriteriaComposite
}

// CompositeWeights blend the two composite terms. They should sum to 1 but
// ranking only depends on their ratio.
type CompositeWeights struct {
	Price    float64 `json:"price"`
	Coverage float64 `json:"coverage"`
}

// DefaultCompositeWeights returns the documented default blend.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{Price: 0.6, Coverage: 0.4}
}

// RankedQuote is a quote plus everything the comparison computed for it.
type RankedQuote struct {
	domain.Quote

	// Score is the value the active criteria sorted by, normalized to 0..1
	// where higher is better.
	Score float64 `json:"score"`

	// CoverageScore is the 0..100 completeness grade against the request.
	CoverageScore float64 `json:"coverage_score"`

	// TCO is the cumulative premium cost over the configured horizon.
	TCO float64 `json:"tco"`
}

// rank orders quotes by the criteria. Equal scores always fall back to
// carrier ID ascending so the same input set sorts identically every time.
func rank(quotes []RankedQuote, criteria Criteria, weights CompositeWeights) {
	var minP, maxP float64
	if len(quotes) > 0 {
		minP, maxP = quotes[0].Premium, quotes[0].Premium
		for _, q := range quotes[1:] {
			if q.Premium < minP {
				minP = q.Premium
			}
			if q.Premium > maxP {
				maxP = q.Premium
			}
		}
	}

	// Normalized price term: cheapest quote scores 1, priciest 0. A single
	// quote, or all-equal premiums, score 1.
	priceScore := func(premium float64) float64 {
		if maxP == minP {
			return 1
		}
		return (maxP - premium) / (maxP - minP)
	}

	for i := range quotes {
		switch criteria {
		case CriteriaPrice:
			quotes[i].Score = priceScore(quotes[i].Premium)
		case CriteriaCoverage:
			quotes[i].Score = quotes[i].CoverageScore / 100
		default:
			quotes[i].Score = weights.Price*priceScore(quotes[i].Premium) +
				weights.Coverage*quotes[i].CoverageScore/100
		}
	}

	sort.SliceStable(quotes, func(i, j int) bool {
		if quotes[i].Score != quotes[j].Score {
			return quotes[i].Score > quotes[j].Score
		}
		return quotes[i].Carrier < quotes[j].Carrier
	})
}
