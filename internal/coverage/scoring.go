package coverage

import "github.com/daviderez4/selai-admin-crm-sub006/internal/domain"

// Weights are the score deductions per gap severity. Defaults are a product
// decision, not a law of nature, so they stay configurable.
type Weights struct {
	Critical      float64
	Warning       float64
	Informational float64
}

// DefaultWeights returns the documented default deductions.
func DefaultWeights() Weights {
	return Weights{Critical: 25, Warning: 10, Informational: 3}
}

func (w Weights) deduction(s domain.GapSeverity) float64 {
	switch s {
	case domain.SeverityCritical:
		return w.Critical
	case domain.SeverityWarning:
		return w.Warning
	default:
		return w.Informational
	}
}

// Score computes the 0..100 portfolio score from a baseline of 100, one
// weighted deduction per gap. Pure; shared by the analyzer and the quote
// comparison engine.
func Score(w Weights, gaps []domain.CoverageGap) float64 {
	score := 100.0
	for _, g := range gaps {
		score -= w.deduction(g.Severity)
	}
	return clamp(score)
}

// ScoreQuote grades how completely a quote covers the requested dimensions,
// reusing the severity-deduction scoring: an absent dimension counts as a
// critical gap, a dimension below the requested limit as a warning.
func ScoreQuote(w Weights, quote domain.Quote, requested map[string]float64) float64 {
	if len(requested) == 0 {
		return 100
	}
	score := 100.0
	for dim, want := range requested {
		offered, ok := quote.Coverage[dim]
		switch {
		case !ok || offered <= 0:
			score -= w.deduction(domain.SeverityCritical)
		case offered < want:
			score -= w.deduction(domain.SeverityWarning)
		}
	}
	return clamp(score)
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
