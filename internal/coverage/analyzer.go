// Package coverage detects deficiencies in a customer's insurance and
// pension portfolio with a deterministic, ordered rule set.
package coverage

import (
	"context"
	"log/slog"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// TopicCoverageAnalyzed is published after every analysis when an event
// sink is configured.
const TopicCoverageAnalyzed = "coverage.analyzed"

// Events is the minimal publishing surface the analyzer needs.
type Events interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Result is the full analysis output.
type Result struct {
	Customer  domain.CustomerID     `json:"customer"`
	Gaps      []domain.CoverageGap  `json:"gaps"`
	Score     float64               `json:"score"`
	SubScores map[Dimension]float64 `json:"sub_scores"`
}

// Analyzer runs the rule set. Analysis itself is pure; the analyzer only
// adds configuration, logging and optional event publication around it.
type Analyzer struct {
	rules   []rule
	cfg     RuleConfig
	weights Weights
	logger  *slog.Logger
	events  Events
	clock   func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithEvents enables publication of analysis results.
func WithEvents(ev Events) Option {
	return func(a *Analyzer) { a.events = ev }
}

// WithWeights overrides the severity deduction weights.
func WithWeights(w Weights) Option {
	return func(a *Analyzer) { a.weights = w }
}

// WithRuleConfig overrides rule thresholds.
func WithRuleConfig(cfg RuleConfig) Option {
	return func(a *Analyzer) { a.cfg = cfg }
}

// WithClockFunc fixes the clock for tests.
func WithClockFunc(clock func() time.Time) Option {
	return func(a *Analyzer) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAnalyzer builds an analyzer with default rules, weights and thresholds.
func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{
		rules:   defaultRules,
		cfg:     DefaultRuleConfig(),
		weights: DefaultWeights(),
		logger:  slog.Default(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze evaluates every rule in priority order and scores the portfolio.
// Gap ordering follows rule order, so identical profiles always produce
// identical output.
func (a *Analyzer) Analyze(ctx context.Context, profile domain.CustomerProfile) Result {
	now := a.clock()

	sub := map[Dimension]float64{
		DimVehicle: 100, DimHome: 100, DimHealth: 100, DimLife: 100, DimPension: 100,
	}

	var gaps []domain.CoverageGap
	for _, r := range a.rules {
		for _, f := range r.evaluate(profile, now, a.cfg) {
			gaps = append(gaps, f.gap)
			sub[f.dim] = clamp(sub[f.dim] - a.weights.deduction(f.gap.Severity))
		}
	}

	result := Result{
		Customer:  profile.Customer.ID,
		Gaps:      gaps,
		Score:     Score(a.weights, gaps),
		SubScores: sub,
	}

	a.logger.DebugContext(ctx, "coverage analyzed",
		"customer", profile.Customer.ID,
		"gaps", len(gaps),
		"score", result.Score)

	if a.events != nil {
		if err := a.events.Publish(ctx, TopicCoverageAnalyzed, result); err != nil {
			a.logger.WarnContext(ctx, "publish coverage.analyzed failed", "error", err)
		}
	}
	return result
}
