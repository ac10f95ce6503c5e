// Package quote is the comparison engine: it fans a quote request out to
// every eligible carrier and aggregator connector, ranks what came back and
// caches the ranked set under the request fingerprint.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/coverage"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// TopicQuoteCompared is published after every non-cached comparison.
const TopicQuoteCompared = "quote.compared"

// ErrNoEligibleSource means no usable connector could quote the request.
// Distinct from an empty result set where sources were asked and had
// nothing to offer.
var ErrNoEligibleSource = errors.New("no eligible quote source")

// Connectors is the registry surface the engine depends on.
type Connectors interface {
	Eligible(cap domain.Capability) []connector.Connector
}

// Events is the minimal publishing surface the engine needs.
type Events interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Config tunes the comparison engine.
type Config struct {
	// PerCallTimeout bounds each connector call independently.
	PerCallTimeout time.Duration

	// MaxConcurrent bounds the fan-out group.
	MaxConcurrent int

	// HorizonYears is the TCO horizon.
	HorizonYears int

	Weights      CompositeWeights
	ScoreWeights coverage.Weights
}

// DefaultConfig returns the documented engine defaults.
func DefaultConfig() Config {
	return Config{
		PerCallTimeout: 8 * time.Second,
		MaxConcurrent:  8,
		HorizonYears:   5,
		Weights:        DefaultCompositeWeights(),
		ScoreWeights:   coverage.DefaultWeights(),
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.PerCallTimeout <= 0 {
		c.PerCallTimeout = def.PerCallTimeout
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = def.MaxConcurrent
	}
	if c.HorizonYears <= 0 {
		c.HorizonYears = def.HorizonYears
	}
	if c.Weights.Price == 0 && c.Weights.Coverage == 0 {
		c.Weights = def.Weights
	}
	if c.ScoreWeights == (coverage.Weights{}) {
		c.ScoreWeights = def.ScoreWeights
	}
	return c
}

// Result is one comparison outcome. Partial comparisons are successes with
// the omitted sources listed, never silent truncations.
type Result struct {
	Fingerprint string               `json:"fingerprint"`
	Criteria    Criteria             `json:"criteria"`
	Quotes      []RankedQuote        `json:"quotes"`
	Omitted     []domain.ConnectorID `json:"omitted,omitempty"`
	Partial     bool                 `json:"partial"`
	FromCache   bool                 `json:"from_cache,omitempty"`
	ComparedAt  time.Time            `json:"compared_at"`
}

// Engine runs comparisons against the live connector set.
type Engine struct {
	connectors Connectors
	cache      cache.Cache
	cfg        Config
	logger     *slog.Logger
	events     Events
	metrics    *Metrics
	tracer     trace.Tracer
	clock      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func WithEvents(ev Events) Option {
	return func(e *Engine) { e.events = ev }
}

func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

func WithClockFunc(clock func() time.Time) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// NewEngine wires the comparison engine. The cache is best-effort and may
// be a no-op implementation.
func NewEngine(connectors Connectors, c cache.Cache, cfg Config, opts ...Option) *Engine {
	e := &Engine{
		connectors: connectors,
		cache:      c,
		cfg:        cfg.withDefaults(),
		logger:     slog.Default(),
		tracer:     otel.Tracer("hub/quote"),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Compare runs the full comparison pipeline. The caller's context bounds
// the whole call; connectors that miss their own deadline become omissions,
// not errors.
func (e *Engine) Compare(ctx context.Context, req connector.QuoteRequest, criteria Criteria) (Result, error) {
	if !criteria.Valid() {
		criteria = CriteriaComposite
	}

	fp := Fingerprint(req)
	key := cacheKey(req, fp)

	ctx, span := e.tracer.Start(ctx, "quote.compare", trace.WithAttributes(
		attribute.String("quote.fingerprint", fp),
		attribute.String("quote.criteria", string(criteria)),
		attribute.String("quote.insurance_type", string(req.Type)),
	))
	defer span.End()

	if raw, ok := e.cache.Get(ctx, key); ok {
		var cached Result
		if err := json.Unmarshal(raw, &cached); err == nil {
			cached.FromCache = true
			e.metrics.IncCacheHit()
			span.SetAttributes(attribute.Bool("quote.cache_hit", true))
			return cached, nil
		}
		// A corrupt entry behaves like a miss.
		e.cache.Invalidate(ctx, key)
	}

	carriers := e.connectors.Eligible(domain.CapabilityCarrier)
	aggregators := e.connectors.Eligible(domain.CapabilityAggregator)
	if len(carriers)+len(aggregators) == 0 {
		return Result{}, ErrNoEligibleSource
	}

	started := e.clock()
	quotes, omitted := e.fanOut(ctx, req, carriers, aggregators)
	e.metrics.ObserveFanout(e.clock().Sub(started))

	ranked := make([]RankedQuote, 0, len(quotes))
	for _, q := range quotes {
		q.Fingerprint = fp
		ranked = append(ranked, RankedQuote{
			Quote:         q,
			CoverageScore: coverage.ScoreQuote(e.cfg.ScoreWeights, q, req.Coverage),
			TCO:           TCO(q, e.cfg.HorizonYears),
		})
	}
	rank(ranked, criteria, e.cfg.Weights)
	sort.Slice(omitted, func(i, j int) bool { return omitted[i] < omitted[j] })

	result := Result{
		Fingerprint: fp,
		Criteria:    criteria,
		Quotes:      ranked,
		Omitted:     omitted,
		Partial:     len(omitted) > 0,
		ComparedAt:  e.clock().UTC(),
	}

	if raw, err := json.Marshal(result); err == nil {
		e.cache.Set(ctx, key, raw, cache.ClassQuotes)
	}
	e.metrics.IncComparison(criteria)
	span.SetAttributes(
		attribute.Int("quote.results", len(ranked)),
		attribute.Int("quote.omitted", len(omitted)),
	)

	if e.events != nil {
		if err := e.events.Publish(ctx, TopicQuoteCompared, comparedEvent{
			Fingerprint: fp,
			Customer:    req.Customer.ID,
			Criteria:    criteria,
			Quotes:      ranked,
			Omitted:     omitted,
			Partial:     result.Partial,
		}); err != nil {
			e.logger.WarnContext(ctx, "publish quote.compared failed", "error", err)
		}
	}
	return result, nil
}

// comparedEvent is the quote.compared payload.
type comparedEvent struct {
	Fingerprint string               `json:"fingerprint"`
	Customer    domain.CustomerID    `json:"customer"`
	Criteria    Criteria             `json:"criteria"`
	Quotes      []RankedQuote        `json:"quotes"`
	Omitted     []domain.ConnectorID `json:"omitted,omitempty"`
	Partial     bool                 `json:"partial"`
}

// fanOut queries every source concurrently. Each call carries its own
// timeout so one slow source never delays collection of the rest, and a
// task never returns an error because that would cancel its siblings.
func (e *Engine) fanOut(ctx context.Context, req connector.QuoteRequest, carriers, aggregators []connector.Connector) ([]domain.Quote, []domain.ConnectorID) {
	var (
		mu      sync.Mutex
		quotes  []domain.Quote
		omitted []domain.ConnectorID
	)
	collect := func(id domain.ConnectorID, got []domain.Quote, err error) {
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			omitted = append(omitted, id)
			e.metrics.IncOmission(string(connector.CategoryOf(err)))
			e.logger.DebugContext(ctx, "quote source omitted", "connector", id, "error", err)
			return
		}
		quotes = append(quotes, got...)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.MaxConcurrent)

	for _, conn := range carriers {
		id := conn.Identify().ID
		src, ok := conn.(connector.CarrierSource)
		if !ok {
			collect(id, nil, connector.NewError(connector.ErrorCapabilityNotSupported, id, "declared carrier capability without implementing it", nil))
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, e.cfg.PerCallTimeout)
			defer cancel()
			ctx, span := e.tracer.Start(callCtx, "quote.carrier", trace.WithAttributes(
				attribute.String("connector.id", id.String())))
			defer span.End()

			q, err := src.Quote(ctx, req)
			if err != nil {
				collect(id, nil, err)
				return nil
			}
			collect(id, []domain.Quote{q}, nil)
			return nil
		})
	}

	for _, conn := range aggregators {
		id := conn.Identify().ID
		src, ok := conn.(connector.AggregatorSource)
		if !ok {
			collect(id, nil, connector.NewError(connector.ErrorCapabilityNotSupported, id, "declared aggregator capability without implementing it", nil))
			continue
		}
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, e.cfg.PerCallTimeout)
			defer cancel()
			ctx, span := e.tracer.Start(callCtx, "quote.aggregator", trace.WithAttributes(
				attribute.String("connector.id", id.String())))
			defer span.End()

			batch, err := src.QuoteAll(ctx, req)
			collect(id, batch, err)
			return nil
		})
	}

	_ = g.Wait()
	return quotes, omitted
}
