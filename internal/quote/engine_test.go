package quote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/cache"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

type fakeCarrier struct {
	id      domain.ConnectorID
	carrier domain.CarrierID
	quote   domain.Quote
	err     error
	delay   time.Duration
}

func (f *fakeCarrier) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{ID: f.id, Capabilities: []domain.Capability{domain.CapabilityCarrier}}
}
func (f *fakeCarrier) CheckHealth(context.Context) error                  { return nil }
func (f *fakeCarrier) Initialize(context.Context, connector.Config) error { return nil }
func (f *fakeCarrier) Shutdown(context.Context) error                     { return nil }

func (f *fakeCarrier) Quote(ctx context.Context, _ connector.QuoteRequest) (domain.Quote, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return domain.Quote{}, connector.WrapCallError(f.id, ctx.Err())
		}
	}
	if f.err != nil {
		return domain.Quote{}, f.err
	}
	return f.quote, nil
}

func (f *fakeCarrier) IssuePolicy(context.Context, domain.Quote, domain.CustomerID) (domain.Policy, error) {
	return domain.Policy{}, nil
}
func (f *fakeCarrier) ClaimStatus(context.Context, string) (domain.Claim, error) {
	return domain.Claim{}, nil
}

type fakeAggregator struct {
	id     domain.ConnectorID
	quotes []domain.Quote
	err    error
}

func (f *fakeAggregator) Identify() domain.ConnectorMetadata {
	return domain.ConnectorMetadata{ID: f.id, Capabilities: []domain.Capability{domain.CapabilityAggregator}}
}
func (f *fakeAggregator) CheckHealth(context.Context) error                  { return nil }
func (f *fakeAggregator) Initialize(context.Context, connector.Config) error { return nil }
func (f *fakeAggregator) Shutdown(context.Context) error                     { return nil }

func (f *fakeAggregator) QuoteAll(context.Context, connector.QuoteRequest) ([]domain.Quote, error) {
	return f.quotes, f.err
}

type fakeSources struct {
	byCap map[domain.Capability][]connector.Connector
}

func (f *fakeSources) Eligible(cap domain.Capability) []connector.Connector {
	return f.byCap[cap]
}

func carrierQuote(carrier domain.CarrierID, premium float64, cov map[string]float64) domain.Quote {
	return domain.Quote{
		Carrier:   carrier,
		Type:      domain.InsuranceVehicle,
		Premium:   premium,
		Frequency: domain.PayMonthly,
		Coverage:  cov,
	}
}

type EngineSuite struct {
	suite.Suite
	req connector.QuoteRequest
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.req = connector.QuoteRequest{
		Type: domain.InsuranceVehicle,
		Customer: domain.Customer{
			ID:          "123456782",
			NationalID:  "123456782",
			DateOfBirth: time.Date(1988, 4, 2, 0, 0, 0, 0, time.UTC),
		},
		Coverage: map[string]float64{"third_party": 500000},
	}
}

func (s *EngineSuite) newEngine(sources *fakeSources, cfg Config, opts ...Option) *Engine {
	return NewEngine(sources, cache.NewMemory(cache.DefaultTTLPolicy()), cfg, opts...)
}

func (s *EngineSuite) TestSuccessesAndOmissionsPartition() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "carrier-harel", carrier: "harel", quote: carrierQuote("harel", 410, nil)},
			&fakeCarrier{id: "carrier-clal", carrier: "clal", err: connector.NewError(connector.ErrorUnavailable, "carrier-clal", "down", nil)},
			&fakeCarrier{id: "carrier-migdal", carrier: "migdal", quote: carrierQuote("migdal", 380, nil)},
		},
		domain.CapabilityAggregator: {
			&fakeAggregator{id: "agg-main", quotes: []domain.Quote{carrierQuote("phoenix", 395, nil)}},
		},
	}}
	engine := s.newEngine(sources, Config{})

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)

	s.Len(result.Quotes, 3, "exactly the quotes from succeeding sources")
	s.Equal([]domain.ConnectorID{"carrier-clal"}, result.Omitted)
	s.True(result.Partial)
}

func (s *EngineSuite) TestAllSourcesRespondNotPartial() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "carrier-harel", carrier: "harel", quote: carrierQuote("harel", 410, nil)},
			&fakeCarrier{id: "carrier-migdal", carrier: "migdal", quote: carrierQuote("migdal", 380, nil)},
		},
		domain.CapabilityAggregator: {
			&fakeAggregator{id: "agg-main", quotes: []domain.Quote{carrierQuote("phoenix", 395, nil)}},
		},
	}}
	engine := s.newEngine(sources, Config{})

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)
	s.False(result.Partial)
	s.Empty(result.Omitted)
}

func (s *EngineSuite) TestSlowConnectorBecomesOmission() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "carrier-harel", carrier: "harel", quote: carrierQuote("harel", 410, nil)},
			&fakeCarrier{id: "carrier-slow", carrier: "clal", delay: time.Second, quote: carrierQuote("clal", 100, nil)},
		},
	}}
	engine := s.newEngine(sources, Config{PerCallTimeout: 50 * time.Millisecond})

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)

	s.Len(result.Quotes, 1)
	s.Equal(domain.CarrierID("harel"), result.Quotes[0].Carrier)
	s.Equal([]domain.ConnectorID{"carrier-slow"}, result.Omitted)
	s.True(result.Partial)
}

func (s *EngineSuite) TestNoEligibleSources() {
	engine := s.newEngine(&fakeSources{byCap: map[domain.Capability][]connector.Connector{}}, Config{})

	_, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().ErrorIs(err, ErrNoEligibleSource)
}

func (s *EngineSuite) TestPriceRanking() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "c1", carrier: "harel", quote: carrierQuote("harel", 410, nil)},
			&fakeCarrier{id: "c2", carrier: "migdal", quote: carrierQuote("migdal", 380, nil)},
			&fakeCarrier{id: "c3", carrier: "phoenix", quote: carrierQuote("phoenix", 395, nil)},
		},
	}}
	engine := s.newEngine(sources, Config{})

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)

	s.Equal(domain.CarrierID("migdal"), result.Quotes[0].Carrier)
	s.Equal(domain.CarrierID("phoenix"), result.Quotes[1].Carrier)
	s.Equal(domain.CarrierID("harel"), result.Quotes[2].Carrier)
}

func (s *EngineSuite) TestCompositeTieBreakByCarrier() {
	// Identical premiums and coverage: scores tie, carrier ID decides.
	cov := map[string]float64{"third_party": 500000}
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "c1", carrier: "migdal", quote: carrierQuote("migdal", 400, cov)},
			&fakeCarrier{id: "c2", carrier: "clal", quote: carrierQuote("clal", 400, cov)},
			&fakeCarrier{id: "c3", carrier: "harel", quote: carrierQuote("harel", 400, cov)},
		},
	}}
	engine := s.newEngine(sources, Config{})

	first, err := engine.Compare(context.Background(), s.req, CriteriaComposite)
	s.Require().NoError(err)

	s.Equal(domain.CarrierID("clal"), first.Quotes[0].Carrier)
	s.Equal(domain.CarrierID("harel"), first.Quotes[1].Carrier)
	s.Equal(domain.CarrierID("migdal"), first.Quotes[2].Carrier)

	// Ranking is a total order: the same set sorts identically every time.
	second, err := engine.Compare(context.Background(), s.req, CriteriaComposite)
	s.Require().NoError(err)
	second.FromCache = false
	first.ComparedAt = second.ComparedAt
	s.Equal(first.Quotes, second.Quotes)
}

func (s *EngineSuite) TestCompositeCoverageWeightCanOutrankPrice() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "c1", carrier: "harel", quote: carrierQuote("harel", 400, map[string]float64{"third_party": 500000})},
			&fakeCarrier{id: "c2", carrier: "migdal", quote: carrierQuote("migdal", 395, nil)},
		},
	}}
	engine := s.newEngine(sources, Config{Weights: CompositeWeights{Price: 0.3, Coverage: 0.7}})

	result, err := engine.Compare(context.Background(), s.req, CriteriaComposite)
	s.Require().NoError(err)

	// migdal is cheaper but covers nothing that was asked for; with a
	// coverage-heavy blend harel wins.
	s.Equal(domain.CarrierID("harel"), result.Quotes[0].Carrier)
	s.InDelta(100.0, result.Quotes[0].CoverageScore, 0.001)
	s.InDelta(0.0, result.Quotes[1].CoverageScore, 0.001)
}

func (s *EngineSuite) TestTCO() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "c1", carrier: "harel", quote: carrierQuote("harel", 400, nil)},
		},
	}}
	engine := s.newEngine(sources, Config{HorizonYears: 5})

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)

	// 400/month over 5 years.
	s.InDelta(24000.0, result.Quotes[0].TCO, 0.001)
}

func (s *EngineSuite) TestCacheHit() {
	calls := 0
	counting := &fakeCarrier{id: "c1", carrier: "harel", quote: carrierQuote("harel", 400, nil)}
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {counting},
	}}
	c := cache.NewMemory(cache.DefaultTTLPolicy())
	engine := NewEngine(&countingSources{inner: sources, calls: &calls}, c, Config{})

	first, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)
	s.False(first.FromCache)

	second, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)
	s.True(second.FromCache)
	s.Equal(first.Quotes, second.Quotes)
	s.Equal(1, calls, "second comparison must not touch the registry")
}

func (s *EngineSuite) TestComparePublishesEvent() {
	sources := &fakeSources{byCap: map[domain.Capability][]connector.Connector{
		domain.CapabilityCarrier: {
			&fakeCarrier{id: "c1", carrier: "harel", quote: carrierQuote("harel", 400, nil)},
		},
	}}
	sink := &captureEvents{}
	engine := s.newEngine(sources, Config{}, WithEvents(sink))

	result, err := engine.Compare(context.Background(), s.req, CriteriaPrice)
	s.Require().NoError(err)

	s.Equal(TopicQuoteCompared, sink.topic)
	payload, ok := sink.payload.(comparedEvent)
	s.Require().True(ok)
	s.Equal(result.Fingerprint, payload.Fingerprint)
	s.Equal(domain.CustomerID("123456782"), payload.Customer)
}

type countingSources struct {
	inner *fakeSources
	calls *int
}

func (c *countingSources) Eligible(cap domain.Capability) []connector.Connector {
	if cap == domain.CapabilityCarrier {
		*c.calls++
	}
	return c.inner.Eligible(cap)
}

type captureEvents struct {
	topic   string
	payload any
}

func (c *captureEvents) Publish(_ context.Context, topic string, payload any) error {
	c.topic = topic
	c.payload = payload
	return nil
}
