package httptransport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/coverage"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/registry"
	"github.com/daviderez4/selai-admin-crm-sub006/pkg/testutil"
)

type stubQuotes struct {
	result quote.Result
	err    error

	lastReq      connector.QuoteRequest
	lastCriteria quote.Criteria
}

func (s *stubQuotes) Compare(_ context.Context, req connector.QuoteRequest, criteria quote.Criteria) (quote.Result, error) {
	s.lastReq = req
	s.lastCriteria = criteria
	return s.result, s.err
}

type stubAnalyzer struct {
	result coverage.Result
}

func (s *stubAnalyzer) Analyze(_ context.Context, profile domain.CustomerProfile) coverage.Result {
	s.result.Customer = profile.Customer.ID
	return s.result
}

type stubDirectory struct {
	infos  []registry.Info
	health map[domain.ConnectorID]domain.HealthStatus
	system registry.SystemHealth
}

func (s *stubDirectory) List() []registry.Info { return s.infos }

func (s *stubDirectory) Health(id domain.ConnectorID) (domain.HealthStatus, bool) {
	h, ok := s.health[id]
	return h, ok
}

func (s *stubDirectory) SystemHealth() registry.SystemHealth { return s.system }

func newTestRouter(quotes *stubQuotes, analyzer *stubAnalyzer, dir *stubDirectory) http.Handler {
	if quotes == nil {
		quotes = &stubQuotes{}
	}
	if analyzer == nil {
		analyzer = &stubAnalyzer{}
	}
	if dir == nil {
		dir = &stubDirectory{system: registry.SystemHealth{Status: "ok"}}
	}
	return NewRouter(NewHandler(quotes, analyzer, dir))
}

func postJSON(t *testing.T, router http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	return testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, path, payload))
}

func TestCompareQuotes(t *testing.T) {
	quotes := &stubQuotes{result: quote.Result{
		Fingerprint: "abc123",
		Criteria:    quote.CriteriaPrice,
		Quotes: []quote.RankedQuote{
			{Quote: domain.Quote{Carrier: "harel", Premium: 400}, Score: 1, TCO: 24000},
		},
		Omitted:    []domain.ConnectorID{"clal-direct"},
		Partial:    true,
		ComparedAt: time.Now().UTC(),
	}}
	router := newTestRouter(quotes, nil, nil)

	rec := postJSON(t, router, "/v1/quotes/compare", map[string]any{
		"type":     "vehicle",
		"customer": map[string]any{"id": "cust-1", "national_id": "123456782"},
		"criteria": "price",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Fingerprint string   `json:"fingerprint"`
		Partial     bool     `json:"partial"`
		Omitted     []string `json:"omitted"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "abc123", resp.Fingerprint)
	assert.True(t, resp.Partial)
	assert.Equal(t, []string{"clal-direct"}, resp.Omitted)

	assert.Equal(t, domain.CustomerID("cust-1"), quotes.lastReq.Customer.ID)
	assert.Equal(t, quote.CriteriaPrice, quotes.lastCriteria)
}

func TestCompareQuotesRejectsBadInput(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	cases := map[string]map[string]any{
		"missing customer": {"type": "vehicle"},
		"missing type":     {"customer": map[string]any{"id": "cust-1"}},
		"unknown criteria": {
			"type":     "vehicle",
			"customer": map[string]any{"id": "cust-1"},
			"criteria": "cheapest",
		},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			rec := postJSON(t, router, "/v1/quotes/compare", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	rec := testutil.DoRequest(router, testutil.NewRequestWithBody(t, http.MethodPost, "/v1/quotes/compare", "{not json"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompareQuotesNoEligibleSource(t *testing.T) {
	router := newTestRouter(&stubQuotes{err: quote.ErrNoEligibleSource}, nil, nil)

	rec := postJSON(t, router, "/v1/quotes/compare", map[string]any{
		"type":     "vehicle",
		"customer": map[string]any{"id": "cust-1"},
	})

	testutil.AssertStatusAndError(t, rec, http.StatusServiceUnavailable, "no_eligible_source")
}

func TestAnalyzeCoverage(t *testing.T) {
	analyzer := &stubAnalyzer{result: coverage.Result{
		Score: 65,
		Gaps: []domain.CoverageGap{
			{Category: domain.GapMissingHome, Severity: domain.SeverityWarning},
		},
	}}
	router := newTestRouter(nil, analyzer, nil)

	rec := postJSON(t, router, "/v1/coverage/analyze", map[string]any{
		"customer": map[string]any{"id": "cust-7", "national_id": "123456782"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Customer string  `json:"customer"`
		Score    float64 `json:"score"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "cust-7", resp.Customer)
	assert.InDelta(t, 65, resp.Score, 0.001)

	rec = postJSON(t, router, "/v1/coverage/analyze", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListConnectors(t *testing.T) {
	dir := &stubDirectory{
		infos: []registry.Info{
			{
				Metadata: domain.ConnectorMetadata{
					ID:           "harel-carrier",
					SourceName:   "Harel",
					Capabilities: []domain.Capability{domain.CapabilityCarrier},
				},
				Health: domain.HealthStatus{ID: "harel-carrier", State: domain.StateHealthy},
			},
		},
		system: registry.SystemHealth{Status: "ok"},
	}
	router := newTestRouter(nil, nil, dir)

	req := httptest.NewRequest(http.MethodGet, "/v1/connectors", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Connectors []registry.Info `json:"connectors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Connectors, 1)
	assert.Equal(t, domain.ConnectorID("harel-carrier"), resp.Connectors[0].Metadata.ID)
	assert.Equal(t, domain.StateHealthy, resp.Connectors[0].Health.State)
}

func TestConnectorHealth(t *testing.T) {
	dir := &stubDirectory{
		health: map[domain.ConnectorID]domain.HealthStatus{
			"gov-vehicle": {ID: "gov-vehicle", State: domain.StateDegraded, ConsecutiveFailures: 3},
		},
		system: registry.SystemHealth{Status: "degraded"},
	}
	router := newTestRouter(nil, nil, dir)

	req := httptest.NewRequest(http.MethodGet, "/v1/connectors/gov-vehicle/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var health domain.HealthStatus
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&health))
	assert.Equal(t, domain.StateDegraded, health.State)
	assert.Equal(t, 3, health.ConsecutiveFailures)

	req = httptest.NewRequest(http.MethodGet, "/v1/connectors/nope/health", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSystemHealth(t *testing.T) {
	dir := &stubDirectory{system: registry.SystemHealth{
		Status: "down",
		Connectors: map[domain.ConnectorID]domain.ConnectorState{
			"harel-carrier": domain.StateUnhealthy,
		},
	}}
	router := newTestRouter(nil, nil, dir)

	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp registry.SystemHealth
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "down", resp.Status)
	assert.Equal(t, domain.StateUnhealthy, resp.Connectors["harel-carrier"])
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := newTestRouter(nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
