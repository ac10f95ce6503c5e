package test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/coverage"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/registry"
	httptransport "github.com/daviderez4/selai-admin-crm-sub006/internal/transport/http"
	"github.com/daviderez4/selai-admin-crm-sub006/pkg/testutil"
)

type emptyQuotes struct{}

func (emptyQuotes) Compare(context.Context, connector.QuoteRequest, quote.Criteria) (quote.Result, error) {
	return quote.Result{}, quote.ErrNoEligibleSource
}

type passthroughAnalyzer struct{}

func (passthroughAnalyzer) Analyze(_ context.Context, profile domain.CustomerProfile) coverage.Result {
	return coverage.Result{Customer: profile.Customer.ID, Score: 100}
}

type emptyDirectory struct{}

func (emptyDirectory) List() []registry.Info { return nil }

func (emptyDirectory) Health(domain.ConnectorID) (domain.HealthStatus, bool) {
	return domain.HealthStatus{}, false
}

func (emptyDirectory) SystemHealth() registry.SystemHealth {
	return registry.SystemHealth{Status: "down"}
}

// Routing smoke test: every public endpoint is mounted and answers with
// the expected shape even when no connectors are registered.
func TestRouterScaffold(t *testing.T) {
	testutil.Given(t, "a hub with no registered connectors", func(t *testing.T) {
		router := httptransport.NewRouter(httptransport.NewHandler(
			emptyQuotes{}, passthroughAnalyzer{}, emptyDirectory{},
		))

		testutil.When(t, "comparing quotes", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/quotes/compare", map[string]any{
				"type":     "vehicle",
				"customer": map[string]any{"id": "cust-1"},
			})
			rec := testutil.DoRequest(router, req)
			testutil.AssertStatusAndError(t, rec, http.StatusServiceUnavailable, "no_eligible_source")
		})

		testutil.When(t, "analyzing coverage", func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/v1/coverage/analyze", map[string]any{
				"customer": map[string]any{"id": "cust-1"},
			})
			rec := testutil.DoRequest(router, req)
			testutil.AssertStatusOK(t, rec)
		})

		testutil.When(t, "listing connectors", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/connectors"))
			testutil.AssertStatusOK(t, rec)
		})

		testutil.When(t, "asking for system health", func(t *testing.T) {
			rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/health"))

			testutil.Then(t, "the hub reports itself down", func(t *testing.T) {
				require.Equal(t, http.StatusServiceUnavailable, rec.Code)
				resp := testutil.UnmarshalResponse[registry.SystemHealth](t, rec)
				assert.Equal(t, "down", resp.Status)
			})
		})
	})
}
