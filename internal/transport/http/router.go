// Package httptransport is the thin HTTP layer. Handlers decode JSON,
// delegate to domain services and encode results; business logic stays in
// the service packages.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/coverage"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/platform/metrics"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/quote"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/registry"
)

// QuoteService runs quote comparisons.
type QuoteService interface {
	Compare(ctx context.Context, req connector.QuoteRequest, criteria quote.Criteria) (quote.Result, error)
}

// CoverageService analyzes customer portfolios for gaps.
type CoverageService interface {
	Analyze(ctx context.Context, profile domain.CustomerProfile) coverage.Result
}

// Directory is the registry surface the read-only connector endpoints need.
type Directory interface {
	List() []registry.Info
	Health(id domain.ConnectorID) (domain.HealthStatus, bool)
	SystemHealth() registry.SystemHealth
}

// Handler holds the services behind the public endpoints.
type Handler struct {
	quotes    QuoteService
	analyzer  CoverageService
	directory Directory
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithMetrics enables per-route request metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// NewHandler builds the HTTP handler set.
func NewHandler(quotes QuoteService, analyzer CoverageService, directory Directory, opts ...Option) *Handler {
	h := &Handler{
		quotes:    quotes,
		analyzer:  analyzer,
		directory: directory,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// NewRouter wires all public endpoints.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(observe(h.metrics))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/quotes/compare", h.handleCompareQuotes)
		r.Post("/coverage/analyze", h.handleAnalyzeCoverage)
		r.Get("/connectors", h.handleListConnectors)
		r.Get("/connectors/{id}/health", h.handleConnectorHealth)
		r.Get("/health", h.handleSystemHealth)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// observe times every request against its matched route pattern.
func observe(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			route := chi.RouteContext(r.Context()).RoutePattern()
			m.Observe(route, r.Method, ww.Status(), time.Since(start))
		})
	}
}
