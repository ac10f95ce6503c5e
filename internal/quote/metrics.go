package quote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the comparison engine's instruments. All methods are
// nil-safe so wiring metrics stays optional.
type Metrics struct {
	Comparisons   *prometheus.CounterVec
	CacheHits     prometheus.Counter
	FanoutLatency prometheus.Histogram
	Omissions     *prometheus.CounterVec
}

// NewMetrics registers the engine metrics on the default registry.
func NewMetrics() *Metrics {
	return &Metrics{
		Comparisons: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hub_quote_comparisons_total",
			Help: "Total quote comparisons by ranking criteria",
		}, []string{"criteria"}),
		CacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hub_quote_cache_hits_total",
			Help: "Comparisons answered from the fingerprint cache",
		}),
		FanoutLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hub_quote_fanout_duration_seconds",
			Help:    "Duration of the connector fan-out phase",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		Omissions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hub_quote_omissions_total",
			Help: "Connectors omitted from comparisons by error category",
		}, []string{"category"}),
	}
}

func (m *Metrics) IncComparison(criteria Criteria) {
	if m == nil {
		return
	}
	m.Comparisons.WithLabelValues(string(criteria)).Inc()
}

func (m *Metrics) IncCacheHit() {
	if m == nil {
		return
	}
	m.CacheHits.Inc()
}

func (m *Metrics) ObserveFanout(d time.Duration) {
	if m == nil {
		return
	}
	m.FanoutLatency.Observe(d.Seconds())
}

func (m *Metrics) IncOmission(category string) {
	if m == nil {
		return
	}
	m.Omissions.WithLabelValues(category).Inc()
}
