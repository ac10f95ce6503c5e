package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the connector registry.
type Metrics struct {
	// Connector lifecycle state, one series per connector and state.
	ConnectorState *prometheus.GaugeVec

	// Health check latency by connector.
	HealthCheckLatency *prometheus.HistogramVec

	// State transitions by connector and resulting state.
	StateTransitions *prometheus.CounterVec
}

// New creates a Metrics instance with all registry metrics registered.
func New() *Metrics {
	return &Metrics{
		ConnectorState: promauto.NewGaugeVec(prometheus.GaugeOpts{
			Name: "hub_connector_state",
			Help: "Connector lifecycle state (1 for the current state, 0 otherwise)",
		}, []string{"connector", "state"}),

		HealthCheckLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hub_connector_health_check_duration_seconds",
			Help:    "Duration of connector health checks",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"connector"}),

		StateTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hub_connector_state_transitions_total",
			Help: "Connector state transitions by resulting state",
		}, []string{"connector", "to"}),
	}
}

// SetState marks the connector's current state series.
func (m *Metrics) SetState(connector, state string, active bool) {
	if m == nil {
		return
	}
	v := 0.0
	if active {
		v = 1.0
	}
	m.ConnectorState.WithLabelValues(connector, state).Set(v)
}

// ObserveHealthCheck records one health probe duration.
func (m *Metrics) ObserveHealthCheck(connector string, d time.Duration) {
	if m != nil {
		m.HealthCheckLatency.WithLabelValues(connector).Observe(d.Seconds())
	}
}

// IncTransition counts a state transition.
func (m *Metrics) IncTransition(connector, to string) {
	if m != nil {
		m.StateTransitions.WithLabelValues(connector, to).Inc()
	}
}
