// Package registry supervises connector lifecycle and health and answers
// typed capability lookups. The registry is the single writer of all
// connector state; lookups and the health loop read concurrently.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/registry/metrics"
)

var (
	ErrAlreadyRegistered = errors.New("connector already registered")
	ErrNotRegistered     = errors.New("connector not registered")
)

// StateChange is published on every connector state transition.
type StateChange struct {
	Connector domain.ConnectorID    `json:"connector"`
	From      domain.ConnectorState `json:"from"`
	To        domain.ConnectorState `json:"to"`
	At        time.Time             `json:"at"`
}

// Events is the slice of the event bus the registry needs. Publishing is
// fire-and-forget from the registry's point of view.
type Events interface {
	Publish(ctx context.Context, topic string, payload any) error
}

// Config tunes supervision behavior.
type Config struct {
	InitTimeout        time.Duration
	MaxConcurrentInit  int
	HealthInterval     time.Duration
	HealthTimeout      time.Duration
	DegradedThreshold  int // consecutive failures before healthy -> degraded
	UnhealthyThreshold int // consecutive failures before degraded -> unhealthy
}

// DefaultConfig returns the documented supervision defaults.
func DefaultConfig() Config {
	return Config{
		InitTimeout:        10 * time.Second,
		MaxConcurrentInit:  8,
		HealthInterval:     30 * time.Second,
		HealthTimeout:      5 * time.Second,
		DegradedThreshold:  3,
		UnhealthyThreshold: 5,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.InitTimeout <= 0 {
		c.InitTimeout = def.InitTimeout
	}
	if c.MaxConcurrentInit <= 0 {
		c.MaxConcurrentInit = def.MaxConcurrentInit
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = def.HealthInterval
	}
	if c.HealthTimeout <= 0 {
		c.HealthTimeout = def.HealthTimeout
	}
	if c.DegradedThreshold <= 0 {
		c.DegradedThreshold = def.DegradedThreshold
	}
	if c.UnhealthyThreshold <= c.DegradedThreshold {
		c.UnhealthyThreshold = c.DegradedThreshold + 2
	}
	return c
}

type entry struct {
	conn   connector.Connector
	meta   domain.ConnectorMetadata
	creds  connector.Config
	health domain.HealthStatus
}

// Registry owns the connector map and all per-connector health state.
type Registry struct {
	mu           sync.RWMutex
	entries      map[domain.ConnectorID]*entry
	byCapability map[domain.Capability][]domain.ConnectorID

	cfg     Config
	logger  *slog.Logger
	events  Events
	metrics *metrics.Metrics
	clock   func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

func WithEvents(events Events) Option {
	return func(r *Registry) { r.events = events }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Registry) { r.metrics = m }
}

// WithClockFunc injects a clock for tests.
func WithClockFunc(clock func() time.Time) Option {
	return func(r *Registry) {
		if clock != nil {
			r.clock = clock
		}
	}
}

// New builds an empty registry.
func New(cfg Config, opts ...Option) *Registry {
	r := &Registry{
		entries:      make(map[domain.ConnectorID]*entry),
		byCapability: make(map[domain.Capability][]domain.ConnectorID),
		cfg:          cfg.withDefaults(),
		clock:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register records a connector and its credentials. The declared capability
// set from Identify() is indexed once here; lookups never inspect types.
func (r *Registry) Register(conn connector.Connector, creds connector.Config) error {
	meta := conn.Identify()
	if meta.ID == "" {
		return fmt.Errorf("connector metadata has no ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[meta.ID]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, meta.ID)
	}

	r.entries[meta.ID] = &entry{
		conn:  conn,
		meta:  meta,
		creds: creds,
		health: domain.HealthStatus{
			ID:    meta.ID,
			State: domain.StateUnregistered,
		},
	}
	for _, cap := range meta.Capabilities {
		r.byCapability[cap] = append(r.byCapability[cap], meta.ID)
	}
	return nil
}

// Unregister shuts the connector down and removes it from all indexes.
func (r *Registry) Unregister(ctx context.Context, id domain.ConnectorID) error {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	delete(r.entries, id)
	for _, cap := range e.meta.Capabilities {
		r.byCapability[cap] = removeID(r.byCapability[cap], id)
	}
	from := e.health.State
	r.mu.Unlock()

	r.notifyTransition(ctx, id, from, domain.StateUnregistered)
	if err := e.conn.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown %s: %w", id, err)
	}
	return nil
}

// ByName returns a connector by its ID.
func (r *Registry) ByName(id domain.ConnectorID) (connector.Connector, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, false
	}
	return e.conn, true
}

// ByCapability returns every registered connector declaring cap, regardless
// of health. O(number of matching connectors) via the capability index.
func (r *Registry) ByCapability(cap domain.Capability) []connector.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCapability[cap]
	out := make([]connector.Connector, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.entries[id].conn)
	}
	return out
}

// Eligible returns the connectors declaring cap that may currently serve
// traffic (healthy or degraded).
func (r *Registry) Eligible(cap domain.Capability) []connector.Connector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := r.byCapability[cap]
	out := make([]connector.Connector, 0, len(ids))
	for _, id := range ids {
		if e := r.entries[id]; e.health.State.Usable() {
			out = append(out, e.conn)
		}
	}
	return out
}

// Info pairs a connector's declared metadata with its current health.
type Info struct {
	Metadata domain.ConnectorMetadata `json:"metadata"`
	Health   domain.HealthStatus      `json:"health"`
}

// List returns every registered connector sorted by ID.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Info, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, Info{Metadata: e.meta, Health: e.health})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Metadata.ID < out[j].Metadata.ID })
	return out
}

// Health returns a copy of one connector's health status.
func (r *Registry) Health(id domain.ConnectorID) (domain.HealthStatus, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return domain.HealthStatus{}, false
	}
	return e.health, true
}

// SystemHealth aggregates connector states for the health endpoint.
type SystemHealth struct {
	Status     string                                       `json:"status"` // ok | degraded | down
	Connectors map[domain.ConnectorID]domain.ConnectorState `json:"connectors"`
}

// SystemHealth reports ok when every connector is usable, degraded when some
// are not, and down when none are.
func (r *Registry) SystemHealth() SystemHealth {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := SystemHealth{Connectors: make(map[domain.ConnectorID]domain.ConnectorState, len(r.entries))}
	usable := 0
	for id, e := range r.entries {
		out.Connectors[id] = e.health.State
		if e.health.State.Usable() {
			usable++
		}
	}
	switch {
	case len(r.entries) == 0 || usable == 0:
		out.Status = "down"
	case usable < len(r.entries):
		out.Status = "degraded"
	default:
		out.Status = "ok"
	}
	return out
}

func removeID(ids []domain.ConnectorID, id domain.ConnectorID) []domain.ConnectorID {
	out := ids[:0]
	for _, candidate := range ids {
		if candidate != id {
			out = append(out, candidate)
		}
	}
	return out
}

// notifyTransition publishes a state-change event and updates metrics.
// Called outside the registry lock.
func (r *Registry) notifyTransition(ctx context.Context, id domain.ConnectorID, from, to domain.ConnectorState) {
	if from == to {
		return
	}
	r.metrics.SetState(id.String(), string(from), false)
	r.metrics.SetState(id.String(), string(to), true)
	r.metrics.IncTransition(id.String(), string(to))

	if r.logger != nil {
		r.logger.InfoContext(ctx, "connector state changed",
			"connector", id, "from", from, "to", to)
	}
	if r.events != nil {
		change := StateChange{Connector: id, From: from, To: to, At: r.clock()}
		if err := r.events.Publish(ctx, TopicConnectorStateChanged, change); err != nil && r.logger != nil {
			r.logger.WarnContext(ctx, "state change event dropped", "connector", id, "error", err)
		}
	}
}

// TopicConnectorStateChanged is the event bus topic for supervision events.
const TopicConnectorStateChanged = "connector.state.changed"
