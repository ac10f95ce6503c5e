package registry

import (
	"context"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// Run drives the periodic health loop until ctx is cancelled. Each tick all
// connectors are probed concurrently, each under its own timeout so one slow
// source cannot starve the loop.
func (r *Registry) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			r.CheckAll(ctx)
		}
	}
}

// CheckAll probes every registered connector once. Exposed separately from
// Run so tests and admin endpoints can force a sweep.
func (r *Registry) CheckAll(ctx context.Context) {
	r.mu.RLock()
	targets := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		if e.health.State != domain.StateUnregistered {
			targets = append(targets, e)
		}
	}
	r.mu.RUnlock()

	done := make(chan struct{}, len(targets))
	for _, e := range targets {
		go func() {
			defer func() { done <- struct{}{} }()
			r.checkOne(ctx, e)
		}()
	}
	for range targets {
		<-done
	}
}

func (r *Registry) checkOne(ctx context.Context, e *entry) {
	id := e.meta.ID
	probeCtx, cancel := context.WithTimeout(ctx, r.cfg.HealthTimeout)
	defer cancel()

	start := r.clock()
	err := e.conn.CheckHealth(probeCtx)
	r.metrics.ObserveHealthCheck(id.String(), r.clock().Sub(start))

	if err != nil {
		if r.logger != nil {
			r.logger.DebugContext(ctx, "health check failed", "connector", id, "error", err)
		}
		r.recordFailure(ctx, id, false)
		return
	}
	r.recordSuccess(ctx, id)
}

// recordSuccess resets the failure streak and restores the connector to
// healthy from any degraded or unhealthy state.
func (r *Registry) recordSuccess(ctx context.Context, id domain.ConnectorID) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	from := e.health.State
	e.health.LastSuccess = r.clock()
	e.health.ConsecutiveFailures = 0
	e.health.State = domain.StateHealthy
	to := e.health.State
	r.mu.Unlock()

	r.notifyTransition(ctx, id, from, to)
}

// recordFailure advances the failure streak and walks the state machine:
// healthy -> degraded after DegradedThreshold consecutive failures,
// degraded -> unhealthy after UnhealthyThreshold. Initialization failures
// go straight to unhealthy.
func (r *Registry) recordFailure(ctx context.Context, id domain.ConnectorID, initializing bool) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	from := e.health.State
	e.health.LastFailure = r.clock()
	e.health.ConsecutiveFailures++

	switch {
	case initializing:
		e.health.State = domain.StateUnhealthy
	case from == domain.StateHealthy && e.health.ConsecutiveFailures >= r.cfg.DegradedThreshold:
		e.health.State = domain.StateDegraded
	case from == domain.StateDegraded && e.health.ConsecutiveFailures >= r.cfg.UnhealthyThreshold:
		e.health.State = domain.StateUnhealthy
	}
	to := e.health.State
	r.mu.Unlock()

	r.notifyTransition(ctx, id, from, to)
}
