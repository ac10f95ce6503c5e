package registry

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// InitReport is the per-connector outcome of InitializeAll. One connector
// failing to come up never hides the others' results.
type InitReport struct {
	Connector domain.ConnectorID    `json:"connector"`
	State     domain.ConnectorState `json:"state"`
	Duration  time.Duration         `json:"duration"`
	Err       error                 `json:"-"`
	Error     string                `json:"error,omitempty"`
}

// InitializeAll brings every registered connector up concurrently, each
// bounded by its own timeout, and returns one report per connector sorted by
// ID. Group concurrency is capped; tasks never propagate errors into the
// group so a failing connector cannot cancel its siblings.
func (r *Registry) InitializeAll(ctx context.Context) []InitReport {
	r.mu.RLock()
	targets := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		targets = append(targets, e)
	}
	r.mu.RUnlock()

	reports := make([]InitReport, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.MaxConcurrentInit)

	for i, e := range targets {
		g.Go(func() error {
			reports[i] = r.initializeOne(gctx, e)
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Connector < reports[j].Connector })
	return reports
}

func (r *Registry) initializeOne(ctx context.Context, e *entry) InitReport {
	id := e.meta.ID
	r.setState(ctx, id, domain.StateInitializing)

	start := r.clock()
	initCtx, cancel := context.WithTimeout(ctx, r.cfg.InitTimeout)
	defer cancel()

	err := e.conn.Initialize(initCtx, e.creds)
	if err == nil {
		err = e.conn.CheckHealth(initCtx)
	}
	duration := r.clock().Sub(start)

	report := InitReport{Connector: id, Duration: duration, Err: err}
	if err != nil {
		r.recordFailure(ctx, id, true)
		report.State = domain.StateUnhealthy
		report.Error = err.Error()
		if r.logger != nil {
			r.logger.WarnContext(ctx, "connector initialization failed",
				"connector", id, "duration", duration, "error", err)
		}
		return report
	}

	r.recordSuccess(ctx, id)
	report.State = domain.StateHealthy
	if r.logger != nil {
		r.logger.InfoContext(ctx, "connector initialized",
			"connector", id, "duration", duration)
	}
	return report
}

// setState transitions one connector and notifies observers.
func (r *Registry) setState(ctx context.Context, id domain.ConnectorID, to domain.ConnectorState) {
	r.mu.Lock()
	e, ok := r.entries[id]
	if !ok {
		r.mu.Unlock()
		return
	}
	from := e.health.State
	e.health.State = to
	r.mu.Unlock()

	r.notifyTransition(ctx, id, from, to)
}
