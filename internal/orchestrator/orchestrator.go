// Package orchestrator composes event-triggered multi-step workflows on
// top of the event bus. Steps run in order, each with its own timeout and
// retry budget; an exhausted step fails the workflow instance and emits
// workflow.failed, never a silent skip.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/connector"
	"github.com/daviderez4/selai-admin-crm-sub006/internal/eventbus"
)

// Bus is the pub/sub surface the orchestrator needs.
type Bus interface {
	Subscribe(topic, name string, h eventbus.Handler)
	Publish(ctx context.Context, topic string, payload any) error
}

// FailedEvent is the workflow.failed payload.
type FailedEvent struct {
	Workflow string `json:"workflow"`
	Step     string `json:"step"`
	Error    string `json:"error"`
}

// Orchestrator registers workflows as idempotent bus consumers.
type Orchestrator struct {
	bus    Bus
	logger *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New builds an orchestrator over the bus.
func New(bus Bus, opts ...Option) *Orchestrator {
	o := &Orchestrator{bus: bus, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register subscribes the workflow on its trigger topic. The consumer name
// embeds the workflow name, so each workflow processes a given event once
// even when several workflows share a trigger.
func (o *Orchestrator) Register(wf Workflow) {
	o.bus.Subscribe(wf.Trigger, "workflow:"+wf.Name, func(ctx context.Context, evt eventbus.Envelope) error {
		return o.execute(ctx, wf, evt)
	})
}

func (o *Orchestrator) execute(ctx context.Context, wf Workflow, evt eventbus.Envelope) error {
	started := time.Now()
	for _, step := range wf.Steps {
		if err := o.runStep(ctx, wf, step, evt); err != nil {
			stepErr := &StepError{Workflow: wf.Name, Step: step.Name, Cause: err}
			o.logger.ErrorContext(ctx, "workflow failed",
				"workflow", wf.Name, "step", step.Name, "event_id", evt.ID, "error", err)

			if pubErr := o.bus.Publish(ctx, eventbus.TopicWorkflowFailed, FailedEvent{
				Workflow: wf.Name,
				Step:     step.Name,
				Error:    err.Error(),
			}); pubErr != nil {
				o.logger.ErrorContext(ctx, "publish workflow.failed failed", "error", pubErr)
			}
			return stepErr
		}
	}
	o.logger.InfoContext(ctx, "workflow completed",
		"workflow", wf.Name, "event_id", evt.ID, "duration", time.Since(started))
	return nil
}

// runStep retries transient failures with exponential backoff until the
// step's budget runs out. Failures known to be non-retryable abort at once.
func (o *Orchestrator) runStep(ctx context.Context, wf Workflow, step Step, evt eventbus.Envelope) error {
	retry := step.Retry
	if retry.MaxRetries == 0 && retry.InitialInterval == 0 {
		retry = DefaultRetryPolicy()
	}

	policy := backoff.NewExponentialBackOff()
	if retry.InitialInterval > 0 {
		policy.InitialInterval = retry.InitialInterval
	}

	attempt := 0
	op := func() error {
		attempt++
		stepCtx := ctx
		if step.Timeout > 0 {
			var cancel context.CancelFunc
			stepCtx, cancel = context.WithTimeout(ctx, step.Timeout)
			defer cancel()
		}

		err := step.Run(stepCtx, evt)
		if err == nil {
			return nil
		}
		o.logger.DebugContext(ctx, "workflow step attempt failed",
			"workflow", wf.Name, "step", step.Name, "attempt", attempt, "error", err)

		var ce *connector.Error
		if errors.As(err, &ce) && !ce.Retryable {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(policy, retry.MaxRetries), ctx))
}
