package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/eventbus"
)

// RetryPolicy bounds one step's retry budget.
type RetryPolicy struct {
	// MaxRetries is the number of attempts after the first.
	MaxRetries uint64

	// InitialInterval seeds the exponential backoff between attempts.
	InitialInterval time.Duration
}

// DefaultRetryPolicy returns the documented step defaults.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, InitialInterval: 200 * time.Millisecond}
}

// Step is one ordered unit of a workflow with its own timeout and retry
// budget.
type Step struct {
	Name    string
	Timeout time.Duration
	Retry   RetryPolicy
	Run     func(ctx context.Context, evt eventbus.Envelope) error
}

// Workflow is an ordered step sequence triggered by one event topic.
type Workflow struct {
	Name    string
	Trigger string
	Steps   []Step
}

// StepError marks a workflow instance failed at a specific step after its
// retry budget ran out.
type StepError struct {
	Workflow string
	Step     string
	Cause    error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow %s failed at step %s: %v", e.Workflow, e.Step, e.Cause)
}

func (e *StepError) Unwrap() error { return e.Cause }
