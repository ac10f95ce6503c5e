package connector

import (
	"context"
	"errors"
	"fmt"

	"github.com/daviderez4/selai-admin-crm-sub006/internal/domain"
)

// ErrorCategory is the normalized failure taxonomy for external sources.
// Connectors return these for expected external failures; panicking is
// reserved for programming-contract violations.
type ErrorCategory string

const (
	// ErrorTimeout indicates the source took too long to respond.
	ErrorTimeout ErrorCategory = "timeout"

	// ErrorAuthFailure indicates credential, permission or consent issues.
	ErrorAuthFailure ErrorCategory = "auth_failure"

	// ErrorRateLimited indicates the source throttled us.
	ErrorRateLimited ErrorCategory = "rate_limited"

	// ErrorInvalidResponse indicates the source returned malformed data.
	ErrorInvalidResponse ErrorCategory = "invalid_response"

	// ErrorUnavailable indicates the source is down or unreachable.
	ErrorUnavailable ErrorCategory = "unavailable"

	// ErrorCapabilityNotSupported indicates a capability was invoked that the
	// connector never declared.
	ErrorCapabilityNotSupported ErrorCategory = "capability_not_supported"
)

// Error wraps connector failures with normalized categorization.
type Error struct {
	Category  ErrorCategory
	Connector domain.ConnectorID
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("connector %s [%s]: %s: %v", e.Connector, e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("connector %s [%s]: %s", e.Connector, e.Category, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a categorized connector error. Timeouts, rate limits and
// outages are retryable; everything else needs operator attention first.
func NewError(category ErrorCategory, id domain.ConnectorID, message string, cause error) *Error {
	retryable := category == ErrorTimeout ||
		category == ErrorRateLimited ||
		category == ErrorUnavailable

	return &Error{
		Category:  category,
		Connector: id,
		Message:   message,
		Cause:     cause,
		Retryable: retryable,
	}
}

// WrapCallError maps transport-level failures onto the taxonomy. Context
// expiry becomes a timeout; anything else is treated as an outage.
func WrapCallError(id domain.ConnectorID, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewError(ErrorTimeout, id, "call deadline exceeded", err)
	}
	return NewError(ErrorUnavailable, id, "source unreachable", err)
}

// CategoryOf extracts the category, defaulting to unavailable for foreign
// errors.
func CategoryOf(err error) ErrorCategory {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrorUnavailable
}

// IsRetryable reports whether an error is worth retrying.
func IsRetryable(err error) bool {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Retryable
	}
	return false
}

// Sentinel errors shared across the hub.
var (
	ErrNotInitialized   = errors.New("connector not initialized")
	ErrNoActiveCoverage = errors.New("no active coverage found")
)
