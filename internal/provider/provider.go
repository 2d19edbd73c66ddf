// Package provider defines the failure taxonomy shared by every external
// service client. A raw provider failure never crosses a stage boundary:
// each client maps its errors to one of the kinds below first.
package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// FailureKind classifies a provider failure for retry and policy decisions
type FailureKind string

// Failure kinds reported by provider clients
const (
	// Transient failures are eligible for bounded retry with backoff
	KindRateLimited   FailureKind = "rate_limited"
	KindTimeout       FailureKind = "timeout"
	KindNetwork       FailureKind = "network"
	KindQuotaExceeded FailureKind = "quota_exceeded"

	// Permanent failures are surfaced immediately, no retry
	KindAuthError          FailureKind = "auth_error"
	KindValidationRejected FailureKind = "validation_rejected"
	KindContentFiltered    FailureKind = "content_filtered"

	// Degraded-data outcomes are recorded states, not errors, but clients
	// report them with these kinds so callers can map them
	KindNoResults    FailureKind = "no_results"
	KindNotAvailable FailureKind = "not_available"
	KindDisabled     FailureKind = "disabled"
)

// Transient reports whether a failure kind is eligible for retry
func (k FailureKind) Transient() bool {
	switch k {
	case KindRateLimited, KindTimeout, KindNetwork, KindQuotaExceeded:
		return true
	}
	return false
}

// Error is a classified provider failure
type Error struct {
	Provider string
	Kind     FailureKind
	Message  string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%s): %v", e.Provider, e.Message, e.Kind, e.Cause)
	}
	return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds a classified provider error
func NewError(providerName string, kind FailureKind, message string, cause error) *Error {
	return &Error{Provider: providerName, Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the failure kind from an error chain. Unclassified errors
// are treated as network failures (transient) so that generic transport
// errors remain retryable; context deadline errors map to timeouts.
func KindOf(err error) FailureKind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}

// IsTransient reports whether an error is eligible for retry
func IsTransient(err error) bool {
	return KindOf(err).Transient()
}
