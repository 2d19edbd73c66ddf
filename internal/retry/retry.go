// Package retry wraps provider calls with bounded exponential backoff.
// Permanent failures stop the loop immediately; transient ones are retried
// up to the configured attempt budget.
package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jonathan/blog-automation/internal/provider"
)

// Policy is a bounded retry policy applied to individual provider calls.
// Retry is always local to the failing call; stages are never retried whole.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy returns the policy used by all stages unless overridden
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     8 * time.Second,
	}
}

// Do invokes fn until it succeeds, returns a permanent failure, or the
// attempt budget is spent. The last error is returned on exhaustion.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = p.InitialInterval
	bo.MaxInterval = p.MaxInterval
	bo.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	attempts := uint64(1)
	if p.MaxAttempts > 1 {
		attempts = uint64(p.MaxAttempts)
	}

	wrapped := func() error {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !provider.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	return backoff.Retry(wrapped, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
}
