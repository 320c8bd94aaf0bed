package retry

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy is the shared retry configuration for outbound calls. One policy
// replaces the previously ad-hoc backoff loops at every integration point.
type Policy struct {
	// MaxAttempts bounds total tries, including the first one.
	MaxAttempts uint
	// BaseDelay is the initial wait; each retry doubles it.
	BaseDelay time.Duration
	// MaxDelay caps the wait between attempts.
	MaxDelay time.Duration
	// Retryable decides whether an error is worth another attempt. A nil
	// predicate retries everything.
	Retryable func(error) bool
	// OnRetry is invoked before each wait, with the failing error and the
	// upcoming delay.
	OnRetry func(err error, next time.Duration)
}

// DefaultPolicy mirrors the marketplace client defaults: 3 attempts, 1s base,
// capped at 30s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    30 * time.Second,
	}
}

// Do runs op under the policy, returning the last result. Non-retryable
// errors are surfaced immediately.
func Do[T any](ctx context.Context, p Policy, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		result, err := op()
		if err == nil {
			return result, nil
		}
		if p.Retryable != nil && !p.Retryable(err) {
			return result, backoff.Permanent(err)
		}
		return result, err
	}

	expo := backoff.NewExponentialBackOff()
	expo.InitialInterval = p.baseDelay()
	expo.Multiplier = 2
	expo.MaxInterval = p.maxDelay()
	expo.RandomizationFactor = 0

	opts := []backoff.RetryOption{
		backoff.WithBackOff(expo),
		backoff.WithMaxTries(p.maxAttempts()),
	}
	if p.OnRetry != nil {
		opts = append(opts, backoff.WithNotify(func(err error, next time.Duration) {
			p.OnRetry(err, next)
		}))
	}

	return backoff.Retry(ctx, wrapped, opts...)
}

func (p Policy) baseDelay() time.Duration {
	if p.BaseDelay <= 0 {
		return time.Second
	}
	return p.BaseDelay
}

func (p Policy) maxDelay() time.Duration {
	if p.MaxDelay <= 0 {
		return 30 * time.Second
	}
	return p.MaxDelay
}

func (p Policy) maxAttempts() uint {
	if p.MaxAttempts == 0 {
		return 3
	}
	return p.MaxAttempts
}
