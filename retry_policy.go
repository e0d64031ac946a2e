package elastictiny

import (
	"time"

	internalbackoff "github.com/beowulf11/elastic-tiny-client/internal/backoff"
)

// RetryPolicy decides whether a failed attempt should be retried and how
// long to wait before the next one. The dispatcher enforces the attempt
// budget; the policy only classifies the failure.
type RetryPolicy interface {
	// ShouldRetry receives the HTTP status of the failed attempt (0 for a
	// transport failure), the recorded error and the zero-based attempt
	// number.
	ShouldRetry(statusCode int, err error, attempt int) (time.Duration, bool)
}

// ImmediateRetryPolicy retries every failure with no delay, mirroring the
// dispatcher's historical behavior: transient and permanent failures are
// treated alike and the attempt budget is the only limit.
type ImmediateRetryPolicy struct{}

// NewImmediateRetryPolicy returns the default retry policy.
func NewImmediateRetryPolicy() ImmediateRetryPolicy {
	return ImmediateRetryPolicy{}
}

// ShouldRetry implements the RetryPolicy interface.
func (ImmediateRetryPolicy) ShouldRetry(statusCode int, err error, attempt int) (time.Duration, bool) {
	return 0, true
}

// BackoffStrategy selects the delay calculation used by BackoffRetryPolicy.
type BackoffStrategy int

const (
	// ExponentialJitter applies exponential backoff with uniform jitter.
	ExponentialJitter BackoffStrategy = iota
	// DecorrelatedJitter applies decorrelated jitter per the AWS
	// architecture blog.
	DecorrelatedJitter
)

// BackoffRetryPolicy retries only transient failures (transport errors,
// 5xx, 429) with a growing delay between attempts.
type BackoffRetryPolicy struct {
	initialBackoff    time.Duration
	maxBackoff        time.Duration
	backoffMultiplier float64
	jitter            float64
	calculator        internalbackoff.Strategy
}

// NewBackoffRetryPolicy creates a transient-aware policy with exponential
// jitter backoff.
func NewBackoffRetryPolicy(initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) *BackoffRetryPolicy {
	return NewBackoffRetryPolicyWithStrategy(initialBackoff, maxBackoff, multiplier, jitter, ExponentialJitter)
}

// NewBackoffRetryPolicyWithStrategy creates a transient-aware policy with a
// specific backoff strategy.
func NewBackoffRetryPolicyWithStrategy(initialBackoff, maxBackoff time.Duration, multiplier, jitter float64, strategy BackoffStrategy) *BackoffRetryPolicy {
	policy := &BackoffRetryPolicy{
		initialBackoff:    initialBackoff,
		maxBackoff:        maxBackoff,
		backoffMultiplier: multiplier,
		jitter:            jitter,
	}

	switch strategy {
	case DecorrelatedJitter:
		policy.calculator = internalbackoff.DecorrelatedJitterStrategy{}
	default:
		policy.calculator = internalbackoff.ExponentialJitterStrategy{}
	}

	return policy
}

// ShouldRetry implements the RetryPolicy interface.
func (p *BackoffRetryPolicy) ShouldRetry(statusCode int, err error, attempt int) (time.Duration, bool) {
	transient := statusCode == 0 || statusCode == 429 || statusCode >= 500
	if !transient && !IsTransient(err) {
		return 0, false
	}

	delay := p.calculator.Calculate(attempt, p.initialBackoff, p.maxBackoff, p.backoffMultiplier, p.jitter)
	return delay, true
}
