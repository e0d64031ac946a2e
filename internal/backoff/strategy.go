// Package backoff provides the delay calculations used by the client's
// transient-aware retry policy.
package backoff

import (
	"math/rand"
	"time"
)

// Strategy is a backoff delay calculation.
type Strategy interface {
	// Calculate returns the delay before the attempt following the given
	// zero-based attempt number.
	Calculate(attempt int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) time.Duration
}

// ExponentialJitterStrategy grows the delay exponentially and adds uniform
// jitter proportional to the computed delay.
type ExponentialJitterStrategy struct{}

// Calculate implements the Strategy interface.
func (ExponentialJitterStrategy) Calculate(attempt int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	// Cap the exponent to avoid overflow.
	if attempt > 30 {
		attempt = 30
	}

	delay := time.Duration(float64(initialBackoff) * Pow(multiplier, attempt))
	if delay < 0 || delay > maxBackoff {
		delay = maxBackoff
	}

	jitter = clampJitter(jitter)
	if jitter > 0 {
		amount := time.Duration(float64(delay) * jitter * rand.Float64())
		if delay+amount > maxBackoff {
			delay = maxBackoff
		} else {
			delay += amount
		}
	}
	return delay
}

// DecorrelatedJitterStrategy implements decorrelated jitter as described in
// the AWS architecture blog. Stateless approximation: the upper bound for
// attempt n is base * 3^n capped at maxBackoff.
type DecorrelatedJitterStrategy struct{}

// Calculate implements the Strategy interface.
func (DecorrelatedJitterStrategy) Calculate(attempt int, initialBackoff, maxBackoff time.Duration, multiplier, jitter float64) time.Duration {
	if attempt <= 0 {
		return initialBackoff
	}
	if attempt > 10 {
		attempt = 10
	}

	base := float64(initialBackoff)
	upper := base * Pow(3.0, attempt)

	maxBackoffFloat := float64(maxBackoff)
	if upper > maxBackoffFloat || upper < 0 {
		upper = maxBackoffFloat
	}
	if upper < base {
		upper = base
	}

	delay := time.Duration(base + rand.Float64()*(upper-base))
	if delay < 0 || delay > maxBackoff {
		delay = maxBackoff
	}
	return delay
}

func clampJitter(jitter float64) float64 {
	if jitter < 0 {
		return 0
	}
	if jitter > 1 {
		return 1
	}
	return jitter
}

// Pow computes base^exponent by repeated multiplication.
func Pow(base float64, exponent int) float64 {
	result := 1.0
	for i := 0; i < exponent; i++ {
		result *= base
	}
	return result
}
