// Package retry provides backoff algorithm implementations
package retry

import (
	"math"
	"time"
)

// Defaults applied when a policy leaves a backoff parameter unset.
// They match gax.Backoff's zero-value behaviour.
const (
	DefaultInitialDelay = time.Second
	DefaultMaxDelay     = 30 * time.Second
	DefaultMultiplier   = 2.0
)

// ExponentialBackoff implements exponential backoff strategy
type ExponentialBackoff struct {
	initialDelay time.Duration
	multiplier   float64
	maxDelay     time.Duration
}

// NewExponentialBackoff creates an exponential backoff strategy
func NewExponentialBackoff(initialDelay time.Duration, opts ...BackoffStrategyOption) *ExponentialBackoff {
	b := &ExponentialBackoff{
		initialDelay: initialDelay,
		multiplier:   DefaultMultiplier,
		maxDelay:     DefaultMaxDelay,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// NextDelay calculates the delay for the next retry
func (b *ExponentialBackoff) NextDelay(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}

	delay := float64(b.initialDelay) * math.Pow(b.multiplier, float64(attempt-1))

	// limit maximum delay (also guards against float overflow)
	if delay > float64(b.maxDelay) {
		return b.maxDelay
	}

	return time.Duration(delay)
}

// BackoffStrategyOption backoff strategy configuration option
type BackoffStrategyOption func(*ExponentialBackoff)

// WithBackoffMultiplier sets backoff multiplier
func WithBackoffMultiplier(multiplier float64) BackoffStrategyOption {
	return func(b *ExponentialBackoff) {
		b.multiplier = multiplier
	}
}

// WithBackoffMaxDelay sets maximum delay time
func WithBackoffMaxDelay(maxDelay time.Duration) BackoffStrategyOption {
	return func(b *ExponentialBackoff) {
		b.maxDelay = maxDelay
	}
}

// RetryBackoff builds the delay strategy described by the policy's retry-delay fields
func (p Policy) RetryBackoff() *ExponentialBackoff {
	return newBackoff(p.InitialRetryDelay, p.RetryDelayMultiplier, p.MaxRetryDelay)
}

// RPCTimeoutBackoff builds the per-attempt timeout progression described by the rpc-timeout fields
func (p Policy) RPCTimeoutBackoff() *ExponentialBackoff {
	return newBackoff(p.InitialRPCTimeout, p.RPCTimeoutMultiplier, p.MaxRPCTimeout)
}

func newBackoff(initial *time.Duration, multiplier *float64, maxDelay *time.Duration) *ExponentialBackoff {
	start := DefaultInitialDelay
	if initial != nil {
		start = *initial
	}
	var opts []BackoffStrategyOption
	if multiplier != nil {
		opts = append(opts, WithBackoffMultiplier(*multiplier))
	}
	if maxDelay != nil {
		opts = append(opts, WithBackoffMaxDelay(*maxDelay))
	}
	return NewExponentialBackoff(start, opts...)
}

// Schedule returns the delays before each of the first n retries, without jitter.
// It stops early when the policy's attempt limit leaves fewer retries.
func (p Policy) Schedule(n int) []time.Duration {
	if p.MaxAttempts != nil && *p.MaxAttempts > 0 && n > *p.MaxAttempts-1 {
		n = *p.MaxAttempts - 1
	}
	if n <= 0 {
		return nil
	}

	backoff := p.RetryBackoff()
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = backoff.NextDelay(i + 1)
	}
	return delays
}
