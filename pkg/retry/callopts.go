package retry

import (
	"time"

	"github.com/googleapis/gax-go/v2"
	"google.golang.org/grpc/codes"
)

// Retries reports whether the policy allows any retry at all
func (p Policy) Retries() bool {
	if len(p.RetryableCodes) == 0 {
		return false
	}
	return p.MaxAttempts == nil || *p.MaxAttempts != 1
}

// GaxBackoff converts the retry-delay fields to gax's backoff parameters.
// Unset fields stay zero so gax applies its own defaults.
func (p Policy) GaxBackoff() gax.Backoff {
	var b gax.Backoff
	if p.InitialRetryDelay != nil {
		b.Initial = *p.InitialRetryDelay
	}
	if p.MaxRetryDelay != nil {
		b.Max = *p.MaxRetryDelay
	}
	if p.RetryDelayMultiplier != nil {
		b.Multiplier = *p.RetryDelayMultiplier
	}
	return b
}

// CallOptions converts the policy into gax call options for a generated client.
// The retry loop itself is run by gax.Invoke; this only supplies its parameters.
func (p Policy) CallOptions() []gax.CallOption {
	var opts []gax.CallOption

	if p.Retries() {
		retryable := append([]codes.Code(nil), p.RetryableCodes...)
		backoff := p.GaxBackoff()
		maxAttempts := 0
		if p.MaxAttempts != nil {
			maxAttempts = *p.MaxAttempts
		}
		opts = append(opts, gax.WithRetry(func() gax.Retryer {
			return &attemptLimitedRetryer{
				retryer:     gax.OnCodes(retryable, backoff),
				maxAttempts: maxAttempts,
			}
		}))
	}

	if p.TotalTimeout != nil && *p.TotalTimeout > 0 {
		opts = append(opts, gax.WithTimeout(*p.TotalTimeout))
	}

	return opts
}

// attemptLimitedRetryer stops an OnCodes retryer once maxAttempts calls were made.
// A fresh instance is created for every call, so it keeps no shared state.
type attemptLimitedRetryer struct {
	retryer     gax.Retryer
	maxAttempts int
	attempts    int
}

// Retry implements gax.Retryer
func (r *attemptLimitedRetryer) Retry(err error) (time.Duration, bool) {
	r.attempts++
	if r.maxAttempts > 0 && r.attempts >= r.maxAttempts {
		return 0, false
	}
	return r.retryer.Retry(err)
}
