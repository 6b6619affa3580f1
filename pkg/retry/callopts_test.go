package retry

import (
	"errors"
	"testing"
	"time"

	"github.com/googleapis/gax-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func callSettings(opts []gax.CallOption) gax.CallSettings {
	var s gax.CallSettings
	for _, o := range opts {
		o.Resolve(&s)
	}
	return s
}

func TestPolicyRetries(t *testing.T) {
	assert.False(t, Policy{}.Retries())
	assert.False(t, Policy{RetryableCodes: Codes{}}.Retries())
	assert.False(t, Policy{RetryableCodes: Codes{codes.Unavailable}, MaxAttempts: Int(1)}.Retries())
	assert.True(t, Policy{RetryableCodes: Codes{codes.Unavailable}}.Retries())
	assert.True(t, Policy{RetryableCodes: Codes{codes.Unavailable}, MaxAttempts: Int(0)}.Retries())
}

func TestPolicyGaxBackoff(t *testing.T) {
	p := Policy{
		InitialRetryDelay:    Duration(100 * time.Millisecond),
		RetryDelayMultiplier: Float(1.3),
		MaxRetryDelay:        Duration(time.Minute),
	}
	b := p.GaxBackoff()
	assert.Equal(t, 100*time.Millisecond, b.Initial)
	assert.Equal(t, 1.3, b.Multiplier)
	assert.Equal(t, time.Minute, b.Max)

	zero := Policy{}.GaxBackoff()
	assert.Zero(t, zero.Initial)
	assert.Zero(t, zero.Max)
}

func TestPolicyCallOptions_NoRetry(t *testing.T) {
	assert.Empty(t, Policy{}.CallOptions())

	opts := Policy{TotalTimeout: Duration(time.Minute)}.CallOptions()
	require.Len(t, opts, 1)
	assert.Nil(t, callSettings(opts).Retry)
}

func TestPolicyCallOptions_Retryer(t *testing.T) {
	p := Policy{
		InitialRetryDelay:    Duration(100 * time.Millisecond),
		RetryDelayMultiplier: Float(1.3),
		MaxRetryDelay:        Duration(time.Second),
		TotalTimeout:         Duration(time.Minute),
		MaxAttempts:          Int(3),
		RetryableCodes:       Codes{codes.Unavailable, codes.DeadlineExceeded},
	}

	opts := p.CallOptions()
	require.Len(t, opts, 2)

	settings := callSettings(opts)
	require.NotNil(t, settings.Retry)

	retryer := settings.Retry()
	unavailable := status.Error(codes.Unavailable, "try again")

	pause, ok := retryer.Retry(unavailable)
	assert.True(t, ok, "first failure should be retried")
	assert.LessOrEqual(t, pause, 100*time.Millisecond)

	_, ok = retryer.Retry(unavailable)
	assert.True(t, ok, "second failure should be retried")

	_, ok = retryer.Retry(unavailable)
	assert.False(t, ok, "third attempt exhausts max-attempts")

	fresh := settings.Retry()
	_, ok = fresh.Retry(status.Error(codes.InvalidArgument, "bad"))
	assert.False(t, ok, "non-retryable code")

	_, ok = fresh.Retry(errors.New("not a status error"))
	assert.False(t, ok, "plain errors map to Unknown and are not retried")
}

func TestPolicyCallOptions_UnlimitedAttempts(t *testing.T) {
	p := Policy{MaxAttempts: Int(0), RetryableCodes: Codes{codes.Unavailable}}
	retryer := callSettings(p.CallOptions()).Retry()

	for i := 0; i < 20; i++ {
		_, ok := retryer.Retry(status.Error(codes.Unavailable, "again"))
		require.True(t, ok, "attempt %d", i+1)
	}
}
