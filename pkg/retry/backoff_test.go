package retry

import (
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		name         string
		initialDelay time.Duration
		multiplier   float64
		maxDelay     time.Duration
		attempt      int
		wantDelay    time.Duration
	}{
		{
			name:         "first attempt",
			initialDelay: 100 * time.Millisecond,
			multiplier:   2.0,
			maxDelay:     time.Second,
			attempt:      1,
			wantDelay:    100 * time.Millisecond,
		},
		{
			name:         "third attempt",
			initialDelay: 100 * time.Millisecond,
			multiplier:   2.0,
			maxDelay:     time.Second,
			attempt:      3,
			wantDelay:    400 * time.Millisecond,
		},
		{
			name:         "capped at max delay",
			initialDelay: 100 * time.Millisecond,
			multiplier:   2.0,
			maxDelay:     time.Second,
			attempt:      10,
			wantDelay:    time.Second,
		},
		{
			name:         "zero attempt treated as first",
			initialDelay: 100 * time.Millisecond,
			multiplier:   2.0,
			maxDelay:     time.Second,
			attempt:      0,
			wantDelay:    100 * time.Millisecond,
		},
		{
			name:         "huge attempt does not overflow",
			initialDelay: time.Second,
			multiplier:   10,
			maxDelay:     time.Minute,
			attempt:      500,
			wantDelay:    time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewExponentialBackoff(tt.initialDelay,
				WithBackoffMultiplier(tt.multiplier),
				WithBackoffMaxDelay(tt.maxDelay))

			delay := b.NextDelay(tt.attempt)
			if delay != tt.wantDelay {
				t.Errorf("NextDelay() = %v, want %v", delay, tt.wantDelay)
			}
		})
	}
}

func TestExponentialBackoff_Defaults(t *testing.T) {
	b := NewExponentialBackoff(time.Second)

	if got := b.NextDelay(2); got != 2*time.Second {
		t.Errorf("NextDelay(2) = %v, want %v", got, 2*time.Second)
	}
	if got := b.NextDelay(20); got != DefaultMaxDelay {
		t.Errorf("NextDelay(20) = %v, want %v", got, DefaultMaxDelay)
	}
}

func TestPolicySchedule(t *testing.T) {
	tests := []struct {
		name   string
		policy Policy
		n      int
		want   []time.Duration
	}{
		{
			name: "uses policy backoff fields",
			policy: Policy{
				InitialRetryDelay:    Duration(100 * time.Millisecond),
				RetryDelayMultiplier: Float(1.5),
				MaxRetryDelay:        Duration(200 * time.Millisecond),
			},
			n:    3,
			want: []time.Duration{100 * time.Millisecond, 150 * time.Millisecond, 200 * time.Millisecond},
		},
		{
			name:   "limited by max attempts",
			policy: Policy{InitialRetryDelay: Duration(10 * time.Millisecond), MaxAttempts: Int(2)},
			n:      5,
			want:   []time.Duration{10 * time.Millisecond},
		},
		{
			name:   "single attempt has no retries",
			policy: Policy{MaxAttempts: Int(1)},
			n:      5,
			want:   nil,
		},
		{
			name:   "unset fields fall back to defaults",
			policy: Policy{},
			n:      2,
			want:   []time.Duration{time.Second, 2 * time.Second},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.policy.Schedule(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("Schedule(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Schedule(%d)[%d] = %v, want %v", tt.n, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPolicyRPCTimeoutBackoff(t *testing.T) {
	p := Policy{
		InitialRPCTimeout:    Duration(5 * time.Second),
		RPCTimeoutMultiplier: Float(1.0),
		MaxRPCTimeout:        Duration(5 * time.Second),
	}

	b := p.RPCTimeoutBackoff()
	for attempt := 1; attempt <= 3; attempt++ {
		if got := b.NextDelay(attempt); got != 5*time.Second {
			t.Errorf("NextDelay(%d) = %v, want 5s", attempt, got)
		}
	}
}
