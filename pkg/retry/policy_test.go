package retry

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		def       Policy
		service   *Policy
		operation *Policy
		want      Policy
	}{
		{
			name: "no overrides returns default",
			def:  Policy{TotalTimeout: Duration(60 * time.Second)},
			want: Policy{TotalTimeout: Duration(60 * time.Second)},
		},
		{
			name:      "operation wins over service which wins over default",
			def:       Policy{MaxAttempts: Int(3), InitialRetryDelay: Duration(100 * time.Millisecond)},
			service:   &Policy{MaxAttempts: Int(5)},
			operation: &Policy{InitialRetryDelay: Duration(50 * time.Millisecond)},
			want:      Policy{MaxAttempts: Int(5), InitialRetryDelay: Duration(50 * time.Millisecond)},
		},
		{
			name:      "operation overrides the same field set by service",
			def:       Policy{MaxAttempts: Int(3)},
			service:   &Policy{MaxAttempts: Int(5)},
			operation: &Policy{MaxAttempts: Int(7)},
			want:      Policy{MaxAttempts: Int(7)},
		},
		{
			name:    "service fields unset keep default values",
			def:     Policy{MaxAttempts: Int(3), TotalTimeout: Duration(time.Minute), RetryDelayMultiplier: Float(1.3)},
			service: &Policy{TotalTimeout: Duration(10 * time.Second)},
			want:    Policy{MaxAttempts: Int(3), TotalTimeout: Duration(10 * time.Second), RetryDelayMultiplier: Float(1.3)},
		},
		{
			name:      "explicit zero values are authoritative",
			def:       Policy{MaxAttempts: Int(3), TotalTimeout: Duration(time.Minute)},
			operation: &Policy{MaxAttempts: Int(0), TotalTimeout: Duration(0)},
			want:      Policy{MaxAttempts: Int(0), TotalTimeout: Duration(0)},
		},
		{
			name:      "empty code set overrides inherited codes",
			def:       Policy{RetryableCodes: Codes{codes.Unavailable}},
			operation: &Policy{RetryableCodes: Codes{}},
			want:      Policy{RetryableCodes: Codes{}},
		},
		{
			name:    "override adds fields absent from default",
			def:     Policy{},
			service: &Policy{MaxRPCTimeout: Duration(5 * time.Second), RPCTimeoutMultiplier: Float(1.5)},
			want:    Policy{MaxRPCTimeout: Duration(5 * time.Second), RPCTimeoutMultiplier: Float(1.5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.def, tt.service, tt.operation)
			assert.Empty(t, cmp.Diff(tt.want, got), "Resolve")
		})
	}
}

func TestResolve_DoesNotMutateInputs(t *testing.T) {
	def := Policy{MaxAttempts: Int(3), RetryableCodes: Codes{codes.Unavailable}}
	service := &Policy{TotalTimeout: Duration(time.Minute)}
	operation := &Policy{MaxAttempts: Int(9)}

	defBefore := def.Clone()
	serviceBefore := service.Clone()
	operationBefore := operation.Clone()

	got := Resolve(def, service, operation)

	// writing through the result must not reach the inputs
	*got.MaxAttempts = 42
	*got.TotalTimeout = time.Hour
	got.RetryableCodes[0] = codes.Internal

	assert.Empty(t, cmp.Diff(defBefore, def), "default mutated")
	assert.Empty(t, cmp.Diff(serviceBefore, *service), "service override mutated")
	assert.Empty(t, cmp.Diff(operationBefore, *operation), "operation override mutated")
}

func TestResolve_Idempotent(t *testing.T) {
	def := Policy{MaxAttempts: Int(3), InitialRetryDelay: Duration(100 * time.Millisecond)}
	service := &Policy{MaxAttempts: Int(5), RetryableCodes: Codes{codes.Unavailable}}
	operation := &Policy{InitialRetryDelay: Duration(50 * time.Millisecond)}

	first := Resolve(def, service, operation)
	second := Resolve(def, service, operation)
	again := Resolve(first, nil, nil)

	assert.Empty(t, cmp.Diff(first, second), "repeated Resolve")
	assert.Empty(t, cmp.Diff(first, again), "re-resolving a resolved policy changed it")
}

func TestResolveWithProvenance(t *testing.T) {
	def := Policy{MaxAttempts: Int(3), InitialRetryDelay: Duration(100 * time.Millisecond), TotalTimeout: Duration(time.Minute)}
	service := &Policy{MaxAttempts: Int(5)}
	operation := &Policy{InitialRetryDelay: Duration(50 * time.Millisecond)}

	_, provenance := ResolveWithProvenance(def, service, operation)

	want := Provenance{
		FieldMaxAttempts:       TierService,
		FieldInitialRetryDelay: TierOperation,
		FieldTotalTimeout:      TierDefault,
	}
	assert.Empty(t, cmp.Diff(want, provenance), "provenance mismatch")

	assert.Equal(t, 1, provenance.Count(TierService))
}

func TestPolicySetFieldsAndValues(t *testing.T) {
	p := Policy{
		RetryDelayMultiplier: Float(1.3),
		MaxAttempts:          Int(4),
		RetryableCodes:       Codes{codes.DeadlineExceeded, codes.Unavailable},
	}

	wantFields := []Field{FieldRetryDelayMultiplier, FieldMaxAttempts, FieldRetryableCodes}
	assert.Empty(t, cmp.Diff(wantFields, p.SetFields()), "SetFields")

	wantValues := []FieldValue{
		{Field: FieldRetryDelayMultiplier, Value: "1.3"},
		{Field: FieldMaxAttempts, Value: "4"},
		{Field: FieldRetryableCodes, Value: "[DEADLINE_EXCEEDED,UNAVAILABLE]"},
	}
	assert.Empty(t, cmp.Diff(wantValues, p.Values()), "Values")

	assert.False(t, p.IsZero())
	assert.True(t, Policy{}.IsZero())
}

func TestFields(t *testing.T) {
	fields := Fields()
	require.Len(t, fields, 9)
	assert.Equal(t, FieldInitialRetryDelay, fields[0])
	assert.Equal(t, FieldRetryableCodes, fields[8])
}
