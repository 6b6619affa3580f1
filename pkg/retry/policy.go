// Package retry provides retry policy values and the layered resolver
package retry

import (
	"strconv"
	"time"
)

// Policy holds the retry, backoff and timeout parameters for one remote operation.
// Every field is optional: a nil field means "inherit from the tier below".
// A Policy is treated as an immutable value; all functions in this package
// return fresh copies instead of writing through the pointers they receive.
type Policy struct {
	InitialRetryDelay    *time.Duration `yaml:"initial-retry-delay,omitempty"`
	RetryDelayMultiplier *float64       `yaml:"retry-delay-multiplier,omitempty"`
	MaxRetryDelay        *time.Duration `yaml:"max-retry-delay,omitempty"`
	InitialRPCTimeout    *time.Duration `yaml:"initial-rpc-timeout,omitempty"`
	RPCTimeoutMultiplier *float64       `yaml:"rpc-timeout-multiplier,omitempty"`
	MaxRPCTimeout        *time.Duration `yaml:"max-rpc-timeout,omitempty"`
	TotalTimeout         *time.Duration `yaml:"total-timeout,omitempty"`
	// MaxAttempts counts the first call; 0 means no attempt limit (bounded by TotalTimeout).
	MaxAttempts *int `yaml:"max-attempts,omitempty"`
	// RetryableCodes is nil when inherited; an empty non-nil set retries nothing.
	RetryableCodes Codes `yaml:"retryable-codes,omitempty"`
}

// Field names one Policy parameter, using the configuration key spelling
type Field string

const (
	FieldInitialRetryDelay    Field = "initial-retry-delay"
	FieldRetryDelayMultiplier Field = "retry-delay-multiplier"
	FieldMaxRetryDelay        Field = "max-retry-delay"
	FieldInitialRPCTimeout    Field = "initial-rpc-timeout"
	FieldRPCTimeoutMultiplier Field = "rpc-timeout-multiplier"
	FieldMaxRPCTimeout        Field = "max-rpc-timeout"
	FieldTotalTimeout         Field = "total-timeout"
	FieldMaxAttempts          Field = "max-attempts"
	FieldRetryableCodes       Field = "retryable-codes"
)

// fieldSpec binds a Field to its accessors
type fieldSpec struct {
	name   Field
	isSet  func(p *Policy) bool
	copy   func(dst, src *Policy)
	format func(p *Policy) string
}

var fieldSpecs = []fieldSpec{
	{
		name:   FieldInitialRetryDelay,
		isSet:  func(p *Policy) bool { return p.InitialRetryDelay != nil },
		copy:   func(dst, src *Policy) { dst.InitialRetryDelay = clonePtr(src.InitialRetryDelay) },
		format: func(p *Policy) string { return p.InitialRetryDelay.String() },
	},
	{
		name:   FieldRetryDelayMultiplier,
		isSet:  func(p *Policy) bool { return p.RetryDelayMultiplier != nil },
		copy:   func(dst, src *Policy) { dst.RetryDelayMultiplier = clonePtr(src.RetryDelayMultiplier) },
		format: func(p *Policy) string { return formatFloat(*p.RetryDelayMultiplier) },
	},
	{
		name:   FieldMaxRetryDelay,
		isSet:  func(p *Policy) bool { return p.MaxRetryDelay != nil },
		copy:   func(dst, src *Policy) { dst.MaxRetryDelay = clonePtr(src.MaxRetryDelay) },
		format: func(p *Policy) string { return p.MaxRetryDelay.String() },
	},
	{
		name:   FieldInitialRPCTimeout,
		isSet:  func(p *Policy) bool { return p.InitialRPCTimeout != nil },
		copy:   func(dst, src *Policy) { dst.InitialRPCTimeout = clonePtr(src.InitialRPCTimeout) },
		format: func(p *Policy) string { return p.InitialRPCTimeout.String() },
	},
	{
		name:   FieldRPCTimeoutMultiplier,
		isSet:  func(p *Policy) bool { return p.RPCTimeoutMultiplier != nil },
		copy:   func(dst, src *Policy) { dst.RPCTimeoutMultiplier = clonePtr(src.RPCTimeoutMultiplier) },
		format: func(p *Policy) string { return formatFloat(*p.RPCTimeoutMultiplier) },
	},
	{
		name:   FieldMaxRPCTimeout,
		isSet:  func(p *Policy) bool { return p.MaxRPCTimeout != nil },
		copy:   func(dst, src *Policy) { dst.MaxRPCTimeout = clonePtr(src.MaxRPCTimeout) },
		format: func(p *Policy) string { return p.MaxRPCTimeout.String() },
	},
	{
		name:   FieldTotalTimeout,
		isSet:  func(p *Policy) bool { return p.TotalTimeout != nil },
		copy:   func(dst, src *Policy) { dst.TotalTimeout = clonePtr(src.TotalTimeout) },
		format: func(p *Policy) string { return p.TotalTimeout.String() },
	},
	{
		name:   FieldMaxAttempts,
		isSet:  func(p *Policy) bool { return p.MaxAttempts != nil },
		copy:   func(dst, src *Policy) { dst.MaxAttempts = clonePtr(src.MaxAttempts) },
		format: func(p *Policy) string { return strconv.Itoa(*p.MaxAttempts) },
	},
	{
		name:   FieldRetryableCodes,
		isSet:  func(p *Policy) bool { return p.RetryableCodes != nil },
		copy:   func(dst, src *Policy) { dst.RetryableCodes = src.RetryableCodes.Clone() },
		format: func(p *Policy) string { return p.RetryableCodes.String() },
	},
}

// Fields returns every Field in declaration order
func Fields() []Field {
	out := make([]Field, len(fieldSpecs))
	for i, fs := range fieldSpecs {
		out[i] = fs.name
	}
	return out
}

// FieldValue is a set field rendered for display
type FieldValue struct {
	Field Field
	Value string
}

// Clone returns a deep copy of the policy
func (p Policy) Clone() Policy {
	var out Policy
	out.overlay(&p)
	return out
}

// IsZero reports whether no field is set
func (p Policy) IsZero() bool {
	return len(p.SetFields()) == 0
}

// SetFields returns the fields that carry a value, in declaration order
func (p Policy) SetFields() []Field {
	var set []Field
	for _, fs := range fieldSpecs {
		if fs.isSet(&p) {
			set = append(set, fs.name)
		}
	}
	return set
}

// Values renders the set fields for display
func (p Policy) Values() []FieldValue {
	var values []FieldValue
	for _, fs := range fieldSpecs {
		if fs.isSet(&p) {
			values = append(values, FieldValue{Field: fs.name, Value: fs.format(&p)})
		}
	}
	return values
}

// overlay copies every field set in src onto p and reports which fields it wrote.
// Fields absent in src are left untouched.
func (p *Policy) overlay(src *Policy) []Field {
	if src == nil {
		return nil
	}
	var written []Field
	for _, fs := range fieldSpecs {
		if fs.isSet(src) {
			fs.copy(p, src)
			written = append(written, fs.name)
		}
	}
	return written
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Duration returns a pointer to d, for building policies in code
func Duration(d time.Duration) *time.Duration {
	return &d
}

// Float returns a pointer to f
func Float(f float64) *float64 {
	return &f
}

// Int returns a pointer to i
func Int(i int) *int {
	return &i
}
