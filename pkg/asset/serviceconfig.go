package asset

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/jzx17/assetsettings/pkg/retry"
)

// https://github.com/grpc/proposal/blob/master/A6-client-retries.md

// grpcMaxAttempts is the ceiling gRPC applies to retryPolicy.maxAttempts
const grpcMaxAttempts = 5

// ServiceConfig is the gRPC service config document
type ServiceConfig struct {
	MethodConfig []MethodConfig `json:"methodConfig"`
}

// MethodName selects one method of a service
type MethodName struct {
	Service string `json:"service"`
	Method  string `json:"method,omitempty"`
}

// MethodConfig is the per-method section of a service config
type MethodConfig struct {
	Name        []MethodName     `json:"name"`
	Timeout     string           `json:"timeout,omitempty"`
	RetryPolicy *GRPCRetryPolicy `json:"retryPolicy,omitempty"`
}

// GRPCRetryPolicy is gRPC's transparent retry policy
type GRPCRetryPolicy struct {
	MaxAttempts          int      `json:"maxAttempts"`
	InitialBackoff       string   `json:"initialBackoff"`
	MaxBackoff           string   `json:"maxBackoff"`
	BackoffMultiplier    float64  `json:"backoffMultiplier"`
	RetryableStatusCodes []string `json:"retryableStatusCodes"`
}

type serviceConfigOptions struct {
	retryPolicies bool
}

// ServiceConfigOption is a configuration option for BuildServiceConfig
type ServiceConfigOption func(*serviceConfigOptions)

// WithRetryPolicies adds a gRPC retryPolicy to each retrying method.
// Only for plain stubs that do not retry through gax: a caller that also
// applies Settings.CallOptions would run both retry loops nested.
func WithRetryPolicies() ServiceConfigOption {
	return func(o *serviceConfigOptions) {
		o.retryPolicies = true
	}
}

// BuildServiceConfig renders resolved policies as a gRPC service config, one
// method config per operation in catalog order. By default only per-method
// timeouts are emitted and retrying is left to gax. Operations with nothing
// to configure are omitted.
func BuildServiceConfig(policies *retry.ResolvedSet, opts ...ServiceConfigOption) ServiceConfig {
	var o serviceConfigOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := ServiceConfig{MethodConfig: []MethodConfig{}}
	for _, resolved := range policies.All() {
		mc := MethodConfig{
			Name:    []MethodName{{Service: ServiceName, Method: RPCMethod(resolved.Operation)}},
			Timeout: methodTimeout(resolved.Policy),
		}
		if o.retryPolicies {
			mc.RetryPolicy = grpcRetryPolicy(resolved.Policy)
		}
		if mc.Timeout == "" && mc.RetryPolicy == nil {
			continue
		}
		cfg.MethodConfig = append(cfg.MethodConfig, mc)
	}
	return cfg
}

// JSON encodes the service config for grpc.WithDefaultServiceConfig
func (c ServiceConfig) JSON() (string, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func methodTimeout(p retry.Policy) string {
	switch {
	case p.TotalTimeout != nil && *p.TotalTimeout > 0:
		return protoDuration(*p.TotalTimeout)
	case p.InitialRPCTimeout != nil && *p.InitialRPCTimeout > 0:
		return protoDuration(*p.InitialRPCTimeout)
	default:
		return ""
	}
}

// grpcRetryPolicy returns nil when gRPC would reject the policy (no codes or a single attempt)
func grpcRetryPolicy(p retry.Policy) *GRPCRetryPolicy {
	if !p.Retries() {
		return nil
	}

	attempts := grpcMaxAttempts
	if p.MaxAttempts != nil && *p.MaxAttempts > 1 && *p.MaxAttempts < grpcMaxAttempts {
		attempts = *p.MaxAttempts
	}

	initial := positiveOr(p.InitialRetryDelay, retry.DefaultInitialDelay)
	maxBackoff := positiveOr(p.MaxRetryDelay, retry.DefaultMaxDelay)
	multiplier := retry.DefaultMultiplier
	if p.RetryDelayMultiplier != nil && *p.RetryDelayMultiplier > 0 {
		multiplier = *p.RetryDelayMultiplier
	}

	return &GRPCRetryPolicy{
		MaxAttempts:          attempts,
		InitialBackoff:       protoDuration(initial),
		MaxBackoff:           protoDuration(maxBackoff),
		BackoffMultiplier:    multiplier,
		RetryableStatusCodes: p.RetryableCodes.Names(),
	}
}

func positiveOr(d *time.Duration, fallback time.Duration) time.Duration {
	if d != nil && *d > 0 {
		return *d
	}
	return fallback
}

// protoDuration formats d in the JSON encoding of google.protobuf.Duration
func protoDuration(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64) + "s"
}
