package config

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jzx17/assetsettings/pkg/asset"
	"github.com/jzx17/assetsettings/pkg/retry"
	"github.com/jzx17/assetsettings/pkg/types"
)

const root = "asset-service"

// Validate checks properties against the operation catalog.
// Every problem is reported; the result unwraps to each ConfigError.
func Validate(props asset.Properties, catalog retry.Catalog) error {
	var errs []error

	if props.ExecutorThreadCount != nil && *props.ExecutorThreadCount <= 0 {
		errs = append(errs, invalid(root+".executor-thread-count", *props.ExecutorThreadCount, "must be positive"))
	}

	if props.Credentials.Location != "" && props.Credentials.EncodedKey != "" {
		errs = append(errs, types.NewConfigError(root+".credentials", nil,
			fmt.Errorf("%w: location and encoded-key are mutually exclusive", types.ErrInvalidCredentials)))
	}

	if props.Retry != nil {
		errs = append(errs, validatePolicy(root+".retry", props.Retry)...)
	}

	operations := make([]string, 0, len(props.MethodRetry))
	for operation := range props.MethodRetry {
		operations = append(operations, operation)
	}
	sort.Strings(operations)

	for _, operation := range operations {
		field := root + ".method-retry." + operation
		if _, ok := catalog.Lookup(operation); !ok {
			errs = append(errs, types.NewConfigError(field, nil, types.ErrUnknownOperation))
			continue
		}
		if policy := props.MethodRetry[operation]; policy != nil {
			errs = append(errs, validatePolicy(field, policy)...)
		}
	}

	return errors.Join(errs...)
}

func validatePolicy(prefix string, p *retry.Policy) []error {
	var errs []error
	field := func(f retry.Field) string { return prefix + "." + string(f) }

	durations := []struct {
		name  retry.Field
		value *time.Duration
	}{
		{retry.FieldInitialRetryDelay, p.InitialRetryDelay},
		{retry.FieldMaxRetryDelay, p.MaxRetryDelay},
		{retry.FieldInitialRPCTimeout, p.InitialRPCTimeout},
		{retry.FieldMaxRPCTimeout, p.MaxRPCTimeout},
		{retry.FieldTotalTimeout, p.TotalTimeout},
	}
	for _, d := range durations {
		if d.value != nil && *d.value < 0 {
			errs = append(errs, invalid(field(d.name), *d.value, "must not be negative"))
		}
	}

	multipliers := []struct {
		name  retry.Field
		value *float64
	}{
		{retry.FieldRetryDelayMultiplier, p.RetryDelayMultiplier},
		{retry.FieldRPCTimeoutMultiplier, p.RPCTimeoutMultiplier},
	}
	for _, m := range multipliers {
		if m.value != nil && *m.value <= 0 {
			errs = append(errs, invalid(field(m.name), *m.value, "must be positive"))
		}
	}

	if p.MaxAttempts != nil && *p.MaxAttempts < 0 {
		errs = append(errs, invalid(field(retry.FieldMaxAttempts), *p.MaxAttempts, "must not be negative"))
	}

	if exceeds(p.InitialRetryDelay, p.MaxRetryDelay) {
		errs = append(errs, invalid(field(retry.FieldInitialRetryDelay), *p.InitialRetryDelay,
			"exceeds "+string(retry.FieldMaxRetryDelay)))
	}
	if exceeds(p.InitialRPCTimeout, p.MaxRPCTimeout) {
		errs = append(errs, invalid(field(retry.FieldInitialRPCTimeout), *p.InitialRPCTimeout,
			"exceeds "+string(retry.FieldMaxRPCTimeout)))
	}

	return errs
}

// exceeds reports initial > max when both are set in the same block
func exceeds(initial, maxValue *time.Duration) bool {
	return initial != nil && maxValue != nil && *initial > *maxValue
}

func invalid(field string, value interface{}, reason string) *types.ConfigError {
	return types.NewConfigError(field, value, fmt.Errorf("%w: %s", types.ErrInvalidConfig, reason))
}
