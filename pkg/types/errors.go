// Package types defines error types
package types

import (
	"errors"
	"fmt"
)

// Predefined errors
var (
	// ErrInvalidConfig indicates a configuration value failed validation
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnknownOperation indicates an override names an operation outside the catalog
	ErrUnknownOperation = errors.New("unknown operation")

	// ErrServiceDisabled indicates the service was switched off in configuration
	ErrServiceDisabled = errors.New("service is disabled")

	// ErrInvalidCredentials indicates service-specific credentials could not be used
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ConfigError represents an error tied to one configuration field
type ConfigError struct {
	// Field is the dotted path of the offending field, e.g. "asset-service.retry.max-attempts"
	Field string

	// Value is the rejected value
	Value interface{}

	// Cause is the underlying error
	Cause error

	// Context contains error context information
	Context map[string]interface{}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("config error in field %s: %v", e.Field, e.Cause)
	}
	return fmt.Sprintf("config error in field %s (value %v): %v", e.Field, e.Value, e.Cause)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is checks if the error is a specific error
func (e *ConfigError) Is(target error) bool {
	return errors.Is(e.Cause, target)
}

// NewConfigError creates a new configuration error
func NewConfigError(field string, value interface{}, cause error) *ConfigError {
	return &ConfigError{
		Field:   field,
		Value:   value,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// WithContext adds error context
func (e *ConfigError) WithContext(key string, value interface{}) *ConfigError {
	e.Context[key] = value
	return e
}

// IsConfigError reports whether err carries a ConfigError and returns it
func IsConfigError(err error) (*ConfigError, bool) {
	var cfgErr *ConfigError
	if errors.As(err, &cfgErr) {
		return cfgErr, true
	}
	return nil, false
}
