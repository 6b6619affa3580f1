package asset

import (
	"fmt"

	"dario.cat/mergo"

	"github.com/jzx17/assetsettings/pkg/retry"
)

// Properties is the externalized configuration of the Cloud Asset client.
// Zero values mean "not supplied"; WithDefaults fills them in.
type Properties struct {
	// Enabled switches the whole client off when false; unset means enabled
	Enabled *bool `yaml:"enabled,omitempty"`

	// UseREST selects the HTTP/JSON transport instead of gRPC
	UseREST bool `yaml:"use-rest,omitempty"`

	Endpoint string `yaml:"endpoint,omitempty"`

	// QuotaProjectID overrides the project derived from credentials for quota and billing
	QuotaProjectID string `yaml:"quota-project-id,omitempty"`

	// ExecutorThreadCount sizes the gRPC connection pool
	ExecutorThreadCount *int `yaml:"executor-thread-count,omitempty"`

	Credentials CredentialsProperties `yaml:"credentials,omitempty"`

	// Retry is the service-wide retry override
	Retry *retry.Policy `yaml:"retry,omitempty"`

	// MethodRetry holds per-operation retry overrides keyed by operation name
	MethodRetry map[string]*retry.Policy `yaml:"method-retry,omitempty"`
}

// CredentialsProperties configures service-specific credentials
type CredentialsProperties struct {
	// Location is a path to a service account JSON key
	Location string `yaml:"location,omitempty"`

	// EncodedKey is a base64-encoded service account JSON key
	EncodedKey string `yaml:"encoded-key,omitempty"`

	Scopes []string `yaml:"scopes,omitempty"`
}

// HasKey reports whether service-specific key material was supplied
func (c CredentialsProperties) HasKey() bool {
	return c.Location != "" || c.EncodedKey != ""
}

// IsEnabled reports whether the client should be built
func (p Properties) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

func defaultProperties() Properties {
	enabled := true
	return Properties{
		Enabled:  &enabled,
		Endpoint: DefaultEndpoint,
		Credentials: CredentialsProperties{
			Scopes: append([]string(nil), DefaultScopes...),
		},
	}
}

// WithDefaults returns a copy of p with every unsupplied value taken from the defaults.
// Pointers are compared by presence, so an explicit "enabled: false" survives.
func (p Properties) WithDefaults() (Properties, error) {
	out := p
	if err := mergo.Merge(&out, defaultProperties(), mergo.WithoutDereference); err != nil {
		return Properties{}, fmt.Errorf("apply default properties: %w", err)
	}
	return out, nil
}

// Overrides converts the retry blocks into resolver overrides
func (p Properties) Overrides() retry.Overrides {
	overrides := make(retry.Overrides, len(p.MethodRetry)+1)
	if p.Retry != nil {
		overrides[retry.ServiceScope] = p.Retry
	}
	for operation, policy := range p.MethodRetry {
		if policy != nil && operation != retry.ServiceScope {
			overrides[operation] = policy
		}
	}
	return overrides
}
