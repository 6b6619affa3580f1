package asset

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jzx17/assetsettings/pkg/retry"
	"github.com/jzx17/assetsettings/pkg/types"
)

// ClientFunc constructs the actual API client from finished settings,
// e.g. a thin wrapper around the generated client's NewClient.
type ClientFunc[C any] func(ctx context.Context, settings *Settings) (C, error)

// Registry holds the collaborators built during bootstrap.
// Everything is constructed once by Bootstrap and never modified afterwards.
type Registry[C any] struct {
	properties  Properties
	credentials CredentialsProvider
	transport   TransportProvider
	settings    *Settings
	client      C
}

// Properties returns the effective properties, defaults applied
func (r *Registry[C]) Properties() Properties {
	return r.properties
}

// Credentials returns the selected credentials provider
func (r *Registry[C]) Credentials() CredentialsProvider {
	return r.credentials
}

// Transport returns the selected transport provider
func (r *Registry[C]) Transport() TransportProvider {
	return r.transport
}

// Settings returns a copy of the client settings
func (r *Registry[C]) Settings() Settings {
	return *r.settings
}

// Client returns the constructed client
func (r *Registry[C]) Client() C {
	return r.client
}

type bootstrapConfig struct {
	credentials  CredentialsProvider
	transport    TransportProvider
	logger       retry.Logger
	metrics      *retry.Metrics
	catalog      retry.Catalog
	settingsHook func(*Settings) error
}

// Option is a configuration option for Bootstrap
type Option func(*bootstrapConfig)

// WithCredentialsProvider sets the ambient credentials used when no service-specific key is configured
func WithCredentialsProvider(provider CredentialsProvider) Option {
	return func(c *bootstrapConfig) {
		c.credentials = provider
	}
}

// WithTransportProvider replaces the transport chosen from the use-rest property
func WithTransportProvider(provider TransportProvider) Option {
	return func(c *bootstrapConfig) {
		c.transport = provider
	}
}

// WithLogger sets the logger
func WithLogger(logger retry.Logger) Option {
	return func(c *bootstrapConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the resolver metrics
func WithMetrics(metrics *retry.Metrics) Option {
	return func(c *bootstrapConfig) {
		c.metrics = metrics
	}
}

// WithCatalog replaces the built-in operation catalog
func WithCatalog(catalog retry.Catalog) Option {
	return func(c *bootstrapConfig) {
		c.catalog = catalog
	}
}

// WithSettingsHook lets the caller adjust settings before the client is built
func WithSettingsHook(hook func(*Settings) error) Option {
	return func(c *bootstrapConfig) {
		c.settingsHook = hook
	}
}

// Bootstrap builds credentials, transport, retry policies, settings and finally
// the client, in that order. Errors from collaborators propagate wrapped.
// newClient may be nil when only the settings are wanted.
func Bootstrap[C any](ctx context.Context, props Properties, newClient ClientFunc[C], opts ...Option) (*Registry[C], error) {
	cfg := &bootstrapConfig{
		logger: logrus.WithField("component", "asset"),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.catalog == nil {
		cfg.catalog = Catalog()
	}

	props, err := props.WithDefaults()
	if err != nil {
		return nil, err
	}
	if !props.IsEnabled() {
		return nil, types.ErrServiceDisabled
	}

	creds := SelectCredentials(props.Credentials, cfg.credentials, cfg.logger)

	transport := cfg.transport
	if transport == nil {
		transport = DefaultTransportProvider(props.UseREST)
	}

	resolver := retry.NewResolver(retry.WithLogger(cfg.logger), retry.WithMetrics(cfg.metrics))
	policies := resolver.ResolveCatalog(cfg.catalog, props.Overrides())
	if props.Retry != nil && cfg.logger != nil {
		cfg.logger.Debugf("Configured service-level retry settings from properties")
	}

	settings := NewSettings(props, creds, transport, policies, cfg.logger)
	if cfg.settingsHook != nil {
		if err := cfg.settingsHook(settings); err != nil {
			return nil, fmt.Errorf("settings hook: %w", err)
		}
	}

	registry := &Registry[C]{
		properties:  props,
		credentials: creds,
		transport:   transport,
		settings:    settings,
	}

	if newClient != nil {
		client, err := newClient(ctx, settings)
		if err != nil {
			return nil, fmt.Errorf("create asset client: %w", err)
		}
		registry.client = client
	}

	return registry, nil
}
