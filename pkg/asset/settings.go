package asset

import (
	"context"
	"fmt"

	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"

	"github.com/jzx17/assetsettings/pkg/retry"
)

// Version is reported in the user agent
const Version = "0.3.0"

// userAgent identifies this library to the API
func userAgent() string {
	return "assetsettings/" + Version
}

// CallOptions contains the retry settings for each operation, keyed by operation name
type CallOptions map[string][]gax.CallOption

// For returns the call options of one operation
func (c CallOptions) For(operation string) []gax.CallOption {
	return c[operation]
}

// Settings is everything a Cloud Asset client needs to be constructed
type Settings struct {
	Endpoint       string
	QuotaProjectID string
	// ExecutorThreadCount is the gRPC connection pool size; 0 keeps the library default
	ExecutorThreadCount int
	UserAgent           string
	Credentials         CredentialsProvider
	Transport           TransportProvider
	Policies            *retry.ResolvedSet
}

// NewSettings assembles client settings from properties and already-selected collaborators
func NewSettings(props Properties, creds CredentialsProvider, transport TransportProvider, policies *retry.ResolvedSet, logger retry.Logger) *Settings {
	s := &Settings{
		Endpoint:    props.Endpoint,
		UserAgent:   userAgent(),
		Credentials: creds,
		Transport:   transport,
		Policies:    policies,
	}

	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}

	if transport != nil && transport.Transport() == TransportREST && logger != nil {
		logger.Debugf("Using REST (HTTP/JSON) transport")
	}

	if props.QuotaProjectID != "" {
		s.QuotaProjectID = props.QuotaProjectID
		if logger != nil {
			logger.Debugf("Quota project id set to %s, this overrides project id from credentials", props.QuotaProjectID)
		}
	}

	if props.ExecutorThreadCount != nil {
		s.ExecutorThreadCount = *props.ExecutorThreadCount
		if logger != nil {
			logger.Debugf("Background executor thread count is %d", s.ExecutorThreadCount)
		}
	}

	return s
}

// ClientOptions returns the options to pass to the client constructor
func (s *Settings) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	opts := []option.ClientOption{
		option.WithEndpoint(s.Endpoint),
		option.WithUserAgent(s.UserAgent),
	}

	if s.Credentials != nil {
		credOpts, err := s.Credentials.ClientOptions(ctx)
		if err != nil {
			return nil, fmt.Errorf("credentials: %w", err)
		}
		opts = append(opts, credOpts...)
	}

	if s.QuotaProjectID != "" {
		opts = append(opts, option.WithQuotaProject(s.QuotaProjectID))
	}

	if s.Transport != nil {
		if s.ExecutorThreadCount > 0 && s.Transport.Transport() == TransportGRPC {
			opts = append(opts, option.WithGRPCConnectionPool(s.ExecutorThreadCount))
		}
		transportOpts, err := s.Transport.ClientOptions(s.Policies)
		if err != nil {
			return nil, fmt.Errorf("transport: %w", err)
		}
		opts = append(opts, transportOpts...)
	}

	return opts, nil
}

// CallOptions converts every resolved policy into gax call options
func (s *Settings) CallOptions() CallOptions {
	out := make(CallOptions)
	if s.Policies == nil {
		return out
	}
	for _, resolved := range s.Policies.All() {
		out[resolved.Operation] = resolved.Policy.CallOptions()
	}
	return out
}
