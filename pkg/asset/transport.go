package asset

import (
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/grpc"

	"github.com/jzx17/assetsettings/pkg/retry"
)

// Transport identifies the wire protocol used to reach the API
type Transport int

const (
	// TransportGRPC is the native gRPC transport
	TransportGRPC Transport = iota
	// TransportREST is HTTP/JSON
	TransportREST
)

// String returns the string representation of the transport
func (t Transport) String() string {
	switch t {
	case TransportGRPC:
		return "grpc"
	case TransportREST:
		return "rest"
	default:
		return "unknown"
	}
}

// TransportProvider supplies transport-specific client options
type TransportProvider interface {
	Transport() Transport
	ClientOptions(policies *retry.ResolvedSet) ([]option.ClientOption, error)
}

// DefaultTransportProvider returns the HTTP/JSON provider when useREST is set, gRPC otherwise
func DefaultTransportProvider(useREST bool) TransportProvider {
	if useREST {
		return restTransport{}
	}
	return grpcTransport{}
}

type grpcTransport struct{}

func (grpcTransport) Transport() Transport { return TransportGRPC }

// ClientOptions installs a default service config carrying per-method timeouts.
// Retries stay with the gax call options so only one retry loop runs.
func (grpcTransport) ClientOptions(policies *retry.ResolvedSet) ([]option.ClientOption, error) {
	dialOpt, err := serviceConfigDialOption(policies)
	if err != nil || dialOpt == nil {
		return nil, err
	}
	return []option.ClientOption{option.WithGRPCDialOption(dialOpt)}, nil
}

func serviceConfigDialOption(policies *retry.ResolvedSet) (grpc.DialOption, error) {
	if policies == nil || policies.Len() == 0 {
		return nil, nil
	}
	cfg, err := BuildServiceConfig(policies).JSON()
	if err != nil {
		return nil, fmt.Errorf("build grpc service config: %w", err)
	}
	return grpc.WithDefaultServiceConfig(cfg), nil
}

type restTransport struct{}

func (restTransport) Transport() Transport { return TransportREST }

func (restTransport) ClientOptions(*retry.ResolvedSet) ([]option.ClientOption, error) {
	return nil, nil
}
