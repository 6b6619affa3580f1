package asset

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"google.golang.org/api/option"

	"github.com/jzx17/assetsettings/pkg/retry"
	"github.com/jzx17/assetsettings/pkg/types"
)

// CredentialsProvider supplies the client options that authenticate calls.
// Acquiring and refreshing tokens is left to the client library.
type CredentialsProvider interface {
	ClientOptions(ctx context.Context) ([]option.ClientOption, error)
}

// DefaultCredentialsProvider uses Application Default Credentials
type DefaultCredentialsProvider struct {
	Scopes []string
}

// ClientOptions implements CredentialsProvider
func (p DefaultCredentialsProvider) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	if len(p.Scopes) == 0 {
		return nil, nil
	}
	return []option.ClientOption{option.WithScopes(p.Scopes...)}, nil
}

// KeyCredentialsProvider uses a service account key from configuration
type KeyCredentialsProvider struct {
	Location   string
	EncodedKey string
	Scopes     []string
}

// ClientOptions implements CredentialsProvider. An encoded key wins over a location.
func (p KeyCredentialsProvider) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	var opts []option.ClientOption

	switch {
	case p.EncodedKey != "":
		key, err := base64.StdEncoding.DecodeString(p.EncodedKey)
		if err != nil {
			return nil, types.NewConfigError("credentials.encoded-key", nil,
				fmt.Errorf("%w: decode base64: %v", types.ErrInvalidCredentials, err))
		}
		if !json.Valid(key) {
			return nil, types.NewConfigError("credentials.encoded-key", nil,
				fmt.Errorf("%w: decoded key is not JSON", types.ErrInvalidCredentials))
		}
		opts = append(opts, option.WithCredentialsJSON(key))
	case p.Location != "":
		if _, err := os.Stat(p.Location); err != nil {
			return nil, types.NewConfigError("credentials.location", p.Location,
				fmt.Errorf("%w: %w", types.ErrInvalidCredentials, err))
		}
		opts = append(opts, option.WithCredentialsFile(p.Location))
	default:
		return nil, types.NewConfigError("credentials", nil,
			fmt.Errorf("%w: no key configured", types.ErrInvalidCredentials))
	}

	if len(p.Scopes) > 0 {
		opts = append(opts, option.WithScopes(p.Scopes...))
	}
	return opts, nil
}

// SelectCredentials picks service-specific credentials when a key is configured,
// otherwise the ambient provider (Application Default Credentials when nil).
func SelectCredentials(props CredentialsProperties, ambient CredentialsProvider, logger retry.Logger) CredentialsProvider {
	if props.HasKey() {
		if logger != nil {
			logger.Debugf("Using credentials from asset service specific configuration")
		}
		return KeyCredentialsProvider{
			Location:   props.Location,
			EncodedKey: props.EncodedKey,
			Scopes:     props.Scopes,
		}
	}
	if ambient != nil {
		return ambient
	}
	return DefaultCredentialsProvider{Scopes: props.Scopes}
}
