package asset

import (
	"context"
	"encoding/base64"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/jzx17/assetsettings/internal/testutils"
	"github.com/jzx17/assetsettings/pkg/types"
)

type staticCredentials struct {
	opts []option.ClientOption
}

func (s staticCredentials) ClientOptions(ctx context.Context) ([]option.ClientOption, error) {
	return s.opts, nil
}

type debugRecorder struct {
	debug []string
}

func (d *debugRecorder) Debugf(format string, args ...interface{}) { d.debug = append(d.debug, format) }
func (d *debugRecorder) Infof(format string, args ...interface{})  {}
func (d *debugRecorder) Warnf(format string, args ...interface{})  {}
func (d *debugRecorder) Errorf(format string, args ...interface{}) {}

func TestSelectCredentials(t *testing.T) {
	ambient := staticCredentials{opts: []option.ClientOption{option.WithoutAuthentication()}}

	t.Run("service key wins", func(t *testing.T) {
		logger := &debugRecorder{}
		props := CredentialsProperties{Location: "/etc/key.json", Scopes: []string{"s"}}

		got := SelectCredentials(props, ambient, logger)

		key, ok := got.(KeyCredentialsProvider)
		require.True(t, ok)
		assert.Equal(t, "/etc/key.json", key.Location)
		assert.Equal(t, []string{"s"}, key.Scopes)
		assert.Len(t, logger.debug, 1)
	})

	t.Run("ambient provider without key", func(t *testing.T) {
		got := SelectCredentials(CredentialsProperties{}, ambient, nil)
		assert.Equal(t, ambient, got)
	})

	t.Run("application default credentials fallback", func(t *testing.T) {
		got := SelectCredentials(CredentialsProperties{Scopes: []string{"s"}}, nil, nil)
		assert.Equal(t, DefaultCredentialsProvider{Scopes: []string{"s"}}, got)
	})
}

func TestKeyCredentialsProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("encoded key", func(t *testing.T) {
		p := KeyCredentialsProvider{EncodedKey: testutils.EncodedServiceAccountKey(), Scopes: []string{"s"}}
		opts, err := p.ClientOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, opts, 2)
	})

	t.Run("key file", func(t *testing.T) {
		p := KeyCredentialsProvider{Location: testutils.WriteKeyFile(t)}
		opts, err := p.ClientOptions(ctx)
		require.NoError(t, err)
		assert.Len(t, opts, 1)
	})

	t.Run("missing key file", func(t *testing.T) {
		p := KeyCredentialsProvider{Location: filepath.Join(t.TempDir(), "absent.json")}
		_, err := p.ClientOptions(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)

		cfgErr, ok := types.IsConfigError(err)
		require.True(t, ok)
		assert.Equal(t, "credentials.location", cfgErr.Field)
	})

	t.Run("bad base64", func(t *testing.T) {
		p := KeyCredentialsProvider{EncodedKey: "%%%not-base64"}
		_, err := p.ClientOptions(ctx)
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	})

	t.Run("not json", func(t *testing.T) {
		p := KeyCredentialsProvider{EncodedKey: base64.StdEncoding.EncodeToString([]byte("plain text"))}
		_, err := p.ClientOptions(ctx)
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	})

	t.Run("no key", func(t *testing.T) {
		_, err := KeyCredentialsProvider{}.ClientOptions(ctx)
		assert.ErrorIs(t, err, types.ErrInvalidCredentials)
	})
}

func TestDefaultCredentialsProvider(t *testing.T) {
	opts, err := DefaultCredentialsProvider{}.ClientOptions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, opts)

	opts, err = DefaultCredentialsProvider{Scopes: DefaultScopes}.ClientOptions(context.Background())
	require.NoError(t, err)
	assert.Len(t, opts, 1)
}
