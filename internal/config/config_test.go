package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightlane/uctl/internal/transport"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Timeout())
	assert.Equal(t, 300, cfg.RefreshIntervalSecs)
	assert.Equal(t, 2*time.Second, cfg.BandwidthPollInterval())
	assert.True(t, cfg.WebsocketEnabled)
	assert.Equal(t, transport.TlsSystemRoots, cfg.Tls.ToTransport().Mode)
	assert.Equal(t, AuthApiKey, cfg.Auth.Kind)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://controller.local:8443
site: home
auth:
  kind: hybrid
  api_key: file-key
  username: admin
  password: secret
tls:
  mode: accept_all_invalid
timeout_secs: 30
refresh_interval_secs: 0
bandwidth_poll_interval_ms: 500
websocket_enabled: false
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://controller.local:8443", cfg.URL)
	assert.Equal(t, "home", cfg.Site)
	assert.Equal(t, AuthHybrid, cfg.Auth.Kind)
	assert.Equal(t, "file-key", cfg.Auth.ApiKey)
	assert.Equal(t, "admin", cfg.Auth.Username)
	assert.Equal(t, transport.TlsAcceptAllInvalid, cfg.Tls.ToTransport().Mode)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Zero(t, cfg.RefreshIntervalSecs)
	assert.Equal(t, 500*time.Millisecond, cfg.BandwidthPollInterval())
	assert.False(t, cfg.WebsocketEnabled)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
url: https://from-file:8443
site: file-site
`), 0o600))

	t.Setenv("UCTL_URL", "https://from-env:8443")
	t.Setenv("UCTL_SITE", "env-site")
	t.Setenv("UCTL_API_KEY", "env-key")
	t.Setenv("UCTL_AUTH_KIND", "credentials")
	t.Setenv("UCTL_TLS_MODE", "accept_all_invalid")
	t.Setenv("UCTL_TIMEOUT_SECS", "7")
	t.Setenv("UCTL_WEBSOCKET_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://from-env:8443", cfg.URL)
	assert.Equal(t, "env-site", cfg.Site)
	assert.Equal(t, "env-key", cfg.Auth.ApiKey)
	assert.Equal(t, AuthCredentials, cfg.Auth.Kind)
	assert.Equal(t, transport.TlsAcceptAllInvalid, cfg.Tls.ToTransport().Mode)
	assert.Equal(t, 7*time.Second, cfg.Timeout())
	assert.False(t, cfg.WebsocketEnabled)
}

func TestUnknownAuthKindRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  kind: kerberos
`), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestInvalidEnvNumberIgnored(t *testing.T) {
	t.Setenv("UCTL_TIMEOUT_SECS", "not_a_number")
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Timeout())
}

func TestCustomCaTlsMode(t *testing.T) {
	cfg := Tls{Mode: "custom_ca", CaBundlePath: "/etc/ssl/private/controller.pem"}
	tc := cfg.ToTransport()
	assert.Equal(t, transport.TlsCustomCaBundle, tc.Mode)
	assert.Equal(t, "/etc/ssl/private/controller.pem", tc.CaBundlePath)
}
