// Package config holds the controller runtime's configuration: the
// base URL, site, authentication mode, TLS policy, and poll intervals
// from §6.3. Credential storage and CLI flag parsing are out of scope
// per §1; this package only loads a YAML file and applies environment
// overrides onto a struct with built-in defaults, mirroring the
// donor's own Load().
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/brightlane/uctl/internal/transport"
)

// AuthKind selects one of the four authentication schemes §4.7.1 branches on.
type AuthKind int

const (
	AuthApiKey AuthKind = iota
	AuthCredentials
	AuthHybrid
	AuthCloud
)

// Auth carries whichever fields the selected Kind needs; unused fields
// are zero. ApiKey is marked sensitive and never logged.
type Auth struct {
	Kind     AuthKind `yaml:"-"`
	ApiKey   string   `yaml:"api_key"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
}

// UnmarshalYAML accepts a `kind` discriminator alongside the fields.
func (a *Auth) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Kind     string `yaml:"kind"`
		ApiKey   string `yaml:"api_key"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	a.ApiKey = raw.ApiKey
	a.Username = raw.Username
	a.Password = raw.Password
	switch raw.Kind {
	case "", "api_key":
		a.Kind = AuthApiKey
	case "credentials":
		a.Kind = AuthCredentials
	case "hybrid":
		a.Kind = AuthHybrid
	case "cloud":
		a.Kind = AuthCloud
	default:
		return fmt.Errorf("config: unknown auth kind %q", raw.Kind)
	}
	return nil
}

// Config is the top-level controller configuration (§6.3).
type Config struct {
	URL   string `yaml:"url"`
	Site  string `yaml:"site"` // site slug or UUID
	Auth  Auth   `yaml:"auth"`
	Tls   Tls    `yaml:"tls"`

	TimeoutSecs            int  `yaml:"timeout_secs"`
	RefreshIntervalSecs     int  `yaml:"refresh_interval_secs"`     // 0 disables periodic full refresh
	BandwidthPollIntervalMs int  `yaml:"bandwidth_poll_interval_ms"` // 0 disables
	WebsocketEnabled        bool `yaml:"websocket_enabled"`
}

// Tls mirrors transport.TlsConfig in a YAML-friendly shape.
type Tls struct {
	Mode         string `yaml:"mode"` // "system_roots" | "custom_ca" | "accept_all_invalid"
	CaBundlePath string `yaml:"ca_bundle_path"`
}

// ToTransport converts the YAML-friendly Tls into transport.TlsConfig.
func (t Tls) ToTransport() transport.TlsConfig {
	switch t.Mode {
	case "custom_ca":
		return transport.TlsConfig{Mode: transport.TlsCustomCaBundle, CaBundlePath: t.CaBundlePath}
	case "accept_all_invalid":
		return transport.TlsConfig{Mode: transport.TlsAcceptAllInvalid}
	default:
		return transport.TlsConfig{Mode: transport.TlsSystemRoots}
	}
}

// Timeout is the per-request timeout (§6.3 "timeout").
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSecs <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.TimeoutSecs) * time.Second
}

// BandwidthPollInterval is the health-poll cadence (§4.7.4); 0 disables it.
func (c *Config) BandwidthPollInterval() time.Duration {
	if c.BandwidthPollIntervalMs == 0 {
		return 0
	}
	return time.Duration(c.BandwidthPollIntervalMs) * time.Millisecond
}

// Load reads configuration from a YAML file (if it exists) and applies
// UCTL_* environment variable overrides. A missing file is not an
// error: built-in defaults plus env vars let the runtime start with
// zero configuration for local development, exactly as the donor's
// loader tolerates a missing controlplane config file.
func Load(path string) (*Config, error) {
	cfg := &Config{
		TimeoutSecs:             10,
		RefreshIntervalSecs:     300,
		BandwidthPollIntervalMs: 2000,
		WebsocketEnabled:        true,
		Tls:                     Tls{Mode: "system_roots"},
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if v := os.Getenv("UCTL_URL"); v != "" {
		cfg.URL = v
	}
	if v := os.Getenv("UCTL_SITE"); v != "" {
		cfg.Site = v
	}
	if v := os.Getenv("UCTL_API_KEY"); v != "" {
		cfg.Auth.ApiKey = v
	}
	if v := os.Getenv("UCTL_USERNAME"); v != "" {
		cfg.Auth.Username = v
	}
	if v := os.Getenv("UCTL_PASSWORD"); v != "" {
		cfg.Auth.Password = v
	}
	if v := os.Getenv("UCTL_AUTH_KIND"); v != "" {
		switch v {
		case "api_key":
			cfg.Auth.Kind = AuthApiKey
		case "credentials":
			cfg.Auth.Kind = AuthCredentials
		case "hybrid":
			cfg.Auth.Kind = AuthHybrid
		case "cloud":
			cfg.Auth.Kind = AuthCloud
		}
	}
	if v := os.Getenv("UCTL_TLS_MODE"); v != "" {
		cfg.Tls.Mode = v
	}
	if v := os.Getenv("UCTL_TLS_CA_BUNDLE_PATH"); v != "" {
		cfg.Tls.CaBundlePath = v
	}
	if v := os.Getenv("UCTL_TIMEOUT_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.TimeoutSecs = n
		}
	}
	if v := os.Getenv("UCTL_REFRESH_INTERVAL_SECS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.RefreshIntervalSecs = n
		}
	}
	if v := os.Getenv("UCTL_BANDWIDTH_POLL_INTERVAL_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.BandwidthPollIntervalMs = n
		}
	}
	if v := os.Getenv("UCTL_WEBSOCKET_ENABLED"); v != "" {
		cfg.WebsocketEnabled = v == "true" || v == "1"
	}

	if cfg.TimeoutSecs <= 0 {
		cfg.TimeoutSecs = 10
	}
	return cfg, nil
}
