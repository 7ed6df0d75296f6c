package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "KANSO_"
	configFileEnv = "KANSO_CONFIG"
)

// Load builds a Config by layering defaults, an optional YAML file and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if KANSO_CONFIG is set
//  3. env (prefix KANSO_, "__" separates nested keys: KANSO_DATA__PATH -> data.path)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Data.Source {
	case SourceCSV:
		if c.Data.Path == "" {
			return fmt.Errorf("%w: data.path is required for the csv source", ErrInvalidConfig)
		}
	case SourcePostgres:
	default:
		return fmt.Errorf("%w: unknown data.source %q", ErrInvalidConfig, c.Data.Source)
	}
	if strings.TrimSpace(c.Data.PersonColumn) == "" || strings.TrimSpace(c.Data.DateColumn) == "" {
		return fmt.Errorf("%w: person and date columns must be set", ErrInvalidConfig)
	}
	if len(c.Data.DateLayouts) == 0 {
		return fmt.Errorf("%w: at least one date layout is required", ErrInvalidConfig)
	}
	if c.RefreshInterval < 0 {
		return fmt.Errorf("%w: refresh_interval cannot be negative", ErrInvalidConfig)
	}
	if c.RateLimit.Requests < 0 {
		return fmt.Errorf("%w: rate_limit.requests cannot be negative", ErrInvalidConfig)
	}
	if c.AuthEnabled() && c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("%w: auth.token_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}

// DSN renders the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + d.SSLMode,
	}
	return u.String()
}
