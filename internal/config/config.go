// Package config defines service configuration and how it is loaded.
package config

import (
	"time"
)

// Config contains process configuration shared by the API server and the CLI.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogMode selects the zap preset: "dev" or "prod".
	LogMode string `koanf:"log_mode"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// AllowedOrigins lists the CORS origins of the dashboard front end. Empty allows any origin.
	AllowedOrigins []string `koanf:"allowed_origins"`

	Data      DataConfig      `koanf:"data"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Auth      AuthConfig      `koanf:"auth"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`

	// RefreshInterval is how often the refresh worker checks the source for changes.
	// Zero disables polling; POST /api/v1/refresh still reloads on demand.
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// DataConfig describes where the habit table lives and how its columns are named.
type DataConfig struct {
	// Source is "csv" or "postgres".
	Source string `koanf:"source"`

	// Path of the CSV file when Source is "csv".
	Path string `koanf:"path"`

	PersonColumn string `koanf:"person_column"`
	DateColumn   string `koanf:"date_column"`

	// Habits lists the tracked habit columns in display order. Empty means every
	// column other than the person and date columns.
	Habits []string `koanf:"habits"`

	// AggregateMarkers are person values that denote injected total rows.
	AggregateMarkers []string `koanf:"aggregate_markers"`

	// DateLayouts are tried in order when parsing the date column.
	DateLayouts []string `koanf:"date_layouts"`
}

type DatabaseConfig struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
}

type RedisConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Host     string        `koanf:"host"`
	Port     string        `koanf:"port"`
	Password string        `koanf:"password"`
	DB       int           `koanf:"db"`
	TTL      time.Duration `koanf:"ttl"`
}

type AuthConfig struct {
	// JWTSecret enables bearer-token protection of the dashboard API when set.
	JWTSecret string        `koanf:"jwt_secret"`
	Issuer    string        `koanf:"issuer"`
	TokenTTL  time.Duration `koanf:"token_ttl"`

	// ViewerPasswordHash is a bcrypt hash checked by POST /auth/login.
	ViewerPasswordHash string `koanf:"viewer_password_hash"`
}

type RateLimitConfig struct {
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel: "info",
		LogMode:  "dev",
		Addr:     ":8080",
		Data: DataConfig{
			Source:           SourceCSV,
			Path:             "tum_veri_5h.csv",
			PersonColumn:     "isim",
			DateColumn:       "Tarih",
			AggregateMarkers: []string{"Toplam", "Total"},
			DateLayouts: []string{
				"2006-01-02",
				"2006-01-02 15:04:05",
				time.RFC3339,
				"02.01.2006",
				"01/02/2006",
				"2006/01/02",
			},
		},
		Database: DatabaseConfig{
			Driver:  "pgx",
			Host:    "localhost",
			Port:    "5432",
			User:    "kanso_user",
			Name:    "kanso_db",
			SSLMode: "disable",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
			TTL:  30 * time.Minute,
		},
		Auth: AuthConfig{
			Issuer:   "kanso-dashboard",
			TokenTTL: 24 * time.Hour,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
		RefreshInterval: 30 * time.Second,
	}
}

const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// AuthEnabled reports whether the dashboard API requires a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.Auth.JWTSecret != ""
}
