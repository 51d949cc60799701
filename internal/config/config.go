// Package config provides centralized configuration management for the
// API server. All settings come from environment variables with sensible
// defaults, validated on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// PlaceholderAPIKey is the default shared secret. When the configured key
// equals this value, authentication is bypassed entirely. This is a
// deliberate escape hatch for local development and must be overridden in
// any real deployment.
const PlaceholderAPIKey = "changeme"

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	Query    QueryConfig
	Security SecurityConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DataConfig holds the CSV data source settings.
type DataConfig struct {
	// Dir is the directory containing the backing CSV files (default: data)
	Dir string `env:"DATA_DIR" default:"data"`

	// ExposedTables is the allow-list of table names that may be queried
	// through the data endpoint. Tables on disk but not listed here 404.
	ExposedTables []string `env:"EXPOSED_TABLES" default:"delivery_events,fuel_purchases,safety_incidents,maintenance_records"`
}

// QueryConfig holds pagination bounds for the data endpoint.
type QueryConfig struct {
	// DefaultLimit is the page size used when the caller supplies none (default: 1000)
	DefaultLimit int `env:"QUERY_DEFAULT_LIMIT" default:"1000"`

	// MaxLimit caps the caller-supplied page size (default: 5000)
	MaxLimit int `env:"QUERY_MAX_LIMIT" default:"5000"`
}

// SecurityConfig holds authentication settings.
type SecurityConfig struct {
	// APIKey is the shared secret checked against the x-api-key header.
	// Leaving it at the placeholder value disables authentication.
	APIKey string `env:"API_KEY" default:"changeme"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are honored for client IP resolution.
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// AuthEnabled reports whether API key checking is active.
func (c *SecurityConfig) AuthEnabled() bool {
	return c.APIKey != "" && c.APIKey != PlaceholderAPIKey
}

// RateLimitConfig holds per-IP rate limiting settings.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the per-IP request allowance (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	if c.Host == "" {
		return ":" + strconv.Itoa(c.Port)
	}
	return c.Host + ":" + strconv.Itoa(c.Port)
}
