// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Storage backends selectable with STORE_BACKEND.
const (
	BackendCSV      = "csv"
	BackendPostgres = "postgres"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Image    ImageConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 15s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`

	// RequestTimeout is the middleware timeout for requests (default: 30s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"30s"`
}

// StoreConfig selects where the record table lives.
type StoreConfig struct {
	// Backend is "csv" or "postgres" (default: csv)
	Backend string `env:"STORE_BACKEND" default:"csv"`

	// DataFile is the CSV backing file (default: loved_ones.csv)
	DataFile string `env:"DATA_FILE" default:"loved_ones.csv"`

	// Timeout bounds a single load or save (default: 10s)
	Timeout time.Duration `env:"STORE_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database connection settings.
// Only used when STORE_BACKEND=postgres.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string.
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`

	// MinConns is the minimum number of connections to keep open (default: 1)
	MinConns int `env:"DB_MIN_CONNS" default:"1"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// ImageConfig holds photo upload and display settings.
type ImageConfig struct {
	// Dir is where uploaded photos are written (default: images)
	Dir string `env:"IMAGE_DIR" default:"images"`

	// MaxSize is the maximum accepted photo size in bytes (default: 10MB)
	MaxSize int64 `env:"IMAGE_MAX_SIZE" default:"10485760"`

	// AllowedTypes lists accepted file extensions (default: jpg,jpeg,png,webp)
	AllowedTypes []string `env:"IMAGE_ALLOWED_TYPES" default:"jpg,jpeg,png,webp"`

	// DisplayWidth is the width photos are resized to for display (default: 800)
	DisplayWidth int `env:"IMAGE_DISPLAY_WIDTH" default:"800"`

	// DisplayHeight is the height photos are resized to for display (default: 400)
	DisplayHeight int `env:"IMAGE_DISPLAY_HEIGHT" default:"400"`

	// MaxConcurrent caps how many photos are resized at once (default: 4)
	MaxConcurrent int `env:"IMAGE_MAX_CONCURRENT" default:"4"`

	// MaxWait is how long a photo request waits for a resize slot (default: 10s)
	MaxWait time.Duration `env:"IMAGE_MAX_WAIT" default:"10s"`

	// RemoveOrphans deletes a photo when the last record using it is deleted (default: false)
	RemoveOrphans bool `env:"IMAGE_REMOVE_ORPHANS" default:"false"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// MutationLimit is requests per minute for save and delete endpoints (default: 20)
	MutationLimit int `env:"RATE_LIMIT_MUTATIONS" default:"20"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards /api routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes the metrics endpoint (default: true)
	Enabled bool `env:"METRICS_ENABLED" default:"true"`

	// Path is where metrics are served (default: /metrics)
	Path string `env:"METRICS_PATH" default:"/metrics"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
