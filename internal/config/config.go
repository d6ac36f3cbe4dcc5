// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Click store backends.
const (
	ClickStorePostgres   = "postgres"
	ClickStoreClickHouse = "clickhouse"
)

// Config holds all application configuration.
// All fields are populated from environment variables.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Base URL for short links (e.g., https://alter.sh)
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Sessions
	JWTSecret      string        `env:"JWT_SECRET,required"`
	JWTTTL         time.Duration `env:"JWT_TTL" envDefault:"1h"`
	GoogleClientID string        `env:"GOOGLE_CLIENT_ID"`

	// Geolocation (MaxMind GeoLite2 City database). Empty disables lookups.
	GeoIPDBPath string `env:"GEOIP_DB_PATH"`

	// Click record storage: "postgres" or "clickhouse"
	ClickStore         string `env:"CLICK_STORE" envDefault:"postgres"`
	ClickHouseAddr     string `env:"CLICKHOUSE_ADDR" envDefault:"localhost:9000"`
	ClickHouseDatabase string `env:"CLICKHOUSE_DATABASE" envDefault:"default"`
	ClickHouseUser     string `env:"CLICKHOUSE_USER" envDefault:"default"`
	ClickHousePassword string `env:"CLICKHOUSE_PASSWORD"`

	// Apply embedded migrations on startup
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting
	RateLimitShortenEnabled  bool          `env:"RATE_LIMIT_SHORTEN_ENABLED" envDefault:"true"`
	RateLimitShortenMax      int           `env:"RATE_LIMIT_SHORTEN_MAX" envDefault:"5"`
	RateLimitShortenWindow   time.Duration `env:"RATE_LIMIT_SHORTEN_WINDOW" envDefault:"15m"`
	RateLimitRedirectEnabled bool          `env:"RATE_LIMIT_REDIRECT_ENABLED" envDefault:"true"`
	RateLimitRedirectRPS     int           `env:"RATE_LIMIT_REDIRECT_RPS" envDefault:"100"`
	RateLimitRedirectBurst   int           `env:"RATE_LIMIT_REDIRECT_BURST" envDefault:"20"`

	// CORS configuration
	// Comma-separated list of allowed origins, or "*" for any origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// UseClickHouse reports whether click records are stored in ClickHouse.
func (c *Config) UseClickHouse() bool {
	return strings.EqualFold(c.ClickStore, ClickStoreClickHouse)
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load reads an optional .env file, then parses environment variables.
// Variables already set in the environment take precedence over .env.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	switch strings.ToLower(cfg.ClickStore) {
	case ClickStorePostgres, ClickStoreClickHouse:
	default:
		return nil, fmt.Errorf("invalid CLICK_STORE %q: want %q or %q", cfg.ClickStore, ClickStorePostgres, ClickStoreClickHouse)
	}

	return cfg, nil
}
