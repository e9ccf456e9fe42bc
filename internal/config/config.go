// Package config loads and validates service configuration from the environment.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	URL             string `env:"DATABASE_URL"`
	MaxOpenConns    int    `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int    `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime int    `env:"DB_CONN_MAX_LIFETIME" envDefault:"300"` // seconds
}

// TokenConfig holds session token signing configuration.
type TokenConfig struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_EXPIRES_IN" envDefault:"168h"`
}

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	Environment string `env:"ENV" envDefault:"development"`
	Database    DatabaseConfig
	Token       TokenConfig
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present,
// so local development matches the deployed environment shape.
// It fails fast with clear errors for missing required values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.Environment != "development" && cfg.Environment != "staging" && cfg.Environment != "production" {
		return nil, fmt.Errorf("invalid ENV value %q: must be development, staging, or production", cfg.Environment)
	}

	var missing []string
	if cfg.Database.URL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if cfg.Token.Secret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if err := validateDatabaseURL(cfg.Database.URL); err != nil {
		return nil, fmt.Errorf("invalid DATABASE_URL: %w", err)
	}

	if err := validateTokenSecret(cfg.Token.Secret); err != nil {
		return nil, fmt.Errorf("invalid JWT_SECRET: %w", err)
	}

	if cfg.Token.TTL <= 0 {
		return nil, fmt.Errorf("invalid JWT_EXPIRES_IN: must be a positive duration")
	}

	return cfg, nil
}

// validateDatabaseURL ensures the database URL is a valid PostgreSQL connection string.
func validateDatabaseURL(dbURL string) error {
	parsed, err := url.Parse(dbURL)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}

	if parsed.Scheme != "postgres" && parsed.Scheme != "postgresql" {
		return fmt.Errorf("URL must use postgres or postgresql scheme, got %q", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("URL must include a host")
	}

	return nil
}

// validateTokenSecret rejects secrets too short to sign tokens safely.
func validateTokenSecret(secret string) error {
	if len(strings.TrimSpace(secret)) < 32 {
		return fmt.Errorf("must be at least 32 characters")
	}
	return nil
}
