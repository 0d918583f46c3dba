/*
Package config loads the engine configuration from the environment.

PURPOSE:
  A .env file is loaded best-effort (missing file is fine), then
  individual variables are read with defaults. Validation catches the
  combinations that would only fail later at runtime.

VARIABLES:
  BOOKS_ADDR        HTTP listen address       (default ":8080")
  BOOKS_DB          SQLite database path      (default "books.db")
  BOOKS_ENV         development | production  (default "development")
  BOOKS_LOG_LEVEL   logrus level name         (default "info")
  BOOKS_JWT_SECRET  auth token secret; empty disables the auth gate
  BOOKS_TOKEN_HOURS token lifespan in hours   (default 24)
*/
package config

import (
	"errors"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	Addr        string
	DBPath      string
	Environment string
	LogLevel    string
	JWTSecret   string
	TokenHours  int
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Addr:        getenv("BOOKS_ADDR", ":8080"),
		DBPath:      getenv("BOOKS_DB", "books.db"),
		Environment: getenv("BOOKS_ENV", "development"),
		LogLevel:    getenv("BOOKS_LOG_LEVEL", "info"),
		JWTSecret:   os.Getenv("BOOKS_JWT_SECRET"),
		TokenHours:  24,
	}

	if hours := os.Getenv("BOOKS_TOKEN_HOURS"); hours != "" {
		n, err := strconv.Atoi(hours)
		if err != nil {
			return nil, errors.New("BOOKS_TOKEN_HOURS must be an integer")
		}
		cfg.TokenHours = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is coherent.
func (c *Config) Validate() error {
	if c.Environment != "development" && c.Environment != "production" {
		return errors.New("BOOKS_ENV must be development or production")
	}
	// Running open endpoints is acceptable in development only.
	if c.Environment == "production" && c.JWTSecret == "" {
		return errors.New("BOOKS_JWT_SECRET is required in production")
	}
	if c.TokenHours <= 0 {
		return errors.New("BOOKS_TOKEN_HOURS must be positive")
	}
	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
