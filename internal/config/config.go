// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds every setting the application reads at startup
type Config struct {
	Storage    string `env:"SPORTHUB_STORAGE"     envDefault:"sqlite"`
	RedisURL   string `env:"SPORTHUB_REDIS_URL"   envDefault:"redis://localhost:6379/0"`
	SQLitePath string `env:"SPORTHUB_SQLITE_PATH" envDefault:"sporthub.db"`
	// DataSource is a file path or http(s) URL for the bundled document.
	// Empty selects the document compiled into the binary.
	DataSource string `env:"SPORTHUB_DATA"`

	SessionMaxAge       time.Duration `env:"SPORTHUB_SESSION_MAX_AGE"       envDefault:"24h"`
	ExpiryCheckInterval time.Duration `env:"SPORTHUB_EXPIRY_CHECK_INTERVAL" envDefault:"5m"`
	ReadyTimeout        time.Duration `env:"SPORTHUB_READY_TIMEOUT"         envDefault:"5s"`

	LogLevel string `env:"SPORTHUB_LOG_LEVEL" envDefault:"warn"`
}

// Load reads an optional .env file from each of files, then parses the
// environment. Variables already set win over .env values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.Storage = strings.ToLower(strings.TrimSpace(cfg.Storage))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values env parsing cannot
func (c Config) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis, StorageSQLite:
	default:
		return fmt.Errorf("invalid SPORTHUB_STORAGE %q: must be memory, redis or sqlite", c.Storage)
	}
	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SPORTHUB_SESSION_MAX_AGE must be positive")
	}
	if _, err := ParseLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// SlogLevel returns the configured log level, defaulting to warn
func (c Config) SlogLevel() slog.Level {
	level, err := ParseLogLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}
	return level
}

// ParseLogLevel accepts debug, info, warn or error
func ParseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelWarn, fmt.Errorf("invalid SPORTHUB_LOG_LEVEL %q", s)
	}
	return level, nil
}
