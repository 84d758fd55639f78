package factory

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/sporthub/internal/bundle"
	"github.com/mcoot/sporthub/internal/config"
	"github.com/mcoot/sporthub/internal/dependencies/clock"
	"github.com/mcoot/sporthub/internal/dependencies/random"
	"github.com/mcoot/sporthub/internal/services/catalog"
	"github.com/mcoot/sporthub/internal/services/session"
	"github.com/mcoot/sporthub/internal/storage"
	"github.com/mcoot/sporthub/internal/storage/memory"
	redisstorage "github.com/mcoot/sporthub/internal/storage/redis"
	sqlitestorage "github.com/mcoot/sporthub/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
	StorageTypeSQLite = config.StorageSQLite
)

// App contains all wired application components
type App struct {
	// Storage
	Storage     storage.Store
	StorageType string

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	Sessions *session.Service
	Catalog  *catalog.Service

	Logger *slog.Logger
}

// Config holds configuration for the application factory
type Config struct {
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLiteConfig holds the database location (optional)
	// If nil, sqlitestorage.DefaultConfig() is used
	SQLiteConfig *sqlitestorage.Config
	// DataSource supplies the bundled document (optional)
	// If nil, the embedded document is used
	DataSource bundle.Source
	// SessionConfig holds configuration for the session service (optional)
	// Zero fields fall back to session.DefaultConfig()
	SessionConfig session.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// FromSettings translates environment settings into a factory Config
func FromSettings(settings config.Config, logger *slog.Logger) Config {
	redisCfg := redisstorage.DefaultConfig()
	redisCfg.URL = settings.RedisURL

	sqliteCfg := sqlitestorage.DefaultConfig()
	sqliteCfg.Path = settings.SQLitePath

	var source bundle.Source
	if settings.DataSource != "" {
		source = bundle.NewSource(settings.DataSource)
	}

	return Config{
		StorageType:  settings.Storage,
		RedisConfig:  &redisCfg,
		SQLiteConfig: &sqliteCfg,
		DataSource:   source,
		SessionConfig: session.Config{
			MaxAge:              settings.SessionMaxAge,
			ExpiryCheckInterval: settings.ExpiryCheckInterval,
			ReadyTimeout:        settings.ReadyTimeout,
		},
		Logger: logger,
	}
}

// New creates a new application with all dependencies wired. When the selected
// backend cannot be opened the application falls back to in-memory storage.
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	// Create external dependencies
	clk := clock.New()
	rnd := random.New()

	store, err := openStorage(storageType, cfg, rnd, logger)
	if err != nil {
		if errors.Is(err, errInvalidStorageType) {
			return nil, err
		}
		logger.Warn("storage unavailable, falling back to memory",
			slog.String("storage", storageType),
			slog.Any("error", err),
		)
		store = memory.New()
		storageType = StorageTypeMemory
	}

	source := cfg.DataSource
	if source == nil {
		source = bundle.Embedded()
	}

	app := newWithDependencies(store, source, clk, rnd, cfg.SessionConfig, logger)
	app.StorageType = storageType
	return app, nil
}

var errInvalidStorageType = errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")

func openStorage(storageType string, cfg Config, rnd random.Random, logger *slog.Logger) (storage.Store, error) {
	switch storageType {
	case StorageTypeMemory:
		return memory.New(), nil
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		store, err := redisstorage.New(*cfg.RedisConfig, rnd, logger)
		if err != nil {
			return nil, fmt.Errorf("open redis: %w", err)
		}
		return store, nil
	case StorageTypeSQLite:
		sqliteCfg := sqlitestorage.DefaultConfig()
		if cfg.SQLiteConfig != nil {
			sqliteCfg = *cfg.SQLiteConfig
		}
		store, err := sqlitestorage.Open(sqliteCfg, rnd, logger)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%w (got %q)", errInvalidStorageType, storageType)
	}
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Store, source bundle.Source, clk clock.Clock, rnd random.Random, sessionCfg session.Config, logger *slog.Logger) *App {
	return &App{
		Storage:     store,
		StorageType: StorageTypeMemory,
		Clock:       clk,
		Random:      rnd,
		Sessions:    session.New(store, clk, sessionCfg, logger),
		Catalog:     catalog.New(store, source, clk, logger),
		Logger:      logger,
	}
}

// Close stops background work and releases the store
func (a *App) Close() error {
	a.Sessions.Close()
	return a.Storage.Close()
}
