package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/mcoot/webgame/internal/dependencies/clock"
	"github.com/mcoot/webgame/internal/dependencies/random"
	"github.com/mcoot/webgame/internal/services/game"
	"github.com/mcoot/webgame/internal/services/user"
	"github.com/mcoot/webgame/internal/storage"
	"github.com/mcoot/webgame/internal/storage/memory"
	redisstorage "github.com/mcoot/webgame/internal/storage/redis"
	"github.com/mcoot/webgame/internal/storage/sqlite"
	"github.com/mcoot/webgame/internal/validation"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSQLite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock     clock.Clock
	Random    random.Random
	Validator *validation.Validator

	// Services
	UserService    *user.Service
	GameController *game.Controller
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SQLitePath is the database file (required if StorageType is "sqlite")
	SQLitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLitePath required when StorageType is sqlite")
		}
		sqliteStore, err := sqlite.New(context.Background(), cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, fmt.Errorf("invalid StorageType %q: must be 'memory', 'redis' or 'sqlite'", storageType)
	}

	logger.Info("storage ready", slog.String("type", storageType))

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	validator := validation.New()

	return &App{
		Storage:        store,
		Clock:          clk,
		Random:         rnd,
		Validator:      validator,
		UserService:    user.New(store, validator, rnd, logger),
		GameController: game.NewController(store, rnd, logger),
	}
}

// Close releases the storage backend's resources, if it holds any
func (a *App) Close() error {
	if closer, ok := a.Storage.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
