package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/jigsawd/internal/dependencies/clock"
	"github.com/mcoot/jigsawd/internal/dependencies/random"
	"github.com/mcoot/jigsawd/internal/server"
	"github.com/mcoot/jigsawd/internal/services/puzzle"
	"github.com/mcoot/jigsawd/internal/services/registry"
	"github.com/mcoot/jigsawd/internal/storage"
	"github.com/mcoot/jigsawd/internal/storage/memory"
	redisstorage "github.com/mcoot/jigsawd/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	Storage storage.Storage

	Clock  clock.Clock
	Random random.Random

	PuzzleService *puzzle.Service
	Registry      *registry.Controller
	HubManager    *server.HubManager
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

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
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	clk := clock.New()
	rnd := random.New()

	return newWithDependencies(store, clk, rnd, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	puzzleService := puzzle.New(rnd, logger)
	reg := registry.NewController(store, puzzleService, clk, rnd, logger)
	hubManager := server.NewHubManager(logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		PuzzleService: puzzleService,
		Registry:      reg,
		HubManager:    hubManager,
	}
}
