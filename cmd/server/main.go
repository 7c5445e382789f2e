package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/mcoot/jigsawd/internal/api"
	"github.com/mcoot/jigsawd/internal/factory"
	"github.com/mcoot/jigsawd/internal/server"
	redisstorage "github.com/mcoot/jigsawd/internal/storage/redis"
)

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Build factory config from environment
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			logger.Error("REDIS_URL required when STORAGE_TYPE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create session server
	serverConfig := server.DefaultConfig()
	if port := envInt("GAME_PORT"); port != 0 {
		serverConfig.Port = port
	}
	gameServer := server.NewServer(serverConfig, app.Registry, app.HubManager, app.Clock, logger)

	// Create status API server
	statusRouter := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Registry: app.Registry,
	})
	statusConfig := api.DefaultServerConfig()
	if port := envInt("STATUS_PORT"); port != 0 {
		statusConfig.Port = port
	}
	statusServer := api.NewServer(statusRouter, statusConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start both servers in goroutines
	errCh := make(chan error, 2)
	go func() {
		errCh <- gameServer.Start(ctx)
	}()
	go func() {
		errCh <- statusServer.Start()
	}()

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx := context.Background()
		if err := gameServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
		if err := statusServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
		}
	}

	logger.Info("server stopped")
}

// envInt reads an integer environment variable, returning 0 if unset or invalid
func envInt(name string) int {
	v := os.Getenv(name)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
