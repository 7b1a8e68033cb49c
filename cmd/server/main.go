// @title           BadgeHub API
// @version         1.0.0
// @description     Community badge service: tenant-scoped badges, assignments, and leaderboards

// @BasePath  /api/v1

// @securityDefinitions.apikey PlatformToken
// @in header
// @name x-platform-user-token
// @description Signed user token issued by the hosting platform.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"badgehub/internal/cache"
	"badgehub/internal/config"
	"badgehub/internal/directory"
	"badgehub/internal/events"
	"badgehub/internal/middleware"
	"badgehub/internal/monitoring"
	"badgehub/internal/repositories"
	"badgehub/internal/response"
	"badgehub/internal/router"
	"badgehub/internal/services"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(&cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting BadgeHub",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("version", version),
	)

	cacheProvider, err := cache.New(&cache.Config{
		Provider:        cfg.Cache.Provider,
		TTL:             cfg.Cache.TTL,
		MaxKeys:         cfg.Cache.MaxKeys,
		CleanupInterval: cfg.Cache.CleanupInterval,
		RedisURL:        cfg.Cache.RedisURL,
		RedisDB:         cfg.Cache.RedisDB,
		RedisPassword:   cfg.Cache.RedisPassword,
		PoolSize:        cfg.Cache.PoolSize,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize cache", zap.Error(err))
	}

	eventBus := events.NewEventBus(&events.EventBusConfig{
		BufferSize:     cfg.Events.BufferSize,
		WorkerCount:    cfg.Events.WorkerCount,
		HandlerTimeout: cfg.Events.HandlerTimeout,
	}, logger)
	if err := eventBus.Start(context.Background()); err != nil {
		logger.Fatal("Failed to start event bus", zap.Error(err))
	}

	repos := repositories.NewCollection(logger)

	dir := directory.NewClient(&directory.ClientConfig{
		BaseURL:        cfg.Platform.APIBaseURL,
		APIKey:         cfg.Platform.APIKey,
		ProductID:      cfg.Platform.ProductID,
		RequestTimeout: cfg.Platform.RequestTimeout,
		MaxRetryTime:   cfg.Platform.MaxRetryTime,
	}, logger)

	serviceCollection := services.NewCollection(repos, dir, cacheProvider, eventBus, logger)

	responseConfig := response.DefaultConfig()
	if cfg.IsDevelopment() {
		responseConfig.PrettyJSON = true
		responseConfig.MaskInternalErrors = false
	}
	builder := response.NewBuilder(responseConfig, logger)

	handler := router.New(&router.Dependencies{
		Services:      serviceCollection,
		Authenticator: middleware.NewAuthenticator(&cfg.Platform, logger),
		Builder:       builder,
		Health:        monitoring.NewHealthChecker(cacheProvider, eventBus, builder, logger, version),
		Logger:        logger,
	})

	server := &http.Server{
		Addr:           cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("addr", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed, forcing close", zap.Error(err))
		_ = server.Close()
	}
	if err := eventBus.Stop(ctx); err != nil {
		logger.Warn("Event bus did not drain cleanly", zap.Error(err))
	}
	if err := cacheProvider.Close(); err != nil {
		logger.Warn("Cache close failed", zap.Error(err))
	}

	logger.Info("Shutdown complete")
}

// initLogger builds the zap logger from the logging config. Console format
// keeps development output readable; production logs structured JSON.
func initLogger(cfg *config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
