package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	log "github.com/sirupsen/logrus"

	"github.com/salamyar/backend/config"
	httpDelivery "github.com/salamyar/backend/internal/delivery/http"
	"github.com/salamyar/backend/internal/domain"
	"github.com/salamyar/backend/internal/infrastructure/basalam"
	"github.com/salamyar/backend/internal/infrastructure/cache"
	"github.com/salamyar/backend/internal/infrastructure/metrics"
	"github.com/salamyar/backend/internal/infrastructure/selection"
	"github.com/salamyar/backend/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := setupLogging(cfg.Log); err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	log.Info("Starting Salamyar Backend v1.0.0")
	log.Infof("Environment: %s", cfg.Server.Environment)
	log.Infof("Port: %s", cfg.Server.Port)
	log.Infof("Cache Type: %s (ttl %s)", cfg.Cache.Type, cfg.Cache.TTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize infrastructure dependencies
	searchCache, closeCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize cache: %v", err)
	}
	defer closeCache()

	basalamClient := basalam.NewClient(basalam.ClientConfig{
		SearchURL:         cfg.Basalam.SearchURL,
		SimilarURL:        cfg.Basalam.SimilarURL,
		Timeout:           cfg.Basalam.Timeout,
		PageSize:          cfg.Basalam.PageSize,
		RequestsPerSecond: cfg.RateLimit.Basalam,
	})
	defer basalamClient.Close()

	// Enable debug mode in development environment
	if cfg.Server.Environment == "development" {
		basalamClient.SetDebug(true)
		log.Info("Basalam client debug mode enabled")
	}
	log.Infof("Basalam API: search=%s similar=%s (page size %d, %.1f req/s)",
		cfg.Basalam.SearchURL, cfg.Basalam.SimilarURL, cfg.Basalam.PageSize, cfg.RateLimit.Basalam)

	store := selection.NewMemoryStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Initialize usecase layer
	searchService := usecase.NewSearchService(searchCache, basalamClient, usecase.SearchServiceConfig{
		CacheTTL:        cfg.Cache.TTL,
		DefaultPageSize: cfg.Search.DefaultPageSize,
		MaxPageSize:     cfg.Search.MaxPageSize,
		MaxQueryLength:  cfg.Search.MaxQueryLength,
	})
	selectionService := usecase.NewSelectionService(store)
	confirmationService := usecase.NewConfirmationService(
		store,
		basalamClient,
		metrics.NewConfirmationMetrics(registry),
		usecase.ConfirmationServiceConfig{
			MaxConcurrency:     cfg.Confirmation.MaxConcurrency,
			SimilarLimit:       cfg.Confirmation.SimilarLimit,
			Timeout:            cfg.Confirmation.Timeout,
			EnableDebugLogging: log.IsLevelEnabled(log.DebugLevel),
		},
	)

	log.Infof("Confirmation: concurrency=%d, similar_limit=%d, timeout=%s",
		cfg.Confirmation.MaxConcurrency, cfg.Confirmation.SimilarLimit, cfg.Confirmation.Timeout)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService, selectionService, confirmationService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler, registry)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received, draining connections")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("Graceful shutdown failed: %v", err)
		return
	}

	log.Info("Server stopped")
}

// setupLogging configures the package-level logrus logger
func setupLogging(cfg config.LogConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	log.SetOutput(os.Stdout)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
	return nil
}

// newCache builds the configured search cache and its close function
func newCache(ctx context.Context, cfg config.CacheConfig) (domain.CacheRepository, func(), error) {
	switch cfg.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("Connected to Redis cache")
		return redisCache, func() { redisCache.Close() }, nil
	default:
		memoryCache := cache.NewMemoryCache()
		return memoryCache, func() { memoryCache.Close() }, nil
	}
}
