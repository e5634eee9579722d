// ABOUTME: Main entry point for the FeedFinder API server
// ABOUTME: Wires together all components and starts the HTTP server

package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedfinder-api/api"
	"feedfinder-api/api/handlers"
	"feedfinder-api/core/discovery"
	"feedfinder-api/core/interfaces"
	"feedfinder-api/core/workers"
	"feedfinder-api/infrastructure/cache/memory"
	"feedfinder-api/infrastructure/cache/redis"
	"feedfinder-api/infrastructure/cache/sqlite"
	stdhttp "feedfinder-api/infrastructure/http/standard"
	"feedfinder-api/infrastructure/logger/structured"
	"feedfinder-api/pkg/config"
	"feedfinder-api/pkg/featureflags"
	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	// A missing .env file is fine; real environment variables win
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := structured.New(structured.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})

	flags := featureflags.NewEnvManager("FEATURE_")
	ctx := context.Background()

	logger.Info("Starting FeedFinder API", map[string]interface{}{
		"port":       cfg.Server.Port,
		"cache_type": cfg.Cache.Type,
		"flags":      flags.GetAllFlags(),
	})

	httpClient := stdhttp.NewStandardHTTPClient(stdhttp.Options{
		Timeout:   cfg.Fetch.Timeout,
		UserAgent: cfg.Fetch.UserAgent,
		HostRate:  cfg.Fetch.HostRatePerSecond,
		HostBurst: cfg.Fetch.HostRateBurst,
		Logger:    logger,
	})

	deps := interfaces.Dependencies{
		HTTPClient: httpClient,
		Logger:     logger,
	}
	if flags.IsEnabled(ctx, featureflags.CacheEnabled) {
		cache, closer := newCache(cfg, logger)
		defer closer.Close()
		deps.Cache = cache
	}

	discoverer := discovery.New(deps, discovery.Settings{
		MaxBodyBytes:     cfg.Fetch.MaxBodyBytes,
		FetchTimeout:     cfg.Fetch.Timeout,
		ProbeCommonPaths: flags.IsEnabled(ctx, featureflags.ProbeCommonPaths),
		CacheTTL:         cfg.Discovery.CacheTTL,
	})

	pool := workers.NewDiscoveryPool(discoverer, workers.DefaultWorkerConfig())
	if err := pool.Start(); err != nil {
		log.Fatalf("Failed to start discovery workers: %v", err)
	}

	apiConfig := api.APIConfig{
		Logger:     logger,
		RateWindow: time.Minute,
	}
	if flags.IsEnabled(ctx, featureflags.RateLimitEnabled) {
		apiConfig.RateLimit = cfg.Server.RateLimit
	}
	humaAPI, router := api.NewAPIWithMiddleware(apiConfig)

	handlers.NewDiscoverHandler(discoverer, pool).RegisterRoutes(humaAPI)
	health := handlers.NewHealthHandler(version)
	if stats, ok := deps.Cache.(handlers.CacheStats); ok {
		health.WithCacheStats(stats)
	}
	health.RegisterRoutes(humaAPI)

	// Batch discovery can take several fetch timeouts
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 4*cfg.Fetch.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server starting", map[string]interface{}{
			"address": srv.Addr,
		})
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", map[string]interface{}{
				"error": err.Error(),
			})
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", map[string]interface{}{
			"error": err.Error(),
		})
	}

	pool.Stop()
	logger.Info("Server stopped", nil)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// newCache builds the configured cache backend. Redis and SQLite failures fall
// back to memory; the none type returns a nil cache.
func newCache(cfg *config.Config, logger interfaces.Logger) (interfaces.Cache, io.Closer) {
	switch cfg.Cache.Type {
	case config.CacheTypeNone:
		logger.Info("Discovery cache disabled", nil)
		return nil, nopCloser{}
	case config.CacheTypeRedis:
		redisCache, err := redis.NewRedisCache(cfg.Cache.Redis)
		if err == nil {
			logger.Info("Using Redis cache", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
			})
			return redisCache, redisCache
		}
		logger.Error("Failed to create Redis cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	case config.CacheTypeSQLite:
		sqliteCache, err := sqlite.NewSQLiteCache(cfg.Cache.SQLite.Path, logger)
		if err == nil {
			logger.Info("Using SQLite cache", map[string]interface{}{
				"path": cfg.Cache.SQLite.Path,
			})
			return sqliteCache, sqliteCache
		}
		logger.Error("Failed to open SQLite cache, falling back to memory", map[string]interface{}{
			"error": err.Error(),
		})
	}

	logger.Info("Using memory cache", nil)
	return memory.NewMemoryCache(), nopCloser{}
}

func init() {
	fmt.Println(`
    ______              ________          __
   / ____/__  ___  ____/ / ____(_)___  __/ /__  _____
  / /_  / _ \/ _ \/ __  / /_  / / __ \/ __  / _ \/ ___/
 / __/ /  __/  __/ /_/ / __/ / / / / / /_/ /  __/ /
/_/    \___/\___/\__,_/_/   /_/_/ /_/\__,_/\___/_/
	`)
}
