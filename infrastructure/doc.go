// Package infrastructure provides concrete implementations of the interfaces
// defined in the core package. These implementations handle external concerns
// such as caching, HTTP communication, and logging.
//
// The infrastructure package is organized by technical concern:
//
// - cache/memory: In-process cache on patrickmn/go-cache
// - cache/redis: Redis cache on go-redis
// - cache/sqlite: File-backed cache on mattn/go-sqlite3
// - http/standard: net/http client with per-host rate limiting and request logging
// - logger/structured: logrus logger with optional lumberjack file rotation
//
// # Cache Implementations
//
// All caches return interfaces.ErrCacheMiss for absent or expired keys:
//
//	cache := memory.NewMemoryCache()
//	err := cache.Set(ctx, "key", []byte("value"), time.Hour)
//	value, err := cache.Get(ctx, "key")
//
// Redis Cache Example:
//
//	cache, err := redis.NewRedisCache(config.RedisConfig{
//	    Address: "localhost:6379",
//	})
//
// # HTTP Client
//
// The client makes exactly one attempt per call. Retrying is the caller's choice:
//
//	client := standard.NewStandardHTTPClient(standard.Options{
//	    Timeout:  15 * time.Second,
//	    HostRate: 2,
//	})
//	resp, err := client.Get(ctx, "https://example.com")
//	if err != nil {
//	    // Handle error
//	}
//	defer resp.Body().Close()
//
// # Logger
//
//	logger := structured.New(structured.Options{Level: "info", Format: "json"})
//	logger.Info("Discovery finished", map[string]interface{}{
//	    "url":  "https://example.com",
//	    "step": "direct",
//	})
package infrastructure
