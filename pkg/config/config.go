// ABOUTME: Configuration management for the application with environment variable support
// ABOUTME: Defines configuration structures for the server, outbound fetching, caching and logging

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"feedfinder-api/pkg/utils/duration"
)

// Cache backend names accepted by CACHE_TYPE
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
	CacheTypeSQLite = "sqlite"
	CacheTypeNone   = "none"
)

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig

	// Fetch contains outbound HTTP configuration
	Fetch FetchConfig

	// Discovery contains discovery result caching configuration
	Discovery DiscoveryConfig

	// Cache contains cache backend configuration
	Cache CacheConfig

	// Log contains logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string

	// RateLimit is the number of API requests allowed per client IP per minute
	RateLimit int
}

// FetchConfig holds outbound fetch configuration
type FetchConfig struct {
	// Timeout bounds every outbound request
	Timeout time.Duration

	// UserAgent is sent with every outbound request
	UserAgent string

	// MaxBodyBytes caps how much of a response body is read
	MaxBodyBytes int64

	// HostRatePerSecond limits sustained requests to a single host; zero disables it
	HostRatePerSecond float64

	// HostRateBurst is the token bucket size per host
	HostRateBurst int
}

// DiscoveryConfig holds discovery configuration
type DiscoveryConfig struct {
	// CacheTTL is how long a found feed is remembered
	CacheTTL time.Duration
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite/none)
	Type string

	// Redis contains Redis-specific configuration
	Redis RedisConfig

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string

	// Password is the Redis authentication password
	Password string

	// DB is the Redis database number
	DB int

	// KeyPrefix namespaces every key so instances can share a server with other apps
	KeyPrefix string
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string

	// Format is json or text
	Format string

	// File, when set, receives rotated log output instead of stdout
	File string
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	timeout, err := getEnvAsDurationOrDefault("FETCH_TIMEOUT_SECONDS", 15*time.Second)
	if err != nil {
		return nil, err
	}

	ttl, err := getEnvAsDurationOrDefault("DISCOVERY_CACHE_TTL_SECONDS", 15*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnvOrDefault("PORT", "8000"),
			RateLimit: getEnvAsIntOrDefault("API_RATE_LIMIT", 100),
		},
		Fetch: FetchConfig{
			Timeout:           timeout,
			UserAgent:         getEnvOrDefault("USER_AGENT", "FeedFinder/1.0 (+https://github.com/feedfinder)"),
			MaxBodyBytes:      int64(getEnvAsIntOrDefault("MAX_BODY_BYTES", 5*1024*1024)),
			HostRatePerSecond: getEnvAsFloatOrDefault("HOST_RATE_PER_SECOND", 5),
			HostRateBurst:     getEnvAsIntOrDefault("HOST_RATE_BURST", 10),
		},
		Discovery: DiscoveryConfig{
			CacheTTL: ttl,
		},
		Cache: CacheConfig{
			Type: strings.ToLower(getEnvOrDefault("CACHE_TYPE", CacheTypeMemory)),
			Redis: RedisConfig{
				Address:   getEnvOrDefault("REDIS_ADDRESS", "localhost:6379"),
				Password:  getEnvOrDefault("REDIS_PASSWORD", ""),
				DB:        getEnvAsIntOrDefault("REDIS_DB", 0),
				KeyPrefix: getEnvOrDefault("REDIS_KEY_PREFIX", "feedfinder:"),
			},
			SQLite: SQLiteConfig{
				Path: getEnvOrDefault("SQLITE_PATH", "feedfinder-cache.db"),
			},
		},
		Log: LogConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "info"),
			Format: getEnvOrDefault("LOG_FORMAT", "json"),
			File:   getEnvOrDefault("LOG_FILE", ""),
		},
	}

	return cfg, nil
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsFloatOrDefault returns the environment variable as float64 or a default
func getEnvAsFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault parses seconds or a duration string such as "30s"
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := duration.Parse(value)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Server.RateLimit < 1 {
		return errors.New("api rate limit must be at least 1 request per minute")
	}

	if c.Fetch.Timeout <= 0 {
		return errors.New("fetch timeout must be positive")
	}

	if c.Fetch.MaxBodyBytes <= 0 {
		return errors.New("max body bytes must be positive")
	}

	if c.Fetch.HostRatePerSecond < 0 {
		return errors.New("host rate cannot be negative")
	}

	switch c.Cache.Type {
	case CacheTypeMemory, CacheTypeNone:
	case CacheTypeRedis:
		if c.Cache.Redis.Address == "" {
			return errors.New("redis address cannot be empty when using redis cache")
		}
	case CacheTypeSQLite:
		if c.Cache.SQLite.Path == "" {
			return errors.New("sqlite path cannot be empty when using sqlite cache")
		}
	default:
		return fmt.Errorf("cache type must be one of memory, redis, sqlite or none, got %q", c.Cache.Type)
	}

	return nil
}
