// ABOUTME: Configuration options for the FeedFinder library client
// ABOUTME: Provides functional options pattern for flexible client configuration

package feedfinder

import (
	"fmt"
	"time"

	"feedfinder-api/core/discovery"
	"feedfinder-api/core/fetch"
	"feedfinder-api/infrastructure/http/standard"
)

// DefaultMaxBodyBytes caps how much of a response is read
const DefaultMaxBodyBytes = fetch.DefaultMaxBodyBytes

// Option is a functional option for configuring the client
type Option func(*Config) error

// Config holds the configuration for the client
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64

	// HTTPClient replaces the built-in client; UserAgent is then ignored but Timeout still bounds each fetch
	HTTPClient HTTPClient

	Logger Logger

	// ProbeCommonPaths tries well-known feed paths when a page advertises nothing
	ProbeCommonPaths bool

	// Concurrency bounds DiscoverBatch
	Concurrency int

	// Cache, when set, remembers found feeds for CacheTTL
	Cache    Cache
	CacheTTL time.Duration
}

// WithTimeout bounds every outbound request
func WithTimeout(d time.Duration) Option {
	return func(c *Config) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", d)
		}
		c.Timeout = d
		return nil
	}
}

// WithUserAgent sets the User-Agent sent with every request
func WithUserAgent(ua string) Option {
	return func(c *Config) error {
		c.UserAgent = ua
		return nil
	}
}

// WithMaxBodyBytes caps response size
func WithMaxBodyBytes(n int64) Option {
	return func(c *Config) error {
		if n <= 0 {
			return fmt.Errorf("max body bytes must be positive, got %d", n)
		}
		c.MaxBodyBytes = n
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Config) error {
		c.HTTPClient = client
		return nil
	}
}

// WithLogger sets a custom logger
func WithLogger(logger Logger) Option {
	return func(c *Config) error {
		c.Logger = logger
		return nil
	}
}

// WithProbeCommonPaths enables guessing /feed, /rss.xml and similar paths
func WithProbeCommonPaths(enabled bool) Option {
	return func(c *Config) error {
		c.ProbeCommonPaths = enabled
		return nil
	}
}

// WithConcurrency sets how many URLs DiscoverBatch resolves at once
func WithConcurrency(n int) Option {
	return func(c *Config) error {
		if n < 1 {
			return fmt.Errorf("concurrency must be at least 1, got %d", n)
		}
		c.Concurrency = n
		return nil
	}
}

// WithCache remembers found feeds; a ttl of zero uses the default
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *Config) error {
		c.Cache = cache
		c.CacheTTL = ttl
		return nil
	}
}

// defaultConfig returns the default client configuration
func defaultConfig() Config {
	return Config{
		Timeout:      standard.DefaultTimeout,
		UserAgent:    standard.DefaultUserAgent,
		MaxBodyBytes: DefaultMaxBodyBytes,
		CacheTTL:     discovery.DefaultCacheTTL,
		Concurrency:  4,
	}
}
