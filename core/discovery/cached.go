// ABOUTME: Caching decorator that memoises found feeds by input URL
// ABOUTME: Not-found outcomes are never cached so a feed that appears later is picked up on the next call

package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"feedfinder-api/core/domain"
	"feedfinder-api/core/interfaces"
)

// DefaultCacheTTL is used when NewCachedDiscoverer is given a non-positive TTL
const DefaultCacheTTL = 15 * time.Minute

const cacheKeyPrefix = "discovery:"

// cacheEntry is the stored form of a found outcome
type cacheEntry struct {
	SourceURL string       `json:"sourceUrl"`
	Feed      *domain.Feed `json:"feed"`
}

// CachedDiscoverer wraps another discoverer with an interfaces.Cache
type CachedDiscoverer struct {
	next   OutcomeDiscoverer
	cache  interfaces.Cache
	ttl    time.Duration
	logger interfaces.Logger
}

// NewCachedDiscoverer creates a caching decorator around next
func NewCachedDiscoverer(next OutcomeDiscoverer, cache interfaces.Cache, ttl time.Duration, logger interfaces.Logger) *CachedDiscoverer {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &CachedDiscoverer{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Discover returns a cached feed when present, otherwise delegates
func (c *CachedDiscoverer) Discover(ctx context.Context, url string) (*domain.Feed, bool) {
	outcome := c.DiscoverOutcome(ctx, url)
	return outcome.Feed, outcome.Found()
}

// DiscoverOutcome returns a cached outcome when present, otherwise delegates and stores found feeds
func (c *CachedDiscoverer) DiscoverOutcome(ctx context.Context, url string) Outcome {
	key := cacheKey(url)
	if key == "" || c.cache == nil {
		return c.next.DiscoverOutcome(ctx, url)
	}

	if entry, ok := c.lookup(ctx, key); ok {
		return Outcome{State: StateFound, Feed: entry.Feed, SourceURL: entry.SourceURL, Step: "cache"}
	}

	outcome := c.next.DiscoverOutcome(ctx, url)
	if outcome.Found() {
		c.store(ctx, key, cacheEntry{SourceURL: outcome.SourceURL, Feed: outcome.Feed})
	}

	return outcome
}

func (c *CachedDiscoverer) lookup(ctx context.Context, key string) (*cacheEntry, bool) {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, interfaces.ErrCacheMiss) {
			c.logger.Warn("Discovery cache read failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	var entry cacheEntry
	err = json.Unmarshal(data, &entry)
	if err == nil && entry.Feed == nil {
		err = errors.New("entry has no feed")
	}
	if err == nil {
		err = entry.Feed.Validate()
	}
	if err != nil {
		c.logger.Warn("Discarding corrupt discovery cache entry", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}

	return &entry, true
}

func (c *CachedDiscoverer) store(ctx context.Context, key string, entry cacheEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Discovery cache write failed", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func cacheKey(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	return cacheKeyPrefix + url
}
