// ABOUTME: Main client for the FeedFinder library
// ABOUTME: Turns a website or feed URL into a parsed feed without running the HTTP API

package feedfinder

import (
	"context"

	"feedfinder-api/core/discovery"
	"feedfinder-api/core/interfaces"
	"feedfinder-api/core/workers"
	"feedfinder-api/infrastructure/http/standard"
)

// Client is the main entry point for the FeedFinder library.
// It is safe for concurrent use.
type Client struct {
	discoverer discovery.OutcomeDiscoverer
	config     Config
}

// NewClient creates a new client with the given options
func NewClient(options ...Option) (*Client, error) {
	config := defaultConfig()

	for _, opt := range options {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}

	if config.Logger == nil {
		config.Logger = interfaces.NopLogger{}
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = standard.NewStandardHTTPClient(standard.Options{
			Timeout:   config.Timeout,
			UserAgent: config.UserAgent,
			Logger:    config.Logger,
		})
	}

	deps := interfaces.Dependencies{
		HTTPClient: httpClient,
		Cache:      config.Cache,
		Logger:     config.Logger,
	}

	return &Client{
		discoverer: discovery.New(deps, discovery.Settings{
			MaxBodyBytes:     config.MaxBodyBytes,
			FetchTimeout:     config.Timeout,
			ProbeCommonPaths: config.ProbeCommonPaths,
			CacheTTL:         config.CacheTTL,
		}),
		config: config,
	}, nil
}

// Discover resolves url into a feed. The boolean is false when no feed was found.
func (c *Client) Discover(ctx context.Context, url string) (*Feed, bool) {
	return c.discoverer.Discover(ctx, url)
}

// DiscoverOutcome is Discover with the reason for a not-found result
func (c *Client) DiscoverOutcome(ctx context.Context, url string) Outcome {
	return c.discoverer.DiscoverOutcome(ctx, url)
}

// DiscoverBatch resolves every URL using up to Concurrency workers and
// returns outcomes in input order
func (c *Client) DiscoverBatch(ctx context.Context, urls []string) []Outcome {
	pool := workers.NewDiscoveryPool(c.discoverer, workers.WorkerConfig{
		MaxWorkers: c.config.Concurrency,
		QueueSize:  len(urls),
	})
	if err := pool.Start(); err != nil {
		outcomes := make([]Outcome, len(urls))
		for i := range outcomes {
			outcomes[i] = Outcome{State: discovery.StateNotFound, Err: err}
		}
		return outcomes
	}
	defer pool.Stop()

	return pool.DiscoverBatch(ctx, urls)
}

// Config returns a copy of the client configuration
func (c *Client) Config() Config {
	return c.config
}
