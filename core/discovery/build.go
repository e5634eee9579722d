// ABOUTME: Assembles the full discovery stack from injected dependencies
// ABOUTME: Fetcher, parser and link finder over one HTTP client, optionally behind the result cache

package discovery

import (
	"time"

	"feedfinder-api/core/feed"
	"feedfinder-api/core/fetch"
	"feedfinder-api/core/interfaces"
	"feedfinder-api/core/linkfinder"
)

// Settings tunes the stack built by New
type Settings struct {
	// MaxBodyBytes caps how much of each response is read
	MaxBodyBytes int64

	// FetchTimeout bounds every fetch; zero means fetch.DefaultTimeout
	FetchTimeout time.Duration

	// ProbeCommonPaths lets the link finder guess well-known feed paths
	ProbeCommonPaths bool

	// CacheTTL applies when deps.Cache is set; zero means DefaultCacheTTL
	CacheTTL time.Duration
}

// New wires a Service from deps. When deps.Cache is non-nil the service is
// wrapped in a CachedDiscoverer.
func New(deps interfaces.Dependencies, settings Settings) OutcomeDiscoverer {
	fetcher := fetch.NewFetcher(deps.HTTPClient, settings.MaxBodyBytes, fetch.WithTimeout(settings.FetchTimeout))
	finder := linkfinder.NewFinder(fetcher, settings.ProbeCommonPaths)

	var d OutcomeDiscoverer = NewService(fetcher, feed.NewParser(), finder, deps.LoggerOrNop())
	if deps.Cache != nil {
		d = NewCachedDiscoverer(d, deps.Cache, settings.CacheTTL, deps.LoggerOrNop())
	}
	return d
}
