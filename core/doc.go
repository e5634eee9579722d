// Package core contains the feed discovery logic for the FeedFinder API.
// It is designed to be framework-agnostic and can be used independently
// of any web framework or infrastructure concerns.
//
// The core package is organized into several sub-packages:
//
// - domain: Feed, FeedItem and RawDocument models
// - errors: Failure kinds (transport, unrecognized format, no feed advertised)
// - interfaces: Contracts for cache, HTTP, logger and the discovery capabilities
// - fetch: Retrieves documents and decodes them to UTF-8
// - feed: Parses RSS, Atom and JSON Feed into the domain model
// - linkfinder: Finds feed URLs advertised by an HTML page
// - discovery: Orchestrates fetch, parse and link finding; optional result cache
// - workers: Bounded worker pool for batches of discoveries
//
// # Discovery
//
// A URL is fetched and parsed as a feed. When that parse fails, the page is
// scanned for feed links and only the first candidate is fetched and parsed.
// Every failure ends in NOT_FOUND; the Outcome keeps the reason for logs.
//
// # Usage Example
//
//	import (
//	    "feedfinder-api/core/discovery"
//	    "feedfinder-api/core/interfaces"
//	)
//
//	deps := interfaces.Dependencies{
//	    HTTPClient: myHTTPClient, // implements interfaces.HTTPClient
//	    Cache:      myCache,      // optional
//	    Logger:     myLogger,
//	}
//
//	discoverer := discovery.New(deps, discovery.Settings{})
//
//	feed, ok := discoverer.Discover(ctx, "https://example.com/blog")
package core
