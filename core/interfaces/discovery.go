// ABOUTME: Capabilities composed by the discovery orchestrator
// ABOUTME: Fetcher, FeedParser and LinkFinder are injected so each can be replaced by a test double

package interfaces

import (
	"context"

	"feedfinder-api/core/domain"
)

// Fetcher retrieves a document over the network.
// Every failure (invalid URL, DNS, TLS, timeout, non-2xx status) is reported
// as a *errors.TransportError.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*domain.RawDocument, error)
}

// FeedParser interprets raw text as a syndication feed.
// Text that is not a supported format yields a *errors.UnrecognizedFormatError.
type FeedParser interface {
	Parse(text string) (*domain.Feed, error)
}

// LinkFinder extracts candidate feed URLs advertised by an HTML page,
// most explicit signals first. An empty result is a normal outcome.
type LinkFinder interface {
	FindFeedLinks(ctx context.Context, pageURL string) ([]string, error)
}

// Discoverer resolves an arbitrary URL into a feed or reports that none was found
type Discoverer interface {
	Discover(ctx context.Context, url string) (*domain.Feed, bool)
}
