// ABOUTME: Feed domain model is the normalized result of a successful discovery
// ABOUTME: Carries the feed title, canonical feed URL and ordered entries

package domain

import (
	"errors"
	"net/url"
)

// Feed types reported by the parser
const (
	FeedTypeRSS  = "rss"
	FeedTypeAtom = "atom"
	FeedTypeJSON = "json"
)

// Feed represents a syndication feed after parsing and normalization
type Feed struct {
	// Title is the human-readable title of the feed (may be empty)
	Title string `json:"title"`

	// FeedURL is the canonical URL of the feed document itself.
	// The parser fills it from the document's self link when present;
	// discovery backfills it with the fetched URL otherwise.
	FeedURL string `json:"feedUrl"`

	// SiteURL is the website the feed belongs to
	SiteURL string `json:"siteUrl,omitempty"`

	// Description is the feed's own summary
	Description string `json:"description,omitempty"`

	// Language as declared by the document (e.g. "en-us")
	Language string `json:"language,omitempty"`

	// FeedType is one of rss, atom or json
	FeedType string `json:"feedType"`

	// Items contains the feed entries in document order
	Items []FeedItem `json:"items"`
}

// Validate checks the invariants every discovered feed must satisfy
func (f *Feed) Validate() error {
	if f.FeedURL == "" {
		return errors.New("feed URL cannot be empty")
	}

	u, err := url.Parse(f.FeedURL)
	if err != nil {
		return errors.New("invalid feed URL format")
	}
	if !u.IsAbs() || u.Host == "" {
		return errors.New("feed URL must be absolute")
	}

	return nil
}

// RawDocument is the body of a single fetch paired with where it came from
type RawDocument struct {
	// URL is the URL that was requested
	URL string

	// FinalURL is the URL after redirects
	FinalURL string

	// ContentType is the response Content-Type header
	ContentType string

	// Body is the decoded response body
	Body string
}

// BaseURL returns the URL relative references in the body resolve against
func (d *RawDocument) BaseURL() string {
	if d.FinalURL != "" {
		return d.FinalURL
	}
	return d.URL
}
