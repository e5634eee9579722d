// ABOUTME: FeedItem domain model represents an individual entry within a feed
// ABOUTME: Every item exposes a title, a link and a stable identifier

package domain

import "time"

// FeedItem represents an individual item/entry in a feed
type FeedItem struct {
	// ID is a stable identifier suitable for deduplication downstream
	ID string `json:"id"`

	// Title is the item's headline
	Title string `json:"title"`

	// Link is the URL to the full article
	Link string `json:"link"`

	// Summary is the plain text description or content
	Summary string `json:"summary,omitempty"`

	// Author is the creator of the item
	Author string `json:"author,omitempty"`

	// Published is when the item was published, or last updated
	Published *time.Time `json:"published,omitempty"`
}
