// ABOUTME: Feed parser turns raw text into a normalized domain.Feed
// ABOUTME: RSS, Atom and JSON Feed are detected and parsed with gofeed; anything else is UnrecognizedFormat

package feed

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	htmlutil "feedfinder-api/pkg/utils/html"
	timeutil "feedfinder-api/pkg/utils/time"
	"github.com/mmcdole/gofeed"
)

// maxSummaryRunes bounds the plain text kept per entry
const maxSummaryRunes = 500

// jsonFeedVersionMarker prefixes every JSON Feed version URI
const jsonFeedVersionMarker = "jsonfeed.org/version/"

var errEmptyDocument = errors.New("empty document")

// Parser parses feed documents. It holds no state between calls and is safe
// for concurrent use; a fresh gofeed parser is created for every document.
type Parser struct{}

// NewParser creates a new feed parser
func NewParser() *Parser {
	return &Parser{}
}

// Parse interprets text as a syndication feed.
// The document's self link, if any, is kept as FeedURL; otherwise FeedURL is left empty.
func (p *Parser) Parse(text string) (feed *domain.Feed, err error) {
	if strings.TrimSpace(text) == "" {
		return nil, &coreerrors.UnrecognizedFormatError{Err: errEmptyDocument}
	}

	// gofeed has panicked on hostile input before; a panic is just another unrecognized document
	defer func() {
		if r := recover(); r != nil {
			feed = nil
			err = &coreerrors.UnrecognizedFormatError{Err: fmt.Errorf("parser panic: %v", r)}
		}
	}()

	parsed, err := gofeed.NewParser().ParseString(text)
	if err != nil {
		return nil, &coreerrors.UnrecognizedFormatError{Err: err}
	}

	// gofeed calls anything starting with '{' JSON; only a declared JSON Feed version counts
	if parsed.FeedType == "json" && !strings.Contains(parsed.FeedVersion, jsonFeedVersionMarker) {
		return nil, &coreerrors.UnrecognizedFormatError{
			Err: fmt.Errorf("json document without a JSON Feed version (got %q)", parsed.FeedVersion),
		}
	}

	return toDomain(parsed), nil
}

// toDomain converts a gofeed feed to the domain model
func toDomain(parsed *gofeed.Feed) *domain.Feed {
	feed := &domain.Feed{
		Title:       strings.TrimSpace(parsed.Title),
		FeedURL:     strings.TrimSpace(parsed.FeedLink),
		SiteURL:     strings.TrimSpace(parsed.Link),
		Description: htmlutil.StripHTML(parsed.Description),
		Language:    parsed.Language,
		FeedType:    parsed.FeedType,
		Items:       make([]domain.FeedItem, 0, len(parsed.Items)),
	}

	for _, item := range parsed.Items {
		if item == nil {
			continue
		}
		feed.Items = append(feed.Items, convertItem(item, feed.SiteURL))
	}

	return feed
}

// convertItem converts a gofeed item to a domain item
func convertItem(item *gofeed.Item, siteURL string) domain.FeedItem {
	feedItem := domain.FeedItem{
		Title: htmlutil.StripHTML(item.Title),
		Link:  resolveLink(siteURL, strings.TrimSpace(item.Link)),
	}

	raw := item.Description
	if raw == "" {
		raw = item.Content
	}
	feedItem.Summary = htmlutil.Truncate(htmlutil.StripHTML(raw), maxSummaryRunes)

	if item.Author != nil && item.Author.Name != "" {
		feedItem.Author = item.Author.Name
	} else if len(item.Authors) > 0 && item.Authors[0] != nil {
		feedItem.Author = item.Authors[0].Name
	}

	feedItem.Published = itemTime(item)

	feedItem.ID = itemID(item, feedItem.Link)

	return feedItem
}

// itemTime prefers the published date over the updated one, falling back to
// lenient parsing when gofeed could not interpret the raw string
func itemTime(item *gofeed.Item) *time.Time {
	candidates := []struct {
		parsed *time.Time
		raw    string
	}{
		{item.PublishedParsed, item.Published},
		{item.UpdatedParsed, item.Updated},
	}

	for _, c := range candidates {
		if c.parsed != nil {
			t := c.parsed.UTC()
			return &t
		}
		if t, ok := timeutil.ParseFeedTime(c.raw); ok {
			return &t
		}
	}

	return nil
}

// itemID picks a stable identifier: the document's own id, then the link,
// then a digest of the content that identifies the entry
func itemID(item *gofeed.Item, link string) string {
	if guid := strings.TrimSpace(item.GUID); guid != "" {
		return guid
	}
	if link != "" {
		return link
	}

	sum := sha256.Sum256([]byte(item.Title + "\x00" + item.Published + "\x00" + item.Updated + "\x00" + item.Description + "\x00" + item.Content))
	return "sha256:" + hex.EncodeToString(sum[:16])
}

// resolveLink makes a relative entry link absolute against the site URL
func resolveLink(siteURL, link string) string {
	if link == "" || siteURL == "" {
		return link
	}

	ref, err := url.Parse(link)
	if err != nil || ref.IsAbs() {
		return link
	}

	base, err := url.Parse(siteURL)
	if err != nil || !base.IsAbs() {
		return link
	}

	return base.ResolveReference(ref).String()
}
