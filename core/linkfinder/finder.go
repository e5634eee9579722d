// ABOUTME: Link finder extracts candidate feed URLs advertised by an HTML page
// ABOUTME: Autodiscovery links come first, then feed-looking anchors, host rules and optional path probing

package linkfinder

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	"feedfinder-api/core/interfaces"
	"github.com/PuerkitoBio/goquery"
)

// feedMIMETypes are the link types accepted for <link rel="alternate">
var feedMIMETypes = map[string]bool{
	"application/rss+xml":    true,
	"application/atom+xml":   true,
	"application/x.atom+xml": true,
	"application/rdf+xml":    true,
	"application/xml":        true,
	"text/xml":               true,
	"application/json":       true,
	"application/feed+json":  true,
}

// CommonFeedPaths are probed, in order, when a page advertises nothing
var CommonFeedPaths = []string{
	"/feed",
	"/feed.xml",
	"/atom.xml",
	"/rss.xml",
	"/rss",
	"/index.xml",
}

var (
	feedPathPattern  = regexp.MustCompile(`(?i)(\.(rss|rdf|atom)|(^|/)(feed|rss|rss2|atom)\.(xml|json)|/(feed|rss|rss2|atom)/?)$`)
	feedQueryPattern = regexp.MustCompile(`(?i)(^|&)feed=(rss2?|atom|rdf)(&|$)`)
)

// githubReserved are first path segments on github.com that are not users
var githubReserved = map[string]bool{
	"about": true, "explore": true, "features": true, "login": true, "marketplace": true,
	"orgs": true, "pricing": true, "settings": true, "topics": true, "trending": true,
}

// Finder implements interfaces.LinkFinder on top of an interfaces.Fetcher
type Finder struct {
	fetcher          interfaces.Fetcher
	probeCommonPaths bool
}

// NewFinder creates a link finder. When probeCommonPaths is set, conventional
// feed locations are fetched if the page itself advertises nothing.
func NewFinder(fetcher interfaces.Fetcher, probeCommonPaths bool) *Finder {
	return &Finder{
		fetcher:          fetcher,
		probeCommonPaths: probeCommonPaths,
	}
}

// FindFeedLinks fetches pageURL and returns candidate feed URLs, most explicit first.
// An empty result is not an error; a failed page fetch is.
func (f *Finder) FindFeedLinks(ctx context.Context, pageURL string) ([]string, error) {
	page, err := f.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	candidates, err := extractCandidates(page.Body, page.BaseURL())
	if err != nil {
		return nil, err
	}

	candidates = append(candidates, hostRuleCandidates(page.BaseURL())...)
	candidates = dedupe(candidates)

	if len(candidates) == 0 && f.probeCommonPaths {
		if probed := f.probe(ctx, page.BaseURL()); probed != "" {
			candidates = append(candidates, probed)
		}
	}

	return candidates, nil
}

// extractCandidates reads autodiscovery links and feed-looking anchors from markup
func extractCandidates(body, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, &coreerrors.UnrecognizedFormatError{URL: pageURL, Err: fmt.Errorf("invalid page url: %w", err)}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, &coreerrors.UnrecognizedFormatError{URL: pageURL, Err: err}
	}

	if href, ok := doc.Find("base[href]").First().Attr("href"); ok {
		if resolved := resolve(base, href); resolved != "" {
			if b, err := url.Parse(resolved); err == nil {
				base = b
			}
		}
	}

	var links []string
	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		rel := relTokens(s.AttrOr("rel", ""))
		if !rel["alternate"] && !rel["feed"] {
			return
		}
		if rel["alternate"] && !feedMIMETypes[mediaType(s.AttrOr("type", ""))] {
			return
		}
		if resolved := resolve(base, s.AttrOr("href", "")); resolved != "" {
			links = append(links, resolved)
		}
	})

	var anchors []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		resolved := resolve(base, s.AttrOr("href", ""))
		if resolved == "" {
			return
		}
		u, err := url.Parse(resolved)
		if err != nil || !sameSite(u, base) || !looksLikeFeedPath(u) {
			return
		}
		anchors = append(anchors, resolved)
	})

	return append(links, anchors...), nil
}

// hostRuleCandidates knows where a few large sites keep their feeds
func hostRuleCandidates(pageURL string) []string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return nil
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	segments := pathSegments(u.Path)

	switch {
	case host == "github.com":
		if len(segments) == 0 || githubReserved[strings.ToLower(segments[0])] {
			return nil
		}
		switch {
		case len(segments) >= 2:
			return []string{fmt.Sprintf("https://github.com/%s/%s/commits.atom", segments[0], segments[1])}
		default:
			return []string{fmt.Sprintf("https://github.com/%s.atom", segments[0])}
		}
	case host == "reddit.com" || host == "old.reddit.com":
		if len(segments) > 0 && strings.HasSuffix(segments[len(segments)-1], ".rss") {
			return nil
		}
		return []string{fmt.Sprintf("%s://%s%s/.rss", u.Scheme, u.Host, strings.TrimRight(u.Path, "/"))}
	}

	return nil
}

// probe tries conventional feed locations on the page's origin and returns the first that looks like a feed
func (f *Finder) probe(ctx context.Context, pageURL string) string {
	base, err := url.Parse(pageURL)
	if err != nil || base.Host == "" {
		return ""
	}

	for _, p := range CommonFeedPaths {
		if ctx.Err() != nil {
			return ""
		}
		candidate := (&url.URL{Scheme: base.Scheme, Host: base.Host, Path: p}).String()
		doc, err := f.fetcher.Fetch(ctx, candidate)
		if err != nil {
			continue
		}
		if LooksLikeFeed(doc) {
			return candidate
		}
	}

	return ""
}

// LooksLikeFeed sniffs a fetched document for a feed root element or a JSON Feed version marker
func LooksLikeFeed(doc *domain.RawDocument) bool {
	if doc == nil {
		return false
	}

	head := []byte(doc.Body)
	if len(head) > 1024 {
		head = head[:1024]
	}
	head = bytes.TrimLeft(head, " \t\r\n\ufeff")

	switch {
	case bytes.HasPrefix(head, []byte("{")):
		return bytes.Contains(head, []byte("jsonfeed.org"))
	case bytes.HasPrefix(head, []byte("<")):
		lower := bytes.ToLower(head)
		if bytes.Contains(lower, []byte("<html")) {
			return false
		}
		return bytes.Contains(lower, []byte("<rss")) ||
			bytes.Contains(lower, []byte("<feed")) ||
			bytes.Contains(lower, []byte("<rdf:rdf"))
	}

	return false
}

func looksLikeFeedPath(u *url.URL) bool {
	if feedQueryPattern.MatchString(u.RawQuery) {
		return true
	}
	p := strings.ToLower(u.Path)
	if strings.Contains(path.Base(p), "sitemap") {
		return false
	}
	return feedPathPattern.MatchString(p)
}

func sameSite(u, base *url.URL) bool {
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	strip := func(h string) string { return strings.TrimPrefix(strings.ToLower(h), "www.") }
	return strip(u.Hostname()) == strip(base.Hostname())
}

// resolve returns href as an absolute http(s) URL without fragment, or "" if it cannot be one
func resolve(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}

	abs := base.ResolveReference(ref)
	if abs.Scheme == "feed" {
		// feed:https://example.com/rss and feed://example.com/rss
		if abs.Opaque != "" {
			return resolve(base, abs.Opaque)
		}
		abs.Scheme = "http"
	}
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	abs.Fragment = ""
	abs.RawFragment = ""

	return abs.String()
}

func relTokens(rel string) map[string]bool {
	tokens := make(map[string]bool)
	for _, t := range strings.Fields(strings.ToLower(rel)) {
		tokens[t] = true
	}
	return tokens
}

func mediaType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}

func pathSegments(p string) []string {
	var segments []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

func dedupe(urls []string) []string {
	seen := make(map[string]bool, len(urls))
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
