package linkfinder

import (
	"context"
	"sync"
	"testing"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher serves canned documents keyed by URL and records every call
type stubFetcher struct {
	mu    sync.Mutex
	pages map[string]string
	calls []string
}

func newStubFetcher(pages map[string]string) *stubFetcher {
	return &stubFetcher{pages: pages}
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	s.mu.Lock()
	s.calls = append(s.calls, url)
	s.mu.Unlock()

	body, ok := s.pages[url]
	if !ok {
		return nil, &coreerrors.TransportError{URL: url, StatusCode: 404}
	}
	return &domain.RawDocument{URL: url, Body: body}, nil
}

const blogPage = `<!DOCTYPE html>
<html>
<head>
  <title>Example Blog</title>
  <link rel="stylesheet" href="/style.css">
  <link rel="alternate" type="text/html" hreflang="fr" href="/fr/">
  <link rel="alternate" type="application/rss+xml" title="RSS" href="/blog/feed.xml">
  <link rel="alternate" type="application/atom+xml; charset=utf-8" href="https://example.com/blog/atom.xml#top">
</head>
<body>
  <a href="/blog/feed.xml">Subscribe</a>
  <a href="/blog/comments/feed/">Comments feed</a>
  <a href="https://elsewhere.org/feed.xml">Friend's feed</a>
  <a href="/sitemap.xml">Sitemap</a>
  <a href="/blog/post-1">Post</a>
</body>
</html>`

func TestFindFeedLinks_OrdersAutodiscoveryBeforeAnchors(t *testing.T) {
	fetcher := newStubFetcher(map[string]string{"https://example.com/blog": blogPage})
	finder := NewFinder(fetcher, false)

	links, err := finder.FindFeedLinks(context.Background(), "https://example.com/blog")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://example.com/blog/feed.xml",
		"https://example.com/blog/atom.xml",
		"https://example.com/blog/comments/feed/",
	}, links)
	assert.Equal(t, []string{"https://example.com/blog"}, fetcher.calls)
}

func TestFindFeedLinks_NoFeedAdvertisedIsEmptyNotError(t *testing.T) {
	fetcher := newStubFetcher(map[string]string{
		"https://example.com/": `<html><head><title>Plain</title></head><body><a href="/about">About</a></body></html>`,
	})

	links, err := NewFinder(fetcher, false).FindFeedLinks(context.Background(), "https://example.com/")

	require.NoError(t, err)
	assert.Empty(t, links)
	assert.Len(t, fetcher.calls, 1, "no probing when disabled")
}

func TestFindFeedLinks_PageFetchFailure(t *testing.T) {
	fetcher := newStubFetcher(nil)

	links, err := NewFinder(fetcher, true).FindFeedLinks(context.Background(), "https://example.com/missing")

	require.Error(t, err)
	assert.True(t, coreerrors.IsTransport(err))
	assert.Nil(t, links)
	assert.Len(t, fetcher.calls, 1, "no probing after the page itself failed")
}

func TestFindFeedLinks_ProbesCommonPathsWhenEnabled(t *testing.T) {
	fetcher := newStubFetcher(map[string]string{
		"https://example.com/news": `<html><body>nothing here</body></html>`,
		// served as 200 but it is a page, not a feed
		"https://example.com/feed":     `<!DOCTYPE html><html><body>Not a feed</body></html>`,
		"https://example.com/atom.xml": `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>A</title></feed>`,
		"https://example.com/rss.xml":  `<rss version="2.0"><channel><title>R</title></channel></rss>`,
	})

	links, err := NewFinder(fetcher, true).FindFeedLinks(context.Background(), "https://example.com/news")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/atom.xml"}, links)
	assert.Equal(t, []string{
		"https://example.com/news",
		"https://example.com/feed",
		"https://example.com/feed.xml",
		"https://example.com/atom.xml",
	}, fetcher.calls, "probing stops at the first hit")
}

func TestFindFeedLinks_NoProbingWhenPageAdvertises(t *testing.T) {
	fetcher := newStubFetcher(map[string]string{"https://example.com/blog": blogPage})

	_, err := NewFinder(fetcher, true).FindFeedLinks(context.Background(), "https://example.com/blog")

	require.NoError(t, err)
	assert.Len(t, fetcher.calls, 1)
}

func TestFindFeedLinks_UsesFinalURLAfterRedirect(t *testing.T) {
	fetcher := &redirectingFetcher{finalURL: "https://blog.example.com/home/", body: `<link rel="alternate" type="application/rss+xml" href="rss">`}

	links, err := NewFinder(fetcher, false).FindFeedLinks(context.Background(), "http://example.com/")

	require.NoError(t, err)
	assert.Equal(t, []string{"https://blog.example.com/home/rss"}, links)
}

type redirectingFetcher struct {
	finalURL string
	body     string
}

func (r *redirectingFetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	return &domain.RawDocument{URL: url, FinalURL: r.finalURL, Body: r.body}, nil
}

func TestExtractCandidates(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		pageURL string
		want    []string
	}{
		{
			name:    "base href",
			body:    `<html><head><base href="https://cdn.example.com/site/"><link rel="alternate" type="application/atom+xml" href="atom.xml"></head></html>`,
			pageURL: "https://example.com/",
			want:    []string{"https://cdn.example.com/site/atom.xml"},
		},
		{
			name:    "rel token list and uppercase type",
			body:    `<link rel="Alternate Home" type="APPLICATION/RSS+XML" href="/rss">`,
			pageURL: "https://example.com/",
			want:    []string{"https://example.com/rss"},
		},
		{
			name:    "json feed",
			body:    `<link rel="alternate" type="application/feed+json" href="/feed.json">`,
			pageURL: "https://example.com/",
			want:    []string{"https://example.com/feed.json"},
		},
		{
			name:    "rel feed without type",
			body:    `<link rel="feed" href="/updates">`,
			pageURL: "https://example.com/",
			want:    []string{"https://example.com/updates"},
		},
		{
			name:    "feed scheme",
			body:    `<link rel="alternate" type="application/rss+xml" href="feed:https://example.com/rss.xml">`,
			pageURL: "https://example.com/",
			want:    []string{"https://example.com/rss.xml"},
		},
		{
			name:    "wordpress query feed",
			body:    `<a href="/?feed=rss2">RSS</a>`,
			pageURL: "https://example.com/",
			want:    []string{"https://example.com/?feed=rss2"},
		},
		{
			name:    "www is the same site",
			body:    `<a href="https://www.example.com/index.rss">RSS</a>`,
			pageURL: "https://example.com/",
			want:    []string{"https://www.example.com/index.rss"},
		},
		{
			name:    "ignored links",
			body:    `<link rel="alternate" href="/no-type"><a href="javascript:void(0)">x</a><a href="mailto:a@example.com">m</a><a href="#feed">f</a><a href="/feeds-and-speeds">blog</a>`,
			pageURL: "https://example.com/",
			want:    nil,
		},
		{
			name:    "not html at all",
			body:    "\x00\x01binary",
			pageURL: "https://example.com/",
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractCandidates(tt.body, tt.pageURL)

			require.NoError(t, err)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHostRuleCandidates(t *testing.T) {
	tests := []struct {
		pageURL string
		want    []string
	}{
		{"https://github.com/golang/go", []string{"https://github.com/golang/go/commits.atom"}},
		{"https://github.com/golang/go/tree/master/src", []string{"https://github.com/golang/go/commits.atom"}},
		{"https://github.com/golang", []string{"https://github.com/golang.atom"}},
		{"https://github.com/features", nil},
		{"https://github.com/", nil},
		{"https://www.reddit.com/r/golang/", []string{"https://www.reddit.com/r/golang/.rss"}},
		{"https://old.reddit.com/r/golang", []string{"https://old.reddit.com/r/golang/.rss"}},
		{"https://www.reddit.com/r/golang/.rss", nil},
		{"https://example.com/golang", nil},
		{"not a url", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pageURL, func(t *testing.T) {
			assert.Equal(t, tt.want, hostRuleCandidates(tt.pageURL))
		})
	}
}

func TestFindFeedLinks_HostRulesFollowPageSignals(t *testing.T) {
	fetcher := newStubFetcher(map[string]string{
		"https://github.com/golang/go": `<link rel="alternate" type="application/atom+xml" href="https://github.com/golang/go/releases.atom">`,
	})

	links, err := NewFinder(fetcher, false).FindFeedLinks(context.Background(), "https://github.com/golang/go")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://github.com/golang/go/releases.atom",
		"https://github.com/golang/go/commits.atom",
	}, links)
}

func TestLooksLikeFeed(t *testing.T) {
	tests := []struct {
		body string
		want bool
	}{
		{`<?xml version="1.0"?><rss version="2.0"></rss>`, true},
		{"\ufeff  <feed xmlns=\"http://www.w3.org/2005/Atom\">", true},
		{`<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#">`, true},
		{`{"version": "https://jsonfeed.org/version/1.1", "items": []}`, true},
		{`{"error": "not found"}`, false},
		{`<!DOCTYPE html><html><head><link rel="alternate" href="/feed"></head>`, false},
		{`plain text`, false},
		{``, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LooksLikeFeed(&domain.RawDocument{Body: tt.body}), tt.body)
	}
	assert.False(t, LooksLikeFeed(nil))
}

func TestDedupeKeepsFirstPosition(t *testing.T) {
	got := dedupe([]string{"b", "a", "b", "c", "a"})
	assert.Equal(t, []string{"b", "a", "c"}, got)
}
