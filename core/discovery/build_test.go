package discovery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"feedfinder-api/core/interfaces"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// siteClient serves fixed bodies by URL; unknown URLs are 404
type siteClient struct {
	pages map[string]string
	calls int
}

type siteResponse struct {
	status int
	body   string
	url    string
}

func (r *siteResponse) StatusCode() int          { return r.status }
func (r *siteResponse) Body() io.ReadCloser      { return io.NopCloser(strings.NewReader(r.body)) }
func (r *siteResponse) Header(key string) string { return "" }
func (r *siteResponse) URL() string              { return r.url }

func (c *siteClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	c.calls++
	body, ok := c.pages[url]
	if !ok {
		return &siteResponse{status: http.StatusNotFound, url: url}, nil
	}
	return &siteResponse{status: http.StatusOK, body: body, url: url}, nil
}

func TestNew_WiresFullStack(t *testing.T) {
	client := &siteClient{pages: map[string]string{
		"https://example.com/": `<html><head><link rel="alternate" type="application/atom+xml" href="/atom.xml"></head></html>`,
		"https://example.com/atom.xml": `<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>Built</title><id>urn:x</id>` +
			`<updated>2024-01-01T00:00:00Z</updated></feed>`,
	}}

	d := New(interfaces.Dependencies{HTTPClient: client}, Settings{})

	feed, ok := d.Discover(context.Background(), "https://example.com/")

	require.True(t, ok)
	assert.Equal(t, "Built", feed.Title)
	assert.Equal(t, "https://example.com/atom.xml", feed.FeedURL)
	_, cached := d.(*CachedDiscoverer)
	assert.False(t, cached)
}

func TestNew_WithCache(t *testing.T) {
	client := &siteClient{pages: map[string]string{
		"https://example.com/feed.json": `{"version":"https://jsonfeed.org/version/1.1","title":"J","items":[]}`,
	}}
	cache := newMockCache()

	d := New(interfaces.Dependencies{HTTPClient: client, Cache: cache}, Settings{})
	_, cached := d.(*CachedDiscoverer)
	require.True(t, cached)

	for i := 0; i < 2; i++ {
		_, ok := d.Discover(context.Background(), "https://example.com/feed.json")
		require.True(t, ok)
	}
	assert.Equal(t, 1, client.calls)
}

func TestNew_JSONAPIEndpointIsNotFound(t *testing.T) {
	client := &siteClient{pages: map[string]string{
		"https://api.example.com/users": `{"status":"ok","users":[{"id":1}]}`,
	}}

	outcome := New(interfaces.Dependencies{HTTPClient: client}, Settings{}).DiscoverOutcome(context.Background(), "https://api.example.com/users")

	assert.Equal(t, StateNotFound, outcome.State)
	assert.Nil(t, outcome.Feed)
}
