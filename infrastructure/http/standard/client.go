// ABOUTME: Standard HTTP client implementation with timeout, per-host rate limiting and request logging
// ABOUTME: Performs exactly one attempt per call; redirects are followed by net/http

package standard

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"feedfinder-api/core/interfaces"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent identifies outbound requests
	DefaultUserAgent = "FeedFinder/1.0 (+https://github.com/feedfinder)"

	// DefaultTimeout bounds a single request including redirects and body read
	DefaultTimeout = 15 * time.Second

	maxRedirects = 10

	acceptHeader = "application/rss+xml, application/atom+xml, application/feed+json, application/xml;q=0.9, text/xml;q=0.9, text/html;q=0.8, */*;q=0.5"
)

// Options configures a StandardHTTPClient
type Options struct {
	Timeout   time.Duration
	UserAgent string

	// HostRate is the sustained requests per second allowed to one host; zero disables limiting
	HostRate  float64
	HostBurst int

	// Logger receives a debug line per outgoing request when set
	Logger interfaces.Logger

	// Transport overrides http.DefaultTransport
	Transport http.RoundTripper
}

// StandardHTTPClient implements the HTTPClient interface using net/http
type StandardHTTPClient struct {
	client    *http.Client
	userAgent string
	limiters  *hostLimiters
}

// NewStandardHTTPClient creates a new HTTP client from opts
func NewStandardHTTPClient(opts Options) *StandardHTTPClient {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	transport := opts.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}
	if opts.Logger != nil {
		transport = &loggingRoundTripper{transport: transport, logger: opts.Logger}
	}

	var limiters *hostLimiters
	if opts.HostRate > 0 {
		limiters = newHostLimiters(rate.Limit(opts.HostRate), opts.HostBurst)
	}

	return &StandardHTTPClient{
		client: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		userAgent: opts.UserAgent,
		limiters:  limiters,
	}
}

// Get performs an HTTP GET request. Non-2xx responses are returned, not treated as errors.
func (c *StandardHTTPClient) Get(ctx context.Context, rawURL string) (interfaces.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptHeader)

	if c.limiters != nil {
		if err := c.limiters.wait(ctx, req.URL.Host); err != nil {
			return nil, err
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}

	finalURL := rawURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &httpResponse{
		statusCode: resp.StatusCode,
		body:       resp.Body,
		headers:    resp.Header,
		url:        finalURL,
	}, nil
}

// httpResponse implements the Response interface
type httpResponse struct {
	statusCode int
	body       io.ReadCloser
	headers    http.Header
	url        string
}

// StatusCode returns the HTTP status code
func (r *httpResponse) StatusCode() int {
	return r.statusCode
}

// Body returns the response body
func (r *httpResponse) Body() io.ReadCloser {
	return r.body
}

// Header returns the value of the specified header
func (r *httpResponse) Header(key string) string {
	return r.headers.Get(key)
}

// URL returns the URL of the final request after redirects
func (r *httpResponse) URL() string {
	return r.url
}

// hostLimiters hands out one token bucket per host
type hostLimiters struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newHostLimiters(limit rate.Limit, burst int) *hostLimiters {
	if burst < 1 {
		burst = 1
	}
	return &hostLimiters{
		limit:    limit,
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (h *hostLimiters) get(host string) *rate.Limiter {
	host = strings.ToLower(host)

	h.mu.Lock()
	defer h.mu.Unlock()

	l, ok := h.limiters[host]
	if !ok {
		l = rate.NewLimiter(h.limit, h.burst)
		h.limiters[host] = l
	}
	return l
}

func (h *hostLimiters) wait(ctx context.Context, host string) error {
	return h.get(host).Wait(ctx)
}

// loggingRoundTripper logs outgoing requests at debug level
type loggingRoundTripper struct {
	transport http.RoundTripper
	logger    interfaces.Logger
}

// RoundTrip logs the request, delegates, then logs the response or failure
func (t *loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	requestID := uuid.New().String()

	t.logger.Debug("Outgoing HTTP request", map[string]interface{}{
		"request_id": requestID,
		"method":     req.Method,
		"url":        redact(req.URL),
	})

	resp, err := t.transport.RoundTrip(req)
	duration := time.Since(start)

	if err != nil {
		t.logger.Debug("Outgoing HTTP request failed", map[string]interface{}{
			"request_id": requestID,
			"url":        redact(req.URL),
			"duration":   duration.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	t.logger.Debug("Outgoing HTTP response", map[string]interface{}{
		"request_id": requestID,
		"url":        redact(req.URL),
		"status":     resp.StatusCode,
		"duration":   duration.String(),
	})

	return resp, nil
}

// redact drops userinfo from a URL before it is logged
func redact(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.User == nil {
		return u.String()
	}
	clean := *u
	clean.User = nil
	return clean.String()
}
