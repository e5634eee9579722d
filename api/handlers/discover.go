// ABOUTME: Discover handler resolves website or feed URLs into parsed feeds
// ABOUTME: Batch POST runs on the shared discovery pool; GET resolves a single URL

package handlers

import (
	"context"
	"net/http"

	"feedfinder-api/core/discovery"
	"feedfinder-api/core/domain"
	"github.com/danielgtaylor/huma/v2"
)

// Result statuses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BatchDiscoverer resolves many URLs at once, returning outcomes in input order
type BatchDiscoverer interface {
	DiscoverBatch(ctx context.Context, urls []string) []discovery.Outcome
}

// DiscoverHandler handles feed discovery
type DiscoverHandler struct {
	discoverer discovery.OutcomeDiscoverer
	batch      BatchDiscoverer
}

// NewDiscoverHandler creates a new discover handler
func NewDiscoverHandler(discoverer discovery.OutcomeDiscoverer, batch BatchDiscoverer) *DiscoverHandler {
	return &DiscoverHandler{
		discoverer: discoverer,
		batch:      batch,
	}
}

// RegisterRoutes registers discover routes
func (h *DiscoverHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "discoverFeeds",
		Method:      http.MethodPost,
		Path:        "/discover",
		Summary:     "Discover feeds for several URLs",
		Description: "Resolves each URL into a feed, either directly or through the first feed the page advertises",
		Tags:        []string{"Discovery"},
	}, h.DiscoverFeeds)

	huma.Register(api, huma.Operation{
		OperationID: "discoverFeed",
		Method:      http.MethodGet,
		Path:        "/discover",
		Summary:     "Discover the feed for one URL",
		Description: "Returns the parsed feed, or 404 when no feed could be found",
		Tags:        []string{"Discovery"},
	}, h.DiscoverFeed)
}

// DiscoverFeedsInput defines the input for batch discovery
type DiscoverFeedsInput struct {
	Body struct {
		URLs []string `json:"urls" maxItems:"50" doc:"Website or feed URLs to resolve"`
	}
}

// FeedDiscoveryResult represents a single discovery result
type FeedDiscoveryResult struct {
	URL     string       `json:"url" doc:"URL that was checked"`
	Status  string       `json:"status" enum:"ok,error" doc:"Discovery status"`
	FeedURL string       `json:"feedUrl,omitempty" doc:"URL of the feed that was found"`
	Feed    *domain.Feed `json:"feed,omitempty" doc:"Parsed feed"`
	Error   string       `json:"error,omitempty" doc:"Reason no feed was found"`
}

// DiscoverFeedsOutput defines the output for batch discovery
type DiscoverFeedsOutput struct {
	Body struct {
		Feeds []FeedDiscoveryResult `json:"feeds" doc:"Discovery results in request order"`
	}
}

// DiscoverFeedInput defines the input for single discovery
type DiscoverFeedInput struct {
	URL string `query:"url" required:"true" doc:"Website or feed URL to resolve"`
}

// DiscoverFeedOutput defines the output for single discovery
type DiscoverFeedOutput struct {
	Body *domain.Feed
}

// DiscoverFeeds handles the POST /discover endpoint
func (h *DiscoverHandler) DiscoverFeeds(ctx context.Context, input *DiscoverFeedsInput) (*DiscoverFeedsOutput, error) {
	if len(input.Body.URLs) == 0 {
		return nil, huma.Error400BadRequest("No URLs provided")
	}

	outcomes := h.batch.DiscoverBatch(ctx, input.Body.URLs)
	results := make([]FeedDiscoveryResult, len(outcomes))
	for i, outcome := range outcomes {
		results[i] = toResult(input.Body.URLs[i], outcome)
	}

	output := &DiscoverFeedsOutput{}
	output.Body.Feeds = results
	return output, nil
}

// DiscoverFeed handles the GET /discover endpoint
func (h *DiscoverHandler) DiscoverFeed(ctx context.Context, input *DiscoverFeedInput) (*DiscoverFeedOutput, error) {
	outcome := h.discoverer.DiscoverOutcome(ctx, input.URL)
	if !outcome.Found() {
		return nil, toHumaError(outcome.Err)
	}
	return &DiscoverFeedOutput{Body: outcome.Feed}, nil
}

func toResult(target string, outcome discovery.Outcome) FeedDiscoveryResult {
	if !outcome.Found() {
		return FeedDiscoveryResult{
			URL:    target,
			Status: StatusError,
			Error:  publicMessage(outcome.Err),
		}
	}
	return FeedDiscoveryResult{
		URL:     target,
		Status:  StatusOK,
		FeedURL: outcome.Feed.FeedURL,
		Feed:    outcome.Feed,
	}
}
