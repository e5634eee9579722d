// ABOUTME: Discovery orchestrator resolves an arbitrary URL into a feed or a not-found outcome
// ABOUTME: Direct fetch and parse first, then the first candidate advertised by the page; every failure collapses to NOT_FOUND

package discovery

import (
	"context"
	"errors"
	"fmt"
	neturl "net/url"
	"strings"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	"feedfinder-api/core/interfaces"
)

// State is a terminal state of one discovery call
type State string

const (
	StateFound    State = "FOUND"
	StateNotFound State = "NOT_FOUND"
)

// Steps recorded in logs and outcomes
const (
	stepValidate  = "validate"
	stepDirect    = "direct"
	stepLinks     = "link_discovery"
	stepCandidate = "candidate"
)

// Outcome is the internal result of a discovery call. Callers of Discover only
// see the feed and a found flag; the outcome keeps the failure for diagnostics.
type Outcome struct {
	State State
	Feed  *domain.Feed

	// SourceURL is the URL whose body produced Feed
	SourceURL string

	// Step is where the call ended
	Step string

	// Err is the last failure when State is NOT_FOUND
	Err error
}

// Found reports whether a feed was found
func (o Outcome) Found() bool {
	return o.State == StateFound && o.Feed != nil
}

// Kind returns the category of the failure, or "" when found
func (o Outcome) Kind() coreerrors.ErrorKind {
	return coreerrors.Kind(o.Err)
}

// OutcomeDiscoverer is a Discoverer that can also explain a not-found result
type OutcomeDiscoverer interface {
	interfaces.Discoverer
	DiscoverOutcome(ctx context.Context, url string) Outcome
}

// Service sequences the fetcher, parser and link finder for one URL at a time.
// It holds no per-call state and is safe for concurrent use.
type Service struct {
	fetcher interfaces.Fetcher
	parser  interfaces.FeedParser
	finder  interfaces.LinkFinder
	logger  interfaces.Logger
}

// NewService creates a discovery service. A nil logger discards output.
func NewService(fetcher interfaces.Fetcher, parser interfaces.FeedParser, finder interfaces.LinkFinder, logger interfaces.Logger) *Service {
	if logger == nil {
		logger = interfaces.NopLogger{}
	}
	return &Service{
		fetcher: fetcher,
		parser:  parser,
		finder:  finder,
		logger:  logger,
	}
}

// Discover returns the feed for url and true, or nil and false
func (s *Service) Discover(ctx context.Context, url string) (*domain.Feed, bool) {
	outcome := s.DiscoverOutcome(ctx, url)
	return outcome.Feed, outcome.Found()
}

// DiscoverOutcome runs the discovery state machine and never returns an error or panics
func (s *Service) DiscoverOutcome(ctx context.Context, url string) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			outcome = s.notFound(ctx, url, outcome.Step, fmt.Errorf("discovery panic: %v", r))
		}
	}()

	target := strings.TrimSpace(url)
	if target == "" {
		return s.notFound(ctx, url, stepValidate, &coreerrors.ValidationError{Field: "url", Message: "cannot be empty"})
	}

	// Direct attempt: the URL may already be a feed
	outcome.Step = stepDirect
	doc, err := s.fetcher.Fetch(ctx, target)
	if err != nil {
		return s.notFound(ctx, target, stepDirect, err)
	}
	feed, err := s.parse(doc, target)
	if err == nil {
		return s.accept(ctx, target, target, stepDirect, feed)
	}

	s.logger.Debug("Direct parse failed, looking for advertised feeds", logFields(ctx, map[string]interface{}{
		"url":   target,
		"kind":  string(coreerrors.Kind(err)),
		"error": err.Error(),
	}))

	// Discovery attempt: only the first candidate is ever tried
	outcome.Step = stepLinks
	candidates, err := s.finder.FindFeedLinks(ctx, target)
	if err != nil {
		return s.notFound(ctx, target, stepLinks, err)
	}
	if len(candidates) == 0 {
		return s.notFound(ctx, target, stepLinks, &coreerrors.NoFeedAdvertisedError{URL: target})
	}

	candidate := candidates[0]
	s.logger.Debug("Trying advertised feed", logFields(ctx, map[string]interface{}{
		"url":        target,
		"candidate":  candidate,
		"candidates": len(candidates),
	}))

	outcome.Step = stepCandidate
	doc, err = s.fetcher.Fetch(ctx, candidate)
	if err != nil {
		return s.notFound(ctx, target, stepCandidate, err)
	}
	feed, err = s.parse(doc, candidate)
	if err != nil {
		return s.notFound(ctx, target, stepCandidate, err)
	}

	return s.accept(ctx, target, candidate, stepCandidate, feed)
}

// parse interprets a document fetched from url, backfilling the feed URL with it when the document has none
func (s *Service) parse(doc *domain.RawDocument, url string) (*domain.Feed, error) {
	if doc == nil {
		return nil, &coreerrors.UnrecognizedFormatError{URL: url, Err: errors.New("no document")}
	}

	feed, err := s.parser.Parse(doc.Body)
	if err != nil {
		var formatErr *coreerrors.UnrecognizedFormatError
		if errors.As(err, &formatErr) && formatErr.URL == "" {
			formatErr.URL = url
		}
		return nil, err
	}
	if feed == nil {
		return nil, &coreerrors.UnrecognizedFormatError{URL: url, Err: errors.New("parser returned no feed")}
	}

	feed.FeedURL = strings.TrimSpace(feed.FeedURL)
	if feed.FeedURL == "" {
		feed.FeedURL = url
	} else if ref, err := neturl.Parse(feed.FeedURL); err == nil && !ref.IsAbs() {
		// A relative self link resolves against where the document was served from
		if base, err := neturl.Parse(doc.BaseURL()); err == nil {
			feed.FeedURL = base.ResolveReference(ref).String()
		}
	}

	return feed, nil
}

// accept checks the discovered feed before reporting it; a feed that fails
// validation is NOT_FOUND, never a partial result
func (s *Service) accept(ctx context.Context, url, source, step string, feed *domain.Feed) Outcome {
	if err := feed.Validate(); err != nil {
		return s.notFound(ctx, url, step, &coreerrors.UnrecognizedFormatError{
			URL: source,
			Err: coreerrors.WrapError(err, "discovered feed is invalid"),
		})
	}
	return s.found(ctx, url, source, step, feed)
}

func (s *Service) found(ctx context.Context, url, source, step string, feed *domain.Feed) Outcome {
	s.logger.Info("Feed discovered", logFields(ctx, map[string]interface{}{
		"url":      url,
		"feed_url": feed.FeedURL,
		"step":     step,
		"items":    len(feed.Items),
	}))

	return Outcome{
		State:     StateFound,
		Feed:      feed,
		SourceURL: source,
		Step:      step,
	}
}

func (s *Service) notFound(ctx context.Context, url, step string, err error) Outcome {
	s.logger.Info("Feed not found", logFields(ctx, map[string]interface{}{
		"url":   url,
		"step":  step,
		"kind":  string(coreerrors.Kind(err)),
		"error": err.Error(),
	}))

	return Outcome{
		State: StateNotFound,
		Step:  step,
		Err:   err,
	}
}

// logFields adds the caller's request ID, when there is one
func logFields(ctx context.Context, fields map[string]interface{}) map[string]interface{} {
	if id := interfaces.RequestIDFromContext(ctx); id != "" {
		fields["request_id"] = id
	}
	return fields
}
