// ABOUTME: Public types for the FeedFinder library API
// ABOUTME: Aliases of the core domain model so callers never import internal packages

package feedfinder

import (
	"feedfinder-api/core/discovery"
	"feedfinder-api/core/domain"
	"feedfinder-api/core/errors"
	"feedfinder-api/core/interfaces"
)

// Feed is a parsed RSS, Atom or JSON feed
type Feed = domain.Feed

// FeedItem is one entry of a Feed
type FeedItem = domain.FeedItem

// Outcome explains the result of a discovery, including why nothing was found
type Outcome = discovery.Outcome

// ErrorKind names why a discovery ended without a feed
type ErrorKind = errors.ErrorKind

// Failure kinds reported by Outcome.Kind
const (
	KindTransport          = errors.KindTransport
	KindUnrecognizedFormat = errors.KindUnrecognizedFormat
	KindNoFeedAdvertised   = errors.KindNoFeedAdvertised
	KindValidation         = errors.KindValidation
)

// Cache stores serialized discovery results
type Cache = interfaces.Cache

// Logger receives structured log lines
type Logger = interfaces.Logger

// HTTPClient performs outbound GET requests
type HTTPClient = interfaces.HTTPClient
