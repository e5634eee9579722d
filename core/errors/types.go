// ABOUTME: Error taxonomy for feed discovery
// ABOUTME: Transport, format and no-feed failures stay distinguishable internally even though callers only see found/not found

package errors

import (
	"errors"
	"fmt"
)

// ErrorKind names the category of a discovery failure
type ErrorKind string

const (
	// KindTransport covers DNS, connection, TLS, timeout and non-2xx responses
	KindTransport ErrorKind = "transport_failure"

	// KindUnrecognizedFormat means the body is not any supported feed format
	KindUnrecognizedFormat ErrorKind = "unrecognized_format"

	// KindNoFeedAdvertised means the page exposes no feed links
	KindNoFeedAdvertised ErrorKind = "no_feed_advertised"

	// KindValidation means the input was rejected before any network call
	KindValidation ErrorKind = "validation"

	// KindUnknown is anything else
	KindUnknown ErrorKind = "unknown"
)

// TransportError represents a failed fetch
type TransportError struct {
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// UnrecognizedFormatError represents a body that is not a supported feed
type UnrecognizedFormatError struct {
	URL string
	Err error
}

// Error implements the error interface
func (e *UnrecognizedFormatError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("unrecognized feed format: %v", e.Err)
	}
	return fmt.Sprintf("unrecognized feed format at %s: %v", e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *UnrecognizedFormatError) Unwrap() error {
	return e.Err
}

// NoFeedAdvertisedError represents a page without any discoverable feed link
type NoFeedAdvertisedError struct {
	URL string
}

// Error implements the error interface
func (e *NoFeedAdvertisedError) Error() string {
	return fmt.Sprintf("no feed advertised by %s", e.URL)
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// IsTransport checks if an error is a TransportError
func IsTransport(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsUnrecognizedFormat checks if an error is an UnrecognizedFormatError
func IsUnrecognizedFormat(err error) bool {
	var formatErr *UnrecognizedFormatError
	return errors.As(err, &formatErr)
}

// IsNoFeedAdvertised checks if an error is a NoFeedAdvertisedError
func IsNoFeedAdvertised(err error) bool {
	var noFeedErr *NoFeedAdvertisedError
	return errors.As(err, &noFeedErr)
}

// IsValidation checks if an error is a ValidationError
func IsValidation(err error) bool {
	var validationErr *ValidationError
	return errors.As(err, &validationErr)
}

// Kind classifies an error into one of the discovery failure kinds.
// A nil error has no kind and returns the empty string.
func Kind(err error) ErrorKind {
	switch {
	case err == nil:
		return ""
	case IsTransport(err):
		return KindTransport
	case IsUnrecognizedFormat(err):
		return KindUnrecognizedFormat
	case IsNoFeedAdvertised(err):
		return KindNoFeedAdvertised
	case IsValidation(err):
		return KindValidation
	default:
		return KindUnknown
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
