// ABOUTME: Error handling utilities for API handlers
// ABOUTME: Converts discovery errors to appropriate HTTP responses

package handlers

import (
	"feedfinder-api/core/errors"
	"github.com/danielgtaylor/huma/v2"
)

// toHumaError converts domain errors to appropriate Huma HTTP errors
func toHumaError(err error) error {
	if err == nil {
		return nil
	}

	if errors.IsValidation(err) {
		return huma.Error400BadRequest(err.Error())
	}

	switch errors.Kind(err) {
	case errors.KindTransport, errors.KindUnrecognizedFormat, errors.KindNoFeedAdvertised:
		return huma.Error404NotFound(publicMessage(err))
	}

	return huma.Error500InternalServerError("Internal server error", err)
}

// publicMessage is the fixed text shown to API callers for a failure.
// Upstream error details stay in the logs.
func publicMessage(err error) string {
	switch errors.Kind(err) {
	case errors.KindTransport:
		return "Could not fetch the URL"
	case errors.KindUnrecognizedFormat:
		return "The URL does not point to a supported feed"
	case errors.KindNoFeedAdvertised:
		return "No feed found at the URL"
	case errors.KindValidation:
		return err.Error()
	default:
		return "Feed discovery failed"
	}
}
