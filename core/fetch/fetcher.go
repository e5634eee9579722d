// ABOUTME: Fetcher performs a single GET and returns the body as text
// ABOUTME: Every failure mode collapses into a TransportError; bodies are decoded best-effort to UTF-8

package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"feedfinder-api/core/domain"
	coreerrors "feedfinder-api/core/errors"
	"feedfinder-api/core/interfaces"
	"golang.org/x/net/html/charset"
)

// DefaultMaxBodyBytes caps how much of a response body is read
const DefaultMaxBodyBytes int64 = 5 * 1024 * 1024

// DefaultTimeout bounds a single fetch, including reading the body
const DefaultTimeout = 30 * time.Second

// Fetcher retrieves documents through an interfaces.HTTPClient
type Fetcher struct {
	client       interfaces.HTTPClient
	maxBodyBytes int64
	timeout      time.Duration
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithTimeout bounds each fetch regardless of the client's own timeout.
// A non-positive value keeps DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// NewFetcher creates a fetcher. A non-positive maxBodyBytes uses DefaultMaxBodyBytes.
func NewFetcher(client interfaces.HTTPClient, maxBodyBytes int64, opts ...Option) *Fetcher {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	f := &Fetcher{
		client:       client,
		maxBodyBytes: maxBodyBytes,
		timeout:      DefaultTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch retrieves url and returns its body. There are no retries at this layer.
// The fetch is bounded by the fetcher's timeout on top of whatever ctx and the client impose.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*domain.RawDocument, error) {
	if f.client == nil {
		return nil, &coreerrors.TransportError{URL: url, Err: errors.New("HTTP client not configured")}
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	resp, err := f.client.Get(ctx, url)
	if err != nil {
		return nil, &coreerrors.TransportError{URL: url, Err: err}
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &coreerrors.TransportError{URL: url, StatusCode: resp.StatusCode()}
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body(), f.maxBodyBytes+1))
	if err != nil {
		return nil, &coreerrors.TransportError{URL: url, Err: err}
	}
	if int64(len(data)) > f.maxBodyBytes {
		return nil, &coreerrors.TransportError{URL: url, Err: fmt.Errorf("body exceeds %d bytes", f.maxBodyBytes)}
	}

	contentType := resp.Header("Content-Type")
	finalURL := resp.URL()
	if finalURL == "" {
		finalURL = url
	}

	return &domain.RawDocument{
		URL:         url,
		FinalURL:    finalURL,
		ContentType: contentType,
		Body:        decodeBody(data, contentType),
	}, nil
}

// decodeBody turns arbitrary bytes into text without failing.
// XML documents that declare their own encoding are left untouched so the
// feed parser can honour the declaration.
func decodeBody(data []byte, contentType string) string {
	if utf8.Valid(data) {
		return string(data)
	}

	if declaresXMLEncoding(data) {
		return string(data)
	}

	enc, name, _ := charset.DetermineEncoding(data, contentType)
	if name != "utf-8" {
		if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
			return strings.ToValidUTF8(string(decoded), "\uFFFD")
		}
	}

	return strings.ToValidUTF8(string(data), "\uFFFD")
}

func declaresXMLEncoding(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if !bytes.HasPrefix(trimmed, []byte("<?xml")) {
		return false
	}
	end := bytes.Index(trimmed, []byte("?>"))
	if end < 0 {
		return false
	}
	return bytes.Contains(trimmed[:end], []byte("encoding="))
}
