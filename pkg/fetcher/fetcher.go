// Package fetcher retrieves HTML documents for the crawl engine.
//
// Implementations never return an error for a page that simply failed to
// load after retries — they return ErrNoContent instead, matching the
// contract in spec.md §4.1: fetch(url) → html | nil. Only setup failures
// (a malformed request, a closed fetcher) are reported as errors.
package fetcher

import (
	"context"
	"errors"
	"time"
)

// ErrNoContent is returned when a URL could not be fetched after
// exhausting retries (and, where available, the browser fallback).
// This is not a fatal error: callers skip the URL and continue.
var ErrNoContent = errors.New("fetcher: no content retrieved")

// Fetcher retrieves an HTML document for a URL.
type Fetcher interface {
	// Fetch retrieves page content from a URL. A failed fetch (after all
	// retries) returns ErrNoContent, never a transport error directly.
	Fetch(ctx context.Context, url string) (Content, error)

	// Close releases any resources (browser sessions, connection pools).
	Close() error

	// Type identifies the fetcher strategy, e.g. "static" or "browser".
	Type() string
}

// Options configures retry/backoff/delay behavior shared by fetchers.
type Options struct {
	UserAgent string
	Timeout   time.Duration

	// Delay is the minimum pause before each attempt (CRAWL_DELAY).
	Delay time.Duration

	// MaxRetries bounds retries on transport errors or non-2xx responses.
	MaxRetries int
}

// DefaultOptions returns the spec's suggested defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:  DefaultUserAgent,
		Timeout:    30 * time.Second,
		Delay:      500 * time.Millisecond,
		MaxRetries: 3,
	}
}

// DefaultUserAgent is a realistic desktop browser identifier, matching
// the User-Agent policy in spec.md §4.1.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"

// AcceptHeader is the Accept header sent with every fetch.
const AcceptHeader = "text/html,application/xhtml+xml,application/xml"

// Content represents a fetched page.
type Content struct {
	URL        string
	HTML       string
	StatusCode int
	FetchedAt  time.Time
}
