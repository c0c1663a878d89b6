package fetcher

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/jmylchreest/prodcrawl/internal/logger"
)

// StaticFetcher retrieves pages with plain HTTP requests via colly, with
// retry and exponential backoff. It never renders JavaScript.
type StaticFetcher struct {
	opts Options
}

// NewStatic creates a colly-backed static fetcher.
func NewStatic(opts Options) *StaticFetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	return &StaticFetcher{opts: opts}
}

// Fetch retrieves targetURL, retrying on transport errors or non-2xx
// responses with exponential backoff multiplied by jitter in [0.5, 1.0),
// per spec.md §4.1. It never returns a transport error directly:
// exhausting retries yields ErrNoContent.
func (f *StaticFetcher) Fetch(ctx context.Context, targetURL string) (Content, error) {
	var lastErr error

	for attempt := 0; attempt <= f.opts.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(float64(f.opts.Delay) * float64(uint(1)<<uint(attempt)) * (0.5 + 0.5*rand.Float64()))
			logger.Debug("fetcher retrying", "url", targetURL, "attempt", attempt, "backoff", backoff)
			if err := sleepCtx(ctx, backoff); err != nil {
				return Content{}, ErrNoContent
			}
		} else if f.opts.Delay > 0 {
			if err := sleepCtx(ctx, f.opts.Delay); err != nil {
				return Content{}, ErrNoContent
			}
		}

		content, err := f.attempt(targetURL)
		if err == nil {
			return content, nil
		}
		lastErr = err
		logger.Debug("fetcher attempt failed", "url", targetURL, "attempt", attempt, "error", err)
	}

	logger.Warn("fetcher exhausted retries", "url", targetURL, "retries", f.opts.MaxRetries, "last_error", lastErr)
	return Content{}, ErrNoContent
}

func (f *StaticFetcher) attempt(targetURL string) (Content, error) {
	result := Content{URL: targetURL, FetchedAt: time.Now()}

	c := colly.NewCollector(colly.UserAgent(f.opts.UserAgent))
	c.SetRequestTimeout(f.opts.Timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", AcceptHeader)
	})

	var fetchErr error
	c.OnResponse(func(r *colly.Response) {
		result.StatusCode = r.StatusCode
		result.HTML = string(r.Body)
	})
	c.OnError(func(r *colly.Response, err error) {
		if r != nil {
			result.StatusCode = r.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error: %w", err)
	})

	if err := c.Visit(targetURL); err != nil {
		return result, fmt.Errorf("visit %s: %w", targetURL, err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}
	if result.StatusCode < 200 || result.StatusCode >= 300 {
		return result, fmt.Errorf("non-2xx status %d for %s", result.StatusCode, targetURL)
	}
	return result, nil
}

// Close releases no resources for the static fetcher; colly collectors
// are created per request.
func (f *StaticFetcher) Close() error { return nil }

// Type identifies this fetcher.
func (f *StaticFetcher) Type() string { return "static" }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
