package engine

import (
	"time"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

// Config holds the engine-wide tunables a deployment sets from
// environment, per spec.md §6. It has no max-depth field: max_depth is
// a per-CrawlTask input (spec.md §3), not a deployment default. The
// crawl command falls back to MAX_CRAWL_DEPTH when --max-depth is not
// given; the Control API passes the request's max_depth through as is.
type Config struct {
	// ParsersToUse is the PARSERS_TO_USE order; it determines
	// first_finder tie-breaks (spec.md §4.2).
	ParsersToUse []extractor.Name

	// CrawlDelay is the pause observed before each fetch and between
	// batches (spec.md §4.1, §5).
	CrawlDelay time.Duration

	MaxRetries int
	Timeout    time.Duration

	// BatchSize bounds concurrent fetches within one depth, capped at
	// 10 per spec.md §5.
	BatchSize int

	// WorkerCount bounds cross-domain parallelism (spec.md §5,
	// SPEC_FULL.md §E.1).
	WorkerCount int
}

const maxBatchSize = 10

// DefaultConfig returns the engine defaults. PARSERS_TO_USE defaults to
// every extractor except the AI one, which requires an external
// provider and API key to be configured.
func DefaultConfig() Config {
	return Config{
		ParsersToUse: []extractor.Name{extractor.Simple, extractor.Config},
		CrawlDelay:   1 * time.Second,
		MaxRetries:   3,
		Timeout:      30 * time.Second,
		BatchSize:    maxBatchSize,
		WorkerCount:  4,
	}
}

// normalize clamps BatchSize/WorkerCount to sane minimums/maximums.
func (c Config) normalize() Config {
	if c.BatchSize <= 0 || c.BatchSize > maxBatchSize {
		c.BatchSize = maxBatchSize
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = 1
	}
	return c
}
