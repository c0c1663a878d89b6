package extractor

import (
	"context"
	"net/url"
	"regexp"

	"github.com/jmylchreest/prodcrawl/pkg/urlnorm"
)

// PatternExtractor (SIMPLE) matches every <a href> against a compiled
// regex list and resolves matches into absolute, deduplicated, sorted
// product URLs. Patterns run in order; the first match wins for a given
// href, but all hrefs are still evaluated (a page with many matches still
// reports a complete set here — the engine applies the ≥5 short-circuit
// across the parser pipeline, not within one extractor).
type PatternExtractor struct {
	Patterns []*regexp.Regexp
}

// NewPattern creates a Pattern extractor. A nil or empty patterns slice
// falls back to ProductPatterns.
func NewPattern(patterns []*regexp.Regexp) *PatternExtractor {
	if len(patterns) == 0 {
		patterns = ProductPatterns
	}
	return &PatternExtractor{Patterns: patterns}
}

// Parse implements Extractor.
func (e *PatternExtractor) Parse(_ context.Context, html, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	found := make(map[string]struct{})
	hrefs(html, func(href string) {
		if !matchesAny(e.Patterns, href) {
			return
		}
		if abs := urlnorm.Resolve(base, href); abs != "" {
			found[abs] = struct{}{}
		}
	})
	return sortedUnique(found)
}

// Name implements Extractor.
func (e *PatternExtractor) Name() Name { return Simple }

var _ Extractor = (*PatternExtractor)(nil)
