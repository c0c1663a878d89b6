// Package extractor implements the three product-URL extractor variants
// the crawl engine composes into a per-page pipeline: a global regex list
// (Pattern/SIMPLE), a per-host regex table (DomainPattern/CONFIG), and an
// LLM-backed classifier (Model/AI). All three share the single shape
// spec.md §4.2 defines: parse(html, base_url) -> ordered unique absolute
// URLs, as pure functions of their inputs.
package extractor

import (
	"context"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Name identifies one of the three extractor variants. The crawl engine
// uses these as the parser-stats key (§3 ParserStats) and as
// first_finder attribution.
type Name string

const (
	Simple     Name = "simple"
	Config     Name = "config"
	AI         Name = "ai"
	Sequential Name = "sequential" // attributed by the engine, not an Extractor implementation
)

// Extractor emits candidate product URLs from an HTML document.
type Extractor interface {
	// Parse returns deduplicated absolute URLs found in html, resolved
	// against baseURL. Implementations never return an error for bad
	// input; a parse failure yields no URLs (a nil or empty slice).
	Parse(ctx context.Context, html, baseURL string) []string

	// Name identifies the extractor for statistics and attribution.
	Name() Name
}

// hrefs walks every <a href> in html and calls fn with the raw href
// attribute value. Malformed HTML yields zero calls, never an error.
func hrefs(html string, fn func(href string)) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if ok && href != "" {
			fn(href)
		}
	})
}

// sortedUnique returns the deduplicated members of set, sorted ascending,
// matching the SIMPLE/CONFIG extractors' "return sorted ascending"
// contract (spec.md §4.2).
func sortedUnique(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for u := range set {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}
