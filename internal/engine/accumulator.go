package engine

import (
	"regexp"
	"sync"
)

// maxNextDepth bounds a depth transition's carried-forward URL count,
// per spec.md §4.6 step 7.
const maxNextDepth = 500

// priorityPatterns rank next-depth candidates that look like listing
// pages ahead of everything else, per spec.md §4.6 step 7.
var priorityPatterns = compileAll([]string{
	`/category/`, `/collection`, `/products?/`, `/shop/`, `/department/`, `/catalog/`, `/items?/`,
})

func compileAll(exprs []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, e := range exprs {
		out = append(out, regexp.MustCompile(e))
	}
	return out
}

func isPriority(url string) bool {
	for _, re := range priorityPatterns {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// nextDepthAccumulator collects the URLs a depth's pages discover for
// the next depth, deduplicated against both itself and the pipeline's
// visited set (spec.md §4.6 step 5), then ranked and capped (step 7).
// Pages within one depth are processed concurrently (spec.md §5), so
// Add is safe for concurrent use.
type nextDepthAccumulator struct {
	mu   sync.Mutex
	seen map[string]struct{}
	urls []string
}

func newNextDepthAccumulator() *nextDepthAccumulator {
	return &nextDepthAccumulator{seen: make(map[string]struct{})}
}

// Add appends url if it is new to this accumulator and not already
// visited in the pipeline.
func (a *nextDepthAccumulator) Add(url string, frontier *Frontier) {
	if frontier.IsVisited(url) {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.seen[url]; ok {
		return
	}
	a.seen[url] = struct{}{}
	a.urls = append(a.urls, url)
}

// Ranked returns the accumulated URLs with listing-page candidates
// first, truncated at maxNextDepth.
func (a *nextDepthAccumulator) Ranked() []string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var priority, rest []string
	for _, u := range a.urls {
		if isPriority(u) {
			priority = append(priority, u)
		} else {
			rest = append(rest, u)
		}
	}
	out := append(priority, rest...)
	if len(out) > maxNextDepth {
		out = out[:maxNextDepth]
	}
	return out
}
