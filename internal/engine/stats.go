package engine

import (
	"sync"

	"github.com/jmylchreest/prodcrawl/pkg/extractor"
)

// ParserStats accumulates one parser's contribution across a
// DomainPipeline's lifetime, per spec.md §3.
type ParserStats struct {
	Total   int
	Unique  int
	Domains map[string]struct{}
}

func newParserStats() *ParserStats {
	return &ParserStats{Domains: make(map[string]struct{})}
}

// Attribution is the per-pipeline first_finder map (URL -> parser name)
// and the per-parser statistics derived from it. Pages at the same
// depth are fetched concurrently, so every mutation is guarded by one
// mutex — spec.md §5's "first write wins" rule applied to a map that
// must survive concurrent writers.
type Attribution struct {
	mu          sync.Mutex
	firstFinder map[string]extractor.Name
	stats       map[extractor.Name]*ParserStats
}

// NewAttribution returns an empty Attribution.
func NewAttribution() *Attribution {
	return &Attribution{
		firstFinder: make(map[string]extractor.Name),
		stats:       make(map[extractor.Name]*ParserStats),
	}
}

// Record credits parser with emitting candidateURL while processing a
// page on pageHost. Total and Domains are updated unconditionally;
// Unique and the first_finder entry are only set the first time
// candidateURL is seen across the whole pipeline.
func (a *Attribution) Record(parser extractor.Name, candidateURL, pageHost string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.stats[parser]
	if s == nil {
		s = newParserStats()
		a.stats[parser] = s
	}
	s.Total++
	s.Domains[pageHost] = struct{}{}

	if _, found := a.firstFinder[candidateURL]; found {
		return
	}
	a.firstFinder[candidateURL] = parser
	s.Unique++
}

// FirstFinder returns the parser credited with discovering url, if any.
func (a *Attribution) FirstFinder(url string) (extractor.Name, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	p, ok := a.firstFinder[url]
	return p, ok
}

// DiscoveredCount returns the number of unique URLs discovered so far,
// satisfying invariant 3 (spec.md §8): it always equals the sum of
// every parser's Unique count.
func (a *Attribution) DiscoveredCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.firstFinder)
}

// Snapshot returns a deep copy of the accumulated per-parser stats,
// safe to hand to a DomainReport after the pipeline has stopped
// mutating it.
func (a *Attribution) Snapshot() map[extractor.Name]*ParserStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[extractor.Name]*ParserStats, len(a.stats))
	for name, s := range a.stats {
		cp := &ParserStats{Total: s.Total, Unique: s.Unique, Domains: make(map[string]struct{}, len(s.Domains))}
		for d := range s.Domains {
			cp.Domains[d] = struct{}{}
		}
		out[name] = cp
	}
	return out
}
