package extractor

import (
	"context"
	"net/url"
	"regexp"
	"strings"

	"github.com/jmylchreest/prodcrawl/pkg/urlnorm"
)

// DefaultTableKey is the fallback entry in a DomainPattern table, used
// when no host-substring key matches the base URL's host.
const DefaultTableKey = "default"

// domainRule pairs a host substring with the regex list selected when it
// matches.
type domainRule struct {
	hostSubstring string
	patterns      []*regexp.Regexp
}

// DomainPatternExtractor (CONFIG) selects a regex list by host substring,
// falling back to a "default" entry, per spec.md §4.2. Rules are tested
// in the order they were added; the first host-substring match wins.
type DomainPatternExtractor struct {
	rules   []domainRule
	dflt    []*regexp.Regexp
	hasDflt bool
}

// NewDomainPattern builds a CONFIG extractor from an ordered host
// substring -> regex list table. table[DefaultTableKey], if present, is
// used when no other key matches.
func NewDomainPattern(order []string, table map[string][]*regexp.Regexp) *DomainPatternExtractor {
	e := &DomainPatternExtractor{}
	for _, key := range order {
		patterns := table[key]
		if key == DefaultTableKey {
			e.dflt = patterns
			e.hasDflt = true
			continue
		}
		e.rules = append(e.rules, domainRule{hostSubstring: key, patterns: patterns})
	}
	if !e.hasDflt {
		e.dflt = ProductPatterns
	}
	return e
}

// selectPatterns returns the regex list for host, per the table-selection
// rule in spec.md §4.2.
func (e *DomainPatternExtractor) selectPatterns(host string) []*regexp.Regexp {
	host = strings.ToLower(host)
	for _, rule := range e.rules {
		if strings.Contains(host, rule.hostSubstring) {
			return rule.patterns
		}
	}
	return e.dflt
}

// Parse implements Extractor.
func (e *DomainPatternExtractor) Parse(_ context.Context, html, baseURL string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	patterns := e.selectPatterns(base.Host)

	found := make(map[string]struct{})
	hrefs(html, func(href string) {
		if !matchesAny(patterns, href) {
			return
		}
		if abs := urlnorm.Resolve(base, href); abs != "" {
			found[abs] = struct{}{}
		}
	})
	return sortedUnique(found)
}

// Name implements Extractor.
func (e *DomainPatternExtractor) Name() Name { return Config }

var _ Extractor = (*DomainPatternExtractor)(nil)
