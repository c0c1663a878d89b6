package engine

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jmylchreest/prodcrawl/pkg/urlnorm"
)

// paginationTextMarkers are the case-insensitive link-text substrings
// that mark a link as pagination, per spec.md §4.3.
var paginationTextMarkers = []string{"next", "page", "»", ">", "load more", "show more"}

// paginationHrefPatterns are the href shapes that mark a link as
// pagination regardless of its text, per spec.md §4.3.
var paginationHrefPatterns = compileAll([]string{
	`[?&]page=\d+`, `[?&]p=\d+`, `/page/\d+`, `/p/\d+$`, `-page-\d+`, `_p\d+`, `offset=\d+`, `start=\d+`, `from=\d+`,
})

// FindLinks implements the Link Discoverer contract (spec.md §4.3):
// every internal <a href> is returned, pagination links first
// (deduplicated), then the remaining links minus the pagination set.
// hostFilter selects which resolved links count as internal; an empty
// hostFilter resolves as the page's own host. This replaces the
// teacher's CSS-selector-driven LinkSelector/PaginationSelector
// (internal/crawler/selector.go), which followed operator-supplied
// selectors rather than classifying links by shape.
func FindLinks(html, baseURL, hostFilter string) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}
	if hostFilter == "" {
		hostFilter = base.Host
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var pagination, generic []string
	paginationSeen := make(map[string]struct{})
	genericSeen := make(map[string]struct{})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || href == "" {
			return
		}
		resolved := urlnorm.Resolve(base, href)
		if resolved == "" {
			return
		}
		linkURL, err := url.Parse(resolved)
		if err != nil || linkURL.Host != hostFilter {
			return
		}

		text := strings.ToLower(strings.TrimSpace(s.Text()))
		if isPaginationLink(text, href) {
			if _, dup := paginationSeen[resolved]; !dup {
				paginationSeen[resolved] = struct{}{}
				pagination = append(pagination, resolved)
			}
			return
		}
		if _, dup := genericSeen[resolved]; !dup {
			genericSeen[resolved] = struct{}{}
			generic = append(generic, resolved)
		}
	})

	return append(pagination, generic...)
}

func isPaginationLink(text, href string) bool {
	for _, marker := range paginationTextMarkers {
		if strings.Contains(text, marker) {
			return true
		}
	}
	return matchesAnyRe(paginationHrefPatterns, href)
}

func matchesAnyRe(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
