package extractor

import "regexp"

// ProductPatterns are the default href-shape regexes the Pattern (SIMPLE)
// extractor matches against, covering ten common e-commerce product-page
// URL shapes per spec.md §4.2.
var ProductPatterns = compileAll([]string{
	`/product/[\w-]+`,
	`/products/[\w-]+`,
	`/p/\d+`,
	`/item/\d+`,
	`/pd/[\w-]+`,
	`/dp/[A-Z0-9]{8,10}`,
	`-p-\d+\.html`,
	`/prod(?:uct)?\d+`,
	`/catalog/product/view/id/\d+`,
	`/shop/[\w-]+/[\w-]+`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile(p))
	}
	return compiled
}

func matchesAny(patterns []*regexp.Regexp, s string) bool {
	for _, p := range patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}
