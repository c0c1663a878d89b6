package engine

import (
	"math/rand"
	"regexp"
	"strconv"
)

// MaxSequentialExpansions bounds Expand's output, per spec.md §4.4.
const MaxSequentialExpansions = 30

// maxSequentialSample is the largest number of input URLs Expand
// considers when detecting a numeric shape, per spec.md §4.4.
const maxSequentialSample = 10

// sequentialShapes are tried in order; the first one any sampled URL
// matches governs the whole batch, per spec.md §4.4: "Scan for the
// FIRST matching numeric shape ... On first match, stop evaluating
// later shapes for this batch."
var sequentialShapes = []*regexp.Regexp{
	regexp.MustCompile(`/(\d+)(?:/|$)`),
	regexp.MustCompile(`p=(\d+)`),
	regexp.MustCompile(`page=(\d+)`),
	regexp.MustCompile(`-p(\d+)`),
	regexp.MustCompile(`_(\d+)\.html`),
}

// siblingDeltas orders the emitted siblings closest-ID first, per
// spec.md §4.4's "N±1, N±2, N±3".
var siblingDeltas = []int{-1, 1, -2, 2, -3, 3}

// Expand synthesizes nearby-ID sibling URLs from productURLs by
// detecting a numeric shape shared across a random sample of the input
// and substituting N±1, N±2, N±3 for the captured integer in every
// sampled URL that matches that shape. It returns nil for fewer than 3
// input URLs. Decrementing never crosses below 1; siblings already
// present in productURLs are excluded; output is capped at
// MaxSequentialExpansions.
func Expand(productURLs []string) []string {
	if len(productURLs) < 3 {
		return nil
	}

	sample := sampleUpTo(productURLs, maxSequentialSample)

	shape := detectShape(sample)
	if shape == nil {
		return nil
	}

	present := make(map[string]struct{}, len(productURLs))
	for _, u := range productURLs {
		present[u] = struct{}{}
	}

	seen := make(map[string]struct{})
	var out []string
	for _, u := range sample {
		loc := shape.FindStringSubmatchIndex(u)
		if loc == nil || loc[2] < 0 {
			continue
		}
		n, err := strconv.Atoi(u[loc[2]:loc[3]])
		if err != nil {
			continue
		}
		for _, sib := range siblings(u, loc, n) {
			if _, ok := present[sib]; ok {
				continue
			}
			if _, dup := seen[sib]; dup {
				continue
			}
			seen[sib] = struct{}{}
			out = append(out, sib)
			if len(out) >= MaxSequentialExpansions {
				return out
			}
		}
	}
	return out
}

// detectShape returns the first shape (in sequentialShapes order) that
// any URL in sample matches.
func detectShape(sample []string) *regexp.Regexp {
	for _, shape := range sequentialShapes {
		for _, u := range sample {
			if shape.MatchString(u) {
				return shape
			}
		}
	}
	return nil
}

// siblings substitutes n+delta for the captured group at loc[2]:loc[3]
// in u, for each delta in siblingDeltas, skipping any result below 1.
func siblings(u string, loc []int, n int) []string {
	out := make([]string, 0, len(siblingDeltas))
	for _, d := range siblingDeltas {
		m := n + d
		if m < 1 {
			continue
		}
		out = append(out, u[:loc[2]]+strconv.Itoa(m)+u[loc[3]:])
	}
	return out
}

// sampleUpTo returns up to n elements of urls, uniformly at random when
// urls is longer than n, or all of urls otherwise.
func sampleUpTo(urls []string, n int) []string {
	if len(urls) <= n {
		return urls
	}
	idx := rand.Perm(len(urls))[:n]
	out := make([]string, n)
	for i, j := range idx {
		out[i] = urls[j]
	}
	return out
}
