// Package domain computes the simplified_domain persistence key that
// bridges API requests (which carry a URL) and stored crawl records
// (which are keyed by task and domain), per spec.md §4.5 and §9.
package domain

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// Simplify derives the simplified_domain for rawURL: the registrable
// domain plus public suffix, lower-cased, with dots replaced by
// underscores ("www.Foo.Co.UK" -> "foo_co_uk"). Per spec.md §9's Open
// Question, this MUST use the public-suffix form rather than a bare
// url.Parse(...).Hostname() split, since only the public-suffix list
// correctly handles multi-label suffixes like "co.uk".
func Simplify(rawURL string) (string, error) {
	host, err := hostOf(rawURL)
	if err != nil {
		return "", err
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// No recognized public suffix (e.g. a bare hostname or an IP) —
		// fall back to the lower-cased host itself so every seed still
		// maps to a usable key.
		registrable = host
	}

	return strings.ReplaceAll(strings.ToLower(registrable), ".", "_"), nil
}

func hostOf(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("domain: parse %q: %w", rawURL, err)
	}
	host := u.Hostname()
	if host == "" {
		// rawURL may already be a bare host/domain rather than a full URL.
		host = strings.TrimSuffix(strings.TrimPrefix(rawURL, "//"), "/")
	}
	if host == "" {
		return "", fmt.Errorf("domain: no host in %q", rawURL)
	}
	return strings.ToLower(host), nil
}
