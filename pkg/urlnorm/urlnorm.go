// Package urlnorm implements the ProductURL normalization invariants from
// spec.md §3: no trailing slash, no fragment, no tracking query
// parameters, lower-cased host, scheme preserved.
package urlnorm

import (
	"net/url"
	"sort"
	"strings"
)

// trackingParams are the query parameter names (or prefixes, for utm_*)
// stripped from every normalized URL.
var trackingParams = map[string]bool{
	"ref":       true,
	"session":   true,
	"tracking":  true,
	"click":     true,
	"affiliate": true,
	"source":    true,
}

// Normalize returns the canonical ProductURL form of rawURL: absolute,
// no trailing "/", no fragment, no tracking query parameters, host
// lower-cased, scheme preserved. Normalize is idempotent:
// Normalize(Normalize(u)) == Normalize(u).
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if isTrackingParam(key) {
				q.Del(key)
			}
		}
		u.RawQuery = encodeSortedQuery(q)
	}

	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String(), nil
}

func isTrackingParam(key string) bool {
	lower := strings.ToLower(key)
	if strings.HasPrefix(lower, "utm_") {
		return true
	}
	return trackingParams[lower]
}

// encodeSortedQuery re-encodes q with keys in sorted order, so repeated
// normalization of the same URL always yields byte-identical output.
func encodeSortedQuery(q url.Values) string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		for j, v := range q[k] {
			if i > 0 || j > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(v))
		}
	}
	return b.String()
}

// Resolve joins href against base and normalizes the result. It returns
// "" if href is empty, a fragment-only link, or fails to parse/resolve.
func Resolve(base *url.URL, href string) string {
	if href == "" || strings.HasPrefix(href, "#") ||
		strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "mailto:") {
		return ""
	}
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(parsed)
	normalized, err := Normalize(resolved.String())
	if err != nil {
		return ""
	}
	return normalized
}
