// Package storage implements the two-tier sink the crawl engine writes
// discovered product URLs to, per spec.md §5: a fast store (sliding TTL,
// keyed by task and simplified domain) that the Control API reads for
// in-progress results, and a durable store that merge-upserts the same
// records with set-union semantics so a re-crawl never loses URLs a
// previous run found.
package storage

import (
	"context"
	"fmt"
	"time"
)

// FastKey returns the fast-store key for a (task, domain) pair, per
// spec.md §5: "crawler_urls:{task_id}:{simplified_domain}".
func FastKey(taskID, simplifiedDomain string) string {
	return fmt.Sprintf("crawler_urls:%s:%s", taskID, simplifiedDomain)
}

// FastTTL is the sliding expiry applied to fast-store entries on every
// write, per spec.md §5.
const FastTTL = 86400 * time.Second

// Record is the durable representation of the URLs discovered for one
// (task_id, simplified_domain) pair.
type Record struct {
	TaskID           string
	SimplifiedDomain string
	URLs             []string
	UpdatedAt        time.Time
}

// Storage is the interface the crawl engine and the Control API share.
// SaveURLs writes to both tiers; GetFast and GetDurable read one tier
// each, matching the Control API's GET /urls/{task_id}/{domain} and any
// internal resume/audit path that needs the merged historical set.
type Storage interface {
	// SaveURLs merges urls into both the fast and durable stores for
	// (taskID, simplifiedDomain). It is safe to call repeatedly with
	// overlapping sets; the result is always a union, never an
	// overwrite.
	SaveURLs(ctx context.Context, taskID, simplifiedDomain string, urls []string) error

	// GetFast returns the current fast-store contents for (taskID,
	// simplifiedDomain), or a nil slice if the key has expired or was
	// never written.
	GetFast(ctx context.Context, taskID, simplifiedDomain string) ([]string, error)

	// GetDurable returns the merged historical record for (taskID,
	// simplifiedDomain), or nil if none exists.
	GetDurable(ctx context.Context, taskID, simplifiedDomain string) (*Record, error)

	// Close releases any underlying client connections.
	Close() error
}

// mergeUnique returns the union of existing and incoming, without
// duplicates, in first-seen order (it does not sort). Memory's fast and
// durable maps both use this so a SaveURLs call is always additive.
func mergeUnique(existing, incoming []string) []string {
	set := make(map[string]struct{}, len(existing)+len(incoming))
	out := make([]string, 0, len(existing)+len(incoming))
	for _, u := range existing {
		if _, ok := set[u]; !ok {
			set[u] = struct{}{}
			out = append(out, u)
		}
	}
	for _, u := range incoming {
		if _, ok := set[u]; !ok {
			set[u] = struct{}{}
			out = append(out, u)
		}
	}
	return out
}
