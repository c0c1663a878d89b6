package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// entry is a fast-store record with its own expiry, so Memory can model
// the sliding-TTL semantics without a real Redis instance.
type entry struct {
	urls      []string
	expiresAt time.Time
}

// Memory is an in-process Storage implementation with the same
// merge-union contract as the Redis/Mongo-backed stores. It has no
// external dependency, so tests and local development use it in place of
// a real fast/durable pair; the Control API and engine only ever see the
// Storage interface.
type Memory struct {
	mu      sync.Mutex
	fast    map[string]entry
	durable map[string]*Record
	now     func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		fast:    make(map[string]entry),
		durable: make(map[string]*Record),
		now:     time.Now,
	}
}

func (m *Memory) SaveURLs(_ context.Context, taskID, simplifiedDomain string, urls []string) error {
	key := FastKey(taskID, simplifiedDomain)

	m.mu.Lock()
	defer m.mu.Unlock()

	existing := m.fast[key]
	merged := mergeUnique(existing.urls, urls)
	m.fast[key] = entry{urls: merged, expiresAt: m.now().Add(FastTTL)}

	rec := m.durable[key]
	if rec == nil {
		rec = &Record{TaskID: taskID, SimplifiedDomain: simplifiedDomain}
	}
	rec.URLs = mergeUnique(rec.URLs, urls)
	rec.UpdatedAt = m.now()
	m.durable[key] = rec

	return nil
}

func (m *Memory) GetFast(_ context.Context, taskID, simplifiedDomain string) ([]string, error) {
	key := FastKey(taskID, simplifiedDomain)

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.fast[key]
	if !ok || m.now().After(e.expiresAt) {
		return nil, nil
	}
	out := make([]string, len(e.urls))
	copy(out, e.urls)
	sort.Strings(out)
	return out, nil
}

func (m *Memory) GetDurable(_ context.Context, taskID, simplifiedDomain string) (*Record, error) {
	key := FastKey(taskID, simplifiedDomain)

	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.durable[key]
	if !ok {
		return nil, nil
	}
	cp := *rec
	cp.URLs = make([]string, len(rec.URLs))
	copy(cp.URLs, rec.URLs)
	sort.Strings(cp.URLs)
	return &cp, nil
}

func (m *Memory) Close() error { return nil }

var _ Storage = (*Memory)(nil)
