package storage

import (
	"context"
	"fmt"
)

// TwoTier composes a fast store and a durable store into the Storage
// interface the engine and API depend on. SaveURLs writes through to
// both; a failure on either tier is reported, but the fast-store write is
// always attempted first so readers see new URLs as soon as possible.
type TwoTier struct {
	Fast    *RedisFast
	Durable *MongoDurable
}

// NewTwoTier composes a Redis fast store and a Mongo durable store.
func NewTwoTier(fast *RedisFast, durable *MongoDurable) *TwoTier {
	return &TwoTier{Fast: fast, Durable: durable}
}

func (t *TwoTier) SaveURLs(ctx context.Context, taskID, simplifiedDomain string, urls []string) error {
	key := FastKey(taskID, simplifiedDomain)
	if err := t.Fast.save(ctx, key, urls); err != nil {
		return err
	}
	if err := t.Durable.save(ctx, taskID, simplifiedDomain, urls); err != nil {
		return fmt.Errorf("storage: durable write failed after fast write succeeded: %w", err)
	}
	return nil
}

func (t *TwoTier) GetFast(ctx context.Context, taskID, simplifiedDomain string) ([]string, error) {
	return t.Fast.get(ctx, FastKey(taskID, simplifiedDomain))
}

func (t *TwoTier) GetDurable(ctx context.Context, taskID, simplifiedDomain string) (*Record, error) {
	return t.Durable.get(ctx, taskID, simplifiedDomain)
}

func (t *TwoTier) Close() error {
	fastErr := t.Fast.Close()
	durableErr := t.Durable.Close()
	if fastErr != nil {
		return fastErr
	}
	return durableErr
}

var _ Storage = (*TwoTier)(nil)
