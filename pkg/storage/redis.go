package storage

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisFast is the fast-store half of the two-tier Storage contract: a
// Redis set per (task, domain) with a sliding TTL refreshed on every
// write, per spec.md §5.
type RedisFast struct {
	client *redis.Client
}

// NewRedisFast dials addr (host:port) and returns a fast store backed by
// it. db selects the logical Redis database; password may be empty.
func NewRedisFast(addr, password string, db int) *RedisFast {
	return &RedisFast{client: redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

func (r *RedisFast) save(ctx context.Context, key string, urls []string) error {
	if len(urls) == 0 {
		return r.client.Expire(ctx, key, FastTTL).Err()
	}
	members := make([]any, len(urls))
	for i, u := range urls {
		members[i] = u
	}
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, members...)
	pipe.Expire(ctx, key, FastTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("storage: redis save %s: %w", key, err)
	}
	return nil
}

func (r *RedisFast) get(ctx context.Context, key string) ([]string, error) {
	urls, err := r.client.SMembers(ctx, key).Result()
	if err == redis.Nil || (err == nil && len(urls) == 0) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: redis get %s: %w", key, err)
	}
	return urls, nil
}

func (r *RedisFast) Close() error { return r.client.Close() }
