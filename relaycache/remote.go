package relaycache

import (
	"context"
	"fmt"
	"time"

	cachestore "github.com/goware/cachestore2"
	"github.com/redis/go-redis/v9"
)

// RemoteCache is the shared backend (spec.md §4.1): basic get/set/delete go
// through a cachestore2.Store[[]byte] exactly as ethmonitor.Monitor wires
// its block-logs cache (cachestore.OpenStore + WithDefaultKeyExpiry), while
// incrBy/rPush/lRange/keys use the underlying redis.Client directly since
// they are native Redis primitives cachestore2's Store[V] contract doesn't
// expose.
type RemoteCache struct {
	store      cachestore.Store[[]byte]
	redis      *redis.Client
	defaultTTL time.Duration
	multiSet   bool
}

// NewRemoteCache opens store against an already-constructed cachestore2
// backend and keeps a direct redis.Client handle for list/counter ops.
func NewRemoteCache(backend cachestore.Backend, rdb *redis.Client, defaultTTL time.Duration, multiSet bool) *RemoteCache {
	store := cachestore.OpenStore[[]byte](backend, cachestore.WithDefaultKeyExpiry(defaultTTL))
	return &RemoteCache{store: store, redis: rdb, defaultTTL: defaultTTL, multiSet: multiSet}
}

var _ Cache = (*RemoteCache)(nil)

func (c *RemoteCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, ok, err := c.store.Get(ctx, prefixed(key))
	if err != nil || !ok {
		return nil, false
	}
	return val, true
}

func (c *RemoteCache) ttlOrDefault(ttlMs int64) time.Duration {
	switch {
	case ttlMs < 0:
		return c.defaultTTL
	case ttlMs == 0:
		return 0
	default:
		return time.Duration(ttlMs) * time.Millisecond
	}
}

func (c *RemoteCache) Set(ctx context.Context, key string, value []byte, ttlMs int64) error {
	ttl := c.ttlOrDefault(ttlMs)
	if ttl == 0 {
		return c.store.Set(ctx, prefixed(key), value)
	}
	return c.store.SetEx(ctx, prefixed(key), value, ttl)
}

// MultiSet uses the backend's native MSET when configured and the effective
// TTL is 0, otherwise falls back to a per-key pipeline -- the "use pipeline when multi-set is not
// configured/available" rule from spec.md Open Question 2.
func (c *RemoteCache) MultiSet(ctx context.Context, values map[string][]byte, ttlMs int64) error {
	ttl := c.ttlOrDefault(ttlMs)
	if c.multiSet && ttl == 0 {
		prefixedValues := make(map[string][]byte, len(values))
		for k, v := range values {
			prefixedValues[prefixed(k)] = v
		}
		return c.store.BatchSet(ctx, prefixedValues)
	}

	pipe := c.redis.Pipeline()
	for k, v := range values {
		if ttl == 0 {
			pipe.Set(ctx, prefixed(k), v, 0)
		} else {
			pipe.Set(ctx, prefixed(k), v, ttl)
		}
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RemoteCache) Delete(ctx context.Context, key string) error {
	return c.store.Delete(ctx, prefixed(key))
}

// Clear deletes only cache:* keys (spec.md §3 invariant 1), never the whole
// store — other namespaces (txpool:pending:*, locks, etc.) are untouched.
func (c *RemoteCache) Clear(ctx context.Context) error {
	return c.unlinkPattern(ctx, keyPrefix+"*")
}

func (c *RemoteCache) unlinkPattern(ctx context.Context, pattern string) error {
	iter := c.redis.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.redis.Unlink(ctx, keys...).Err()
}

func (c *RemoteCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	v, err := c.redis.IncrBy(ctx, prefixed(key), n).Result()
	if err != nil {
		return 0, fmt.Errorf("relaycache: incrBy %s: %w", key, err)
	}
	return v, nil
}

func (c *RemoteCache) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	v, err := c.redis.RPush(ctx, prefixed(key), value).Result()
	if err != nil {
		return 0, fmt.Errorf("relaycache: rPush %s: %w", key, err)
	}
	return v, nil
}

func (c *RemoteCache) LRange(ctx context.Context, key string, start, end int64) ([][]byte, error) {
	vals, err := c.redis.LRange(ctx, prefixed(key), start, end).Result()
	if err != nil {
		return nil, fmt.Errorf("relaycache: lRange %s: %w", key, err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

func (c *RemoteCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	iter := c.redis.Scan(ctx, 0, prefixed(pattern), 0).Iterator()
	var out []string
	for iter.Next(ctx) {
		out = append(out, unprefixed(iter.Val()))
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
