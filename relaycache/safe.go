package relaycache

import (
	"context"
	"log/slog"
)

// SafeCache wraps any Cache and converts every error into a neutral
// fallback, logging it with the component's structured error type instead
// of propagating it (spec.md §4.1: "every method catches exceptions...
// never throws"). Local-cache programming errors (e.g. a non-list value
// read by LRange) are still "exceptions" in the source sense and are
// likewise swallowed here -- spec.md §4.2's failure model reserves
// surfacing for the unwrapped local implementation, which callers can use
// directly during tests.
type SafeCache struct {
	inner Cache
	log   *slog.Logger
}

func NewSafeCache(inner Cache, log *slog.Logger) *SafeCache {
	if log == nil {
		log = slog.Default()
	}
	return &SafeCache{inner: inner, log: log}
}

var _ Cache = (*SafeCache)(nil)

func (c *SafeCache) warn(method, key string, err error) {
	c.log.Warn("relaycache: method failed, returning fallback",
		"method", method, "key", key, "error", err)
}

func (c *SafeCache) Get(ctx context.Context, key string) ([]byte, bool) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("relaycache: panic in Get, returning miss", "key", key, "recover", r)
		}
	}()
	return c.inner.Get(ctx, key)
}

func (c *SafeCache) Set(ctx context.Context, key string, value []byte, ttlMs int64) error {
	if err := c.inner.Set(ctx, key, value, ttlMs); err != nil {
		c.warn("Set", key, err)
	}
	return nil
}

func (c *SafeCache) MultiSet(ctx context.Context, values map[string][]byte, ttlMs int64) error {
	if err := c.inner.MultiSet(ctx, values, ttlMs); err != nil {
		c.warn("MultiSet", "", err)
	}
	return nil
}

func (c *SafeCache) Delete(ctx context.Context, key string) error {
	if err := c.inner.Delete(ctx, key); err != nil {
		c.warn("Delete", key, err)
	}
	return nil
}

func (c *SafeCache) Clear(ctx context.Context) error {
	if err := c.inner.Clear(ctx); err != nil {
		c.warn("Clear", "", err)
	}
	return nil
}

func (c *SafeCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	v, err := c.inner.IncrBy(ctx, key, n)
	if err != nil {
		c.warn("IncrBy", key, err)
		return 0, nil
	}
	return v, nil
}

func (c *SafeCache) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	v, err := c.inner.RPush(ctx, key, value)
	if err != nil {
		c.warn("RPush", key, err)
		return 0, nil
	}
	return v, nil
}

func (c *SafeCache) LRange(ctx context.Context, key string, start, end int64) ([][]byte, error) {
	v, err := c.inner.LRange(ctx, key, start, end)
	if err != nil {
		c.warn("LRange", key, err)
		return nil, nil
	}
	return v, nil
}

func (c *SafeCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	v, err := c.inner.Keys(ctx, pattern)
	if err != nil {
		c.warn("Keys", pattern, err)
		return nil, nil
	}
	return v, nil
}
