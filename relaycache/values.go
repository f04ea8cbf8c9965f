package relaycache

import (
	"context"

	"github.com/goware/singleflight"
)

// GetValue unmarshals a structured value out of the cache using the same
// sonic codec SetValue uses to write it.
func GetValue[T any](ctx context.Context, c Cache, key string) (T, bool) {
	var zero T
	raw, ok := c.Get(ctx, key)
	if !ok {
		return zero, false
	}
	var v T
	if err := sonicAPI.Unmarshal(raw, &v); err != nil {
		return zero, false
	}
	return v, true
}

// SetValue marshals v with sonic and stores it under key.
func SetValue[T any](ctx context.Context, c Cache, key string, v T, ttlMs int64) error {
	raw, err := sonicAPI.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, raw, ttlMs)
}

// group collapses concurrent fetches for the same key into a single
// upstream call, the same role goware/singleflight plays implicitly behind
// cachestore.Store.GetOrSetWithLockEx in ethmonitor.filterLogs.
var group singleflight.Group

// GetOrFetch returns the cached value for key, or calls fetch exactly once
// across concurrent callers racing on the same key, caching the result
// before returning it (spec.md §4.2's per-endpoint caching requirement).
func GetOrFetch[T any](ctx context.Context, c Cache, key string, ttlMs int64, fetch func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := GetValue[T](ctx, c, key); ok {
		return v, nil
	}

	result, err, _ := group.Do(key, func() (any, error) {
		if v, ok := GetValue[T](ctx, c, key); ok {
			return v, nil
		}
		v, err := fetch(ctx)
		if err != nil {
			return v, err
		}
		_ = SetValue(ctx, c, key, v, ttlMs)
		return v, nil
	})

	var zero T
	if err != nil {
		return zero, err
	}
	v, _ := result.(T)
	return v, nil
}
