package relaycache

import (
	"context"
	"sync"
)

// CacheType distinguishes which concrete backend served a call, for the
// {callingMethod, cacheType, method} metric label set (spec.md §4.1).
type CacheType string

const (
	CacheTypeLocal  CacheType = "local"
	CacheTypeRemote CacheType = "remote"
)

// CounterSink receives a cache-method-call observation. The in-process
// registry increments directly; when MeasurableCache is used from inside a
// worker pool task, CounterSink is instead backed by a channel to the
// parent process (spec.md §4.1's "forwards the counter update to the parent
// via a typed message"), see workerpool.CounterMessage.
type CounterSink interface {
	IncrCacheMethodCall(callingMethod string, cacheType CacheType, method string)
}

// Registry is the default build-once, in-process CounterSink, read by a
// metrics exposition layer that is out of scope for this core (spec.md §1).
type Registry struct {
	mu       sync.Mutex
	counters map[[3]string]int64
}

func NewRegistry() *Registry {
	return &Registry{counters: make(map[[3]string]int64)}
}

func (r *Registry) IncrCacheMethodCall(callingMethod string, cacheType CacheType, method string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[[3]string{callingMethod, string(cacheType), method}]++
}

func (r *Registry) Snapshot() map[[3]string]int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[[3]string]int64, len(r.counters))
	for k, v := range r.counters {
		out[k] = v
	}
	return out
}

// MeasurableCache wraps any Cache and increments per-method counters via
// sink, labelled {callingMethod, cacheType, method} (spec.md §4.1).
// callingMethod is read from context when available so a single
// MeasurableCache instance can serve every RPC handler without per-call
// reconstruction, mirroring the "small set of worker-local singletons" idea
// in spec.md §4.7.
type MeasurableCache struct {
	inner     Cache
	sink      CounterSink
	cacheType CacheType
}

func NewMeasurableCache(inner Cache, sink CounterSink, cacheType CacheType) *MeasurableCache {
	return &MeasurableCache{inner: inner, sink: sink, cacheType: cacheType}
}

var _ Cache = (*MeasurableCache)(nil)

type callingMethodKey struct{}

// WithCallingMethod tags ctx with the RPC method name so MeasurableCache can
// label counters without threading an extra parameter through every Cache
// call site.
func WithCallingMethod(ctx context.Context, method string) context.Context {
	return context.WithValue(ctx, callingMethodKey{}, method)
}

func callingMethodFrom(ctx context.Context) string {
	if m, ok := ctx.Value(callingMethodKey{}).(string); ok {
		return m
	}
	return "unknown"
}

func (c *MeasurableCache) observe(ctx context.Context, method string) {
	c.sink.IncrCacheMethodCall(callingMethodFrom(ctx), c.cacheType, method)
}

func (c *MeasurableCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c.observe(ctx, "get")
	return c.inner.Get(ctx, key)
}

func (c *MeasurableCache) Set(ctx context.Context, key string, value []byte, ttlMs int64) error {
	c.observe(ctx, "set")
	return c.inner.Set(ctx, key, value, ttlMs)
}

func (c *MeasurableCache) MultiSet(ctx context.Context, values map[string][]byte, ttlMs int64) error {
	c.observe(ctx, "multiSet")
	return c.inner.MultiSet(ctx, values, ttlMs)
}

func (c *MeasurableCache) Delete(ctx context.Context, key string) error {
	c.observe(ctx, "delete")
	return c.inner.Delete(ctx, key)
}

func (c *MeasurableCache) Clear(ctx context.Context) error {
	c.observe(ctx, "clear")
	return c.inner.Clear(ctx)
}

func (c *MeasurableCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	c.observe(ctx, "incrBy")
	return c.inner.IncrBy(ctx, key, n)
}

func (c *MeasurableCache) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	c.observe(ctx, "rPush")
	return c.inner.RPush(ctx, key, value)
}

func (c *MeasurableCache) LRange(ctx context.Context, key string, start, end int64) ([][]byte, error) {
	c.observe(ctx, "lRange")
	return c.inner.LRange(ctx, key, start, end)
}

func (c *MeasurableCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	c.observe(ctx, "keys")
	return c.inner.Keys(ctx, pattern)
}
