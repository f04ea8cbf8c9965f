package relaycache

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/elastic/go-freelru"
)

// entry is what the local LRU actually stores: the opaque value plus enough
// bookkeeping to implement list/counter semantics and manual TTL checks
// (no freelru lifetime is set: expiry is checked from insertedAt and ttl,
// which also let IncrBy/RPush preserve the remaining TTL on read-modify-write,
// per spec.md §4.1's "local: read-modify-write, preserves remaining TTL").
type entry struct {
	value           []byte
	insertedAt      time.Time
	ttl             time.Duration // 0 == indefinite
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// LocalCache is the bounded in-process LRU backend (spec.md §4.1): one
// freelru instance bounded by CACHE_MAX for normal entries, and a second,
// unbounded-pressure freelru instance for Reserved keys that must never be
// evicted by the main cache's size limit.
type LocalCache struct {
	mu        sync.Mutex
	main      *freelru.LRU[string, entry]
	reserved  *freelru.LRU[string, entry]
	defaultTTL time.Duration
}

// NewLocalCache builds a LocalCache bounded at max entries with defaultTTL
// applied when a caller doesn't specify one (ttlMs==-1 sentinel meaning
// "use driver default", matching spec.md §3's CacheEntry invariant).
func NewLocalCache(max int, defaultTTL time.Duration) (*LocalCache, error) {
	main, err := freelru.New[string, entry](uint32(max), hashString)
	if err != nil {
		return nil, fmt.Errorf("relaycache: failed to create local lru: %w", err)
	}
	reserved, err := freelru.New[string, entry](1024, hashString)
	if err != nil {
		return nil, fmt.Errorf("relaycache: failed to create reserved lru: %w", err)
	}
	return &LocalCache{main: main, reserved: reserved, defaultTTL: defaultTTL}, nil
}

var _ ReservingCache = (*LocalCache)(nil)

func (c *LocalCache) expired(e entry) bool {
	if e.ttl <= 0 {
		return false
	}
	return time.Since(e.insertedAt) >= e.ttl
}

func (c *LocalCache) Get(ctx context.Context, key string) ([]byte, bool) {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.reserved.Get(pk); ok {
		return e.value, true
	}
	e, ok := c.main.Get(pk)
	if !ok {
		return nil, false
	}
	if c.expired(e) {
		c.main.Remove(pk)
		return nil, false
	}
	return e.value, true
}

func (c *LocalCache) set(key string, value []byte, ttlMs int64, store *freelru.LRU[string, entry]) {
	ttl := c.defaultTTL
	switch {
	case ttlMs < 0:
		// sentinel for "use driver default", already in ttl
	case ttlMs == 0:
		ttl = 0 // indefinite, per spec.md §3
	default:
		ttl = time.Duration(ttlMs) * time.Millisecond
	}
	store.Add(key, entry{value: value, insertedAt: time.Now(), ttl: ttl})
}

func (c *LocalCache) Set(ctx context.Context, key string, value []byte, ttlMs int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(prefixed(key), value, ttlMs, c.main)
	return nil
}

// Reserve copies the current value of key (if any) into the reserved LRU so
// it is pinned against eviction by the main cache's size pressure or TTL.
func (c *LocalCache) Reserve(ctx context.Context, key string) error {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.main.Get(pk); ok {
		c.reserved.Add(pk, entry{value: e.value, insertedAt: e.insertedAt, ttl: 0})
		c.main.Remove(pk)
	}
	return nil
}

func (c *LocalCache) MultiSet(ctx context.Context, values map[string][]byte, ttlMs int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range values {
		c.set(prefixed(k), v, ttlMs, c.main)
	}
	return nil
}

func (c *LocalCache) Delete(ctx context.Context, key string) error {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.main.Remove(pk)
	c.reserved.Remove(pk)
	return nil
}

// Clear deletes only keys under the cache prefix (spec.md §3 invariant 1);
// since LocalCache never stores anything else, this purges everything in
// the main LRU but leaves reserved keys untouched (reserved keys are never
// evicted, including by Clear, matching "reserved keys never evicted").
func (c *LocalCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.main.Purge()
	return nil
}

func (c *LocalCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.main.Get(pk)
	if !ok || c.expired(e) {
		e = entry{insertedAt: time.Now(), ttl: c.defaultTTL}
	}
	cur, err := decodeInt64(e.value)
	if err != nil {
		return 0, fmt.Errorf("relaycache: %s does not hold an integer: %w", key, err)
	}
	cur += n
	e.value = encodeInt64(cur)
	c.main.Add(pk, e)
	return cur, nil
}

func (c *LocalCache) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.main.Get(pk)
	if !ok || c.expired(e) {
		e = entry{insertedAt: time.Now(), ttl: c.defaultTTL}
	}
	list, err := decodeList(e.value)
	if err != nil {
		return 0, fmt.Errorf("relaycache: %s does not hold a list: %w", key, err)
	}
	list = append(list, value)
	e.value = encodeList(list)
	c.main.Add(pk, e)
	return int64(len(list)), nil
}

func (c *LocalCache) LRange(ctx context.Context, key string, start, end int64) ([][]byte, error) {
	pk := prefixed(key)
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.main.Get(pk)
	if !ok || c.expired(e) {
		return nil, nil
	}
	list, err := decodeList(e.value)
	if err != nil {
		return nil, fmt.Errorf("relaycache: %s does not hold a list: %w", key, err)
	}
	return sliceRange(list, start, end), nil
}

func (c *LocalCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []string
	c.main.Range(func(k string, e entry) bool {
		if c.expired(e) {
			return true
		}
		unp := unprefixed(k)
		if matchGlob(pattern, unp) {
			out = append(out, unp)
		}
		return true
	})
	return out, nil
}

// sliceRange implements spec.md §4.1's inclusive, negative-index-aware
// lRange semantics.
func sliceRange[T any](list []T, start, end int64) []T {
	n := int64(len(list))
	if n == 0 {
		return nil
	}
	if start < 0 {
		start = n + start
	}
	if end < 0 {
		end = n + end
	}
	if start < 0 {
		start = 0
	}
	if end >= n {
		end = n - 1
	}
	if start > end || start >= n {
		return nil
	}
	out := make([]T, end-start+1)
	copy(out, list[start:end+1])
	return out
}
