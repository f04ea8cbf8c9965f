package relaycache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalCachePrefixIsolation(t *testing.T) {
	c, err := NewLocalCache(100, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "foo", []byte("bar"), 0))

	keys, err := c.Keys(ctx, "*")
	require.NoError(t, err)
	require.Equal(t, []string{"foo"}, keys)

	val, ok := c.Get(ctx, "foo")
	require.True(t, ok)
	require.Equal(t, []byte("bar"), val)
}

func TestLocalCacheTTLSemantics(t *testing.T) {
	c, err := NewLocalCache(100, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "indefinite", []byte("v"), 0))
	require.NoError(t, c.Set(ctx, "expiring", []byte("v"), 10))

	time.Sleep(25 * time.Millisecond)

	_, ok := c.Get(ctx, "indefinite")
	require.True(t, ok)

	_, ok = c.Get(ctx, "expiring")
	require.False(t, ok)
}

func TestLocalCacheListRoundTrip(t *testing.T) {
	c, err := NewLocalCache(100, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.RPush(ctx, "list", []byte("v1"))
	require.NoError(t, err)
	n, err := c.RPush(ctx, "list", []byte("v2"))
	require.NoError(t, err)
	require.Equal(t, int64(2), n)

	all, err := c.LRange(ctx, "list", 0, -1)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("v1"), []byte("v2")}, all)

	lastTwo, err := c.LRange(ctx, "list", -2, -1)
	require.NoError(t, err)
	require.Equal(t, [][]byte{[]byte("v1"), []byte("v2")}, lastTwo)
}

func TestLocalCacheReservedKeyNeverEvicted(t *testing.T) {
	c, err := NewLocalCache(1, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "pinned", []byte("v"), 0))
	require.NoError(t, c.Reserve(ctx, "pinned"))

	// Push the bounded main LRU (capacity 1) past its limit with other keys.
	require.NoError(t, c.Set(ctx, "other1", []byte("v"), 0))
	require.NoError(t, c.Set(ctx, "other2", []byte("v"), 0))

	val, ok := c.Get(ctx, "pinned")
	require.True(t, ok)
	require.Equal(t, []byte("v"), val)

	require.NoError(t, c.Clear(ctx))
	val, ok = c.Get(ctx, "pinned")
	require.True(t, ok, "reserved key must survive Clear")
	require.Equal(t, []byte("v"), val)
}

func TestLocalCacheIncrBy(t *testing.T) {
	c, err := NewLocalCache(100, time.Minute)
	require.NoError(t, err)
	ctx := context.Background()

	v, err := c.IncrBy(ctx, "counter", 5)
	require.NoError(t, err)
	require.Equal(t, int64(5), v)

	v, err = c.IncrBy(ctx, "counter", -2)
	require.NoError(t, err)
	require.Equal(t, int64(3), v)
}
