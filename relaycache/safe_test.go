package relaycache

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

type failingCache struct{}

func (failingCache) Get(ctx context.Context, key string) ([]byte, bool) { return nil, false }
func (failingCache) Set(ctx context.Context, key string, value []byte, ttlMs int64) error {
	return errors.New("boom")
}
func (failingCache) MultiSet(ctx context.Context, values map[string][]byte, ttlMs int64) error {
	return errors.New("boom")
}
func (failingCache) Delete(ctx context.Context, key string) error { return errors.New("boom") }
func (failingCache) Clear(ctx context.Context) error              { return errors.New("boom") }
func (failingCache) IncrBy(ctx context.Context, key string, n int64) (int64, error) {
	return 0, errors.New("boom")
}
func (failingCache) RPush(ctx context.Context, key string, value []byte) (int64, error) {
	return 0, errors.New("boom")
}
func (failingCache) LRange(ctx context.Context, key string, start, end int64) ([][]byte, error) {
	return nil, errors.New("boom")
}
func (failingCache) Keys(ctx context.Context, pattern string) ([]string, error) {
	return nil, errors.New("boom")
}

func TestSafeCacheNeverReturnsError(t *testing.T) {
	c := NewSafeCache(failingCache{}, slog.Default())
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	require.NoError(t, c.Delete(ctx, "k"))
	require.NoError(t, c.Clear(ctx))

	n, err := c.IncrBy(ctx, "k", 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), n)

	list, err := c.LRange(ctx, "k", 0, -1)
	require.NoError(t, err)
	require.Nil(t, list)

	val, ok := c.Get(ctx, "k")
	require.False(t, ok)
	require.Nil(t, val)
}
