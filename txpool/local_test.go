package txpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStoreAddRemoveBothIndexes(t *testing.T) {
	s := NewLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "0xABC", "0xdeadbeef"))

	n, err := s.Count(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, 1, n)

	all, err := s.AllPayloads(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"0xdeadbeef"}, all)

	require.NoError(t, s.Remove(ctx, "0xabc", "0xdeadbeef"))

	n, err = s.Count(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, 0, n)

	all, err = s.AllPayloads(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestLocalStoreDedupesIdenticalRLP(t *testing.T) {
	s := NewLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "0xabc", "0x01"))
	require.NoError(t, s.Add(ctx, "0xabc", "0x01"))

	n, err := s.Count(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}

func TestLocalStoreClearAllOnlyTouchesItsOwnState(t *testing.T) {
	s := NewLocalStore()
	ctx := context.Background()

	require.NoError(t, s.Add(ctx, "0xabc", "0x01"))
	require.NoError(t, s.ClearAll(ctx))

	n, err := s.Count(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestPoolDisabledIsNoOp(t *testing.T) {
	p := NewPool(NewLocalStore(), false)
	ctx := context.Background()

	require.NoError(t, p.SaveTransaction(ctx, "0xabc", "0x01"))
	n, err := p.GetPendingCount(ctx, "0xabc")
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestPoolNormalizesSenderCase(t *testing.T) {
	p := NewPool(NewLocalStore(), true)
	ctx := context.Background()

	require.NoError(t, p.SaveTransaction(ctx, "0xABCDEF", "0x01"))
	n, err := p.GetPendingCount(ctx, "0xabcdef")
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
