package sendlock

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludesConcurrentAcquire(t *testing.T) {
	l := NewLocalLocker(slog.Default())
	ctx := context.Background()

	key, err := l.Acquire(ctx, "0xabc", time.Second, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, key)

	_, err = l.Acquire(ctx, "0xabc", 20*time.Millisecond, time.Minute)
	require.Error(t, err)

	require.NoError(t, l.Release(ctx, "0xabc", key))

	key2, err := l.Acquire(ctx, "0xabc", time.Second, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, key2)
}

func TestLocalLockerReleaseRequiresMatchingSessionKey(t *testing.T) {
	l := NewLocalLocker(slog.Default())
	ctx := context.Background()

	key, err := l.Acquire(ctx, "0xabc", time.Second, time.Minute)
	require.NoError(t, err)

	require.NoError(t, l.Release(ctx, "0xabc", "not-the-real-key"))

	_, err = l.Acquire(ctx, "0xabc", 20*time.Millisecond, time.Minute)
	require.Error(t, err, "lock must still be held since release presented the wrong session key")

	require.NoError(t, l.Release(ctx, "0xabc", key))
}

func TestLocalLockerMaxHoldTimerForceReleases(t *testing.T) {
	l := NewLocalLocker(slog.Default())
	ctx := context.Background()

	_, err := l.Acquire(ctx, "0xabc", time.Second, 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)

	key2, err := l.Acquire(ctx, "0xabc", time.Second, time.Minute)
	require.NoError(t, err, "max-hold timer should have released the lock automatically")
	require.NotEmpty(t, key2)
}
