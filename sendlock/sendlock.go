// Package sendlock serializes writes from the same sender so they reach the
// consensus node in submission order regardless of upstream latency
// (spec.md §4.4, component C4). It provides two interchangeable strategies
// -- a local per-address mutex and a distributed SET-NX lock over the
// shared store -- both honoring the same session-key release invariant:
// release only succeeds if the caller presents the key it was handed on
// acquire.
package sendlock

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// Locker is the contract both the local and distributed strategies satisfy.
type Locker interface {
	// Acquire blocks until the lock for address is available or waitTimeout
	// elapses, returning a session key that must be presented to Release.
	// On timeout it returns relayerrors.LockWaitTimeout(address).
	Acquire(ctx context.Context, address string, waitTimeout, maxHold time.Duration) (sessionKey string, err error)

	// Release is a no-op unless sessionKey matches the current holder's key
	// (spec.md §4.4's compare-and-delete invariant).
	Release(ctx context.Context, address, sessionKey string) error
}

func newSessionKey() string {
	return uuid.NewString()
}

// logExpiredLock is the warning every strategy logs when a max-hold timer
// releases a lock nobody explicitly released (spec.md §4.4).
func logExpiredLock(log *slog.Logger, address string) {
	log.Warn("sendlock: max-hold timer expired, lock released automatically", slog.String("address", address))
}
