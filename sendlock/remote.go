package sendlock

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

const keyPrefix = "lock:sender:"

// releaseScript performs the compare-and-delete atomically: delete the key
// only if its current value still matches the session key presented,
// exactly mirroring the "release is a no-op unless the current holder's key
// matches" invariant for the local strategy, but done server-side since two
// relay instances could otherwise race a plain GET-then-DEL.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end
`)

// RemoteLocker is the distributed strategy (spec.md §4.4): a SET-NX-with-
// expiry over Redis stands in for the max-hold timer (the key's own TTL
// releases it if nobody calls Release), polled at a fixed interval while
// waiting for the key to free up.
type RemoteLocker struct {
	redis        *redis.Client
	log          *slog.Logger
	pollInterval time.Duration
}

var _ Locker = (*RemoteLocker)(nil)

func NewRemoteLocker(rdb *redis.Client, log *slog.Logger) *RemoteLocker {
	return &RemoteLocker{redis: rdb, log: log, pollInterval: 50 * time.Millisecond}
}

func (l *RemoteLocker) Acquire(ctx context.Context, address string, waitTimeout, maxHold time.Duration) (string, error) {
	key := keyPrefix + address
	sessionKey := newSessionKey()

	deadline := time.After(waitTimeout)
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		ok, err := l.redis.SetNX(ctx, key, sessionKey, maxHold).Result()
		if err != nil {
			return "", err
		}
		if ok {
			time.AfterFunc(maxHold, func() { l.warnIfStillHeld(address, sessionKey) })
			return sessionKey, nil
		}

		select {
		case <-ctx.Done():
			return "", relayerrors.LockWaitTimeout(address)
		case <-deadline:
			return "", relayerrors.LockWaitTimeout(address)
		case <-ticker.C:
		}
	}
}

func (l *RemoteLocker) Release(ctx context.Context, address, sessionKey string) error {
	key := keyPrefix + address
	deleted, err := releaseScript.Run(ctx, l.redis, []string{key}, sessionKey).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		// either already released, expired via TTL, or held by someone
		// else's session key -- all are valid no-ops here.
		return nil
	}
	return nil
}

// warnIfStillHeld logs the same max-hold warning the local strategy logs
// synchronously; Redis's own TTL does the actual release here, so this is
// observational only (the key may have already expired by this check, in
// which case GET returns empty and no warning is logged).
func (l *RemoteLocker) warnIfStillHeld(address, sessionKey string) {
	ctx := context.Background()
	val, err := l.redis.Get(ctx, keyPrefix+address).Result()
	if err != nil || val != sessionKey {
		return
	}
	logExpiredLock(l.log, address)
}
