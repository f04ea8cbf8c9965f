package sendlock

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// LocalLocker is the local strategy: one token-holding channel per address
// acts as a non-reentrant mutex, with a session key recorded against the
// current holder so Release can verify it before handing the token back.
type LocalLocker struct {
	log *slog.Logger

	mu      sync.Mutex
	tokens  map[string]chan struct{}
	holders map[string]holder
}

type holder struct {
	sessionKey string
	timer      *time.Timer
}

var _ Locker = (*LocalLocker)(nil)

func NewLocalLocker(log *slog.Logger) *LocalLocker {
	return &LocalLocker{
		log:     log,
		tokens:  make(map[string]chan struct{}),
		holders: make(map[string]holder),
	}
}

func (l *LocalLocker) tokenFor(address string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.tokens[address]
	if !ok {
		ch = make(chan struct{}, 1)
		ch <- struct{}{}
		l.tokens[address] = ch
	}
	return ch
}

func (l *LocalLocker) Acquire(ctx context.Context, address string, waitTimeout, maxHold time.Duration) (string, error) {
	ch := l.tokenFor(address)

	select {
	case <-ch:
	case <-time.After(waitTimeout):
		return "", relayerrors.LockWaitTimeout(address)
	case <-ctx.Done():
		return "", relayerrors.LockWaitTimeout(address)
	}

	sessionKey := newSessionKey()

	timer := time.AfterFunc(maxHold, func() {
		l.forceRelease(address, sessionKey)
	})

	l.mu.Lock()
	l.holders[address] = holder{sessionKey: sessionKey, timer: timer}
	l.mu.Unlock()

	return sessionKey, nil
}

func (l *LocalLocker) Release(ctx context.Context, address, sessionKey string) error {
	l.mu.Lock()
	h, ok := l.holders[address]
	if !ok || h.sessionKey != sessionKey {
		l.mu.Unlock()
		return nil
	}
	h.timer.Stop()
	delete(l.holders, address)
	l.mu.Unlock()

	l.tokenFor(address) <- struct{}{}
	return nil
}

// forceRelease is invoked by the max-hold timer; it releases the lock only
// if sessionKey still matches the current holder (an explicit Release may
// have already run and put the token back).
func (l *LocalLocker) forceRelease(address, sessionKey string) {
	l.mu.Lock()
	h, ok := l.holders[address]
	if !ok || h.sessionKey != sessionKey {
		l.mu.Unlock()
		return
	}
	delete(l.holders, address)
	l.mu.Unlock()

	logExpiredLock(l.log, address)
	l.tokenFor(address) <- struct{}{}
}
