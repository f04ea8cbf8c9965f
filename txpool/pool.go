package txpool

import "context"

// Pool is the public pending-transaction pool service (spec.md §4.3). It is
// a thin normalising facade over a Store: it lowercases sender addresses and
// leaves RLP parsing to the dispatch-layer txpool presenter entirely.
type Pool struct {
	store   Store
	enabled bool
}

// NewPool wraps store; enabled mirrors config.Config.EnableTxPool so a
// disabled pool can still be constructed (and safely no-op) without every
// caller needing its own nil check.
func NewPool(store Store, enabled bool) *Pool {
	return &Pool{store: store, enabled: enabled}
}

func (p *Pool) Enabled() bool { return p.enabled }

// SaveTransaction normalises address and records rlpHex as pending.
func (p *Pool) SaveTransaction(ctx context.Context, address, rlpHex string) error {
	if !p.enabled {
		return nil
	}
	return p.store.Add(ctx, normalizeSender(address), rlpHex)
}

// RemoveTransaction drops rlpHex from address's pending set once consensus
// has recorded or rejected it.
func (p *Pool) RemoveTransaction(ctx context.Context, address, rlpHex string) error {
	if !p.enabled {
		return nil
	}
	return p.store.Remove(ctx, normalizeSender(address), rlpHex)
}

func (p *Pool) GetPendingCount(ctx context.Context, address string) (int, error) {
	if !p.enabled {
		return 0, nil
	}
	return p.store.Count(ctx, normalizeSender(address))
}

func (p *Pool) GetTransactions(ctx context.Context, address string) ([]string, error) {
	if !p.enabled {
		return nil, nil
	}
	return p.store.Payloads(ctx, normalizeSender(address))
}

func (p *Pool) GetAllTransactions(ctx context.Context) ([]string, error) {
	if !p.enabled {
		return nil, nil
	}
	return p.store.AllPayloads(ctx)
}

// Reset clears all pending-pool state under its own prefix only, used on
// startup (spec.md §4.3's Resetting, invariant I.1 applied to the pool).
func (p *Pool) Reset(ctx context.Context) error {
	return p.store.ClearAll(ctx)
}
