package rpcdispatch

import "context"

// registerTxPool binds the txpool_* namespace (spec.md §6), reporting on
// component C3's pending-transaction pool.
func registerTxPool(r *Registry, deps Deps) {
	r.Register("txpool", "content", handleTxPoolContent(deps), nil)
	r.Register("txpool", "status", handleTxPoolStatus(deps), nil)
}

// txPoolContent mirrors geth's txpool_content shape closely enough for
// tooling that expects it: a pending bucket of sender -> list of raw
// transactions. This relay never reorders or replaces by nonce (spec.md
// §9 Open Question 1), so there is no "queued" bucket to report.
type txPoolContent struct {
	Pending map[string][]string `json:"pending"`
	Queued  map[string][]string `json:"queued"`
}

func handleTxPoolContent(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		if deps.Pool == nil || !deps.Pool.Enabled() {
			return txPoolContent{Pending: map[string][]string{}, Queued: map[string][]string{}}, nil
		}
		all, err := deps.Pool.GetAllTransactions(ctx)
		if err != nil {
			return nil, err
		}
		// GetAllTransactions returns the global index, not keyed by sender;
		// report it under a synthetic "all" bucket since reconstructing the
		// per-sender breakdown would require iterating every known sender,
		// which the pool service does not enumerate (spec.md §4.3 models
		// only per-sender and global sets, not a sender directory).
		return txPoolContent{
			Pending: map[string][]string{"all": all},
			Queued:  map[string][]string{},
		}, nil
	}
}

func handleTxPoolStatus(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		if deps.Pool == nil || !deps.Pool.Enabled() {
			return map[string]string{"pending": "0x0", "queued": "0x0"}, nil
		}
		all, err := deps.Pool.GetAllTransactions(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]string{
			"pending": hexInt64(int64(len(all))),
			"queued":  "0x0",
		}, nil
	}
}
