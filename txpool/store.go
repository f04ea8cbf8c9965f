// Package txpool tracks unconfirmed transactions per sender and globally
// (spec.md §4.3, component C3). It follows the same local/shared dual
// backend split relaycache.Cache uses for component C1, generalized from
// byte-value storage to deduplicated sets of RLP hex strings.
package txpool

import "context"

const (
	// KeyPrefix is the namespace every pending-pool key lives under (spec.md
	// §3 invariant: `clearAll()` only ever deletes keys under this prefix).
	KeyPrefix = "txpool:pending:"

	// GlobalKey is the single set tracking every pending transaction
	// regardless of sender.
	GlobalKey = "global"
)

// Store is the uniform contract both the local and shared pending-pool
// backends satisfy (spec.md §4.3's add/remove/count/payloads/clearAll
// operation table).
type Store interface {
	// Add atomically inserts rlpHex into both the per-sender set for sender
	// and the global set. Set membership is deduplicating: re-adding an
	// identical rlpHex is a no-op (spec.md Open Question 3).
	Add(ctx context.Context, sender, rlpHex string) error

	// Remove atomically removes rlpHex from both sets, dropping the
	// per-sender entry entirely once its set becomes empty.
	Remove(ctx context.Context, sender, rlpHex string) error

	// Count returns the current size of sender's pending set.
	Count(ctx context.Context, sender string) (int, error)

	// Payloads returns the deduplicated set of RLP hex strings pending for
	// sender.
	Payloads(ctx context.Context, sender string) ([]string, error)

	// AllPayloads returns the deduplicated global set of pending RLP hex
	// strings.
	AllPayloads(ctx context.Context) ([]string, error)

	// ClearAll deletes only keys under KeyPrefix, never touching any other
	// namespace (spec.md §3 invariant 1, applied to the pool).
	ClearAll(ctx context.Context) error
}

func senderKey(sender string) string {
	return KeyPrefix + normalizeSender(sender)
}

func globalKey() string {
	return KeyPrefix + GlobalKey
}

func normalizeSender(sender string) string {
	out := make([]byte, len(sender))
	for i := 0; i < len(sender); i++ {
		c := sender[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
