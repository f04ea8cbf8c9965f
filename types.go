// Package relayapi holds the small set of shared types every other package
// in this module imports, mirroring ethkit's own root package of the same
// shape (Address/Hash aliases plus PtrTo).
package relayapi

import "github.com/ethereum/go-ethereum/common"

// Address is the 20-byte EVM account address spec.md's north-side surface
// speaks in throughout (sender, recipient, subsidised addresses).
type Address = common.Address

// Hash is the 32-byte hash type used for transaction hashes and block
// hashes across the relay.
type Hash = common.Hash

const HashLength = common.HashLength

// PtrTo returns a pointer to v, used where an API wants an optional field
// (e.g. a *big.Int gas price) from a plain value.
func PtrTo[T any](v T) *T {
	return &v
}
