package rpcdispatch

import (
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/consensus"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/hbarlimit"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/mirrornode"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/txpool"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/workerpool"
)

// Deps is the small set of worker-local singletons every namespace handler
// closes over (spec.md §4.7's phrase for exactly this shape, reused here
// for the request-serving side rather than the worker-pool side).
type Deps struct {
	Mirror    *mirrornode.Client
	Pool      *txpool.Pool
	Consensus *consensus.Client
	Limiter   *hbarlimit.Limiter
	Config    config.Config

	// Workers runs the handful of task types spec.md §4.7 names
	// (getBlock, getBlockReceipts, getLogs) with bounded concurrency. Nil
	// is valid -- handlers fall back to calling Mirror directly, useful in
	// tests that don't need a pool.
	Workers *workerpool.Pool

	// Events receives the ETH_EXECUTION/EXECUTE_QUERY records spec.md §3's
	// EventRecord taxonomy names for the request-serving side (the relay
	// package's event bus implements it). Nil is valid -- handlers simply
	// emit nothing, useful in tests that don't need a bus.
	Events EventSink
}

// EventSink is the narrow interface handleEthSendRawTransaction and the
// read handlers publish through, mirroring consensus.EventSink's shape
// (one interface per emitting side, not one shared across packages).
type EventSink interface {
	// EmitEthExecution publishes an ETH_EXECUTION record for sender after
	// method has run to completion -- the event spec.md §8's "sender write
	// ordering" property and seed scenario 4 (spec.md:257) are stated over.
	EmitEthExecution(sender, method string)

	// EmitExecuteQuery publishes an EXECUTE_QUERY record for a read-only
	// method, distinguishing query volume from submission volume.
	EmitExecuteQuery(method string)
}

// RegisterAll wires every namespace's methods into r. Call once at startup
// after every Deps field has been constructed.
func RegisterAll(r *Registry, deps Deps) {
	registerEth(r, deps)
	registerNet(r, deps)
	registerWeb3(r, deps)
	registerDebug(r, deps)
	registerTxPool(r, deps)
	registerAdmin(r, deps)
}
