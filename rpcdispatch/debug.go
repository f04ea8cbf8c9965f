package rpcdispatch

import (
	"context"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/requestctx"
)

func registerDebug(r *Registry, deps Deps) {
	r.Register("debug", "traceTransaction", handleDebugTraceTransaction(deps), nil)
}

func handleDebugTraceTransaction(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		txHash, err := requireParamString(params, 0)
		if err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}

		clientIP := ""
		if rc, ok := requestctx.FromContext(ctx); ok {
			clientIP = rc.ClientIP
		}

		path := "contracts/results/" + txHash + "/opcodes"
		return deps.Mirror.GetWeb3(ctx, path, clientIP)
	}
}
