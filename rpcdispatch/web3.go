package rpcdispatch

import "context"

// clientVersion is a static identifier, the same role
// ethrpc.DefaultJSONRPCConfig's fixed fields play for this relay's own
// identity string rather than a per-request computed value.
const clientVersion = "hedera-json-rpc-relay-go/1.0.0"

func registerWeb3(r *Registry, deps Deps) {
	r.Register("web3", "clientVersion", handleWeb3ClientVersion(deps), nil)
}

func handleWeb3ClientVersion(deps Deps) Handler {
	return func(ctx context.Context, params []RawMessage) (any, error) {
		return clientVersion, nil
	}
}
