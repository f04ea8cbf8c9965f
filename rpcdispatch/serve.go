package rpcdispatch

import (
	"context"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/jsonrpc"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/requestctx"
)

// Serve decodes req, dispatches it through r, and returns the wire Response
// -- the north-side entry point spec.md §6 describes (Ethereum JSON-RPC 2.0
// over HTTP). Transport framing (reading the HTTP body, writing the
// response, WebSocket upgrade) is left to the caller; Serve is transport-
// agnostic so it can back both an HTTP handler and a WebSocket frame
// handler with identical dispatch semantics.
func (r *Registry) Serve(ctx context.Context, req jsonrpc.Request) jsonrpc.Response {
	if req.Version != "" && req.Version != jsonrpc.Version {
		return jsonrpc.NewError(req.ID, jsonrpc.NewErrorWithData(
			jsonrpc.CodeInvalidRequest, "unsupported jsonrpc version", req.Version))
	}

	result, rpcErr := r.Dispatch(ctx, req.Method, req.Params)
	if rpcErr != nil {
		return jsonrpc.NewError(req.ID, rpcErr.ToResponseError())
	}
	return jsonrpc.NewResult(req.ID, result)
}

// ServeWithRequestContext tags ctx with rc before dispatching, so every
// handler and everything it calls (cache, mirror client, lock service,
// consensus client) can recover correlation fields via
// requestctx.FromContext.
func (r *Registry) ServeWithRequestContext(ctx context.Context, rc requestctx.RequestContext, req jsonrpc.Request) jsonrpc.Response {
	return r.Serve(requestctx.WithContext(ctx, rc), req)
}
