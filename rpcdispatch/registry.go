// Package rpcdispatch builds the method registry and dispatches inbound
// JSON-RPC 2.0 calls to it (spec.md §4.8). The registry entry shape
// (full name, bound handler, arg rearranger) mirrors ethrpc.Call's
// request/resultFn pairing in ethrpc/jsonrpc.go, generalized from a
// client-side "send request, decode result" pairing into a server-side
// "decode params, run handler, encode result" pairing.
package rpcdispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

// RawMessage is a package-local alias so handler files don't each need to
// import encoding/json just to spell out params' element type.
type RawMessage = json.RawMessage

// Handler runs one RPC method against its already-rearranged params,
// returning a value to be JSON-encoded as the result, or an error -- a
// *relayerrors.JsonRpcError is passed through as-is; any other error is
// wrapped with relayerrors.InternalError.
type Handler func(ctx context.Context, params []json.RawMessage) (any, error)

// Rearranger reorders/pads a raw params array into the positional slice the
// Handler expects (spec.md §4.8's "argument rearranging"), e.g. filling in
// omitted optional trailing params with their zero value.
type Rearranger func(params []json.RawMessage) ([]json.RawMessage, error)

type entry struct {
	fullName   string
	handler    Handler
	rearranger Rearranger
}

// Registry is a build-once, read-mostly table of RPC method name ->
// handler, exactly spec.md §4.8's "registry build-once" contract. Register
// and Lookup share a read/write mutex, so Register is safe alongside
// Dispatch; the relay registers every method during startup.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// FullName is the dot-free "<namespace>_<method>" form the glossary
// specifies, e.g. "eth_getLogs".
func FullName(namespace, method string) string {
	return namespace + "_" + method
}

// Register binds a method under namespace_method. rearranger may be nil,
// meaning params are passed through unchanged.
func (r *Registry) Register(namespace, method string, h Handler, rearranger Rearranger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := FullName(namespace, method)
	r.entries[name] = entry{fullName: name, handler: h, rearranger: rearranger}
}

// Lookup reports whether name is registered.
func (r *Registry) Lookup(name string) (Handler, Rearranger, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[name]
	if !ok {
		return nil, nil, false
	}
	return e.handler, e.rearranger, true
}

// Names returns every registered method name, for admin introspection
// (admin_config and similar).
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Dispatch runs name with params, looked up via Lookup, returning the raw
// JSON result or a JSON-RPC error, per spec.md §4.8's dispatch(name, params,
// ctx) contract. ctx should already carry a requestctx value so handlers can
// log with request id/client IP.
func (r *Registry) Dispatch(ctx context.Context, name string, rawParams json.RawMessage) (json.RawMessage, *relayerrors.JsonRpcError) {
	handler, rearranger, ok := r.Lookup(name)
	if !ok {
		return nil, relayerrors.UnsupportedMethod(name)
	}

	params, err := decodeParams(rawParams)
	if err != nil {
		return nil, relayerrors.InvalidParams(err.Error())
	}

	if rearranger != nil {
		params, err = rearranger(params)
		if err != nil {
			return nil, relayerrors.InvalidParams(err.Error())
		}
	}

	result, err := handler(ctx, params)
	if err != nil {
		return nil, toJsonRpcError(err)
	}

	raw, marshalErr := json.Marshal(result)
	if marshalErr != nil {
		return nil, relayerrors.InternalError(marshalErr)
	}
	return raw, nil
}

func decodeParams(raw json.RawMessage) ([]json.RawMessage, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var params []json.RawMessage
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, fmt.Errorf("params must be a JSON array: %w", err)
	}
	return params, nil
}

// toJsonRpcError maps any error returned by a handler onto the wire error
// type (spec.md §4.8's "exception -> JSON-RPC mapping"). Known kinds pass
// through unchanged; anything else becomes INTERNAL_ERROR, never leaking
// an unrecognised internal error shape to the caller.
func toJsonRpcError(err error) *relayerrors.JsonRpcError {
	if jsonRpcErr, ok := err.(*relayerrors.JsonRpcError); ok {
		return jsonRpcErr
	}
	return relayerrors.InternalError(err)
}
