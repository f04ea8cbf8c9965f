package rpcdispatch

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/jsonrpc"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

func TestDispatchUnsupportedMethod(t *testing.T) {
	r := NewRegistry()
	_, rpcErr := r.Dispatch(context.Background(), "eth_bogus", nil)
	require.NotNil(t, rpcErr)
	require.Equal(t, relayerrors.KindUnsupportedMethod, rpcErr.Kind)
	require.Equal(t, jsonrpc.CodeMethodNotFound, rpcErr.Code)
}

func TestDispatchRunsHandlerAndEncodesResult(t *testing.T) {
	r := NewRegistry()
	r.Register("eth", "chainId", func(ctx context.Context, params []RawMessage) (any, error) {
		return "0x128", nil
	}, nil)

	raw, rpcErr := r.Dispatch(context.Background(), "eth_chainId", nil)
	require.Nil(t, rpcErr)
	var s string
	require.NoError(t, json.Unmarshal(raw, &s))
	require.Equal(t, "0x128", s)
}

func TestDispatchRearrangerPadsOmittedTrailingParam(t *testing.T) {
	r := NewRegistry()
	var seen []RawMessage
	r.Register("eth", "getBlockByNumber", func(ctx context.Context, params []RawMessage) (any, error) {
		seen = params
		return nil, nil
	}, padTrailingFalse(2))

	_, rpcErr := r.Dispatch(context.Background(), "eth_getBlockByNumber", RawMessage(`["latest"]`))
	require.Nil(t, rpcErr)
	require.Len(t, seen, 2)
	require.Equal(t, "false", string(seen[1]))
}

func TestDispatchWrapsUnknownErrorAsInternal(t *testing.T) {
	r := NewRegistry()
	r.Register("eth", "boom", func(ctx context.Context, params []RawMessage) (any, error) {
		return nil, assertError("kaboom")
	}, nil)

	_, rpcErr := r.Dispatch(context.Background(), "eth_boom", nil)
	require.NotNil(t, rpcErr)
	require.Equal(t, relayerrors.KindInternalError, rpcErr.Kind)
}

func TestDispatchPassesThroughKnownJsonRpcError(t *testing.T) {
	r := NewRegistry()
	r.Register("eth", "pgmax", func(ctx context.Context, params []RawMessage) (any, error) {
		return nil, relayerrors.PaginationMax(10)
	}, nil)

	_, rpcErr := r.Dispatch(context.Background(), "eth_pgmax", nil)
	require.NotNil(t, rpcErr)
	require.Equal(t, relayerrors.KindPaginationMax, rpcErr.Kind)
}

func TestServeReturnsWireResponse(t *testing.T) {
	r := NewRegistry()
	r.Register("web3", "clientVersion", func(ctx context.Context, params []RawMessage) (any, error) {
		return "test-client/1.0", nil
	}, nil)

	resp := r.Serve(context.Background(), jsonrpc.Request{
		Version: jsonrpc.Version,
		ID:      RawMessage("1"),
		Method:  "web3_clientVersion",
	})
	require.Nil(t, resp.Error)
	var s string
	require.NoError(t, json.Unmarshal(resp.Result, &s))
	require.Equal(t, "test-client/1.0", s)
}

type assertError string

func (e assertError) Error() string { return string(e) }
