package rpcdispatch

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/config"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/mirrornode"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
	"github.com/hiero-ledger/hedera-json-rpc-relay-go/workerpool"
)

func newTestDeps(t *testing.T, handler http.HandlerFunc) (Deps, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)

	cache, err := relaycache.NewLocalCache(1000, 0)
	require.NoError(t, err)

	cfg := config.WithDefaults(config.Config{MirrorNodeURL: srv.URL, ChainID: 0x128})
	mirror, err := mirrornode.NewClient(cfg, cache, slog.Default())
	require.NoError(t, err)

	return Deps{Mirror: mirror, Config: cfg}, srv
}

func TestHandleEthGetBlockByNumberDirect(t *testing.T) {
	deps, srv := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number": 42}`))
	})
	defer srv.Close()

	result, err := handleEthGetBlockByNumber(deps)(context.Background(), []RawMessage{RawMessage(`"latest"`), RawMessage("false")})
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestHandleEthGetBlockByNumberRoutesThroughWorkerPool(t *testing.T) {
	deps, srv := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"number": 7}`))
	})
	defer srv.Close()

	pool := workerpool.New(2)
	pool.Register(workerpool.TaskGetBlock, func(ctx context.Context, args any) (any, error) {
		a := args.(GetBlockArgs)
		return deps.Mirror.GetBlock(ctx, a.Tag, a.DefaultTTLMs)
	})
	deps.Workers = pool

	result, err := handleEthGetBlockByNumber(deps)(context.Background(), []RawMessage{RawMessage(`"latest"`), RawMessage("false")})
	require.NoError(t, err)
	block := result.(map[string]any)
	require.Equal(t, mirrornode.Number("7"), block["number"])
}

func TestHandleEthGetLogsDirect(t *testing.T) {
	deps, srv := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"logs": []}`))
	})
	defer srv.Close()

	result, err := handleEthGetLogs(deps)(context.Background(), []RawMessage{RawMessage(`{"address":"0xabc"}`)})
	require.NoError(t, err)
	require.NotNil(t, result)
}

func TestHandleEthGetBlockReceiptsUnwrapsWorkerPoolError(t *testing.T) {
	deps, srv := newTestDeps(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	pool := workerpool.New(1)
	pool.Register(workerpool.TaskGetBlockReceipts, func(ctx context.Context, args any) (any, error) {
		a := args.(GetBlockReceiptsArgs)
		return FetchBlockReceipts(ctx, deps.Mirror, 1, a)
	})
	deps.Workers = pool

	_, err := handleEthGetBlockReceipts(deps)(context.Background(), []RawMessage{RawMessage(`"0xabc"`)})
	require.Error(t, err)
}
