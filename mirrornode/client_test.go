package mirrornode

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/goware/breaker"
	"github.com/stretchr/testify/require"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relaycache"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)

	cache, err := relaycache.NewLocalCache(1000, 0)
	require.NoError(t, err)

	return &Client{
		restURL:  u,
		web3URL:  u,
		http:     srv.Client(),
		br:       breaker.New(slog.Default(), 0, 1, 0),
		accepted: DefaultAcceptedErrors(),
		cache:    cache,
		log:      slog.Default(),
	}, srv
}

func TestClientAcceptsNotFoundAsEmpty(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	defer srv.Close()

	res, err := c.do(context.Background(), Request{Method: MethodGET, Path: "accounts/0.0.999", PathLabel: "accounts/{address}"})
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.status)
	require.Nil(t, res.body)
}

func TestClientContractCallRevertIsNotAnError(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"_status":{"messages":[{"message":"reverted"}]}}`))
	})
	defer srv.Close()

	res, err := c.do(context.Background(), Request{Method: MethodPOST, Path: "contracts/call", PathLabel: ContractCallPathLabel})
	require.NoError(t, err)
	require.Equal(t, http.StatusBadRequest, res.status)
	require.NotEmpty(t, res.body)
}

func TestClientUnacceptedErrorStatus(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	defer srv.Close()

	_, err := c.do(context.Background(), Request{Method: MethodGET, Path: "accounts/0.0.999", PathLabel: "accounts/{address}"})
	require.Error(t, err)
}

func TestGetPaginatedResultsFollowsNextLink(t *testing.T) {
	page := 0
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		defer func() { page++ }()
		switch page {
		case 0:
			_, _ = w.Write([]byte(`{"logs":[{"index":0}],"links":{"next":"/api/v1/contracts/results/logs?page=2"}}`))
		case 1:
			_, _ = w.Write([]byte(`{"logs":[{"index":1}],"links":{"next":null}}`))
		}
	})
	defer srv.Close()

	items, err := c.GetPaginatedResults(context.Background(), Request{Method: MethodGET, Path: "contracts/results/logs", PathLabel: "contracts/results/logs"}, "logs", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
}

func TestGetPaginatedResultsHitsPageMax(t *testing.T) {
	c, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"logs":[{"index":0}],"links":{"next":"/api/v1/contracts/results/logs?page=2"}}`))
	})
	defer srv.Close()

	_, err := c.GetPaginatedResults(context.Background(), Request{Method: MethodGET, Path: "contracts/results/logs", PathLabel: "contracts/results/logs"}, "logs", 2)
	require.Error(t, err)
}

func TestPollUntilMatureReturnsAfterImmatureThenMature(t *testing.T) {
	ImmaturePollDelay = 0
	calls := 0
	fetch := func(ctx context.Context) ([]json.RawMessage, error) {
		calls++
		if calls == 1 {
			return []json.RawMessage{[]byte(`{"block_number":null,"transaction_index":null,"block_hash":"0x"}`)}, nil
		}
		return []json.RawMessage{[]byte(`{"block_number":123,"transaction_index":0,"block_hash":"0xabc"}`)}, nil
	}

	records, err := PollUntilMature(context.Background(), 3, fetch)
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, 2, calls)
}

func TestPollUntilMatureExhaustsRetries(t *testing.T) {
	ImmaturePollDelay = 0
	fetch := func(ctx context.Context) ([]json.RawMessage, error) {
		return []json.RawMessage{[]byte(`{"block_number":null,"transaction_index":null,"block_hash":"0x"}`)}, nil
	}

	_, err := PollUntilMature(context.Background(), 2, fetch)
	require.Error(t, err)
}
