package workerpool

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hiero-ledger/hedera-json-rpc-relay-go/relayerrors"
)

func TestRunReturnsHandlerResult(t *testing.T) {
	p := New(2)
	p.Register(TaskGetBlock, func(ctx context.Context, args any) (any, error) {
		return args, nil
	})

	result, err := p.Run(context.Background(), Task{Type: TaskGetBlock, Args: "latest"})
	require.NoError(t, err)
	require.Equal(t, "latest", result)
}

func TestRunUnknownTaskType(t *testing.T) {
	p := New(1)
	_, err := p.Run(context.Background(), Task{Type: "bogus"})
	require.Error(t, err)
	var unknown *UnknownTaskError
	require.ErrorAs(t, err, &unknown)
}

func TestRunBoundsConcurrency(t *testing.T) {
	p := New(2)
	var active int32
	var maxActive int32

	p.Register(TaskGetLogs, func(ctx context.Context, args any) (any, error) {
		n := atomic.AddInt32(&active, 1)
		defer atomic.AddInt32(&active, -1)
		for {
			cur := atomic.LoadInt32(&maxActive)
			if n <= cur || atomic.CompareAndSwapInt32(&maxActive, cur, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		return nil, nil
	})

	done := make(chan struct{})
	for i := 0; i < 5; i++ {
		go func() {
			_, _ = p.Run(context.Background(), Task{Type: TaskGetLogs})
			done <- struct{}{}
		}()
	}
	for i := 0; i < 5; i++ {
		<-done
	}

	require.LessOrEqual(t, int(atomic.LoadInt32(&maxActive)), 2)
}

func TestRunPropagatesWrappedError(t *testing.T) {
	p := New(1)
	p.Register(TaskGetBlockReceipts, func(ctx context.Context, args any) (any, error) {
		return nil, relayerrors.PaginationMax(5)
	})

	_, err := p.Run(context.Background(), Task{Type: TaskGetBlockReceipts})
	require.Error(t, err)

	original := UnwrapError(err)
	var jsonRpcErr *relayerrors.JsonRpcError
	require.ErrorAs(t, original, &jsonRpcErr)
	require.Equal(t, relayerrors.KindPaginationMax, jsonRpcErr.Kind)
	require.Equal(t, float64(5), jsonRpcErr.Data)
}

func TestPostCounterNeverBlocks(t *testing.T) {
	p := New(1)
	for i := 0; i < 1000; i++ {
		p.postCounter(CounterMessage{CallingMethod: "eth_getLogs", CacheType: "local", Method: "get"})
	}
	// No deadlock reaching here is the assertion; drain what fits.
	select {
	case <-p.Counters():
	default:
		t.Fatal("expected at least one buffered counter message")
	}
}

func TestMetricsSnapshotReflectsCompletedTasks(t *testing.T) {
	p := New(3)
	p.Register(TaskGetBlock, func(ctx context.Context, args any) (any, error) {
		return nil, nil
	})
	p.Register(TaskGetLogs, func(ctx context.Context, args any) (any, error) {
		return nil, relayerrors.InternalError(nil)
	})

	_, _ = p.Run(context.Background(), Task{Type: TaskGetBlock})
	_, _ = p.Run(context.Background(), Task{Type: TaskGetLogs})

	snap := p.Metrics()
	require.Equal(t, int64(1), snap.TasksCompleted[[2]string{string(TaskGetBlock), "ok"}])
	require.Equal(t, int64(1), snap.TasksCompleted[[2]string{string(TaskGetLogs), "error"}])
	require.Zero(t, snap.ActiveThreads)
}
