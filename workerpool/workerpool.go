// Package workerpool runs CPU-heavy or blocking tasks (large JSON decode,
// multi-page mirror aggregation) off the request path (spec.md §4.7).
//
// The concurrency shape mirrors ethreceipts.ReceiptsListener: a buffered
// chan struct{} (fetchSem there, sem here) bounds how many tasks run at
// once, and golang.org/x/sync/errgroup supervises the fan-out the same way
// ReceiptsListener.fetchReceipts does.
package workerpool

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// TaskType identifies one of the closed set of operations a worker may run.
type TaskType string

const (
	TaskGetBlock         TaskType = "getBlock"
	TaskGetBlockReceipts TaskType = "getBlockReceipts"
	TaskGetLogs          TaskType = "getLogs"
)

// Handler is a pure function over a task's args plus the worker-local
// singletons closed over when the handler was registered (mirror client,
// cache) -- spec.md §4.7's "small set of worker-local singletons".
type Handler func(ctx context.Context, args any) (any, error)

// CounterMessage is the typed message a task posts to the parent when code
// running inside it wants to bump a counter, e.g. a cache method call
// (spec.md §4.7, relaycache.CounterSink). The parent drains Counters and is
// the only goroutine that ever mutates its own registries; workers never
// reach into parent state directly.
type CounterMessage struct {
	CallingMethod string
	CacheType     string
	Method        string
}

// Pool runs tasks of the registered TaskTypes with bounded concurrency.
// Tasks are not cancellable once started (spec.md §4.7); callers enforce
// timeouts at the HTTP layer.
type Pool struct {
	handlers map[TaskType]Handler
	sem      chan struct{}
	metrics  *Metrics
	counters chan CounterMessage
}

// New builds a Pool with the given maximum concurrency and a buffered
// counter-message channel the caller drains (Counters()). maxWorkers bounds
// concurrent task execution the same way ethreceipts.ReceiptsListener's
// fetchSem bounds concurrent fetches; there is no separate "min" worker
// count to pre-warm since goroutines, unlike OS threads, have no idle cost
// worth amortising.
func New(maxWorkers int) *Pool {
	return &Pool{
		handlers: make(map[TaskType]Handler),
		sem:      make(chan struct{}, maxWorkers),
		metrics:  NewMetrics(),
		counters: make(chan CounterMessage, 256),
	}
}

// Register binds a handler to a task type. Call during startup only;
// Register is not safe to call concurrently with Run.
func (p *Pool) Register(t TaskType, h Handler) {
	p.handlers[t] = h
}

// Counters returns the channel the parent should drain to apply counter
// updates posted by in-flight tasks (spec.md §4.7).
func (p *Pool) Counters() <-chan CounterMessage {
	return p.counters
}

// postCounter is the only way a Handler reaches the parent's metrics; it
// never blocks indefinitely -- a full counters channel drops the update
// rather than stall a worker, since counters are best-effort observability,
// not correctness state.
func (p *Pool) postCounter(msg CounterMessage) {
	select {
	case p.counters <- msg:
	default:
	}
}

// Task is one unit of work submitted to the pool.
type Task struct {
	Type TaskType
	Args any
}

// Run executes task, blocking until a worker slot is free, the task
// completes, or ctx is cancelled while waiting for a slot (task execution
// itself is not cancellable once started). Errors returned by the handler
// cross the goroutine boundary already wrapped by WrapError, so callers on
// the other side of Run should call UnwrapError to recover the original
// error kind.
func (p *Pool) Run(ctx context.Context, task Task) (any, error) {
	handler, ok := p.handlers[task.Type]
	if !ok {
		return nil, &UnknownTaskError{Type: task.Type}
	}

	queueWaitStart := time.Now()
	p.metrics.incrQueueSize(1)
	defer p.metrics.incrQueueSize(-1)

	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	defer func() { <-p.sem }()

	p.metrics.observeQueueWait(time.Since(queueWaitStart))
	p.metrics.incrActiveThreads(1)
	defer p.metrics.incrActiveThreads(-1)

	g, gctx := errgroup.WithContext(ctx)

	var result any
	var handlerErr error

	g.Go(func() error {
		start := time.Now()
		result, handlerErr = handler(gctx, task.Args)
		p.metrics.observeTaskDuration(task.Type, time.Since(start))
		if handlerErr != nil {
			p.metrics.incrTasksCompleted(task.Type, "error")
			return WrapError(handlerErr)
		}
		p.metrics.incrTasksCompleted(task.Type, "ok")
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// UnknownTaskError is returned by Run when no Handler is registered for a
// TaskType.
type UnknownTaskError struct {
	Type TaskType
}

func (e *UnknownTaskError) Error() string {
	return "workerpool: no handler registered for task type " + string(e.Type)
}
