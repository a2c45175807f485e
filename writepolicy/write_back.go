package writepolicy

import (
	"context"
	"sync"

	"github.com/krisalay/navcache/types"
)

// writeReq represents one pending journal append.
type writeReq struct {
	ctx   context.Context
	visit types.Visit
}

/*
WriteBackPolicy appends visits to the journal asynchronously.
*/
type WriteBackPolicy struct {

	// store is the journal backend.
	store types.VisitStore

	logger types.Logger

	// ch is a buffered channel that holds pending appends.
	// A burst of navigations never blocks on the journal.
	ch chan writeReq

	// closeOnce guards against a double close of ch.
	closeOnce sync.Once

	// wg is used to wait for the worker to finish during shutdown.
	wg sync.WaitGroup
}

// NewWriteBackPolicy creates a write-back policy and starts its worker.
func NewWriteBackPolicy(store types.VisitStore, buffer int, logger types.Logger) *WriteBackPolicy {
	if logger == nil {
		logger = types.NopLogger{}
	}
	w := &WriteBackPolicy{
		store:  store,
		logger: logger,
		ch:     make(chan writeReq, buffer),
	}

	w.wg.Add(1)
	go w.worker()

	return w
}

// OnWrite queues the visit. If the queue is full the visit is DROPPED and
// logged: a journal must never stall navigation.
func (w *WriteBackPolicy) OnWrite(ctx context.Context, v types.Visit) {
	select {
	case w.ch <- writeReq{context.WithoutCancel(ctx), v}:
	default:
		w.logger.Warn("journal queue full, visit dropped", "route", v.Route)
	}
}

// worker drains the queue until Close.
func (w *WriteBackPolicy) worker() {
	defer w.wg.Done()

	for req := range w.ch {
		if err := w.store.Append(req.ctx, req.visit); err != nil {
			w.logger.Warn("journal append failed", "route", req.visit.Route, "err", err)
		}
	}
}

/*
Close shuts down the write-back policy gracefully.
1. Close the channel (no more writes accepted)
2. Wait for the worker to finish processing queued writes

OnWrite must not be called after Close.
*/
func (w *WriteBackPolicy) Close() {
	w.closeOnce.Do(func() { close(w.ch) })
	w.wg.Wait()
}
