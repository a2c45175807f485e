package writepolicy

import (
	"context"

	"github.com/krisalay/navcache/types"
)

/*
WriteThroughPolicy forwards every visit to the journal immediately.

So the flow is: navigation render → journal append (synchronous) → navigation done
*/
type WriteThroughPolicy struct {
	store  types.VisitStore
	logger types.Logger
}

// NewWriteThroughPolicy creates a new write-through policy.
func NewWriteThroughPolicy(store types.VisitStore, logger types.Logger) *WriteThroughPolicy {
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &WriteThroughPolicy{store: store, logger: logger}
}

// OnWrite appends the visit. A journal failure never fails the navigation; it is logged.
func (w *WriteThroughPolicy) OnWrite(ctx context.Context, v types.Visit) {
	if err := w.store.Append(ctx, v); err != nil {
		w.logger.Warn("journal append failed", "route", v.Route, "err", err)
	}
}

// Close is a no-op: write-through has no background worker.
func (w *WriteThroughPolicy) Close() {}
