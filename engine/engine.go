package engine

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/krisalay/navcache/clock"
	"github.com/krisalay/navcache/expiration"
	"github.com/krisalay/navcache/types"
	"github.com/krisalay/navcache/writepolicy"
)

/*
Engine is the "brain" shared by the cache store, the navigation controller
and the preloader. It is responsible for behavior, NOT storage or state.

It decides:
- When an entry is expired
- How a route is loaded on a cache miss (and that concurrent loads of the
  same route share one request)
- Where visits are journaled
- How metrics are recorded

It does NOT:
- Store entries
- Own navigation state
- Touch history
*/
type Engine struct {

	// Expiration controls when a cache entry is considered too old.
	// If nil, entries never expire.
	Expiration expiration.Strategy

	// Loader is how the cache talks to the page-content endpoint.
	Loader types.Loader

	// WritePolicy decides how visits reach the journal. If nil, visits are not recorded.
	WritePolicy writepolicy.WritePolicy

	// Metrics records hits, misses, fetches and the like.
	Metrics types.Metrics

	// Clock supplies "now" for expiration checks and cache writes.
	Clock clock.Clock

	// sf coalesces concurrent loads of the same route: a navigation that
	// races a preload of its target waits for the preload's request.
	sf singleflight.Group
}

/*
NewEngine creates an Engine.
Metrics and Clock are always non-nil afterwards.
*/
func NewEngine(
	exp expiration.Strategy,
	loader types.Loader,
	writePolicy writepolicy.WritePolicy,
	metrics types.Metrics,
	clk clock.Clock,
) *Engine {
	if metrics == nil {
		metrics = types.NoopMetrics{}
	}
	if clk == nil {
		clk = clock.System{}
	}

	return &Engine{
		Expiration:  exp,
		Loader:      loader,
		WritePolicy: writePolicy,
		Metrics:     metrics,
		Clock:       clk,
	}
}

// IsExpired checks an entry against the configured strategy at the current clock time.
func (e *Engine) IsExpired(ent types.CacheEntry) bool {
	return e.Expiration != nil &&
		e.Expiration.IsExpired(ent, e.Clock.Now())
}

/*
Load fetches a route through the Loader.

Concurrent callers for the same route share one request and one result.
The shared request runs detached from every caller's cancellation (the
Loader applies its own timeout); each caller only stops WAITING when its
own ctx ends, so one caller giving up never fails another.
Every error is returned as *types.FetchError.
*/
func (e *Engine) Load(ctx context.Context, route types.Route) (types.Payload, error) {
	ch := e.sf.DoChan(string(route), func() (any, error) {
		e.Metrics.Fetch()
		p, err := e.Loader.Load(context.WithoutCancel(ctx), route)
		if err != nil {
			e.Metrics.FetchError()
			return types.Payload{}, types.AsFetchError(route, err)
		}
		return p, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return types.Payload{}, res.Err
		}
		return res.Val.(types.Payload), nil
	case <-ctx.Done():
		return types.Payload{}, &types.FetchError{
			Route:   route,
			Kind:    types.FetchTransport,
			Message: "request cancelled",
			Err:     ctx.Err(),
		}
	}
}

// Record forwards a visit to the journal if one is configured.
func (e *Engine) Record(ctx context.Context, v types.Visit) {
	if e.WritePolicy != nil {
		e.WritePolicy.OnWrite(ctx, v)
	}
}

// Close flushes the journal.
func (e *Engine) Close() {
	if e.WritePolicy != nil {
		e.WritePolicy.Close()
	}
}
