package navcache

import (
	"context"
	"time"

	"github.com/krisalay/navcache/types"
)

/*
Navigator defines the PUBLIC API of the navigation controller.
Caching, fetching, history and the single-flight guard are hidden behind it.
*/
type Navigator interface {

	/*
		Navigate moves to route on behalf of the user.

		BEHAVIOR:
		---------
		1. route is already on screen → OutcomeSameRoute, nothing happens
		2. another navigation is in progress → OutcomeDropped, nothing happens
		3. fresh cache entry → render it, push history → OutcomeCached
		4. otherwise fetch, cache, render, push history → OutcomeRendered
		5. fetch fails → Error state, error panel, no history → OutcomeFailed
	*/
	Navigate(ctx context.Context, route types.Route) Outcome

	// Retry re-attempts the failed route without pushing history.
	Retry(ctx context.Context) Outcome

	// State returns a snapshot of the navigation state.
	State() State

	// Invalidate clears the page cache (explicit cache-busting only).
	Invalidate()
}

/*
PageCache defines the cache store contract.

- Get never returns an entry whose age is TTL or more
- Put always succeeds and overwrites
- Clear drops everything
*/
type PageCache interface {
	Get(route types.Route) (types.CacheEntry, bool)
	Put(route types.Route, p types.Payload, now time.Time)
	Clear()
	Len() int
}

// HoverPreloader is what navigation menus talk to on pointer events.
type HoverPreloader interface {
	PointerEnter(route types.Route)
	PointerLeave()
}

var (
	_ Navigator      = (*Controller)(nil)
	_ StateReader    = (*Controller)(nil)
	_ PageCache      = (*Cache)(nil)
	_ HoverPreloader = (*Preloader)(nil)
)
