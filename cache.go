package navcache

import (
	"time"

	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/store"
	"github.com/krisalay/navcache/types"
)

/*
Cache is the navigation cache store: route → page fragment, with expiration.

It connects:
- storage (copy-on-write, lock-free reads)
- expiration and metrics (through the engine)

It never loads anything itself; the controller and the preloader decide
when to fetch and call Put with the result.
*/
type Cache struct {
	store  store.EntryStore
	engine *engine.Engine
}

// NewCache returns an empty cache governed by e.
func NewCache(e *engine.Engine) *Cache {
	return &Cache{
		store:  store.NewCOWStore(),
		engine: e,
	}
}

/*
Get returns the entry for route only if it is present AND unexpired.

An expired entry is reported absent but left in place: it is never returned
again and the next Put replaces it.
*/
func (c *Cache) Get(route types.Route) (types.CacheEntry, bool) {
	ent, ok := c.store.Get(route)
	if !ok {
		c.engine.Metrics.Miss()
		return types.CacheEntry{}, false
	}
	if c.engine.IsExpired(ent) {
		c.engine.Metrics.Expire()
		return types.CacheEntry{}, false
	}
	c.engine.Metrics.Hit()
	return ent, true
}

// Fresh reports whether Get would succeed, without touching metrics.
func (c *Cache) Fresh(route types.Route) bool {
	ent, ok := c.store.Get(route)
	return ok && !c.engine.IsExpired(ent)
}

// Put stores or overwrites the entry for route, stamped with now.
func (c *Cache) Put(route types.Route, p types.Payload, now time.Time) {
	c.store.Put(types.CacheEntry{Route: route, Payload: p, StoredAt: now})
}

// Clear drops every entry. Only explicit cache-busting calls this.
func (c *Cache) Clear() {
	c.store.Clear()
}

// Len returns how many entries are stored, fresh or stale.
func (c *Cache) Len() int {
	return c.store.Len()
}
