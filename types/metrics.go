package types

import "sync/atomic"

// This file defines how the navigation cache reports what it is doing.

/*
Metrics is an interface that defines what the navigation cache wants to measure.
Each method represents an event in the navigation lifecycle.
*/
type Metrics interface {

	// Hit is called when a fresh cache entry is returned.
	Hit()

	// Miss is called when a route has no entry at all.
	Miss()

	// Expire is called when an entry exists but has passed its TTL.
	Expire()

	// Fetch is called for every request sent to the page-content endpoint.
	Fetch()

	// FetchError is called when such a request fails.
	FetchError()

	// Drop is called when a navigation is dropped because another one is in progress.
	Drop()

	// Preload is called when a preload actually writes to the cache.
	Preload()
}

/*
NoopMetrics is a "do nothing" implementation of Metrics.

Callers that do not care about metrics get a working controller without
nil checks scattered through the code.
*/
type NoopMetrics struct{}

func (NoopMetrics) Hit()        {}
func (NoopMetrics) Miss()       {}
func (NoopMetrics) Expire()     {}
func (NoopMetrics) Fetch()      {}
func (NoopMetrics) FetchError() {}
func (NoopMetrics) Drop()       {}
func (NoopMetrics) Preload()    {}

// Counters is a lock-free Metrics implementation.
type Counters struct {
	hits, misses, expired, fetches, fetchErrors, drops, preloads atomic.Int64
}

func (c *Counters) Hit()        { c.hits.Add(1) }
func (c *Counters) Miss()       { c.misses.Add(1) }
func (c *Counters) Expire()     { c.expired.Add(1) }
func (c *Counters) Fetch()      { c.fetches.Add(1) }
func (c *Counters) FetchError() { c.fetchErrors.Add(1) }
func (c *Counters) Drop()       { c.drops.Add(1) }
func (c *Counters) Preload()    { c.preloads.Add(1) }

// MetricsSnapshot is a point-in-time copy of Counters.
type MetricsSnapshot struct {
	Hits        int64
	Misses      int64
	Expired     int64
	Fetches     int64
	FetchErrors int64
	Drops       int64
	Preloads    int64
}

// Snapshot reads every counter. Counters keep moving while it runs, so the
// values are individually exact but not a consistent cut.
func (c *Counters) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Expired:     c.expired.Load(),
		Fetches:     c.fetches.Load(),
		FetchErrors: c.fetchErrors.Load(),
		Drops:       c.drops.Load(),
		Preloads:    c.preloads.Load(),
	}
}
