package types

import "time"

// Route is an opaque identifier naming a logical admin page.
type Route string

// Payload is what the page-content endpoint returns for a route.
type Payload struct {
	// Content is the rendered HTML fragment.
	Content string

	// Title is the optional display title. Empty means "use the route's
	// configured title".
	Title string
}

/*
CacheEntry is one cached page fragment.

Entries are values, not pointers. Once stored an entry is never modified:
a stale entry is either replaced by a fresh Put or ignored by Get.
*/
type CacheEntry struct {
	Route    Route
	Payload  Payload
	StoredAt time.Time
}

// HistoryRecord is the state stored in one session history entry.
// It carries everything needed to rebuild the page without parsing the URL.
type HistoryRecord struct {
	Route Route
	Title string
}

// Visit is one user-visible navigation, as written to the visit journal.
type Visit struct {
	ID        string
	Route     Route
	Title     string
	VisitedAt time.Time
}
