package store

import (
	"sync"
	"sync/atomic"

	"github.com/krisalay/navcache/types"
)

/*
This file defines how page fragments are actually stored. This is NOT a normal map.
- Reads happen on every navigation and every hover, and should NOT require locks
- Writes happen once per fetch and can afford extra work

To achieve this, we use a technique called: "Copy-On-Write" (COW)
*/

// EntryStore is the interface used by the navigation cache to keep entries.
type EntryStore interface {

	// Get retrieves an entry by route, fresh or not.
	Get(types.Route) (types.CacheEntry, bool)

	// Put inserts or replaces an entry.
	Put(types.CacheEntry)

	// Clear drops every entry.
	Clear()

	// Len returns how many entries are stored.
	Len() int
}

/*
cowStore is a Copy-On-Write implementation of EntryStore.

- Readers always see an immutable snapshot
- Writers create a NEW copy of the map under mu
- The new map replaces the old one atomically

The route set of an admin session is small and closed, so copying the map
on each write stays cheap.
*/
type cowStore struct {

	// data holds the current snapshot. Readers load it without locking.
	data atomic.Pointer[map[types.Route]types.CacheEntry]

	// mu serializes writers so two concurrent Puts cannot lose each other.
	mu sync.Mutex
}

// NewCOWStore returns an empty copy-on-write store.
func NewCOWStore() EntryStore {
	s := &cowStore{}
	m := make(map[types.Route]types.CacheEntry)
	s.data.Store(&m)
	return s
}

// Get retrieves an entry from the current snapshot.
func (s *cowStore) Get(route types.Route) (types.CacheEntry, bool) {
	ent, ok := (*s.data.Load())[route]
	return ent, ok
}

/*
Put inserts or replaces an entry. This is where copy-on-write happens.

1. Load the current map
2. Create a NEW map and copy all existing entries
3. Add the new entry
4. Atomically replace the old map
*/
func (s *cowStore) Put(ent types.CacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.data.Load()
	n := make(map[types.Route]types.CacheEntry, len(old)+1)
	for k, v := range old {
		n[k] = v
	}
	n[ent.Route] = ent

	s.data.Store(&n)
}

// Clear swaps in an empty map. Readers holding the old snapshot finish undisturbed.
func (s *cowStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := make(map[types.Route]types.CacheEntry)
	s.data.Store(&n)
}

// Len returns how many entries are in the current snapshot.
func (s *cowStore) Len() int {
	return len(*s.data.Load())
}
