// This file defines how navigation cache entries expire over time.

package expiration

import (
	"time"

	"github.com/krisalay/navcache/types"
)

// DefaultTTL is the fixed validity window of a cached page fragment.
const DefaultTTL = 5 * time.Minute

/*
Strategy is the interface that all expiration rules must follow. Instead of hard-coding
expiration logic into the cache, we define a strategy so expiration behavior can be swapped easily.

Entries are immutable, so a strategy only ever judges an entry. It never
touches it on read or write.
*/
type Strategy interface {

	// IsExpired checks if the entry is expired at now.
	IsExpired(ent types.CacheEntry, now time.Time) bool
}

// Never keeps every entry forever.
type Never struct{}

func (Never) IsExpired(types.CacheEntry, time.Time) bool { return false }
