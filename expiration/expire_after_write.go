package expiration

import (
	"time"

	"github.com/krisalay/navcache/types"
)

/*
ExpireAfterWrite implements a fixed TTL measured from the moment an entry was
stored. Reads never extend it.

An entry is valid while now - StoredAt < TTL. At exactly TTL it is expired.
*/
type ExpireAfterWrite struct {

	// TTL (Time-To-Live) defines how long the entry stays valid AFTER it is stored.
	TTL time.Duration
}

// NewExpireAfterWrite returns the strategy with DefaultTTL.
func NewExpireAfterWrite() *ExpireAfterWrite {
	return &ExpireAfterWrite{TTL: DefaultTTL}
}

// IsExpired checks whether the entry is expired at this moment.
func (e *ExpireAfterWrite) IsExpired(ent types.CacheEntry, now time.Time) bool {
	return now.Sub(ent.StoredAt) >= e.TTL
}

// Remaining returns how long ent stays valid, or zero once expired.
func (e *ExpireAfterWrite) Remaining(ent types.CacheEntry, now time.Time) time.Duration {
	d := e.TTL - now.Sub(ent.StoredAt)
	if d < 0 {
		return 0
	}
	return d
}
