package writepolicy

import (
	"context"

	"github.com/krisalay/navcache/types"
)

/*
This file defines what a "write policy" is for the visit journal.

Every user-visible navigation produces a Visit. Where that Visit goes, and
whether the navigation waits for it, depends on the policy:
- Write-through: append synchronously, navigation waits
- Write-back: queue and append in the background, navigation never waits
*/

/*
WritePolicy is the contract that all write policies must follow.
The engine does not care which policy is used. It simply calls these methods.
*/
type WritePolicy interface {

	// OnWrite is called once per successful, history-visible navigation.
	OnWrite(ctx context.Context, v types.Visit)

	// Close is called when the session shuts down.
	Close()
}
