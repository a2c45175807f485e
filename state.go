package navcache

import "github.com/krisalay/navcache/types"

// Status is the controller's state-machine state.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

/*
State is a snapshot of the navigation state.

- Idle:    CurrentRoute is on screen.
- Loading: TargetRoute is being fetched; IsLoading is true.
- Error:   the fetch of AttemptedRoute failed with Message; CurrentRoute is
           still on screen.
*/
type State struct {
	Status         Status
	CurrentRoute   types.Route
	TargetRoute    types.Route
	AttemptedRoute types.Route
	Message        string
	IsLoading      bool
}

// Outcome tells a caller what a navigation request did.
type Outcome int

const (
	// OutcomeRendered means the page was fetched and rendered.
	OutcomeRendered Outcome = iota

	// OutcomeCached means the page was rendered from a fresh cache entry.
	OutcomeCached

	// OutcomeSameRoute means the route is already on screen. Nothing happened.
	OutcomeSameRoute

	// OutcomeDropped means another navigation was in progress. Nothing happened.
	OutcomeDropped

	// OutcomeFailed means the fetch failed and the controller is in Error.
	OutcomeFailed

	// OutcomeIgnored means Retry was called outside the Error state.
	OutcomeIgnored

	// OutcomeUnknownRoute means the route is not in the configured set.
	OutcomeUnknownRoute
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRendered:
		return "rendered"
	case OutcomeCached:
		return "cached"
	case OutcomeSameRoute:
		return "same-route"
	case OutcomeDropped:
		return "dropped"
	case OutcomeFailed:
		return "failed"
	case OutcomeIgnored:
		return "ignored"
	case OutcomeUnknownRoute:
		return "unknown-route"
	default:
		return "unknown"
	}
}

// navMode says what a navigation does to history once it renders.
type navMode int

const (
	// modePush is a user-initiated navigation: push a record.
	modePush navMode = iota

	// modeReplay is a back/forward traversal or a retry: the history position already exists.
	modeReplay

	// modeReplace is the page-load bootstrap: replace the landing entry.
	modeReplace
)
