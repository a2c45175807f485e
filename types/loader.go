package types

import "context"

// Loader is the contract between the navigation cache and the page-content endpoint.
type Loader interface {

	/*
		Load is called when the cache has no fresh entry for a route.
		1. Cache checks memory → route missing or stale
		2. Engine calls Load(route)
		3. Loader asks the endpoint for the fragment
		4. Caller stores the payload in the cache
		5. Caller renders the payload (navigation) or stops there (preload)

		Load never retries. Failures should be returned as *FetchError;
		any other error is normalized into one by the caller.
	*/
	Load(ctx context.Context, route Route) (Payload, error)
}

// VisitStore is where the visit journal ends up (SQLite in production).
type VisitStore interface {
	Append(ctx context.Context, v Visit) error
}

// Renderer is the collaborator that puts content on screen.
type Renderer interface {

	// Render shows a freshly navigated page.
	Render(route Route, p Payload)

	// ShowError shows the error panel with a retry affordance. The last
	// rendered content stays on screen.
	ShowError(route Route, message string)
}
