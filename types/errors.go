package types

import (
	"errors"
	"fmt"
)

// FetchErrorKind classifies why the fetch channel failed.
type FetchErrorKind string

const (
	// FetchTransport covers network errors, cancellations and timeouts.
	FetchTransport FetchErrorKind = "transport"

	// FetchStatus is a non-2xx HTTP response.
	FetchStatus FetchErrorKind = "status"

	// FetchMalformed is a body that is not the expected JSON shape.
	FetchMalformed FetchErrorKind = "malformed"

	// FetchServer is an explicit {"success": false} from the endpoint.
	FetchServer FetchErrorKind = "server"
)

/*
FetchError is the single error type the fetch channel produces.

Every failure mode (transport, HTTP status, malformed body, server-reported
failure) is normalized into this type before it reaches the controller, so
the controller only ever needs Message for its error panel.
*/
type FetchError struct {
	Route   Route
	Kind    FetchErrorKind
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s: %s: %v", e.Route, e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.Route, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// AsFetchError returns err as a *FetchError, wrapping foreign errors as
// transport failures. It returns nil for a nil error.
func AsFetchError(route Route, err error) *FetchError {
	if err == nil {
		return nil
	}
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe
	}
	return &FetchError{Route: route, Kind: FetchTransport, Message: err.Error(), Err: err}
}
