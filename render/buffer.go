package render

import (
	"sync"

	"github.com/krisalay/navcache/types"
)

// ErrorPanel is what the user sees after a failed navigation.
type ErrorPanel struct {
	Route   types.Route
	Message string
}

/*
Buffer is an in-memory content area.

Render swaps in the sanitized fragment and hides the error panel. ShowError
raises the panel and leaves the last rendered content in place.
*/
type Buffer struct {
	mu      sync.Mutex
	route   types.Route
	title   string
	content string
	panel   *ErrorPanel
	renders int
}

func (b *Buffer) Render(route types.Route, p types.Payload) {
	clean := Sanitize(p.Content)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.route = route
	b.title = p.Title
	b.content = clean
	b.panel = nil
	b.renders++
}

func (b *Buffer) ShowError(route types.Route, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.panel = &ErrorPanel{Route: route, Message: message}
}

// Content returns what is on screen.
func (b *Buffer) Content() (route types.Route, title, content string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.route, b.title, b.content
}

// Error returns the error panel, if raised.
func (b *Buffer) Error() (ErrorPanel, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.panel == nil {
		return ErrorPanel{}, false
	}
	return *b.panel, true
}

// Renders counts successful renders.
func (b *Buffer) Renders() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.renders
}
