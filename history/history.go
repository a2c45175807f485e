// Package history keeps an ordered session history with browser semantics:
// replace, push (which truncates forward entries), back/forward traversal
// and popstate notification.
package history

import (
	"context"
	"sync"

	"github.com/krisalay/navcache/types"
)

// DefaultParam is the query parameter that carries the route in entry URLs.
const DefaultParam = "page"

// Entry is one position in the session history.
type Entry struct {
	// Record is the full navigation state. It is the source of truth.
	Record types.HistoryRecord

	// URL mirrors Record.Route for deep-linking and refresh only.
	URL string
}

// PopStateHandler is called with the record of the entry that traversal landed on.
type PopStateHandler = func(ctx context.Context, rec types.HistoryRecord)

/*
Stack is a session history.

Handlers registered with OnPopState run synchronously on the goroutine
that called Back, Forward or Go, after the index has moved and without any
Stack lock held, so a handler may read the Stack freely.
*/
type Stack struct {
	base  string
	param string

	mu       sync.Mutex
	entries  []Entry
	index    int
	handlers []PopStateHandler
}

// NewStack returns an empty history whose URLs are built from base and param.
// An empty param selects DefaultParam.
func NewStack(base, param string) *Stack {
	if param == "" {
		param = DefaultParam
	}
	return &Stack{base: base, param: param, index: -1}
}

// Init replaces the current entry, creating it on an empty stack. It is used
// once on page load so that the landing page has well-defined state.
func (s *Stack) Init(route types.Route, title string) {
	e := s.entry(route, title)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index < 0 {
		s.entries = append(s.entries[:0], e)
		s.index = 0
		return
	}
	s.entries[s.index] = e
}

// Push appends a new entry after the current one and drops any forward entries.
func (s *Stack) Push(route types.Route, title string) {
	e := s.entry(route, title)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries[:s.index+1], e)
	s.index = len(s.entries) - 1
}

// OnPopState registers h. Handlers are called in registration order.
func (s *Stack) OnPopState(h func(ctx context.Context, rec types.HistoryRecord)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, h)
}

// Back moves one entry back. It reports false at the start of the history.
func (s *Stack) Back(ctx context.Context) bool { return s.Go(ctx, -1) }

// Forward moves one entry forward. It reports false at the end of the history.
func (s *Stack) Forward(ctx context.Context) bool { return s.Go(ctx, 1) }

// Go moves delta entries and fires popstate. Out-of-range or zero moves do nothing.
func (s *Stack) Go(ctx context.Context, delta int) bool {
	s.mu.Lock()
	target := s.index + delta
	if delta == 0 || target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return false
	}
	s.index = target
	rec := s.entries[target].Record
	handlers := append([]PopStateHandler(nil), s.handlers...)
	s.mu.Unlock()

	for _, h := range handlers {
		h(ctx, rec)
	}
	return true
}

// Current returns the entry at the current index.
func (s *Stack) Current() (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.index < 0 {
		return Entry{}, false
	}
	return s.entries[s.index], true
}

// Len returns the number of entries, including forward ones.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Index returns the current position, or -1 on an empty stack.
func (s *Stack) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Entries returns a copy of the whole history.
func (s *Stack) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

func (s *Stack) entry(route types.Route, title string) Entry {
	return Entry{
		Record: types.HistoryRecord{Route: route, Title: title},
		URL:    URLFor(s.base, s.param, route),
	}
}
