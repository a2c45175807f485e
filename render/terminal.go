package render

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/krisalay/navcache/types"
)

// Terminal writes pages and error panels as plain text.
type Terminal struct {
	mu sync.Mutex
	w  io.Writer
}

// NewTerminal returns a Terminal writing to w.
func NewTerminal(w io.Writer) *Terminal {
	return &Terminal{w: w}
}

func (t *Terminal) Render(route types.Route, p types.Payload) {
	title := p.Title
	if title == "" {
		title = string(route)
	}
	header := fmt.Sprintf("── %s (%s) ", title, route)

	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "\n%s%s\n%s\n", header, strings.Repeat("─", max(0, 60-len([]rune(header)))), PlainText(p.Content))
}

func (t *Terminal) ShowError(route types.Route, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.w, "\n!! could not load %s: %s\n!! type \"retry\" to try again\n", route, message)
}
