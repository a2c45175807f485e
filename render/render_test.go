package render_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/krisalay/navcache/render"
	"github.com/krisalay/navcache/types"
)

func TestSanitizeStripsScripts(t *testing.T) {
	got := render.Sanitize(`<h1 onclick="steal()">Brands</h1><script>alert(1)</script>`)

	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<h1>Brands</h1>") {
		t.Fatalf("expected heading to survive, got %q", got)
	}
}

func TestPlainText(t *testing.T) {
	got := render.PlainText("<h1>Brands &amp; Voices</h1>\n\n<p>Two   brands<br>configured</p><ul><li>Acme</li><li>Globex</li></ul>")

	want := "Brands & Voices\n\nTwo brands\nconfigured\nAcme\nGlobex"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestBufferKeepsContentOnError(t *testing.T) {
	var b render.Buffer

	b.Render("dashboard", types.Payload{Content: "<p>stats</p>", Title: "Dashboard"})
	b.ShowError("settings", "boom")

	route, title, content := b.Content()
	if route != "dashboard" || title != "Dashboard" || content != "<p>stats</p>" {
		t.Fatalf("content changed on error: %s %s %q", route, title, content)
	}
	panel, ok := b.Error()
	if !ok || panel != (render.ErrorPanel{Route: "settings", Message: "boom"}) {
		t.Fatalf("unexpected panel %+v", panel)
	}

	b.Render("settings", types.Payload{Content: "<p>ok</p>"})
	if _, ok := b.Error(); ok {
		t.Fatal("render should hide the error panel")
	}
	if b.Renders() != 2 {
		t.Fatalf("expected 2 renders, got %d", b.Renders())
	}
}

func TestTerminal(t *testing.T) {
	var out bytes.Buffer
	term := render.NewTerminal(&out)

	term.Render("brands", types.Payload{Content: "<p>Acme</p>", Title: "Brands"})
	term.ShowError("settings", "boom")

	s := out.String()
	if !strings.Contains(s, "── Brands (brands)") || !strings.Contains(s, "Acme") {
		t.Fatalf("unexpected page output %q", s)
	}
	if !strings.Contains(s, "could not load settings: boom") {
		t.Fatalf("unexpected error output %q", s)
	}
}
