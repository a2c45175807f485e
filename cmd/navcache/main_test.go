package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/krisalay/navcache/config"
	"github.com/krisalay/navcache/render"
)

func TestAppAgainstEmbeddedEndpoint(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Journal.Path = memoryJournal
	cfg.Journal.WriteBack = false

	var out bytes.Buffer
	a, err := newApp(cfg, newLogger(), render.NewTerminal(&out))
	if err != nil {
		t.Fatalf("newApp() error: %v", err)
	}
	defer a.close()

	ctx := context.Background()
	a.ctrl.Start(ctx, a.startRoute("admin.php?page=brands"))
	if got := a.ctrl.State().CurrentRoute; got != "brands" {
		t.Fatalf("expected deep link to land on brands, got %q", got)
	}

	a.exec(ctx, &out, "go", []string{"logs"})
	a.exec(ctx, &out, "back", nil)
	a.exec(ctx, &out, "status", nil)

	s := out.String()
	if !strings.Contains(s, "── Activity Log (logs)") {
		t.Fatalf("expected logs page in output:\n%s", s)
	}
	if a.ctrl.State().CurrentRoute != "brands" {
		t.Fatalf("expected back to land on brands, got %q", a.ctrl.State().CurrentRoute)
	}
	if a.dev.Hits("brands") != 1 {
		t.Fatalf("expected back to be served from cache, got %d requests", a.dev.Hits("brands"))
	}

	visits, err := a.journal.Recent(ctx, 10)
	if err != nil || len(visits) != 2 {
		t.Fatalf("expected 2 journaled visits, got %d, %v", len(visits), err)
	}
}

func TestRunDemo(t *testing.T) {
	var out bytes.Buffer
	if err := runDemo(context.Background(), &out); err != nil {
		t.Fatalf("runDemo() error: %v", err)
	}

	s := out.String()
	for _, want := range []string{
		"go settings        cached",
		"ERROR  → brands: database is down",
		"retry              rendered",
		"closed cleanly",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("demo output missing %q:\n%s", want, s)
		}
	}
}

func TestUnknownCommand(t *testing.T) {
	var out bytes.Buffer
	a := &app{}
	a.exec(context.Background(), &out, "jump", nil)
	if !strings.Contains(out.String(), `unknown command "jump"`) {
		t.Fatalf("got %q", out.String())
	}
}
