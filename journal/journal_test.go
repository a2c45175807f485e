package journal_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/krisalay/navcache/journal"
	"github.com/krisalay/navcache/types"
	"github.com/krisalay/navcache/writepolicy"
)

func TestAppendAndRecent(t *testing.T) {
	s, err := journal.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, r := range []types.Route{"dashboard", "brands", "settings"} {
		v := types.Visit{ID: string(r), Route: r, Title: string(r), VisitedAt: base.Add(time.Duration(i) * time.Second)}
		if err := s.Append(ctx, v); err != nil {
			t.Fatalf("Append(%s) error: %v", r, err)
		}
	}

	got, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(got) != 2 || got[0].Route != "settings" || got[1].Route != "brands" {
		t.Fatalf("unexpected visits %+v", got)
	}
	if !got[0].VisitedAt.Equal(base.Add(2 * time.Second)) {
		t.Fatalf("visit time did not round-trip: %v", got[0].VisitedAt)
	}

	n, err := s.Count(ctx)
	if err != nil || n != 3 {
		t.Fatalf("Count() = %d, %v", n, err)
	}
}

func TestAppendDuplicateID(t *testing.T) {
	s, err := journal.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	v := types.Visit{ID: "same", Route: "logs", VisitedAt: time.Now()}
	if err := s.Append(context.Background(), v); err != nil {
		t.Fatalf("first Append() error: %v", err)
	}
	if err := s.Append(context.Background(), v); err == nil {
		t.Fatal("expected duplicate visit id to fail")
	}
}

func TestOpenFileAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "journal.db")

	s, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	if err := s.Append(context.Background(), types.Visit{ID: "a", Route: "brands", VisitedAt: time.Now()}); err != nil {
		t.Fatalf("Append() error: %v", err)
	}
	s.Close()

	s, err = journal.Open(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	got, err := s.Recent(context.Background(), 0)
	if err != nil || len(got) != 1 || got[0].Route != "brands" {
		t.Fatalf("Recent() after reopen = %+v, %v", got, err)
	}
}

func TestWriteBackIntoJournal(t *testing.T) {
	s, err := journal.OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory() error: %v", err)
	}
	defer s.Close()

	wp := writepolicy.NewWriteBackPolicy(s, 8, nil)
	for _, id := range []string{"1", "2", "3"} {
		wp.OnWrite(context.Background(), types.Visit{ID: id, Route: "dashboard", VisitedAt: time.Now()})
	}
	wp.Close()

	n, err := s.Count(context.Background())
	if err != nil || n != 3 {
		t.Fatalf("expected 3 flushed visits, got %d, %v", n, err)
	}
}
