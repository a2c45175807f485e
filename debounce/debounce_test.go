package debounce_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/krisalay/navcache/clock"
	"github.com/krisalay/navcache/debounce"
)

func TestLastTriggerWins(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := debounce.New(clk, 500*time.Millisecond)

	var got []string
	d.Trigger(func() { got = append(got, "brands") })
	clk.Advance(300 * time.Millisecond)
	d.Trigger(func() { got = append(got, "settings") })
	clk.Advance(300 * time.Millisecond)

	if len(got) != 0 {
		t.Fatalf("nothing should fire inside the restarted window, got %v", got)
	}

	clk.Advance(200 * time.Millisecond)
	if len(got) != 1 || got[0] != "settings" {
		t.Fatalf("expected [settings], got %v", got)
	}
}

func TestCancel(t *testing.T) {
	clk := clock.NewFake(time.Unix(0, 0))
	d := debounce.New(clk, 500*time.Millisecond)

	fired := false
	d.Trigger(func() { fired = true })

	if !d.Cancel() {
		t.Fatal("expected Cancel to report a pending call")
	}
	if d.Cancel() {
		t.Fatal("expected second Cancel to report nothing pending")
	}

	clk.Advance(time.Second)
	if fired {
		t.Fatal("cancelled call fired")
	}
}

func TestRealClock(t *testing.T) {
	d := debounce.New(nil, 10*time.Millisecond)

	var n atomic.Int32
	for i := 0; i < 5; i++ {
		d.Trigger(func() { n.Add(1) })
	}

	time.Sleep(100 * time.Millisecond)
	if n.Load() != 1 {
		t.Fatalf("expected exactly one call, got %d", n.Load())
	}
}
