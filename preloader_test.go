package navcache_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/types"
)

//
// ================= DEBOUNCE =================
//

func TestHoverFiresAfterDelay(t *testing.T) {
	h := started(t)

	h.preloader.PointerEnter("brands")
	h.clock.Advance(navcache.HoverDelay - time.Millisecond)
	if n := h.loader.callsFor("brands"); n != 0 {
		t.Fatalf("preload fired early (%d calls)", n)
	}

	h.clock.Advance(time.Millisecond)
	if n := h.loader.callsFor("brands"); n != 1 {
		t.Fatalf("expected 1 preload, got %d", n)
	}
	if !h.ctrl.Cache().Fresh("brands") {
		t.Fatal("expected brands in cache")
	}
}

func TestRapidHoversLastWins(t *testing.T) {
	h := started(t)

	h.preloader.PointerEnter("brands")
	h.clock.Advance(300 * time.Millisecond)
	h.preloader.PointerEnter("settings")
	h.clock.Advance(navcache.HoverDelay)

	if n := h.loader.callsFor("brands"); n != 0 {
		t.Fatalf("superseded hover must not preload, got %d calls", n)
	}
	if n := h.loader.callsFor("settings"); n != 1 {
		t.Fatalf("expected settings preload, got %d calls", n)
	}
}

func TestPointerLeaveCancels(t *testing.T) {
	h := started(t)

	h.preloader.PointerEnter("brands")
	h.preloader.PointerLeave()
	h.clock.Advance(time.Second)

	if n := h.loader.callsFor("brands"); n != 0 {
		t.Fatalf("cancelled hover preloaded (%d calls)", n)
	}
}

//
// ================= GUARDS =================
//

func TestHoverIntentGuards(t *testing.T) {
	h := started(t)
	ctx := context.Background()

	if got := h.preloader.OnHoverIntent(ctx, "dashboard"); got != navcache.PreloadSkippedCurrent {
		t.Fatalf("expected skipped-current, got %s", got)
	}
	if got := h.preloader.OnHoverIntent(ctx, "nowhere"); got != navcache.PreloadSkippedUnknown {
		t.Fatalf("expected skipped-unknown, got %s", got)
	}
	if got := h.preloader.OnHoverIntent(ctx, "brands"); got != navcache.PreloadFetched {
		t.Fatalf("expected fetched, got %s", got)
	}
	if got := h.preloader.OnHoverIntent(ctx, "brands"); got != navcache.PreloadSkippedCached {
		t.Fatalf("expected skipped-cached, got %s", got)
	}
	if n := h.loader.callsFor("brands"); n != 1 {
		t.Fatalf("expected 1 brands fetch, got %d", n)
	}
}

func TestPreloadedPageServedFromCache(t *testing.T) {
	h := started(t)
	ctx := context.Background()

	h.preloader.OnHoverIntent(ctx, "settings")

	if got := h.ctrl.Navigate(ctx, "settings"); got != navcache.OutcomeCached {
		t.Fatalf("expected cached navigation after preload, got %s", got)
	}
	if n := h.loader.callsFor("settings"); n != 1 {
		t.Fatalf("expected 1 settings fetch, got %d", n)
	}
}

func TestPreloadFailureIsSwallowed(t *testing.T) {
	h := started(t)
	h.loader.fail("logs", errors.New("connection reset"))

	if got := h.preloader.OnHoverIntent(context.Background(), "logs"); got != navcache.PreloadFailed {
		t.Fatalf("expected failed, got %s", got)
	}

	st := h.ctrl.State()
	if st.Status != navcache.StatusIdle || st.Message != "" {
		t.Fatalf("preload failure leaked into state: %+v", st)
	}
	if _, ok := h.renderer.lastFailure(); ok {
		t.Fatal("preload failure must not reach the error panel")
	}
}

//
// ================= NON-INTERFERENCE =================
//

func TestHoverDuringNavigationIsSkipped(t *testing.T) {
	h := started(t)
	ctx := context.Background()
	release := h.loader.gate("brands")

	done := make(chan navcache.Outcome, 1)
	go func() { done <- h.ctrl.Navigate(ctx, "brands") }()
	h.loader.waitStarted(t, "brands")

	if got := h.preloader.OnHoverIntent(ctx, "settings"); got != navcache.PreloadSkippedLoading {
		t.Fatalf("expected skipped-loading, got %s", got)
	}

	st := h.ctrl.State()
	if st.TargetRoute != "brands" || st.CurrentRoute != "dashboard" {
		t.Fatalf("hover altered navigation state: %+v", st)
	}

	release()
	<-done
	if h.history.Len() != 2 {
		t.Fatalf("expected only the navigation's push, got depth %d", h.history.Len())
	}
}

func TestPreloadResolvingAfterNavigation(t *testing.T) {
	h := started(t)
	ctx := context.Background()
	release := h.loader.gate("logs")

	preloaded := make(chan navcache.PreloadResult, 1)
	go func() { preloaded <- h.preloader.OnHoverIntent(ctx, "logs") }()
	h.loader.waitStarted(t, "logs")

	if got := h.ctrl.Navigate(ctx, "brands"); got != navcache.OutcomeRendered {
		t.Fatalf("expected brands to render, got %s", got)
	}
	release()
	if got := <-preloaded; got != navcache.PreloadFetched {
		t.Fatalf("expected late preload to still fill the cache, got %s", got)
	}

	st := h.ctrl.State()
	if st.CurrentRoute != "brands" || st.IsLoading {
		t.Fatalf("late preload altered state: %+v", st)
	}
	if h.history.Len() != 2 {
		t.Fatalf("late preload pushed history, depth %d", h.history.Len())
	}
	if !h.ctrl.Cache().Fresh("logs") {
		t.Fatal("expected logs to be cached")
	}
}

func TestNavigationJoinsInFlightPreload(t *testing.T) {
	h := started(t)
	ctx := context.Background()
	release := h.loader.gate("settings")

	preloaded := make(chan navcache.PreloadResult, 1)
	go func() { preloaded <- h.preloader.OnHoverIntent(ctx, "settings") }()
	h.loader.waitStarted(t, "settings")

	navigated := make(chan navcache.Outcome, 1)
	go func() { navigated <- h.ctrl.Navigate(ctx, "settings") }()

	// wait until the navigation is parked on the shared request
	deadline := time.Now().Add(2 * time.Second)
	for !h.ctrl.State().IsLoading {
		if time.Now().After(deadline) {
			t.Fatal("navigation never started loading")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	release()
	if got := <-navigated; got != navcache.OutcomeRendered {
		t.Fatalf("expected navigation to render, got %s", got)
	}
	<-preloaded

	if n := h.loader.callsFor("settings"); n != 1 {
		t.Fatalf("expected one shared request, got %d", n)
	}
}

func TestCancelledPreloadDoesNotFailJoinedNavigation(t *testing.T) {
	h := started(t)
	release := h.loader.gate("settings")

	pctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	preloaded := make(chan navcache.PreloadResult, 1)
	go func() { preloaded <- h.preloader.OnHoverIntent(pctx, "settings") }()
	h.loader.waitStarted(t, "settings")

	navigated := make(chan navcache.Outcome, 1)
	go func() { navigated <- h.ctrl.Navigate(context.Background(), "settings") }()

	deadline := time.Now().Add(2 * time.Second)
	for !h.ctrl.State().IsLoading {
		if time.Now().After(deadline) {
			t.Fatal("navigation never started loading")
		}
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)

	cancel()
	if got := <-preloaded; got != navcache.PreloadFailed {
		t.Fatalf("expected the abandoned preload to report failed, got %s", got)
	}

	release()
	if got := <-navigated; got != navcache.OutcomeRendered {
		t.Fatalf("expected navigation to render, got %s (state %+v)", got, h.ctrl.State())
	}
	if st := h.ctrl.State(); st.Status != navcache.StatusIdle || st.CurrentRoute != "settings" {
		t.Fatalf("unexpected state %+v", st)
	}
	if _, ok := h.renderer.lastFailure(); ok {
		t.Fatal("preload cancellation reached the error panel")
	}
	if n := h.loader.callsFor("settings"); n != 1 {
		t.Fatalf("expected one shared request, got %d", n)
	}
}

//
// ================= WARM =================
//

func TestWarmSkipsUnknownRoutes(t *testing.T) {
	h := started(t)
	before := h.metrics.Snapshot().Fetches

	results, err := h.preloader.Warm(context.Background(), []types.Route{"wp-config", "brands"}, 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !results[0].Unknown || results[0].Fetched || results[0].Err != nil {
		t.Fatalf("expected wp-config reported unknown, got %+v", results[0])
	}
	if !results[1].Fetched {
		t.Fatalf("expected brands fetched, got %+v", results[1])
	}
	if n := h.loader.callsFor("wp-config"); n != 0 {
		t.Fatalf("unknown route was fetched %d times", n)
	}
	if got := h.metrics.Snapshot().Fetches - before; got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestWarmIsBestEffort(t *testing.T) {
	h := started(t)
	h.loader.fail("logs", errors.New("timeout"))

	var mu sync.Mutex
	seen := 0
	results, err := h.preloader.Warm(context.Background(), []types.Route{"dashboard", "brands", "settings", "logs"}, 2, func(navcache.WarmResult) {
		mu.Lock()
		seen++
		mu.Unlock()
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != 4 {
		t.Fatalf("expected 4 callbacks, got %d", seen)
	}

	byRoute := make(map[types.Route]navcache.WarmResult)
	for _, r := range results {
		byRoute[r.Route] = r
	}
	if byRoute["dashboard"].Fetched || byRoute["dashboard"].Err != nil {
		t.Fatalf("fresh dashboard should be skipped, got %+v", byRoute["dashboard"])
	}
	if !byRoute["brands"].Fetched || !byRoute["settings"].Fetched {
		t.Fatalf("expected brands and settings fetched, got %+v", results)
	}
	if byRoute["logs"].Err == nil {
		t.Fatal("expected logs failure to be reported")
	}
	if h.ctrl.State().CurrentRoute != "dashboard" || h.history.Len() != 1 {
		t.Fatal("warm-up must not navigate")
	}
}

func TestWarmStopsOnCancelledContext(t *testing.T) {
	h := started(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := h.preloader.Warm(ctx, []types.Route{"brands", "settings"}, 1, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
