package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/config"
	"github.com/krisalay/navcache/render"
	"github.com/krisalay/navcache/types"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Walk through cache, preload, single-flight and failure behavior",
	Long: `Runs a scripted session against an embedded endpoint and prints what
happens at each step. It ignores the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo(cmd.Context(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// demoRenderer prints every handoff and keeps the content area in a buffer.
type demoRenderer struct {
	out io.Writer
	buf render.Buffer
}

func (r *demoRenderer) Render(route types.Route, p types.Payload) {
	r.buf.Render(route, p)
	fmt.Fprintf(r.out, "RENDER → %s (%q, %d bytes)\n", route, p.Title, len(p.Content))
}

func (r *demoRenderer) ShowError(route types.Route, message string) {
	r.buf.ShowError(route, message)
	fmt.Fprintf(r.out, "ERROR  → %s: %s (retry available)\n", route, message)
}

func runDemo(ctx context.Context, out io.Writer) error {
	fmt.Fprintln(out, "\n==================== SYSTEM BOOT ====================")

	// ---------------- System Config ----------------
	cfg := config.DefaultConfig()
	cfg.Journal.Path = memoryJournal
	cfg.Journal.WriteBack = false
	cfg.Server.DelayMS = 150

	fmt.Fprintln(out, "ENDPOINT       : embedded")
	fmt.Fprintln(out, "TTL            : 5m (expire after write)")
	fmt.Fprintln(out, "HOVER DELAY    :", navcache.HoverDelay)
	fmt.Fprintln(out, "SERVER DELAY   :", cfg.Server.Delay())
	fmt.Fprintln(out, "JOURNAL        : in-memory, write-through")

	renderer := &demoRenderer{out: out}
	a, err := newApp(cfg, newLogger(), renderer)
	if err != nil {
		return err
	}
	defer a.close()

	step := func(title string) {
		fmt.Fprintf(out, "\n==================== %s ====================\n", title)
	}
	outcome := func(label string, o navcache.Outcome) {
		fmt.Fprintf(out, "NAV    → %-18s %s\n", label, o)
	}
	hits := func(route types.Route) {
		fmt.Fprintf(out, "SERVER → %s requested %d time(s)\n", route, a.dev.Hits(route))
	}

	// ====================================================
	step("1) LANDING PAGE")
	outcome("start dashboard", a.ctrl.Start(ctx, "dashboard"))
	hits("dashboard")

	// ====================================================
	step("2) NAVIGATE (CACHE MISS)")
	outcome("go brands", a.ctrl.Navigate(ctx, "brands"))
	hits("brands")

	// ====================================================
	step("3) BACK (CACHE HIT)")
	a.history.Back(ctx)
	fmt.Fprintln(out, "NAV    → back               now on", a.ctrl.State().CurrentRoute)
	hits("dashboard")

	// ====================================================
	step("4) SAME ROUTE")
	outcome("go dashboard", a.ctrl.Navigate(ctx, "dashboard"))

	// ====================================================
	step("5) HOVER PRELOAD")
	a.preloader.PointerEnter("logs")
	a.preloader.PointerLeave()
	fmt.Fprintln(out, "HOVER  → logs, then leave   (cancelled)")
	a.preloader.PointerEnter("settings")
	fmt.Fprintln(out, "HOVER  → settings")
	time.Sleep(navcache.HoverDelay + cfg.Server.Delay() + 200*time.Millisecond)
	hits("settings")
	outcome("go settings", a.ctrl.Navigate(ctx, "settings"))
	hits("settings")
	hits("logs")

	// ====================================================
	step("6) SINGLE-FLIGHT")
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = map[navcache.Outcome]int{}
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o := a.ctrl.Navigate(ctx, "logs")
			mu.Lock()
			outcomes[o]++
			mu.Unlock()
		}()
	}
	wg.Wait()
	fmt.Fprintf(out, "NAV    → 5 concurrent clicks: %d rendered, %d dropped\n",
		outcomes[navcache.OutcomeRendered], outcomes[navcache.OutcomeDropped])
	hits("logs")

	// ====================================================
	step("7) FAILURE AND RETRY")
	a.dev.SetFailing("brands", "database is down")
	a.ctrl.Invalidate()
	outcome("go brands", a.ctrl.Navigate(ctx, "brands"))
	st := a.ctrl.State()
	fmt.Fprintf(out, "STATE  → %s, still showing %s\n", st.Status, st.CurrentRoute)
	a.dev.SetFailing("brands", "")
	outcome("retry", a.ctrl.Retry(ctx))

	// ====================================================
	step("METRICS")
	m := a.metrics.Snapshot()
	fmt.Fprintf(out, "HITS         : %d\n", m.Hits)
	fmt.Fprintf(out, "MISSES       : %d\n", m.Misses)
	fmt.Fprintf(out, "FETCHES      : %d\n", m.Fetches)
	fmt.Fprintf(out, "FETCH ERRORS : %d\n", m.FetchErrors)
	fmt.Fprintf(out, "DROPS        : %d\n", m.Drops)
	fmt.Fprintf(out, "PRELOADS     : %d\n", m.Preloads)

	// ====================================================
	step("HISTORY AND JOURNAL")
	for i, e := range a.history.Entries() {
		fmt.Fprintf(out, "HISTORY %d → %s\n", i, e.URL)
	}
	visits, err := a.journal.Recent(ctx, 10)
	if err != nil {
		return err
	}
	for i := len(visits) - 1; i >= 0; i-- {
		fmt.Fprintf(out, "JOURNAL  → %s (%s)\n", visits[i].Route, visits[i].Title)
	}

	// ====================================================
	step("SHUTDOWN")
	fmt.Fprintln(out, "SYSTEM → closed cleanly")
	return nil
}
