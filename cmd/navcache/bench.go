package main

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/engine"
	"github.com/krisalay/navcache/expiration"
	"github.com/krisalay/navcache/types"
)

var (
	benchRoutes     int
	benchGoroutines int
	benchOps        int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure cache lookup throughput and navigation drop behavior under load",
	RunE: func(cmd *cobra.Command, args []string) error {
		runBench(cmd.Context(), cmd.OutOrStdout())
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchRoutes, "routes", 1000, "cached routes")
	benchCmd.Flags().IntVar(&benchGoroutines, "goroutines", 200, "concurrent readers")
	benchCmd.Flags().IntVar(&benchOps, "ops", 5000, "lookups per goroutine")
	rootCmd.AddCommand(benchCmd)
}

// instantLoader answers every route immediately.
type instantLoader struct{}

func (instantLoader) Load(_ context.Context, route types.Route) (types.Payload, error) {
	return types.Payload{Content: "<p>" + string(route) + "</p>", Title: string(route)}, nil
}

func runBench(ctx context.Context, out io.Writer) {
	benchRoutes = max(benchRoutes, 1)

	fmt.Fprintln(out, "\n================ CACHE LOAD BENCHMARK =================")

	fmt.Fprintln(out, "CONFIG")
	fmt.Fprintln(out, "---------------------------------")
	fmt.Fprintln(out, "Routes       :", benchRoutes)
	fmt.Fprintln(out, "Goroutines   :", benchGoroutines)
	fmt.Fprintln(out, "Ops/Goroutine:", benchOps)
	fmt.Fprintln(out, "---------------------------------")

	metrics := &types.Counters{}
	e := engine.NewEngine(expiration.NewExpireAfterWrite(), instantLoader{}, nil, metrics, nil)
	c := navcache.NewCache(e)

	routes := make([]types.Route, benchRoutes)
	now := e.Clock.Now()
	for i := range routes {
		routes[i] = types.Route(fmt.Sprintf("route-%d", i))
		c.Put(routes[i], types.Payload{Content: "<p>page</p>"}, now)
	}

	// ---------------- Lookups ----------------
	fmt.Fprintln(out, "Running lookup benchmark...")
	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(benchGoroutines)
	for i := 0; i < benchGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < benchOps; j++ {
				c.Get(routes[j%len(routes)])
			}
		}()
	}
	wg.Wait()

	duration := time.Since(start)
	totalOps := benchGoroutines * benchOps

	// ---------------- Navigation storm ----------------
	fmt.Fprintln(out, "Running navigation storm...")
	ctrl := navcache.NewController(navcache.Config{Engine: e, Cache: c})

	var (
		mu       sync.Mutex
		outcomes = map[navcache.Outcome]int{}
	)
	wg.Add(benchGoroutines)
	for i := 0; i < benchGoroutines; i++ {
		go func(i int) {
			defer wg.Done()
			o := ctrl.Navigate(ctx, routes[i%len(routes)])
			mu.Lock()
			outcomes[o]++
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	fmt.Fprintln(out, "\n================ RESULTS =================")
	fmt.Fprintf(out, "Total Lookups    : %d\n", totalOps)
	fmt.Fprintf(out, "Total Time       : %v\n", duration)
	fmt.Fprintf(out, "Throughput       : %.2f ops/sec\n", float64(totalOps)/duration.Seconds())
	fmt.Fprintf(out, "Navigations      : %d cached, %d dropped, %d same-route\n",
		outcomes[navcache.OutcomeCached], outcomes[navcache.OutcomeDropped], outcomes[navcache.OutcomeSameRoute])
	fmt.Fprintln(out, "=========================================")
}
