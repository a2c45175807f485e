package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/types"
)

var warmConcurrency int

var warmCmd = &cobra.Command{
	Use:   "warm [route...]",
	Short: "Preload pages into the cache and report what happened",
	Long: `Fetches the given routes (all configured routes by default) with bounded
concurrency, the way hover preloads do. Failures are reported, not fatal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if warmConcurrency > 0 {
			cfg.WarmConcurrency = warmConcurrency
		}

		a, err := newApp(cfg, newLogger(), nil)
		if err != nil {
			return err
		}
		defer a.close()

		routes := a.routes.Routes()
		if len(args) > 0 {
			routes = routes[:0]
			for _, r := range args {
				routes = append(routes, types.Route(r))
			}
		}

		bar := progressbar.NewOptions(len(routes),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSetDescription("Warming cache"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
		results, err := a.preloader.Warm(cmd.Context(), routes, cfg.WarmConcurrency, func(navcache.WarmResult) {
			_ = bar.Add(1)
		})
		_ = bar.Finish()
		if err != nil {
			return err
		}

		printWarm(cmd.OutOrStdout(), results)
		return nil
	},
}

func init() {
	warmCmd.Flags().IntVarP(&warmConcurrency, "concurrency", "c", 0, "concurrent fetches (default warm_concurrency)")
	rootCmd.AddCommand(warmCmd)
}

func printWarm(out io.Writer, results []navcache.WarmResult) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tRESULT")
	failed := 0
	for _, r := range results {
		switch {
		case r.Unknown:
			failed++
			fmt.Fprintf(tw, "%s\tunknown route\n", r.Route)
		case r.Err != nil:
			failed++
			fmt.Fprintf(tw, "%s\tfailed: %v\n", r.Route, r.Err)
		case r.Fetched:
			fmt.Fprintf(tw, "%s\tfetched\n", r.Route)
		default:
			fmt.Fprintf(tw, "%s\talready cached\n", r.Route)
		}
	}
	tw.Flush()
	fmt.Fprintf(out, "%d of %d pages cached\n", len(results)-failed, len(results))
}
