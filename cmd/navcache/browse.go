package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/krisalay/navcache"
	"github.com/krisalay/navcache/render"
	"github.com/krisalay/navcache/types"
)

var browseLink string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the admin interactively",
	Long: `Starts an interactive session on the landing page (or the page named by
--url) and reads commands:

  go <route>       navigate
  hover <route>    point at a link; preloads after the hover delay
  leave            move the pointer away
  back, forward    traverse history
  retry            retry the failed page
  status           show state, metrics and history
  routes           list routes
  clear            drop every cached page
  quit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		a, err := newApp(cfg, newLogger(), render.NewTerminal(out))
		if err != nil {
			return err
		}
		defer a.close()

		ctx := cmd.Context()
		a.ctrl.Start(ctx, a.startRoute(browseLink))

		return a.repl(ctx, out)
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseLink, "url", "", "deep link to start on, e.g. admin.php?page=brands")
	rootCmd.AddCommand(browseCmd)
}

func (a *app) repl(ctx context.Context, out io.Writer) error {
	for {
		prompt := promptui.Prompt{Label: a.promptLabel()}
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading command: %w", err)
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return nil
		}
		a.exec(ctx, out, fields[0], fields[1:])
	}
}

func (a *app) promptLabel() string {
	st := a.ctrl.State()
	if st.Status == navcache.StatusError {
		return fmt.Sprintf("%s (error: %s)", st.CurrentRoute, st.AttemptedRoute)
	}
	return string(st.CurrentRoute)
}

// exec runs one browse command.
func (a *app) exec(ctx context.Context, out io.Writer, name string, args []string) {
	route := types.Route("")
	if len(args) > 0 {
		route = types.Route(args[0])
	}

	switch name {
	case "go":
		if route == "" {
			fmt.Fprintln(out, "usage: go <route>")
			return
		}
		report(out, a.ctrl.Navigate(ctx, route))
	case "hover":
		if route == "" {
			fmt.Fprintln(out, "usage: hover <route>")
			return
		}
		a.preloader.PointerEnter(route)
	case "leave":
		a.preloader.PointerLeave()
	case "back":
		if !a.history.Back(ctx) {
			fmt.Fprintln(out, "already at the oldest page")
		}
	case "forward":
		if !a.history.Forward(ctx) {
			fmt.Fprintln(out, "already at the newest page")
		}
	case "retry":
		report(out, a.ctrl.Retry(ctx))
	case "clear":
		a.ctrl.Invalidate()
		fmt.Fprintln(out, "cache cleared")
	case "routes":
		a.printRoutes(out)
	case "status":
		a.printStatus(out)
	default:
		fmt.Fprintf(out, "unknown command %q\n", name)
	}
}

// report prints outcomes the renderer does not already show.
func report(out io.Writer, o navcache.Outcome) {
	switch o {
	case navcache.OutcomeRendered, navcache.OutcomeCached, navcache.OutcomeFailed:
	default:
		fmt.Fprintln(out, o)
	}
}

func (a *app) printRoutes(out io.Writer) {
	current := a.ctrl.State().CurrentRoute
	cache := a.ctrl.Cache()

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ROUTE\tTITLE\tCACHED")
	for _, r := range a.routes.Routes() {
		marker := " "
		if r == current {
			marker = "*"
		}
		cached := ""
		if cache.Fresh(r) {
			cached = "yes"
		}
		fmt.Fprintf(tw, "%s %s\t%s\t%s\n", marker, r, a.routes.Title(r), cached)
	}
	tw.Flush()
}

func (a *app) printStatus(out io.Writer) {
	st := a.ctrl.State()
	m := a.metrics.Snapshot()

	fmt.Fprintf(out, "state    : %s\n", st.Status)
	fmt.Fprintf(out, "current  : %s\n", st.CurrentRoute)
	if st.Status == navcache.StatusError {
		fmt.Fprintf(out, "failed   : %s (%s)\n", st.AttemptedRoute, st.Message)
	}
	fmt.Fprintf(out, "cached   : %d pages\n", a.ctrl.Cache().Len())
	fmt.Fprintf(out, "metrics  : hits=%d misses=%d expired=%d fetches=%d errors=%d drops=%d preloads=%d\n",
		m.Hits, m.Misses, m.Expired, m.Fetches, m.FetchErrors, m.Drops, m.Preloads)

	idx := a.history.Index()
	for i, e := range a.history.Entries() {
		marker := " "
		if i == idx {
			marker = ">"
		}
		fmt.Fprintf(out, "%s %d %s  %s\n", marker, i, e.Record.Title, e.URL)
	}
}
