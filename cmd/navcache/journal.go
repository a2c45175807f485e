package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/krisalay/navcache/journal"
)

var journalLimit int

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "List recent visits from the visit journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Journal.Path == "" || cfg.Journal.Path == memoryJournal {
			return fmt.Errorf("no persistent journal configured (journal.path)")
		}

		store, err := journal.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer store.Close()

		visits, err := store.Recent(cmd.Context(), journalLimit)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(visits) == 0 {
			fmt.Fprintln(out, "no visits recorded")
			return nil
		}
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "VISITED\tROUTE\tTITLE")
		for _, v := range visits {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", v.VisitedAt.Local().Format(time.DateTime), v.Route, v.Title)
		}
		return tw.Flush()
	},
}

func init() {
	journalCmd.Flags().IntVarP(&journalLimit, "limit", "n", journal.DefaultLimit, "number of visits to show")
	rootCmd.AddCommand(journalCmd)
}
