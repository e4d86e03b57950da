package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"stave/internal/journal"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent scan runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := journal.Open(cfg.JournalPath())
			if err != nil {
				return fmt.Errorf("open scan journal: %w", err)
			}
			defer store.Close()

			runs, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No scans recorded yet.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				rows = append(rows, []string{
					run.StartedAt.Local().Format(time.DateTime),
					run.Outcome,
					formatCount(run.Leaves),
					formatCount(run.Missing),
					formatCount(run.Warnings),
					formatCount(run.RenamesApplied),
					run.Root,
				})
			}
			headers := []string{"Started", "Outcome", "Leaves", "Missing", "Warnings", "Renames", "Root"}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, 2, 3, 4, 5))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")
	return cmd
}
