package main

import (
	"fmt"
	"playtrack/internal/di"

	"github.com/spf13/cobra"
)

var simulateDays int

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Backfill plausible history for items seen today",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, cleanup, err := di.InitTools(flags)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := tools.Simulator.Simulate(cmd.Context(), simulateDays)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s..%s: %d items, %d snapshots, %d summaries\n",
			report.Start, report.End,
			report.Items, report.SnapshotsCreated, report.SummariesCreated)
		return nil
	},
}

func init() {
	simulateCmd.Flags().IntVar(&simulateDays, "days", 30, "number of days to simulate")
}
