package main

import (
	"fmt"
	"playtrack/internal/di"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Fetch current playtime from Steam and store today's snapshots",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, cleanup, err := di.InitTools(flags)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := tools.Ingestion.Sync(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d items (%d new), snapshots %d created, %d updated, %d unchanged\n",
			report.RunID, report.Items, report.ItemsCreated, report.SnapshotsCreated, report.SnapshotsUpdated, report.SnapshotsUnchanged)
		return nil
	},
}
