package main

import (
	"errors"
	"fmt"
	"playtrack/internal/di"
	"playtrack/internal/models"

	"github.com/spf13/cobra"
)

var summaryDate string

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Generate the daily summary for today or for --date",
	RunE: func(cmd *cobra.Command, args []string) error {
		tools, cleanup, err := di.InitTools(flags)
		if err != nil {
			return err
		}
		defer cleanup()

		var (
			summary *models.DailySummary
			created bool
		)
		if summaryDate == "" {
			summary, created, err = tools.Summaries.GenerateToday(cmd.Context())
		} else {
			date, perr := models.ParseDate(summaryDate)
			if perr != nil {
				return fmt.Errorf("--date: %w", perr)
			}
			summary, created, err = tools.Summaries.Generate(cmd.Context(), date)
		}
		if errors.Is(err, models.ErrNotFound) {
			fmt.Fprintf(cmd.OutOrStdout(), "no summary: %s\n", err)
			return nil
		}
		if err != nil {
			return err
		}

		state := "exists"
		if created {
			state = "created"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d minutes over %d items\n",
			models.FormatDate(summary.Date), state, summary.TotalPlaytimeMinutes, summary.ActiveItems)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVar(&summaryDate, "date", "", "UTC day to summarize (YYYY-MM-DD)")
}
