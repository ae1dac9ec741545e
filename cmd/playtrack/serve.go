package main

import (
	"playtrack/internal/di"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the ingestion scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, cleanup, err := di.InitApp(flags)
		if err != nil {
			return err
		}
		defer cleanup()

		return app.Run()
	},
}
