package main

import (
	"fmt"
	"os"
	"playtrack/internal/structures"

	"github.com/spf13/cobra"
)

var flags = &structures.CliFlags{}

var rootCmd = &cobra.Command{
	Use:   "playtrack",
	Short: "Playtime history tracker",
	Long: `playtrack snapshots a Steam library's cumulative playtime, derives daily
summaries from the snapshots and serves analytics over HTTP.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yml", "path to the YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console as well")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(simulateCmd)
}
