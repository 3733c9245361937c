// Package cmd implements the CLI commands for resale-router.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "resale-router",
	Short: "Value second-hand items and route them to the best disposition",
	Long: "An API-first service that prices items from comparable marketplace listings, " +
		"falls back to manual heuristics when the market is silent, and recommends resale, " +
		"an instant offer, local pickup, or donation.",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root command for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
