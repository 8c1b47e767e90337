package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var verbose bool

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "sheetfolio",
	Short: "Serve a portfolio whose content lives in a spreadsheet",
	Long: `sheetfolio renders a portfolio page whose certificates, projects and skills
come from a published spreadsheet (or a SQLite snapshot of one).

Settings are read from the config file, then SHEETFOLIO_* environment
variables, with "__" separating levels (SHEETFOLIO_SOURCE__CACHE_TTL=30s).
A .env file in the working directory is loaded first.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "sheetfolio.yaml", "config file, skipped when absent")
}
