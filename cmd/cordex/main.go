// Package main provides the cordex CLI entry point.
package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// Persistent flags
var (
	humanOutput bool
	configPath  string
	dataDirFlag string
)

func main() {
	// .env is optional
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		exitWithError(ExitError, "%v", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cordex",
	Short: "Explore CORD-19 publication metadata",
	Long: `cordex loads the CORD-19 metadata file, cleans it, and summarizes
publications by year, journal and title words.

It reads data/metadata.csv, falling back to data/sample_metadata.csv.
All commands output JSON by default; use --human for tables.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default ./cordex.yml if present)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Directory holding the metadata files")
	rootCmd.Version = Version
}
