package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configSavePath string

func init() {
	configCmd.Flags().StringVar(&configSavePath, "save", "", "Also write the effective configuration to this file")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Show the effective configuration: defaults, overridden by cordex.yml
(or --config), then CORDEX_* environment variables (including .env),
then flags.

Examples:
  cordex config
  cordex config --human
  cordex config --save cordex.yml`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()

	if configSavePath != "" {
		if err := cfg.Save(configSavePath); err != nil {
			exitWithError(ExitConfigError, "%v", err)
		}
	}

	if !humanOutput {
		return outputJSON(cfg)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		exitWithError(ExitError, "encoding config: %v", err)
	}
	fmt.Print(string(data))
	return nil
}
