package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matsen/cordex/internal/dashboard"
	"github.com/matsen/cordex/internal/index"
	"github.com/spf13/cobra"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8501)")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive dashboard",
	Long: `Run the interactive dashboard.

The dataset is loaded once at start-up. Every request filters the records
by year range, journal and search text and recomputes the charts.

Routes:
  /                       Dashboard page
  /charts/{name}.png      years, journals or wordcloud chart
  /api/v1/view            Tables for a filter selection (JSON)
  /api/v1/options         Year bounds and journal options (JSON)
  /api/v1/records         Data sample (JSON)
  /docs                   API documentation
  /metrics                Prometheus metrics

Examples:
  cordex serve
  cordex serve --addr 127.0.0.1:9000`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	if serveAddr != "" {
		cfg.Dashboard.Addr = serveAddr
	}
	logger := newLogger(cfg)
	ds, cleaned := mustLoadRecords(cfg, logger)

	db, err := index.Open()
	if err != nil {
		exitWithError(ExitError, "opening index: %v", err)
	}
	defer db.Close()
	n, err := db.Build(cleaned)
	if err != nil {
		exitWithError(ExitError, "building index: %v", err)
	}
	logger.Debug().Int("records", n).Msg("Search index built")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := dashboard.New(ds, cleaned, db, cfg, logger).Run(ctx); err != nil {
		exitWithError(ExitError, "%v", err)
	}
	return nil
}
