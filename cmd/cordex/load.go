package main

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/clean"
	"github.com/matsen/cordex/internal/config"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/matsen/cordex/internal/record"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// mustLoadConfig loads the config file, environment and flags, or exits.
func mustLoadConfig() *config.Config {
	path := configPath
	if path == "" {
		path = config.DefaultConfigFile
	} else if _, err := os.Stat(path); err != nil {
		exitWithError(ExitConfigError, "config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}
	if dataDirFlag != "" {
		cfg.DataDir = config.ExpandPath(dataDirFlag)
	}
	if err := cfg.Validate(); err != nil {
		exitWithError(ExitConfigError, "invalid config: %v", err)
	}
	return cfg
}

// newLogger builds the stderr logger: console format with --human, JSON otherwise.
func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if cfg.LogLevel != "" {
		if l, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
			level = l
		}
	}

	var w io.Writer = os.Stderr
	if humanOutput {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// mustLoadRecords loads and cleans the dataset, or exits.
func mustLoadRecords(cfg *config.Config, logger zerolog.Logger) (*dataset.Dataset, []record.CleanedRecord) {
	ds, err := dataset.Load(cfg.FullPath(), cfg.SamplePath(), cfg.ReadOptions())
	if err != nil {
		exitWithError(exitCodeFor(err), "%v", err)
	}
	logger.Info().
		Str("source", ds.Kind.String()).
		Str("path", ds.Path).
		Int("rows", ds.Len()).
		Msg(ds.Notice())

	return ds, clean.Clean(ds.Records)
}

// exitCodeFor maps a load error to an exit code.
func exitCodeFor(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, dataset.ErrDatasetNotFound):
		return ExitDataNotFound
	default:
		return ExitDataError
	}
}

// filterFlags holds the record filter shared by the table commands.
type filterFlags struct {
	yearMin int
	yearMax int
	journal string
}

func addFilterFlags(cmd *cobra.Command, f *filterFlags) {
	cmd.Flags().IntVar(&f.yearMin, "year-min", 0, "First publication year (0 = no minimum)")
	cmd.Flags().IntVar(&f.yearMax, "year-max", 0, "Last publication year (0 = no maximum)")
	cmd.Flags().StringVar(&f.journal, "journal", "", `Journal name; "Unknown" selects records without one`)
}

// filter returns the aggregate filter. A reversed range is swapped.
func (f filterFlags) filter() aggregate.Filter {
	out := aggregate.Filter{YearMin: f.yearMin, YearMax: f.yearMax, Journal: f.journal}
	if out.YearMin != 0 && out.YearMax != 0 && out.YearMin > out.YearMax {
		out.YearMin, out.YearMax = out.YearMax, out.YearMin
	}
	return out
}
