// Package config handles cordex configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/caarlos0/env/v11"
	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds every setting of a cordex run.
type Config struct {
	DataDir        string    `yaml:"data_dir" json:"data_dir" env:"CORDEX_DATA_DIR"`
	FullFile       string    `yaml:"full_file" json:"full_file" env:"CORDEX_FULL_FILE"`
	SampleFile     string    `yaml:"sample_file" json:"sample_file" env:"CORDEX_SAMPLE_FILE"`
	PlotDir        string    `yaml:"plot_dir" json:"plot_dir" env:"CORDEX_PLOT_DIR"`
	Delimiter      string    `yaml:"delimiter" json:"delimiter" env:"CORDEX_DELIMITER"` // Single character or "tab"; "" picks by extension
	TopJournals    int       `yaml:"top_journals" json:"top_journals" env:"CORDEX_TOP_JOURNALS"`
	TopWords       int       `yaml:"top_words" json:"top_words" env:"CORDEX_TOP_WORDS"`
	Stopwords      []string  `yaml:"stopwords,omitempty" json:"stopwords,omitempty" env:"CORDEX_STOPWORDS" envSeparator:","` // nil = built-in list
	ExtraStopwords []string  `yaml:"extra_stopwords,omitempty" json:"extra_stopwords,omitempty" env:"CORDEX_EXTRA_STOPWORDS" envSeparator:","`
	MaxShortLen    int       `yaml:"max_short_len" json:"max_short_len" env:"CORDEX_MAX_SHORT_LEN"`
	SampleRows     int       `yaml:"sample_rows" json:"sample_rows" env:"CORDEX_SAMPLE_ROWS"`
	HeadRows       int       `yaml:"head_rows" json:"head_rows" env:"CORDEX_HEAD_ROWS"`
	LogLevel       string    `yaml:"log_level" json:"log_level" env:"CORDEX_LOG_LEVEL"`
	Dashboard      Dashboard `yaml:"dashboard" json:"dashboard"`
}

// Dashboard configures the interactive server.
type Dashboard struct {
	Addr           string   `yaml:"addr" json:"addr" env:"CORDEX_ADDR"`
	RateLimit      float64  `yaml:"rate_limit" json:"rate_limit" env:"CORDEX_RATE_LIMIT"` // Requests per second
	Burst          int      `yaml:"burst" json:"burst" env:"CORDEX_BURST"`
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" env:"CORDEX_ALLOWED_ORIGINS" envSeparator:","`
}

const (
	// DefaultConfigFile is looked up in the working directory.
	DefaultConfigFile = "cordex.yml"

	FullFile   = "metadata.csv"
	SampleFile = "sample_metadata.csv"
	DataDir    = "data"
	PlotDir    = "analysis/plots"
)

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:     DataDir,
		FullFile:    FullFile,
		SampleFile:  SampleFile,
		PlotDir:     PlotDir,
		Delimiter:   "",
		TopJournals: aggregate.DefaultTopJournals,
		TopWords:    aggregate.DefaultTopWords,
		MaxShortLen: aggregate.DefaultMaxShortLen,
		SampleRows:  50,
		HeadRows:    5,
		LogLevel:    "info",
		Dashboard: Dashboard{
			Addr:           ":8501",
			RateLimit:      20,
			Burst:          40,
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults, then
// applies environment overrides. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config: %w", err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}

	cfg.DataDir = ExpandPath(cfg.DataDir)
	cfg.PlotDir = ExpandPath(cfg.PlotDir)

	return cfg, nil
}

// ApplyEnv overrides fields from CORDEX_* environment variables.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// Validate checks the configuration for values no command can work with.
func (c *Config) Validate() error {
	if c.FullFile == "" || c.SampleFile == "" {
		return fmt.Errorf("full_file and sample_file must be set")
	}
	if _, err := ParseDelimiter(c.Delimiter); err != nil {
		return err
	}
	if c.TopJournals < 0 {
		return fmt.Errorf("top_journals must not be negative: %d", c.TopJournals)
	}
	if c.TopWords < 0 {
		return fmt.Errorf("top_words must not be negative: %d", c.TopWords)
	}
	if c.MaxShortLen < 0 {
		return fmt.Errorf("max_short_len must not be negative: %d", c.MaxShortLen)
	}
	if c.SampleRows < 0 || c.HeadRows < 0 {
		return fmt.Errorf("sample_rows and head_rows must not be negative")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	if c.Dashboard.RateLimit <= 0 {
		return fmt.Errorf("dashboard.rate_limit must be positive: %v", c.Dashboard.RateLimit)
	}
	if c.Dashboard.Burst < 1 {
		return fmt.Errorf("dashboard.burst must be at least 1: %d", c.Dashboard.Burst)
	}
	return nil
}

// FullPath returns the path of the full metadata file.
func (c *Config) FullPath() string {
	return filepath.Join(c.DataDir, c.FullFile)
}

// SamplePath returns the path of the bundled sample file.
func (c *Config) SamplePath() string {
	return filepath.Join(c.DataDir, c.SampleFile)
}

// PlotPath returns the path of a file in the plot directory.
func (c *Config) PlotPath(name string) string {
	return filepath.Join(c.PlotDir, name)
}

// ReadOptions returns the loader options.
func (c *Config) ReadOptions() dataset.ReadOptions {
	if c.Delimiter == "" {
		return dataset.ReadOptions{}
	}
	d, _ := ParseDelimiter(c.Delimiter)
	return dataset.ReadOptions{Delimiter: d}
}

// AggregateOptions returns the aggregation settings.
func (c *Config) AggregateOptions() aggregate.Options {
	return aggregate.Options{
		TopJournals: c.TopJournals,
		Words: aggregate.WordOptions{
			TopK:           c.TopWords,
			MaxShortLen:    c.MaxShortLen,
			Stopwords:      c.Stopwords,
			ExtraStopwords: c.ExtraStopwords,
		},
	}
}

// ParseDelimiter converts a delimiter setting to a rune. "" means ','.
func ParseDelimiter(s string) (rune, error) {
	switch strings.ToLower(s) {
	case "":
		return ',', nil
	case "tab", `\t`:
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("invalid delimiter %q: must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid delimiter %q", s)
	}
	return r, nil
}

// ExpandPath expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandPath(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
