// Package report runs the batch analysis and writes charts and summaries to
// the plot directory.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/clean"
	"github.com/matsen/cordex/internal/config"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/matsen/cordex/internal/describe"
	"github.com/matsen/cordex/internal/viz"
	"github.com/rs/zerolog"
)

// Title is the heading of the generated report page.
const Title = "CORD-19 Metadata Report"

// Result describes one batch run.
type Result struct {
	RunID       string                   `json:"run_id"`
	Generated   time.Time                `json:"generated"`
	Source      string                   `json:"source"`
	Path        string                   `json:"path"`
	Fingerprint string                   `json:"fingerprint"`
	Rows        int                      `json:"rows"`
	Describe    describe.Summary         `json:"describe"`
	Years       []aggregate.YearCount    `json:"years"`
	Journals    aggregate.Histogram      `json:"journals"`
	Words       aggregate.Histogram      `json:"words"`
	Abstracts   aggregate.WordCountStats `json:"abstracts"`
	Files       []string                 `json:"files"`
}

// Run loads the dataset, cleans it, computes the aggregates and writes the
// year chart, journal chart, title word cloud, report.html and summary.json.
// The word cloud is skipped when no title has any counted word.
func Run(cfg *config.Config, logger zerolog.Logger) (*Result, error) {
	ds, err := dataset.Load(cfg.FullPath(), cfg.SamplePath(), cfg.ReadOptions())
	if err != nil {
		return nil, err
	}
	logger.Info().
		Str("source", ds.Kind.String()).
		Str("path", ds.Path).
		Int("rows", ds.Len()).
		Msg(ds.Notice())

	cleaned := clean.Clean(ds.Records)
	view := aggregate.Summarize(cleaned, cfg.AggregateOptions())

	res := &Result{
		RunID:       uuid.NewString(),
		Generated:   time.Now().UTC(),
		Source:      ds.Kind.String(),
		Path:        ds.Path,
		Fingerprint: ds.Fingerprint,
		Rows:        ds.Len(),
		Describe:    describe.Describe(ds, cleaned, cfg.HeadRows),
		Years:       view.Years,
		Journals:    view.Journals,
		Words:       view.Words,
		Abstracts:   view.Abstracts,
		Files:       []string{},
	}

	if err := os.MkdirAll(cfg.PlotDir, 0755); err != nil {
		return nil, fmt.Errorf("creating plot directory: %w", err)
	}

	w := &writer{cfg: cfg, logger: logger, res: res}
	yearTable := aggregate.YearTable(cleaned)
	var images []viz.Image

	yearTitle := "Number of Publications by Year"
	w.write(viz.YearChartFile, func(out io.Writer) error {
		return viz.BarChartPNG(out, yearTitle, "Number of Publications", yearTable, viz.DefaultChartOptions())
	})
	images = append(images, viz.Image{Title: yearTitle, File: viz.YearChartFile})

	journalTitle := fmt.Sprintf("Top %d Journals by Number of Publications", len(view.Journals))
	w.write(viz.JournalChartFile, func(out io.Writer) error {
		return viz.BarChartPNG(out, journalTitle, "Number of Publications", view.Journals, viz.DefaultChartOptions())
	})
	images = append(images, viz.Image{Title: journalTitle, File: viz.JournalChartFile})

	switch {
	case len(view.Words) > 0:
		w.write(viz.WordCloudFile, func(out io.Writer) error {
			return viz.WordCloudPNG(out, view.Words, viz.WordCloudOptions())
		})
		images = append(images, viz.Image{Title: "Most Common Words in Titles", File: viz.WordCloudFile})
	case strings.TrimSpace(aggregate.WordCloudText(cleaned)) == "":
		logger.Info().Msg("No titles to display in word cloud.")
	default:
		logger.Info().Msg("No title words left after stopword filtering; word cloud skipped")
	}

	w.write(viz.ReportFile, func(out io.Writer) error {
		page, err := viz.ReportHTML(viz.ReportData{
			Title:       Title,
			RunID:       res.RunID,
			Generated:   res.Generated.Format(time.RFC3339),
			Source:      res.Source,
			Path:        res.Path,
			Fingerprint: res.Fingerprint,
			Rows:        res.Rows,
			View:        view,
			YearTable:   yearTable,
			Images:      images,
		})
		if err != nil {
			return fmt.Errorf("rendering report: %w", err)
		}
		_, err = io.WriteString(out, page)
		return err
	})

	// summary.json lists itself among the files it describes.
	res.Files = append(res.Files, cfg.PlotPath(viz.SummaryFile))
	w.write(viz.SummaryFile, func(out io.Writer) error {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	})
	if w.err != nil {
		return nil, w.err
	}

	return res, nil
}

// writer creates files in the plot directory, stopping at the first error.
type writer struct {
	cfg    *config.Config
	logger zerolog.Logger
	res    *Result
	err    error
}

func (w *writer) write(name string, render func(io.Writer) error) {
	if w.err != nil {
		return
	}

	path := w.cfg.PlotPath(name)
	f, err := os.Create(path)
	if err != nil {
		w.err = fmt.Errorf("creating %s: %w", name, err)
		return
	}
	if err := render(f); err != nil {
		f.Close()
		w.err = fmt.Errorf("writing %s: %w", name, err)
		return
	}
	if err := f.Close(); err != nil {
		w.err = fmt.Errorf("closing %s: %w", name, err)
		return
	}

	if name != viz.SummaryFile {
		w.res.Files = append(w.res.Files, path)
	}
	w.logger.Debug().Str("file", path).Msg("Wrote file")
}

// RelFiles returns res.Files relative to dir, for display.
func (r *Result) RelFiles(dir string) []string {
	out := make([]string, len(r.Files))
	for i, f := range r.Files {
		rel, err := filepath.Rel(dir, f)
		if err != nil {
			rel = f
		}
		out[i] = rel
	}
	return out
}
