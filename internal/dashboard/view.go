package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/index"
	"github.com/matsen/cordex/internal/record"
)

// FilterInput is the filter selection shared by every dashboard view.
type FilterInput struct {
	YearMin int    `query:"year_min" minimum:"0" doc:"First year of the range (0 = lowest year in the data)"`
	YearMax int    `query:"year_max" minimum:"0" doc:"Last year of the range (0 = highest year in the data)"`
	Journal string `query:"journal" doc:"Journal name, All, or Unknown for records without a journal"`
	Q       string `query:"q" maxLength:"200" doc:"Full-text search over title and abstract"`
}

// selection is one filtered, aggregated view of the loaded records.
type selection struct {
	Filter  aggregate.Filter
	Query   string
	Records []record.CleanedRecord
	View    aggregate.View
}

var errNoIndex = errors.New("search index not loaded")

// errBadQuery wraps a search query the index rejected.
type errBadQuery struct{ err error }

func (e *errBadQuery) Error() string { return fmt.Sprintf("invalid search query: %v", e.err) }
func (e *errBadQuery) Unwrap() error { return e.err }

// selectRecords filters the loaded records and recomputes every table.
// Year bounds are clamped to the slider range and a reversed range is swapped.
func (s *Server) selectRecords(in FilterInput) (*selection, error) {
	start := time.Now()
	defer func() {
		ViewSeconds.Observe(time.Since(start).Seconds())
	}()

	f := aggregate.Filter{YearMin: in.YearMin, YearMax: in.YearMax, Journal: in.Journal}.Clamp(s.minYear, s.maxYear)

	recs := s.records
	if in.Q != "" {
		if s.idx == nil {
			return nil, &errBadQuery{err: errNoIndex}
		}
		ords, err := s.idx.Search(index.SearchFilters{Keyword: in.Q}, 0)
		if err != nil {
			return nil, &errBadQuery{err: err}
		}
		recs = index.Select(s.records, ords)
	}
	recs = aggregate.Apply(recs, f)

	return &selection{
		Filter:  f,
		Query:   in.Q,
		Records: recs,
		View:    aggregate.Summarize(recs, s.cfg.AggregateOptions()),
	}, nil
}

// parseFilter reads FilterInput from a plain request. Empty values are unset.
func parseFilter(r *http.Request) (FilterInput, error) {
	q := r.URL.Query()
	in := FilterInput{Journal: q.Get("journal"), Q: q.Get("q")}

	var err error
	if in.YearMin, err = parseYear(q.Get("year_min")); err != nil {
		return in, fmt.Errorf("year_min: %w", err)
	}
	if in.YearMax, err = parseYear(q.Get("year_max")); err != nil {
		return in, fmt.Errorf("year_max: %w", err)
	}
	return in, nil
}

func parseYear(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a year: %q", s)
	}
	if y < 0 {
		return 0, fmt.Errorf("negative year: %d", y)
	}
	return y, nil
}

// encode returns the query string selecting this view.
func (sel *selection) encode() string {
	v := url.Values{}
	v.Set("year_min", strconv.Itoa(sel.Filter.YearMin))
	v.Set("year_max", strconv.Itoa(sel.Filter.YearMax))
	if sel.Filter.Journal != "" {
		v.Set("journal", sel.Filter.Journal)
	}
	if sel.Query != "" {
		v.Set("q", sel.Query)
	}
	return v.Encode()
}

// RecordRow is one record with the display columns.
type RecordRow struct {
	UID         string `json:"cord_uid"`
	Title       string `json:"title"`
	PublishTime string `json:"publish_time"`
	Journal     string `json:"journal"`
	Source      string `json:"source_x"`
}

func recordRows(recs []record.CleanedRecord, limit int) []RecordRow {
	n := max(min(len(recs), limit), 0)
	rows := make([]RecordRow, n)
	for i, r := range recs[:n] {
		rows[i] = RecordRow{
			UID:         r.UID,
			Title:       r.Title,
			PublishTime: r.PublishDate(),
			Journal:     r.Journal,
			Source:      r.Source,
		}
	}
	return rows
}
