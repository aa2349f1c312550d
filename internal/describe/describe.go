// Package describe summarizes a loaded dataset before and after cleaning.
package describe

import (
	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/dataset"
	"github.com/matsen/cordex/internal/record"
)

// ColumnMissing is the number of empty cells in one column.
type ColumnMissing struct {
	Column  string  `json:"column"`
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
}

// HeadRow is one cleaned record as shown in the dataset preview.
type HeadRow struct {
	UID               string `json:"cord_uid"`
	Title             string `json:"title"`
	PublishTime       string `json:"publish_time"`
	Journal           string `json:"journal"`
	Source            string `json:"source_x"`
	Year              int    `json:"year,omitempty"`
	AbstractWordCount int    `json:"abstract_word_count"`
}

// Summary describes a dataset.
type Summary struct {
	Source       string                   `json:"source"`
	Path         string                   `json:"path"`
	Fingerprint  string                   `json:"fingerprint"`
	Rows         int                      `json:"rows"`
	Columns      []string                 `json:"columns"`
	Missing      []ColumnMissing          `json:"missing"`
	Head         []HeadRow                `json:"head"`
	YearCoverage int                      `json:"year_coverage"` // Records with a parsed year
	Abstracts    aggregate.WordCountStats `json:"abstracts"`
}

// Describe builds a Summary from the raw dataset and its cleaned records.
// head limits the preview rows; head <= 0 omits the preview.
func Describe(ds *dataset.Dataset, cleaned []record.CleanedRecord, head int) Summary {
	s := Summary{
		Source:      ds.Kind.String(),
		Path:        ds.Path,
		Fingerprint: ds.Fingerprint,
		Rows:        ds.Len(),
		Columns:     ds.Columns,
		Missing:     make([]ColumnMissing, 0, len(ds.Columns)),
		Head:        []HeadRow{},
		Abstracts:   aggregate.AbstractStats(cleaned),
	}

	for _, col := range ds.Columns {
		m := ColumnMissing{Column: col, Missing: ds.Missing[col]}
		if s.Rows > 0 {
			m.Percent = 100 * float64(m.Missing) / float64(s.Rows)
		}
		s.Missing = append(s.Missing, m)
	}

	for i, c := range cleaned {
		if c.HasYear() {
			s.YearCoverage++
		}
		if i < head {
			s.Head = append(s.Head, headRow(c))
		}
	}

	return s
}

func headRow(c record.CleanedRecord) HeadRow {
	return HeadRow{
		UID:               c.UID,
		Title:             c.Title,
		PublishTime:       c.PublishDate(),
		Journal:           c.Journal,
		Source:            c.Source,
		Year:              c.Year,
		AbstractWordCount: c.AbstractWordCount,
	}
}
