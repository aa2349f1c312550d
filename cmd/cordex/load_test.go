package main

import (
	"fmt"
	"testing"

	"github.com/matsen/cordex/internal/aggregate"
	"github.com/matsen/cordex/internal/dataset"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"not found", &dataset.DatasetNotFoundError{Primary: "a", Fallback: "b"}, ExitDataNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", dataset.ErrDatasetNotFound), ExitDataNotFound},
		{"missing columns", &dataset.MissingColumnsError{Columns: []string{"title"}}, ExitDataError},
		{"other read error", fmt.Errorf("reading row 3: bare quote"), ExitDataError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFilterFlags(t *testing.T) {
	tests := []struct {
		name  string
		flags filterFlags
		want  aggregate.Filter
	}{
		{"unset", filterFlags{}, aggregate.Filter{}},
		{"range", filterFlags{yearMin: 2019, yearMax: 2021}, aggregate.Filter{YearMin: 2019, YearMax: 2021}},
		{"reversed", filterFlags{yearMin: 2022, yearMax: 2020}, aggregate.Filter{YearMin: 2020, YearMax: 2022}},
		{"open ended", filterFlags{yearMin: 2022}, aggregate.Filter{YearMin: 2022}},
		{"journal", filterFlags{journal: "Unknown"}, aggregate.Filter{Journal: "Unknown"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.flags.filter(); got != tt.want {
				t.Errorf("filter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	tests := []struct {
		input  string
		maxLen int
		want   string
	}{
		{"short", 10, "short"},
		{"exactly ten", 11, "exactly ten"},
		{"this is a long title", 10, "this is..."},
		{"épidémiologie", 8, "épidé..."},
	}

	for _, tt := range tests {
		if got := truncateString(tt.input, tt.maxLen); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
		}
	}
}

func TestHistogramRows(t *testing.T) {
	rows := histogramRows(aggregate.Histogram{{Key: "Lancet", Count: 3}, {Key: "Unknown", Count: 1}}, 40)
	if len(rows) != 2 || rows[0][0] != "Lancet" || rows[0][1] != "3" || rows[1][1] != "1" {
		t.Errorf("histogramRows() = %v", rows)
	}

	years := yearRows([]aggregate.YearCount{{Year: 2020, Count: 5}})
	if len(years) != 1 || years[0][0] != "2020" || years[0][1] != "5" {
		t.Errorf("yearRows() = %v", years)
	}
}
