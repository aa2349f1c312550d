package aggregate

import (
	"sort"

	"github.com/matsen/cordex/internal/record"
)

// DefaultTopJournals is the number of journals in the journal histogram.
const DefaultTopJournals = 10

// Options configures Summarize.
type Options struct {
	TopJournals int
	Words       WordOptions
}

// DefaultOptions returns the default aggregation settings.
func DefaultOptions() Options {
	return Options{
		TopJournals: DefaultTopJournals,
		Words:       DefaultWordOptions(),
	}
}

// WordCountStats describes abstract lengths.
type WordCountStats struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    int     `json:"max"`
	Zero   int     `json:"zero"` // Records with an empty abstract
}

// View bundles every table computed for one set of records.
type View struct {
	Records   int            `json:"records"`
	WithYear  int            `json:"records_with_year"`
	Years     []YearCount    `json:"years"`
	Journals  Histogram      `json:"journals"`
	Words     Histogram      `json:"words"`
	Abstracts WordCountStats `json:"abstracts"`
}

// Summarize computes the year, journal and title word tables for recs.
func Summarize(recs []record.CleanedRecord, opts Options) View {
	years := YearHistogram(recs)
	withYear := 0
	for _, y := range years {
		withYear += y.Count
	}

	return View{
		Records:   len(recs),
		WithYear:  withYear,
		Years:     years,
		Journals:  JournalHistogram(recs, opts.TopJournals),
		Words:     TitleWordHistogram(recs, opts.Words),
		Abstracts: AbstractStats(recs),
	}
}

// AbstractStats computes abstract word count statistics. Empty abstracts count as 0.
func AbstractStats(recs []record.CleanedRecord) WordCountStats {
	var stats WordCountStats
	if len(recs) == 0 {
		return stats
	}

	counts := make([]int, len(recs))
	total := 0
	for i, r := range recs {
		counts[i] = r.AbstractWordCount
		total += r.AbstractWordCount
		if r.AbstractWordCount > stats.Max {
			stats.Max = r.AbstractWordCount
		}
		if r.AbstractWordCount == 0 {
			stats.Zero++
		}
	}
	sort.Ints(counts)

	stats.Mean = float64(total) / float64(len(counts))
	mid := len(counts) / 2
	if len(counts)%2 == 0 {
		stats.Median = float64(counts[mid-1]+counts[mid]) / 2
	} else {
		stats.Median = float64(counts[mid])
	}
	return stats
}
