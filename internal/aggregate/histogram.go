// Package aggregate computes frequency tables over cleaned metadata records.
//
// Every operation is pure: it reads the records it is given, performs no I/O and
// returns an empty (non-nil) table for empty input. Ties in count-ordered tables
// are broken by the order in which keys were first encountered.
package aggregate

import (
	"sort"
	"strconv"

	"github.com/matsen/cordex/internal/record"
)

// Count is one entry of a histogram.
type Count struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Histogram is an ordered key -> count mapping.
type Histogram []Count

// Total returns the sum of all counts.
func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c.Count
	}
	return total
}

// Keys returns the keys in table order.
func (h Histogram) Keys() []string {
	keys := make([]string, len(h))
	for i, c := range h {
		keys[i] = c.Key
	}
	return keys
}

// Get returns the count for key.
func (h Histogram) Get(key string) (int, bool) {
	for _, c := range h {
		if c.Key == key {
			return c.Count, true
		}
	}
	return 0, false
}

// YearCount is one entry of the year histogram.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// counter counts keys and remembers first-encounter order.
type counter struct {
	order  []string
	counts map[string]int
}

func newCounter() *counter {
	return &counter{counts: make(map[string]int)}
}

func (c *counter) add(key string) {
	if _, seen := c.counts[key]; !seen {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

// top returns the n most frequent keys, all of them if n <= 0.
func (c *counter) top(n int) Histogram {
	h := make(Histogram, len(c.order))
	for i, key := range c.order {
		h[i] = Count{Key: key, Count: c.counts[key]}
	}
	sort.SliceStable(h, func(i, j int) bool {
		return h[i].Count > h[j].Count
	})
	if n > 0 && len(h) > n {
		h = h[:n]
	}
	return h
}

// YearHistogram counts records per publication year in ascending year order.
// Records without a year are dropped.
func YearHistogram(recs []record.CleanedRecord) []YearCount {
	counts := make(map[int]int)
	for _, r := range recs {
		if r.HasYear() {
			counts[r.Year]++
		}
	}

	years := make([]YearCount, 0, len(counts))
	for year, n := range counts {
		years = append(years, YearCount{Year: year, Count: n})
	}
	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})
	return years
}

// YearTable is YearHistogram keyed by the decimal year.
func YearTable(recs []record.CleanedRecord) Histogram {
	years := YearHistogram(recs)
	h := make(Histogram, len(years))
	for i, y := range years {
		h[i] = Count{Key: strconv.Itoa(y.Year), Count: y.Count}
	}
	return h
}

// JournalHistogram returns the n most frequent journals, counting records
// without a journal as record.UnknownJournal. n <= 0 returns every journal.
func JournalHistogram(recs []record.CleanedRecord, n int) Histogram {
	c := newCounter()
	for _, r := range recs {
		c.add(r.JournalOrUnknown())
	}
	return c.top(n)
}

// TopJournalNames returns the names of the n most frequent journals.
func TopJournalNames(recs []record.CleanedRecord, n int) []string {
	return JournalHistogram(recs, n).Keys()
}

// YearBounds returns the smallest and largest year present.
// ok is false when no record has a year.
func YearBounds(recs []record.CleanedRecord) (lo, hi int, ok bool) {
	for _, r := range recs {
		if !r.HasYear() {
			continue
		}
		if !ok || r.Year < lo {
			lo = r.Year
		}
		if !ok || r.Year > hi {
			hi = r.Year
		}
		ok = true
	}
	return lo, hi, ok
}

// Default slider bounds used when no record has a year.
const (
	DefaultMinYear = 2019
	DefaultMaxYear = 2022
)

// SliderBounds returns YearBounds, or DefaultMinYear..DefaultMaxYear when no record has a year.
func SliderBounds(recs []record.CleanedRecord) (lo, hi int) {
	lo, hi, ok := YearBounds(recs)
	if !ok {
		return DefaultMinYear, DefaultMaxYear
	}
	return lo, hi
}
