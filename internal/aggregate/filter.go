package aggregate

import "github.com/matsen/cordex/internal/record"

// AllJournals is the journal selector value that disables journal filtering.
const AllJournals = "All"

// Filter selects a subset of records before aggregation.
type Filter struct {
	YearMin int    `json:"year_min,omitempty"` // 0 = no minimum
	YearMax int    `json:"year_max,omitempty"` // 0 = no maximum
	Journal string `json:"journal,omitempty"`  // "" or AllJournals = any journal
}

// HasYearRange reports whether either year bound is set.
func (f Filter) HasYearRange() bool {
	return f.YearMin != 0 || f.YearMax != 0
}

// Match reports whether a record passes the filter. Records without a year
// never pass a year range.
func (f Filter) Match(r record.CleanedRecord) bool {
	if f.HasYearRange() {
		if !r.HasYear() {
			return false
		}
		if f.YearMin != 0 && r.Year < f.YearMin {
			return false
		}
		if f.YearMax != 0 && r.Year > f.YearMax {
			return false
		}
	}
	if f.Journal != "" && f.Journal != AllJournals && r.JournalOrUnknown() != f.Journal {
		return false
	}
	return true
}

// Clamp limits the year range to [lo, hi], fills unset bounds from it and
// swaps a reversed range.
func (f Filter) Clamp(lo, hi int) Filter {
	if f.YearMin == 0 {
		f.YearMin = lo
	}
	if f.YearMax == 0 {
		f.YearMax = hi
	}
	f.YearMin = clampInt(f.YearMin, lo, hi)
	f.YearMax = clampInt(f.YearMax, lo, hi)
	if f.YearMin > f.YearMax {
		f.YearMin, f.YearMax = f.YearMax, f.YearMin
	}
	return f
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Apply returns the records that pass f, in their original order.
func Apply(recs []record.CleanedRecord, f Filter) []record.CleanedRecord {
	out := make([]record.CleanedRecord, 0, len(recs))
	for _, r := range recs {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}
