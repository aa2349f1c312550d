package aggregate

import (
	"reflect"
	"testing"

	"github.com/matsen/cordex/internal/record"
)

// rec builds a cleaned record with the fields the aggregates read.
func rec(uid, title, journal string, year, words int) record.CleanedRecord {
	return record.CleanedRecord{
		Record:            record.Record{UID: uid, Title: title, Journal: journal},
		Year:              year,
		AbstractWordCount: words,
	}
}

func testRecs() []record.CleanedRecord {
	return []record.CleanedRecord{
		rec("a", "Virus spread in cities", "Lancet", 2020, 10),
		rec("b", "Masks and virus", "BMJ", 2021, 0),
		rec("c", "", "Lancet", 2020, 5),
		rec("d", "Undated study of virus", "", 0, 3),
		rec("e", "Vaccine trials", "BMJ", 2019, 7),
	}
}

func TestYearHistogram(t *testing.T) {
	got := YearHistogram(testRecs())
	want := []YearCount{{2019, 1}, {2020, 2}, {2021, 1}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearHistogram() = %v, want %v", got, want)
	}
}

func TestYearHistogram_KeysAndTotal(t *testing.T) {
	recs := testRecs()
	years := YearHistogram(recs)

	distinct := map[int]bool{}
	withYear := 0
	for _, r := range recs {
		if r.HasYear() {
			distinct[r.Year] = true
			withYear++
		}
	}

	if len(years) != len(distinct) {
		t.Errorf("len(YearHistogram) = %d, want %d distinct years", len(years), len(distinct))
	}
	sum := 0
	for i, y := range years {
		if !distinct[y.Year] {
			t.Errorf("unexpected year %d", y.Year)
		}
		if i > 0 && years[i-1].Year >= y.Year {
			t.Errorf("years not ascending at %d", i)
		}
		sum += y.Count
	}
	if sum != withYear {
		t.Errorf("sum of counts = %d, want %d", sum, withYear)
	}
}

func TestYearTable(t *testing.T) {
	got := YearTable(testRecs())
	want := Histogram{{"2019", 1}, {"2020", 2}, {"2021", 1}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("YearTable() = %v, want %v", got, want)
	}
}

func TestJournalHistogram_Unknown(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "", "A", 0, 0),
		rec("2", "", "A", 0, 0),
		rec("3", "", "", 0, 0),
	}

	got := JournalHistogram(recs, DefaultTopJournals)
	want := Histogram{{"A", 2}, {record.UnknownJournal, 1}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("JournalHistogram() = %v, want %v", got, want)
	}
}

func TestJournalHistogram_TopNAndTies(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "", "C", 0, 0),
		rec("2", "", "B", 0, 0),
		rec("3", "", "A", 0, 0),
		rec("4", "", "A", 0, 0),
		rec("5", "", "B", 0, 0),
		rec("6", "", "D", 0, 0),
	}

	tests := []struct {
		name string
		n    int
		want Histogram
	}{
		{"all", 0, Histogram{{"B", 2}, {"A", 2}, {"C", 1}, {"D", 1}}},
		{"top 3", 3, Histogram{{"B", 2}, {"A", 2}, {"C", 1}}},
		{"larger than distinct", 10, Histogram{{"B", 2}, {"A", 2}, {"C", 1}, {"D", 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := JournalHistogram(recs, tt.n)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("JournalHistogram(%d) = %v, want %v", tt.n, got, tt.want)
			}
		})
	}
}

func TestTopJournalNames(t *testing.T) {
	got := TopJournalNames(testRecs(), 2)
	want := []string{"Lancet", "BMJ"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopJournalNames() = %v, want %v", got, want)
	}
}

func TestTitleWordHistogram(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "The Rapid Spread of Virus", "", 0, 0),
		rec("2", "Virus spread patterns", "", 0, 0),
	}

	got := TitleWordHistogram(recs, DefaultWordOptions())
	want := Histogram{{"spread", 2}, {"virus", 2}, {"rapid", 1}, {"patterns", 1}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("TitleWordHistogram() = %v, want %v", got, want)
	}
}

func TestTitleWordHistogram_Filtering(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "A cat, an ox and the COVID_19 virus in 2020", "", 0, 0),
		rec("2", "", "", 0, 0),
	}

	got := TitleWordHistogram(recs, WordOptions{MaxShortLen: 2})
	want := Histogram{{"cat", 1}, {"covid_19", 1}, {"virus", 1}, {"2020", 1}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("TitleWordHistogram() = %v, want %v", got, want)
	}
}

func TestTitleWordHistogram_StopwordOverrides(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "The virus and the host", "", 0, 0),
	}

	// Replace the defaults: "the" is no longer a stopword, "host" is.
	got := TitleWordHistogram(recs, WordOptions{MaxShortLen: 2, Stopwords: []string{"HOST"}})
	want := Histogram{{"the", 2}, {"virus", 1}, {"and", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with Stopwords = %v, want %v", got, want)
	}

	got = TitleWordHistogram(recs, WordOptions{MaxShortLen: 2, ExtraStopwords: []string{"virus"}})
	want = Histogram{{"host", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with ExtraStopwords = %v, want %v", got, want)
	}
}

func TestTitleWordHistogram_TopK(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "alpha beta gamma delta alpha beta alpha", "", 0, 0),
	}

	got := TitleWordHistogram(recs, WordOptions{TopK: 2, MaxShortLen: 2})
	want := Histogram{{"alpha", 3}, {"beta", 2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TitleWordHistogram() = %v, want %v", got, want)
	}
}

func TestTokens_Unicode(t *testing.T) {
	got := Tokens("Épidémie de COVID-19 à Wuhan")
	want := []string{"épidémie", "de", "covid", "19", "à", "wuhan"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}

func TestWordCloudText(t *testing.T) {
	got := WordCloudText(testRecs())
	want := "virus spread in cities masks and virus undated study of virus vaccine trials"
	if got != want {
		t.Errorf("WordCloudText() = %q, want %q", got, want)
	}
}

func TestAggregates_Empty(t *testing.T) {
	for _, recs := range [][]record.CleanedRecord{nil, {}} {
		if got := YearHistogram(recs); got == nil || len(got) != 0 {
			t.Errorf("YearHistogram(empty) = %v", got)
		}
		if got := JournalHistogram(recs, 10); got == nil || len(got) != 0 {
			t.Errorf("JournalHistogram(empty) = %v", got)
		}
		if got := TitleWordHistogram(recs, DefaultWordOptions()); got == nil || len(got) != 0 {
			t.Errorf("TitleWordHistogram(empty) = %v", got)
		}
		if got := WordCloudText(recs); got != "" {
			t.Errorf("WordCloudText(empty) = %q", got)
		}
	}
}

func TestUnparseableDateExcludedOnlyFromYears(t *testing.T) {
	recs := []record.CleanedRecord{
		rec("1", "Undated virus report", "", 0, 4),
	}

	if got := YearHistogram(recs); len(got) != 0 {
		t.Errorf("YearHistogram() = %v, want empty", got)
	}
	if n, ok := JournalHistogram(recs, 10).Get(record.UnknownJournal); !ok || n != 1 {
		t.Errorf("Unknown journal count = %d, %v", n, ok)
	}
	if n, ok := TitleWordHistogram(recs, DefaultWordOptions()).Get("virus"); !ok || n != 1 {
		t.Errorf("virus count = %d, %v", n, ok)
	}
}

func TestYearBounds(t *testing.T) {
	lo, hi, ok := YearBounds(testRecs())
	if !ok || lo != 2019 || hi != 2021 {
		t.Errorf("YearBounds() = %d, %d, %v", lo, hi, ok)
	}

	_, _, ok = YearBounds([]record.CleanedRecord{rec("x", "", "", 0, 0)})
	if ok {
		t.Error("YearBounds() ok = true without years")
	}

	lo, hi = SliderBounds(nil)
	if lo != DefaultMinYear || hi != DefaultMaxYear {
		t.Errorf("SliderBounds(nil) = %d, %d", lo, hi)
	}
}

func TestApply(t *testing.T) {
	recs := testRecs()

	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"no filter", Filter{}, []string{"a", "b", "c", "d", "e"}},
		{"year range drops undated", Filter{YearMin: 2020, YearMax: 2021}, []string{"a", "b", "c"}},
		{"open max", Filter{YearMin: 2021}, []string{"b"}},
		{"journal", Filter{Journal: "BMJ"}, []string{"b", "e"}},
		{"all journals", Filter{Journal: AllJournals}, []string{"a", "b", "c", "d", "e"}},
		{"unknown journal", Filter{Journal: record.UnknownJournal}, []string{"d"}},
		{"year and journal", Filter{YearMin: 2020, YearMax: 2020, Journal: "Lancet"}, []string{"a", "c"}},
		{"excludes everything", Filter{YearMin: 1990, YearMax: 1995}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(recs, tt.f)
			ids := make([]string, len(got))
			for i, r := range got {
				ids[i] = r.UID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("Apply(%+v) = %v, want %v", tt.f, ids, tt.want)
			}
		})
	}
}

func TestApply_EmptySubsetAggregates(t *testing.T) {
	subset := Apply(testRecs(), Filter{YearMin: 1990, YearMax: 1995})
	view := Summarize(subset, DefaultOptions())

	if view.Records != 0 || len(view.Years) != 0 || len(view.Journals) != 0 || len(view.Words) != 0 {
		t.Errorf("Summarize(empty subset) = %+v, want empty tables", view)
	}
}

func TestFilter_Clamp(t *testing.T) {
	tests := []struct {
		name string
		in   Filter
		want Filter
	}{
		{"unset fills bounds", Filter{}, Filter{YearMin: 2019, YearMax: 2021}},
		{"inside kept", Filter{YearMin: 2020, YearMax: 2020}, Filter{YearMin: 2020, YearMax: 2020}},
		{"outside clamped", Filter{YearMin: 1900, YearMax: 2100}, Filter{YearMin: 2019, YearMax: 2021}},
		{"reversed swapped", Filter{YearMin: 2021, YearMax: 2019}, Filter{YearMin: 2019, YearMax: 2021}},
		{"journal kept", Filter{Journal: "BMJ"}, Filter{YearMin: 2019, YearMax: 2021, Journal: "BMJ"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Clamp(2019, 2021); got != tt.want {
				t.Errorf("Clamp() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	view := Summarize(testRecs(), DefaultOptions())

	if view.Records != 5 || view.WithYear != 4 {
		t.Errorf("Records = %d, WithYear = %d", view.Records, view.WithYear)
	}
	if n, _ := view.Words.Get("virus"); n != 3 {
		t.Errorf("virus count = %d, want 3", n)
	}
	if view.Journals.Total() != 5 {
		t.Errorf("Journals.Total() = %d, want 5", view.Journals.Total())
	}
}

func TestAbstractStats(t *testing.T) {
	stats := AbstractStats(testRecs())

	// counts: 10, 0, 5, 3, 7 -> sorted 0 3 5 7 10
	if stats.Mean != 5 || stats.Median != 5 || stats.Max != 10 || stats.Zero != 1 {
		t.Errorf("AbstractStats() = %+v", stats)
	}

	even := AbstractStats([]record.CleanedRecord{rec("a", "", "", 0, 2), rec("b", "", "", 0, 5)})
	if even.Median != 3.5 {
		t.Errorf("Median = %v, want 3.5", even.Median)
	}

	if got := AbstractStats(nil); got != (WordCountStats{}) {
		t.Errorf("AbstractStats(nil) = %+v", got)
	}
}
