package aggregate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/matsen/cordex/internal/record"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultStopwords are dropped from title word counts.
var DefaultStopwords = []string{"the", "and", "of", "in", "to", "a", "for"}

// Defaults for title word counting.
const (
	DefaultTopWords    = 30
	DefaultMaxShortLen = 2
)

// WordOptions configures TitleWordHistogram.
type WordOptions struct {
	TopK           int      // Number of words returned; <= 0 returns all
	MaxShortLen    int      // Tokens with at most this many characters are dropped
	Stopwords      []string // Replaces DefaultStopwords when non-nil
	ExtraStopwords []string // Added to the stopword set
}

// DefaultWordOptions returns the fixed default policy.
func DefaultWordOptions() WordOptions {
	return WordOptions{
		TopK:        DefaultTopWords,
		MaxShortLen: DefaultMaxShortLen,
	}
}

// stopwordSet builds the lowercase stopword set for opts.
func (o WordOptions) stopwordSet() map[string]bool {
	base := o.Stopwords
	if base == nil {
		base = DefaultStopwords
	}

	set := make(map[string]bool, len(base)+len(o.ExtraStopwords))
	for _, w := range base {
		set[strings.ToLower(w)] = true
	}
	for _, w := range o.ExtraStopwords {
		set[strings.ToLower(w)] = true
	}
	return set
}

// Tokens lowercases a title and splits it into maximal runs of letters,
// digits and underscores.
func Tokens(title string) []string {
	return strings.FieldsFunc(lower(title), func(r rune) bool {
		return !isWordRune(r)
	})
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

func lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

// TitleWordHistogram counts title tokens, excluding stopwords and short tokens,
// and returns the opts.TopK most frequent.
func TitleWordHistogram(recs []record.CleanedRecord, opts WordOptions) Histogram {
	stop := opts.stopwordSet()

	c := newCounter()
	for _, r := range recs {
		if r.Title == "" {
			continue
		}
		for _, tok := range Tokens(r.Title) {
			if stop[tok] || utf8.RuneCountInString(tok) <= opts.MaxShortLen {
				continue
			}
			c.add(tok)
		}
	}
	return c.top(opts.TopK)
}

// WordCloudText joins all present titles, lowercased, with single spaces.
func WordCloudText(recs []record.CleanedRecord) string {
	var titles []string
	for _, r := range recs {
		if r.Title != "" {
			titles = append(titles, lower(r.Title))
		}
	}
	return strings.Join(titles, " ")
}
