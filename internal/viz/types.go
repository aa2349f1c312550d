// Package viz renders histograms as PNG charts, inline SVG and HTML pages.
package viz

import (
	"errors"
	"image/color"
)

// Plot file names written by the batch report.
const (
	YearChartFile    = "publications_by_year.png"
	JournalChartFile = "top_journals.png"
	WordCloudFile    = "title_wordcloud.png"
	ReportFile       = "report.html"
	SummaryFile      = "summary.json"
)

// ErrNoWords is returned when a word cloud has nothing to draw.
var ErrNoWords = errors.New("no words to draw")

// ChartOptions configures PNG rendering.
type ChartOptions struct {
	Width  int
	Height int
	Bar    color.RGBA // Bar fill colour
}

// DefaultChartOptions returns the default PNG chart size and colour.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{
		Width:  1000,
		Height: 600,
		Bar:    color.RGBA{R: 0x4A, G: 0x90, B: 0xD9, A: 0xFF},
	}
}

// WordCloudOptions returns the default word cloud canvas.
func WordCloudOptions() ChartOptions {
	opts := DefaultChartOptions()
	opts.Height = 500
	return opts
}

// palette colours word cloud words in rank order.
var palette = []color.RGBA{
	{R: 0x44, G: 0x01, B: 0x54, A: 0xFF},
	{R: 0x3B, G: 0x52, B: 0x8B, A: 0xFF},
	{R: 0x21, G: 0x90, B: 0x8C, A: 0xFF},
	{R: 0x27, G: 0xAE, B: 0x60, A: 0xFF},
	{R: 0xE8, G: 0x92, B: 0x3A, A: 0xFF},
}
