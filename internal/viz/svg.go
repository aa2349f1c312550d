package viz

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/matsen/cordex/internal/aggregate"
)

const (
	svgWidth     = 640
	svgRowHeight = 22
	svgLabelSize = 220
)

// BarChartSVG renders h as an inline horizontal bar chart.
func BarChartSVG(h aggregate.Histogram) template.HTML {
	if len(h) == 0 {
		return template.HTML(`<p class="empty">No data for the current selection.</p>`)
	}

	maxCount := 0
	for _, c := range h {
		maxCount = max(maxCount, c.Count)
	}
	span := svgWidth - svgLabelSize - 60

	var b strings.Builder
	fmt.Fprintf(&b, `<svg class="bars" width="%d" height="%d" role="img">`, svgWidth, len(h)*svgRowHeight)
	for i, c := range h {
		y := i * svgRowHeight
		length := 0
		if maxCount > 0 {
			length = span * c.Count / maxCount
		}
		label := template.HTMLEscapeString(truncate(c.Key, svgLabelSize))
		fmt.Fprintf(&b, `<text x="%d" y="%d" text-anchor="end">%s</text>`, svgLabelSize-6, y+15, label)
		fmt.Fprintf(&b, `<rect x="%d" y="%d" width="%d" height="%d"><title>%s: %d</title></rect>`,
			svgLabelSize, y+3, length, svgRowHeight-6, label, c.Count)
		fmt.Fprintf(&b, `<text x="%d" y="%d" class="count">%d</text>`, svgLabelSize+length+4, y+15, c.Count)
	}
	b.WriteString(`</svg>`)

	return template.HTML(b.String())
}

// WordCloudHTML renders words as spans sized by frequency.
func WordCloudHTML(words aggregate.Histogram) template.HTML {
	if len(words) == 0 {
		return template.HTML(`<p class="empty">No titles to display in word cloud.</p>`)
	}

	maxCount := 0
	for _, c := range words {
		maxCount = max(maxCount, c.Count)
	}

	var b strings.Builder
	b.WriteString(`<div class="cloud">`)
	for i, c := range words {
		size := 0.8
		if maxCount > 0 {
			size += 2.4 * float64(c.Count) / float64(maxCount)
		}
		col := palette[i%len(palette)]
		fmt.Fprintf(&b, `<span style="font-size:%.2fem;color:#%02x%02x%02x" title="%d">%s</span> `,
			size, col.R, col.G, col.B, c.Count, template.HTMLEscapeString(c.Key))
	}
	b.WriteString(`</div>`)

	return template.HTML(b.String())
}
