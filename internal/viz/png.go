package viz

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"strconv"

	"github.com/matsen/cordex/internal/aggregate"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	margin       = 20
	charWidth    = 7
	lineHeight   = 13
	maxWordScale = 5
)

var (
	face = basicfont.Face7x13
	gray = color.Gray{Y: 0x55}
)

// BarChartPNG draws h as a horizontal bar chart, one bar per key in order.
// An empty histogram yields a chart with a "No data" note.
func BarChartPNG(w io.Writer, title, xLabel string, h aggregate.Histogram, opts ChartOptions) error {
	opts = opts.withDefaults()
	img := newCanvas(opts)
	drawText(img, margin, margin+lineHeight, title, color.Black)

	top := margin + 2*lineHeight + 10
	bottom := opts.Height - margin - lineHeight - 10
	if xLabel != "" {
		drawText(img, opts.Width/2-textWidth(xLabel)/2, opts.Height-margin, xLabel, gray)
	}

	if len(h) == 0 {
		drawText(img, margin, top+lineHeight, "No data", gray)
		return png.Encode(w, img)
	}

	labelWidth, maxCount := 0, 0
	for _, c := range h {
		labelWidth = max(labelWidth, textWidth(c.Key))
		maxCount = max(maxCount, c.Count)
	}
	labelWidth = min(labelWidth, opts.Width/3)

	barLeft := margin + labelWidth + 10
	barSpan := opts.Width - barLeft - textWidth(strconv.Itoa(maxCount)) - 10 - margin
	rowHeight := max((bottom-top)/len(h), 1)
	barHeight := max(rowHeight*3/4, 1)
	fill := image.NewUniform(opts.Bar)

	for i, c := range h {
		y := top + i*rowHeight
		length := 0
		if maxCount > 0 {
			length = barSpan * c.Count / maxCount
		}
		draw.Draw(img, image.Rect(barLeft, y, barLeft+length, y+barHeight), fill, image.Point{}, draw.Src)

		baseline := y + barHeight/2 + face.Ascent/2
		drawText(img, margin, baseline, truncate(c.Key, labelWidth), color.Black)
		drawText(img, barLeft+length+5, baseline, strconv.Itoa(c.Count), gray)
	}

	return png.Encode(w, img)
}

// WordCloudPNG draws words in rank order, each scaled by its frequency
// relative to the most frequent word. Words that do not fit are dropped.
func WordCloudPNG(w io.Writer, words aggregate.Histogram, opts ChartOptions) error {
	if len(words) == 0 {
		return ErrNoWords
	}
	opts = opts.withDefaults()
	img := newCanvas(opts)

	maxCount := 0
	for _, c := range words {
		maxCount = max(maxCount, c.Count)
	}

	x, y, rowHeight := margin, margin, 0
	for i, c := range words {
		scale := 1
		if maxCount > 0 {
			scale += (maxWordScale - 1) * c.Count / maxCount
		}
		glyph := renderWord(c.Key, palette[i%len(palette)])
		gw, gh := glyph.Bounds().Dx()*scale, glyph.Bounds().Dy()*scale
		if gw > opts.Width-2*margin {
			continue
		}
		if x+gw > opts.Width-margin {
			x, y, rowHeight = margin, y+rowHeight+4, 0
		}
		if y+gh > opts.Height-margin {
			break
		}

		draw.NearestNeighbor.Scale(img, image.Rect(x, y, x+gw, y+gh), glyph, glyph.Bounds(), draw.Over, nil)
		x += gw + charWidth*scale
		rowHeight = max(rowHeight, gh)
	}

	return png.Encode(w, img)
}

func (o ChartOptions) withDefaults() ChartOptions {
	def := DefaultChartOptions()
	if o.Width < 200 {
		o.Width = def.Width
	}
	if o.Height < 150 {
		o.Height = def.Height
	}
	if o.Bar.A == 0 {
		o.Bar = def.Bar
	}
	return o
}

func newCanvas(opts ChartOptions) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return img
}

// renderWord draws s at 1x on a transparent background.
func renderWord(s string, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, max(textWidth(s), 1), lineHeight))
	drawText(img, 0, face.Ascent, s, c)
	return img
}

func drawText(dst draw.Image, x, y int, s string, c color.Color) {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(face, s).Ceil()
}

// truncate shortens s with "..." to fit width pixels.
func truncate(s string, width int) string {
	runes := []rune(s)
	n := width / charWidth
	if len(runes) <= n || n <= 3 {
		return s
	}
	return string(runes[:n-3]) + "..."
}
