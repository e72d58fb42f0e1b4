// Package svg renders label graphics and the filing field as SVG documents.
package svg

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/okian/nestudio/internal/domain/label"
	"github.com/okian/nestudio/internal/domain/motion"
)

// ContentType is the media type of every document rendered here.
const ContentType = "image/svg+xml"

const (
	ink   = "#111"
	paper = "#fff"
	font  = "ui-monospace, SFMono-Regular, Menlo, Monaco, Consolas, 'Liberation Mono', 'Courier New', monospace"

	captionHeight = 12
	minBarHeight  = captionHeight + 4
)

// Barcode draws bars left to right, each density units per module, with
// value printed on a white strip along the bottom.
func Barcode(value string, bars []label.Bar, height, density int) []byte {
	height = max(height, minBarHeight)
	density = max(density, 1)
	width := label.TotalWidth(bars) * density

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="100%%" height="%d" role="img" aria-label="barcode %s">`,
		width, height, height, html.EscapeString(value))
	x := 0
	for _, bar := range bars {
		fill := paper
		if bar.Black {
			fill = ink
		}
		w := bar.Width * density
		fmt.Fprintf(&b, `<rect x="%d" y="0" width="%d" height="%d" fill="%s"/>`, x, w, height, fill)
		x += w
	}
	fmt.Fprintf(&b, `<rect x="0" y="%d" width="%d" height="%d" fill="%s"/>`, height-captionHeight, width, captionHeight, paper)
	fmt.Fprintf(&b, `<text x="8" y="%d" font-family="%s" font-size="10" fill="%s">%s</text>`,
		height-3, html.EscapeString(font), ink, html.EscapeString(value))
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// Pattern draws the on modules of g scaled to size pixels.
func Pattern(g label.Grid, size int) []byte {
	size = max(size, g.Size())
	cell := float64(size) / float64(g.Size())
	side := math.Ceil(cell)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img" aria-label="decorative QR code">`,
		size, size, size, size)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, size, size, paper)
	for y := 0; y < g.Size(); y++ {
		for x := 0; x < g.Size(); x++ {
			if !g.At(x, y) {
				continue
			}
			fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="%s" fill="%s"/>`,
				num(float64(x)*cell), num(float64(y)*cell), num(side), num(side), ink)
		}
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// Placeholder draws a bordered square with a caption, used when there is
// nothing to encode.
func Placeholder(size int, caption string) []byte {
	size = max(size, 24)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img" aria-label="%s">`,
		size, size, size, size, html.EscapeString(caption))
	fmt.Fprintf(&b, `<rect x="0.5" y="0.5" width="%d" height="%d" fill="%s" stroke="%s" stroke-dasharray="4 3"/>`, size-1, size-1, paper, ink)
	fmt.Fprintf(&b, `<text x="50%%" y="50%%" dominant-baseline="middle" text-anchor="middle" font-family="%s" font-size="10" fill="%s">%s</text>`,
		html.EscapeString(font), ink, html.EscapeString(caption))
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// Field draws one rotated filing per cell, each pointing at the pointer.
func Field(filings []motion.Filing, width, height, cols int, color string) []byte {
	if color == "" {
		color = "#E5E7EB"
	}
	cols = max(cols, 1)
	length := 0.7 * float64(width) / float64(cols)

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" aria-hidden="true">`,
		width, height, width, height)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="%s"/>`, width, height, paper)
	for _, f := range filings {
		fmt.Fprintf(&b, `<rect x="%s" y="%s" width="%s" height="1" rx="0.5" fill="%s" transform="rotate(%s %s %s)"/>`,
			num(f.Center.X-length/2), num(f.Center.Y-0.5), num(length), html.EscapeString(color),
			num(f.Angle()), num(f.Center.X), num(f.Center.Y))
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}

// num formats with at most two decimals and no trailing zeros.
func num(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
