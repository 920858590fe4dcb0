package mapengine

import (
	"image/color"
	"io"
	"path/filepath"
	"strings"
)

// Surface is a drawing target measured in points. Alpha values are in
// [0,1] and composite over what is already drawn.
type Surface interface {
	Size() (w, h float64)
	Fill(c color.RGBA)
	// FillPolygon fills rings with the even-odd rule.
	FillPolygon(rings [][]XY, c color.RGBA, alpha float64)
	// Stroke draws an open polyline with round caps and joins.
	Stroke(line []XY, width float64, c color.RGBA, alpha float64)
	Circle(center XY, diameter float64, c color.RGBA, alpha float64)
	// Text draws s with its baseline starting at at, in the bold mono face.
	Text(at XY, s string, size float64, c color.RGBA, alpha float64)
	TextWidth(s string, size float64) float64
	Encode(w io.Writer) error
}

// Output formats.
const (
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// FormatFor picks the output format from a file extension; anything that
// isn't .pdf is written as PNG.
func FormatFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return FormatPDF
	}
	return FormatPNG
}

// dedupe drops consecutive repeated points. Stroking a zero-length segment
// produces NaN normals in the rasterizer.
func dedupe(line []XY, same func(a, b XY) bool) []XY {
	if len(line) == 0 {
		return nil
	}
	out := make([]XY, 1, len(line))
	out[0] = line[0]
	for _, p := range line[1:] {
		if !same(out[len(out)-1], p) {
			out = append(out, p)
		}
	}
	return out
}

func exactlyEqual(a, b XY) bool { return a == b }
