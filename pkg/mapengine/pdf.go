package mapengine

import (
	"image/color"
	"io"
	"math"

	"github.com/jung-kurt/gofpdf"
)

// PDFSurface writes vector output. Units are points with the origin at the
// top-left, matching the canvas.
type PDFSurface struct {
	pdf  *gofpdf.Fpdf
	w, h float64
}

// NewPDFSurface returns a single-page w by h point document.
func NewPDFSurface(w, h float64) *PDFSurface {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: w, Ht: h},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetLineCapStyle("round")
	pdf.SetLineJoinStyle("round")
	return &PDFSurface{pdf: pdf, w: w, h: h}
}

func (s *PDFSurface) Size() (float64, float64) { return s.w, s.h }

func (s *PDFSurface) alpha(a float64) {
	s.pdf.SetAlpha(math.Max(0, math.Min(1, a)), "Normal")
}

func (s *PDFSurface) Fill(c color.RGBA) {
	s.alpha(1)
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Rect(0, 0, s.w, s.h, "F")
}

func (s *PDFSurface) FillPolygon(rings [][]XY, c color.RGBA, alpha float64) {
	drawn := false
	for _, ring := range rings {
		ring = dedupe(ring, exactlyEqual)
		if len(ring) < 3 {
			continue
		}
		s.pdf.MoveTo(ring[0].X, ring[0].Y)
		for _, p := range ring[1:] {
			s.pdf.LineTo(p.X, p.Y)
		}
		s.pdf.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	s.alpha(alpha)
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.DrawPath("F*")
}

func (s *PDFSurface) Stroke(line []XY, width float64, c color.RGBA, alpha float64) {
	line = dedupe(line, exactlyEqual)
	switch len(line) {
	case 0:
		return
	case 1:
		s.Circle(line[0], width, c, alpha)
		return
	}
	s.alpha(alpha)
	s.pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
	s.pdf.SetLineWidth(width)
	s.pdf.MoveTo(line[0].X, line[0].Y)
	for _, p := range line[1:] {
		s.pdf.LineTo(p.X, p.Y)
	}
	s.pdf.DrawPath("D")
}

func (s *PDFSurface) Circle(center XY, diameter float64, c color.RGBA, alpha float64) {
	if diameter <= 0 {
		return
	}
	s.alpha(alpha)
	s.pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Circle(center.X, center.Y, diameter/2, "F")
}

func (s *PDFSurface) Text(at XY, str string, size float64, c color.RGBA, alpha float64) {
	s.alpha(alpha)
	s.pdf.SetFont("Courier", "B", size)
	s.pdf.SetTextColor(int(c.R), int(c.G), int(c.B))
	s.pdf.Text(at.X, at.Y, str)
}

func (s *PDFSurface) TextWidth(str string, size float64) float64 {
	s.pdf.SetFont("Courier", "B", size)
	return s.pdf.GetStringWidth(str)
}

func (s *PDFSurface) Encode(w io.Writer) error {
	return s.pdf.Output(w)
}
