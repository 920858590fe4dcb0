package mapengine

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"sort"

	"github.com/golang/freetype/raster"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// RasterSurface draws into an RGBA image at a fixed resolution.
type RasterSurface struct {
	img     *image.RGBA
	w, h    float64 // points
	dpi     float64
	scale   float64 // pixels per point
	rast    *raster.Rasterizer
	painter *raster.RGBAPainter
	font    *truetype.Font
	faces   map[float64]font.Face
}

// NewRasterSurface returns a w by h point surface rendered at dpi.
func NewRasterSurface(w, h, dpi float64) (*RasterSurface, error) {
	if w <= 0 || h <= 0 || dpi <= 0 {
		return nil, fmt.Errorf("invalid raster size %gx%gpt at %g dpi", w, h, dpi)
	}
	f, err := loadBoldFont()
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	scale := dpi / 72
	pw, ph := int(math.Round(w*scale)), int(math.Round(h*scale))
	img := image.NewRGBA(image.Rect(0, 0, pw, ph))
	return &RasterSurface{
		img:     img,
		w:       w,
		h:       h,
		dpi:     dpi,
		scale:   scale,
		rast:    raster.NewRasterizer(pw, ph),
		painter: raster.NewRGBAPainter(img),
		font:    f,
		faces:   make(map[float64]font.Face),
	}, nil
}

func (s *RasterSurface) Size() (float64, float64) { return s.w, s.h }

func (s *RasterSurface) Fill(c color.RGBA) {
	draw.Draw(s.img, s.img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
}

func (s *RasterSurface) px(p XY) (float64, float64) {
	return p.X * s.scale, p.Y * s.scale
}

func (s *RasterSurface) fix(p XY) fixed.Point26_6 {
	x, y := s.px(p)
	return fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))}
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	if alpha < 0 {
		alpha = 0
	}
	if alpha > 1 {
		alpha = 1
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * float64(c.A)))}
}

// FillPolygon scans each pixel row for ring crossings and fills between
// pairs of them.
func (s *RasterSurface) FillPolygon(rings [][]XY, c color.RGBA, alpha float64) {
	if len(rings) == 0 {
		return
	}
	width, height := s.img.Bounds().Dx(), s.img.Bounds().Dy()
	type point struct{ x, y float64 }
	projectedRings := make([][]point, len(rings))
	minY, maxY := float64(height), 0.0
	for i, ring := range rings {
		projectedRings[i] = make([]point, len(ring))
		for j, p := range ring {
			x, y := s.px(p)
			projectedRings[i][j] = point{x, y}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}

	src := withAlpha(c, alpha)
	var nodes []int
	for y := int(minY); y <= int(maxY); y++ {
		if y < 0 || y >= height {
			continue
		}
		nodes = nodes[:0]
		fy := float64(y) + 0.5 // sample pixel centres
		for _, ring := range projectedRings {
			for i := 0; i < len(ring); i++ {
				j := (i + 1) % len(ring)
				if (ring[i].y < fy && ring[j].y >= fy) || (ring[j].y < fy && ring[i].y >= fy) {
					nodeX := ring[i].x + (fy-ring[i].y)/(ring[j].y-ring[i].y)*(ring[j].x-ring[i].x)
					nodes = append(nodes, int(math.Round(nodeX)))
				}
			}
		}
		sort.Ints(nodes)
		for i := 0; i < len(nodes)-1; i += 2 {
			xs, xe := nodes[i], nodes[i+1]
			if xs < 0 {
				xs = 0
			}
			if xe > width {
				xe = width
			}
			for x := xs; x < xe; x++ {
				s.blend(x, y, src)
			}
		}
	}
}

// blend composites c over the pixel at (x, y).
func (s *RasterSurface) blend(x, y int, c color.NRGBA) {
	off := y*s.img.Stride + x*4
	pix := s.img.Pix[off : off+4 : off+4]
	if c.A == 255 {
		pix[0], pix[1], pix[2], pix[3] = c.R, c.G, c.B, 255
		return
	}
	a := uint32(c.A)
	inv := 255 - a
	pix[0] = uint8((uint32(c.R)*a + uint32(pix[0])*inv) / 255)
	pix[1] = uint8((uint32(c.G)*a + uint32(pix[1])*inv) / 255)
	pix[2] = uint8((uint32(c.B)*a + uint32(pix[2])*inv) / 255)
	pix[3] = uint8(a + uint32(pix[3])*inv/255)
}

func (s *RasterSurface) Stroke(line []XY, width float64, c color.RGBA, alpha float64) {
	line = dedupe(line, func(a, b XY) bool { return s.fix(a) == s.fix(b) })
	switch len(line) {
	case 0:
		return
	case 1:
		// A zero-length stroke with round caps is a dot.
		s.Circle(line[0], width, c, alpha)
		return
	}

	var path raster.Path
	path.Start(s.fix(line[0]))
	for _, p := range line[1:] {
		path.Add1(s.fix(p))
	}

	s.rast.Clear()
	s.rast.UseNonZeroWinding = true
	raster.Stroke(s.rast, path, fixed.Int26_6(math.Round(width*s.scale*64)), raster.RoundCapper, raster.RoundJoiner)
	s.painter.SetColor(withAlpha(c, alpha))
	s.rast.Rasterize(s.painter)
}

func (s *RasterSurface) Circle(center XY, diameter float64, c color.RGBA, alpha float64) {
	if diameter <= 0 {
		return
	}
	const segments = 48
	cx, cy := s.px(center)
	r := diameter / 2 * s.scale
	pt := func(i int) fixed.Point26_6 {
		a := 2 * math.Pi * float64(i) / segments
		return fixed.Point26_6{
			X: fixed.Int26_6(math.Round((cx + r*math.Cos(a)) * 64)),
			Y: fixed.Int26_6(math.Round((cy + r*math.Sin(a)) * 64)),
		}
	}

	s.rast.Clear()
	s.rast.UseNonZeroWinding = true
	s.rast.Start(pt(0))
	for i := 1; i <= segments; i++ {
		s.rast.Add1(pt(i % segments))
	}
	s.painter.SetColor(withAlpha(c, alpha))
	s.rast.Rasterize(s.painter)
}

func (s *RasterSurface) face(size float64) font.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	f := truetype.NewFace(s.font, &truetype.Options{
		Size:    size,
		DPI:     s.dpi,
		Hinting: font.HintingFull,
	})
	s.faces[size] = f
	return f
}

func (s *RasterSurface) Text(at XY, str string, size float64, c color.RGBA, alpha float64) {
	x, y := s.px(at)
	d := &font.Drawer{
		Dst:  s.img,
		Src:  image.NewUniform(withAlpha(c, alpha)),
		Face: s.face(size),
		Dot:  fixed.Point26_6{X: fixed.Int26_6(math.Round(x * 64)), Y: fixed.Int26_6(math.Round(y * 64))},
	}
	d.DrawString(str)
}

func (s *RasterSurface) TextWidth(str string, size float64) float64 {
	adv := font.MeasureString(s.face(size), str)
	return float64(adv) / 64 / s.scale
}

func (s *RasterSurface) Encode(w io.Writer) error {
	return png.Encode(w, s.img)
}
