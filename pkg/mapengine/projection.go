package mapengine

import (
	"fmt"
	"math"
	"strings"

	"github.com/sudorandom/routemap/pkg/geodesy"
)

// XY is a position on the canvas in points, y growing downward.
type XY struct {
	X, Y float64
}

// Rect is an axis-aligned canvas region in points.
type Rect struct {
	X, Y, W, H float64
}

// Projection maps geographic coordinates into a map rectangle on the canvas.
type Projection interface {
	Project(p geodesy.Point) XY
	// Outline is the closed boundary of the whole globe, used for the ocean
	// fill and the frame.
	Outline() []XY
}

// Projection names accepted by NewProjection.
const (
	ProjectionEquirectangular = "equirectangular"
	ProjectionMollweide       = "mollweide"
)

// NewProjection returns the named projection fitted into rect.
func NewProjection(name string, rect Rect) (Projection, error) {
	switch strings.ToLower(name) {
	case "", ProjectionEquirectangular, "platecarree":
		return Equirectangular{Rect: rect}, nil
	case ProjectionMollweide:
		return NewMollweide(rect), nil
	default:
		return nil, fmt.Errorf("unknown projection %q", name)
	}
}

// Equirectangular maps longitude and latitude linearly onto the rectangle.
type Equirectangular struct {
	Rect Rect
}

func (e Equirectangular) Project(p geodesy.Point) XY {
	return XY{
		X: e.Rect.X + (p.Lng+180)/360*e.Rect.W,
		Y: e.Rect.Y + (90-p.Lat)/180*e.Rect.H,
	}
}

func (e Equirectangular) Outline() []XY {
	r := e.Rect
	return []XY{{r.X, r.Y}, {r.X + r.W, r.Y}, {r.X + r.W, r.Y + r.H}, {r.X, r.Y + r.H}, {r.X, r.Y}}
}

// Mollweide is the equal-area world projection, centred in its rectangle and
// scaled to the largest ellipse that fits.
type Mollweide struct {
	cx, cy float64
	r      float64
}

func NewMollweide(rect Rect) Mollweide {
	r := math.Min(rect.W/(4*math.Sqrt2), rect.H/(2*math.Sqrt2))
	return Mollweide{cx: rect.X + rect.W/2, cy: rect.Y + rect.H/2, r: r}
}

func (m Mollweide) Project(p geodesy.Point) XY {
	latRad, lngRad := p.Lat*math.Pi/180, p.Lng*math.Pi/180

	var theta float64
	switch {
	case p.Lat >= 90:
		theta = math.Pi / 2
	case p.Lat <= -90:
		theta = -math.Pi / 2
	default:
		theta = latRad
		for i := 0; i < 50; i++ {
			denom := 2 + 2*math.Cos(2*theta)
			if math.Abs(denom) < 1e-9 {
				break
			}
			delta := (2*theta + math.Sin(2*theta) - math.Pi*math.Sin(latRad)) / denom
			theta -= delta
			if math.Abs(delta) < 1e-7 {
				break
			}
		}
	}

	return XY{
		X: m.cx + m.r*(2*math.Sqrt2/math.Pi)*lngRad*math.Cos(theta),
		Y: m.cy - m.r*math.Sqrt2*math.Sin(theta),
	}
}

func (m Mollweide) Outline() []XY {
	const steps = 90
	ring := make([]XY, 0, 2*steps+3)
	for i := 0; i <= steps; i++ {
		lat := 90 - 180*float64(i)/steps
		ring = append(ring, m.Project(geodesy.Point{Lat: lat, Lng: 180}))
	}
	for i := 0; i <= steps; i++ {
		lat := -90 + 180*float64(i)/steps
		ring = append(ring, m.Project(geodesy.Point{Lat: lat, Lng: -180}))
	}
	return append(ring, ring[0])
}

// projectLine projects a geographic polyline, splitting it where it crosses
// the antimeridian so no segment spans the whole map.
func projectLine(proj Projection, points []geodesy.Point) [][]XY {
	var out [][]XY
	for _, part := range geodesy.SplitAntimeridian(points) {
		if len(part) < 2 {
			continue
		}
		line := make([]XY, len(part))
		for i, p := range part {
			line[i] = proj.Project(p)
		}
		out = append(out, line)
	}
	return out
}

// projectRing projects a polygon ring without splitting.
func projectRing(proj Projection, ring []geodesy.Point) []XY {
	out := make([]XY, len(ring))
	for i, p := range ring {
		out[i] = proj.Project(p)
	}
	return out
}
