package style

import "image/color"

// Palette is the fixed dark theme.
var (
	Background = color.RGBA{0x0a, 0x0e, 0x17, 0xff}
	Land       = color.RGBA{0x1a, 0x1f, 0x2e, 0xff}
	Ocean      = color.RGBA{0x0d, 0x13, 0x21, 0xff}
	Coast      = color.RGBA{0x2a, 0x3a, 0x5c, 0xff}
	Border     = color.RGBA{0x1e, 0x2a, 0x45, 0xff}
	Grid       = color.RGBA{0x1e, 0x2a, 0x45, 0xff}
	Marker     = color.RGBA{0x00, 0xf0, 0xff, 0xff}
	Text       = color.RGBA{0xe0, 0xe6, 0xf0, 0xff}
	Home       = color.RGBA{0xff, 0xaa, 0x00, 0xff}
	White      = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Base map line widths in points.
const (
	CoastWidth  = 0.4
	BorderWidth = 0.2
	GridWidth   = 0.3
	GridAlpha   = 0.6
	FrameWidth  = 0.8
	TitleSize   = 16.0
)

// Dot is a filled circle. Size is the diameter in points.
type Dot struct {
	Color color.RGBA
	Size  float64
	Alpha float64
}

// Label is a piece of text anchored at a geographic offset from a marker.
type Label struct {
	Color     color.RGBA
	Size      float64 // points
	Alpha     float64
	OffsetLat float64 // degrees
	OffsetLng float64 // degrees
}

// MarkerStyle is a set of concentric dots, innermost last, plus a label.
type MarkerStyle struct {
	Dots  []Dot
	Label Label
}

// DestinationMarker returns the marker for a destination flown at intensity t.
func DestinationMarker(t float64) MarkerStyle {
	t = clampUnit(t)
	return MarkerStyle{
		Dots: []Dot{
			{Color: Marker, Size: 4 + 6*t, Alpha: 0.3 + 0.4*t},
			{Color: White, Size: 2 + 2*t, Alpha: 1},
		},
		Label: Label{
			Color:     Marker,
			Size:      6 + 2*t,
			Alpha:     0.5 + 0.5*t,
			OffsetLat: -3.5,
			OffsetLng: 1.5,
		},
	}
}

// HomeMarker returns the three-ring home base marker and its label.
func HomeMarker() MarkerStyle {
	return MarkerStyle{
		Dots: []Dot{
			{Color: Home, Size: 22, Alpha: 0.15},
			{Color: Home, Size: 12, Alpha: 0.4},
			{Color: White, Size: 5, Alpha: 1},
		},
		Label: Label{
			Color:     Home,
			Size:      11,
			Alpha:     1,
			OffsetLat: -4.5,
			OffsetLng: 2,
		},
	}
}
