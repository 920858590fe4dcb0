// Package style maps route intensity onto colors, stroke widths and marker
// sizes for the dark route map.
package style

import (
	"image/color"
	"math"
)

// Stroke is one pass of a line. Width is in points; Alpha is in [0,1].
type Stroke struct {
	Width float64
	Alpha float64
}

// Style is the complete look of a route at a given intensity.
type Style struct {
	Color color.RGBA
	Core  Stroke
	Glow  [3]Stroke // widest first
}

// Glow pass base widths and alphas, widest first. The alphas stay small so
// overlapping glows from many routes don't saturate.
var (
	glowWidths = [3]float64{8, 5, 3}
	glowAlphas = [3]float64{0.06, 0.12, 0.2}
)

// EncodeIntensity returns the route style for t in [0,1]. Out-of-range t is
// clamped; NaN is treated as 0.
func EncodeIntensity(t float64) Style {
	t = clampUnit(t)

	s := Style{
		Color: color.RGBA{
			R: channel(80 + 175*t),
			G: channel(30 + 15*t*t), // nearly flat, keeps green out of the ramp
			B: channel(120 + 135*(1-0.3*t)),
			A: 255,
		},
		Core: Stroke{Width: 0.8 + 1.5*t, Alpha: 0.5 + 0.5*t},
	}

	glowScale := 0.3 + 0.7*t
	for i := range s.Glow {
		s.Glow[i] = Stroke{Width: glowWidths[i] * glowScale, Alpha: glowAlphas[i] * glowScale}
	}
	return s
}

// Intensity normalises count against the largest count of the run. A
// non-positive max yields 1 so a lone route is drawn at full strength.
func Intensity(count, max int) float64 {
	if max <= 0 {
		return 1
	}
	return clampUnit(float64(count) / float64(max))
}

func clampUnit(t float64) float64 {
	if math.IsNaN(t) || t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// channel truncates v to an 8-bit color channel.
func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
