package style

import (
	"image/color"
	"math"
	"testing"
)

func TestEncodeIntensityColorRamp(t *testing.T) {
	tests := []struct {
		t    float64
		want color.RGBA
	}{
		{0, color.RGBA{80, 30, 255, 255}},
		{0.5, color.RGBA{167, 33, 234, 255}},
		{1, color.RGBA{255, 45, 214, 255}},
		{-3, color.RGBA{80, 30, 255, 255}},
		{7, color.RGBA{255, 45, 214, 255}},
		{math.NaN(), color.RGBA{80, 30, 255, 255}},
	}

	for _, tt := range tests {
		got := EncodeIntensity(tt.t).Color
		if got != tt.want {
			t.Errorf("EncodeIntensity(%v).Color = %v, want %v", tt.t, got, tt.want)
		}
	}
}

func TestEncodeIntensityStrokes(t *testing.T) {
	low, high := EncodeIntensity(0), EncodeIntensity(1)

	if math.Abs(low.Core.Width-0.8) > 1e-9 || math.Abs(low.Core.Alpha-0.5) > 1e-9 {
		t.Errorf("core at t=0 = %+v, want width 0.8 alpha 0.5", low.Core)
	}
	if math.Abs(high.Core.Width-2.3) > 1e-9 || math.Abs(high.Core.Alpha-1) > 1e-9 {
		t.Errorf("core at t=1 = %+v, want width 2.3 alpha 1", high.Core)
	}

	wantHigh := [3]Stroke{{8, 0.06}, {5, 0.12}, {3, 0.2}}
	for i, g := range high.Glow {
		if math.Abs(g.Width-wantHigh[i].Width) > 1e-9 || math.Abs(g.Alpha-wantHigh[i].Alpha) > 1e-9 {
			t.Errorf("glow %d at t=1 = %+v, want %+v", i, g, wantHigh[i])
		}
	}
	for i, g := range low.Glow {
		if math.Abs(g.Width-wantHigh[i].Width*0.3) > 1e-9 || math.Abs(g.Alpha-wantHigh[i].Alpha*0.3) > 1e-9 {
			t.Errorf("glow %d at t=0 = %+v, want 0.3x of %+v", i, g, wantHigh[i])
		}
	}
	for i := 1; i < len(high.Glow); i++ {
		if high.Glow[i].Width >= high.Glow[i-1].Width {
			t.Errorf("glow passes must be widest first: %+v", high.Glow)
		}
	}
}

func TestEncodeIntensityMonotonic(t *testing.T) {
	prev := EncodeIntensity(0)
	for i := 1; i <= 20; i++ {
		cur := EncodeIntensity(float64(i) / 20)
		if cur.Color.R < prev.Color.R || cur.Color.B > prev.Color.B {
			t.Fatalf("color ramp not monotonic at step %d: %v -> %v", i, prev.Color, cur.Color)
		}
		if cur.Core.Width <= prev.Core.Width || cur.Glow[0].Alpha <= prev.Glow[0].Alpha {
			t.Fatalf("strokes not increasing at step %d", i)
		}
		prev = cur
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		count, max int
		want       float64
	}{
		{16, 16, 1},
		{8, 16, 0.5},
		{2, 2, 1},
		{5, 0, 1},
		{20, 10, 1},
	}
	for _, tt := range tests {
		if got := Intensity(tt.count, tt.max); got != tt.want {
			t.Errorf("Intensity(%d, %d) = %v, want %v", tt.count, tt.max, got, tt.want)
		}
	}
}

func TestMarkers(t *testing.T) {
	small, big := DestinationMarker(0), DestinationMarker(1)
	if len(small.Dots) != 2 || len(big.Dots) != 2 {
		t.Fatalf("destination marker should have two dots")
	}
	for i := range small.Dots {
		if big.Dots[i].Size <= small.Dots[i].Size {
			t.Errorf("dot %d does not grow with frequency: %v vs %v", i, small.Dots[i].Size, big.Dots[i].Size)
		}
	}
	if big.Dots[0].Size != 10 || big.Dots[1].Size != 4 {
		t.Errorf("full-intensity dots = %+v", big.Dots)
	}

	home := HomeMarker()
	if len(home.Dots) != 3 {
		t.Fatalf("home marker should have three dots, got %d", len(home.Dots))
	}
	for i := 1; i < len(home.Dots); i++ {
		if home.Dots[i].Size >= home.Dots[i-1].Size {
			t.Errorf("home dots must shrink inward: %+v", home.Dots)
		}
	}
	if home.Label.Color != Home {
		t.Errorf("home label color = %v", home.Label.Color)
	}
}
