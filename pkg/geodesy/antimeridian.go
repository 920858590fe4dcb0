package geodesy

import "math"

// SplitAntimeridian breaks a polyline wherever consecutive points jump more
// than 180 degrees of longitude. Each break is closed off with an
// interpolated point on ±180 so the pieces meet the map edge.
func SplitAntimeridian(points []Point) [][]Point {
	if len(points) == 0 {
		return nil
	}

	var parts [][]Point
	current := []Point{points[0]}
	for i := 1; i < len(points); i++ {
		prev, next := points[i-1], points[i]
		delta := next.Lng - prev.Lng
		if math.Abs(delta) <= 180 {
			current = append(current, next)
			continue
		}

		// Unwrap next so the segment is continuous, then find where it
		// crosses the edge prev is closest to.
		edge := 180.0
		unwrapped := next.Lng + 360
		if delta > 0 {
			edge = -180.0
			unwrapped = next.Lng - 360
		}
		f := (edge - prev.Lng) / (unwrapped - prev.Lng)
		crossLat := prev.Lat + f*(next.Lat-prev.Lat)

		current = append(current, Point{Lat: crossLat, Lng: edge})
		parts = append(parts, current)
		current = []Point{{Lat: crossLat, Lng: -edge}, next}
	}
	return append(parts, current)
}
