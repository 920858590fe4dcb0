// Package geodesy computes great-circle paths on the unit sphere.
package geodesy

import (
	"fmt"
	"iter"
	"math"
)

// DefaultSamples is the number of points produced for an arc when the caller
// has no preference.
const DefaultSamples = 100

// coincidentEpsilon is the angular separation (radians) below which two
// points are treated as the same location.
const coincidentEpsilon = 1e-10

// antipodalEpsilon is how close to pi (radians) a separation must be for the
// endpoints to be treated as antipodal.
const antipodalEpsilon = 1e-6

// Point is a geographic location in decimal degrees.
type Point struct {
	Lat, Lng float64
}

func (p Point) String() string {
	return fmt.Sprintf("(%.4f, %.4f)", p.Lat, p.Lng)
}

// Valid reports whether the point lies within the usual latitude and
// longitude ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Vec3 is a point on (or near) the unit sphere.
type Vec3 struct {
	X, Y, Z float64
}

// Dot returns the dot product of two vectors.
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns v × other.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Norm returns the Euclidean norm of the vector.
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Scale returns v multiplied by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z}
}

// ToVec3 converts a geographic point to a unit vector.
func ToVec3(p Point) Vec3 {
	lat, lng := p.Lat*math.Pi/180, p.Lng*math.Pi/180
	return Vec3{
		X: math.Cos(lat) * math.Cos(lng),
		Y: math.Cos(lat) * math.Sin(lng),
		Z: math.Sin(lat),
	}
}

// FromVec3 converts a vector back to latitude and longitude. The vector does
// not need to be normalised.
func FromVec3(v Vec3) Point {
	lat := math.Atan2(v.Z, math.Sqrt(v.X*v.X+v.Y*v.Y))
	lng := math.Atan2(v.Y, v.X)
	return Point{Lat: lat * 180 / math.Pi, Lng: lng * 180 / math.Pi}
}

// AngularDistance returns the central angle between two points in radians.
func AngularDistance(p1, p2 Point) float64 {
	return math.Acos(clamp(ToVec3(p1).Dot(ToVec3(p2)), -1, 1))
}

// GreatCircleArc returns the shortest spherical path from p1 to p2 sampled at
// samples evenly spaced fractions, both endpoints included. Each call builds
// a new sequence; nothing is computed until it is ranged over.
func GreatCircleArc(p1, p2 Point, samples int) iter.Seq[Point] {
	return func(yield func(Point) bool) {
		if samples <= 0 {
			return
		}
		if samples == 1 {
			yield(p1)
			return
		}

		v1, v2 := ToVec3(p1), ToVec3(p2)
		d := math.Acos(clamp(v1.Dot(v2), -1, 1))

		// Coincident points: sin(d) is zero, repeat the single point.
		if d < coincidentEpsilon {
			for i := 0; i < samples; i++ {
				if !yield(p1) {
					return
				}
			}
			return
		}

		interpolate := slerp(v1, v2, d)
		last := samples - 1
		for i := 0; i < samples; i++ {
			var p Point
			switch i {
			case 0:
				p = p1
			case last:
				p = p2
			default:
				p = FromVec3(interpolate(float64(i) / float64(last)))
			}
			if !yield(p) {
				return
			}
		}
	}
}

// ArcPoints collects GreatCircleArc into a slice.
func ArcPoints(p1, p2 Point, samples int) []Point {
	if samples <= 0 {
		return nil
	}
	points := make([]Point, 0, samples)
	for p := range GreatCircleArc(p1, p2, samples) {
		points = append(points, p)
	}
	return points
}

// slerp returns the interpolation function between two unit vectors that are
// d radians apart, with d > 0.
func slerp(v1, v2 Vec3, d float64) func(f float64) Vec3 {
	sinD := math.Sin(d)

	// Antipodal points: every great circle through v1 reaches v2, and
	// sin(d) is too close to zero to divide by. Rounding alone leaves acos
	// around 1e-8 short of pi, so the window is wider than that.
	// Rotate through a fixed perpendicular axis instead.
	if math.Pi-d < antipodalEpsilon {
		axis := perpendicular(v1)
		return func(f float64) Vec3 {
			theta := f * d
			return v1.Scale(math.Cos(theta)).Add(axis.Scale(math.Sin(theta)))
		}
	}

	return func(f float64) Vec3 {
		a := math.Sin((1-f)*d) / sinD
		b := math.Sin(f*d) / sinD
		return v1.Scale(a).Add(v2.Scale(b))
	}
}

// perpendicular returns a unit vector orthogonal to v, preferring the one
// that heads towards the north pole.
func perpendicular(v Vec3) Vec3 {
	ref := Vec3{Z: 1}
	if math.Abs(v.Z) > 0.9 {
		ref = Vec3{X: 1}
	}
	// (v × ref) × v lies in the plane of v and ref, orthogonal to v.
	u := v.Cross(ref).Cross(v)
	return u.Scale(1 / u.Norm())
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
