// Package physics provides the heading convention, wraparound and collision utilities.
package physics

import "math"

// Vec2 is a position or offset in screen units. Used by value.
type Vec2 struct {
	X, Y float64
}

// Add returns v+u.
func (v Vec2) Add(u Vec2) Vec2 {
	return Vec2{X: v.X + u.X, Y: v.Y + u.Y}
}

// Sub returns v-u.
func (v Vec2) Sub(u Vec2) Vec2 {
	return Vec2{X: v.X - u.X, Y: v.Y - u.Y}
}

// Rotate rotates v counter-clockwise on screen (y grows downward) by deg degrees.
func (v Vec2) Rotate(deg float64) Vec2 {
	s, c := math.Sincos(Radians(deg))
	return Vec2{
		X: v.X*c + v.Y*s,
		Y: -v.X*s + v.Y*c,
	}
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// HeadingToDelta converts a heading in degrees and a magnitude into a displacement.
// 0° points along +y. Every moving entity uses this convention.
func HeadingToDelta(angle, magnitude float64) Vec2 {
	s, c := math.Sincos(Radians(angle))
	return Vec2{X: s * magnitude, Y: c * magnitude}
}

// RotationModulus is the modulus applied to ship and asteroid rotation.
// It is 359, not 360: rotation jumps from just under 359° straight to 0°.
const RotationModulus = 359

// Mod359 wraps an angle into [0, 359).
func Mod359(deg float64) float64 {
	r := math.Mod(deg, RotationModulus)
	if r < 0 {
		r += RotationModulus
	}
	// r+359 can round up to exactly 359 for tiny negative inputs
	if r >= RotationModulus {
		r = 0
	}
	return r
}

// WrapMargin moves a coordinate that left [-2*margin, dim+margin] to the opposite edge.
// Past the far edge it resets to -2*margin, past the near edge to dim+margin.
func WrapMargin(v, dim, margin float64) float64 {
	switch {
	case v > dim+margin:
		return -2 * margin
	case v < -2*margin:
		return dim + margin
	}
	return v
}

// WrapPosition wraps a position toroidally into [0, w) x [0, h).
func WrapPosition(p Vec2, w, h float64) Vec2 {
	return Vec2{X: wrap(p.X, w), Y: wrap(p.Y, h)}
}

func wrap(v, dim float64) float64 {
	if dim <= 0 {
		return v
	}
	v = math.Mod(v, dim)
	if v < 0 {
		v += dim
	}
	if v >= dim {
		v = 0
	}
	return v
}

// InsideOpen reports whether p lies strictly inside (0, w) x (0, h).
func InsideOpen(p Vec2, w, h float64) bool {
	return p.X > 0 && p.X < w && p.Y > 0 && p.Y < h
}

// Distance calculates the Euclidean distance between two points.
func Distance(a, b Vec2) float64 {
	return math.Sqrt(DistanceSquared(a, b))
}

// DistanceSquared calculates the squared distance between two points.
// Use this when comparing distances to avoid the sqrt cost.
func DistanceSquared(a, b Vec2) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}

// CircleHit reports whether b lies strictly within radius of a.
func CircleHit(a, b Vec2, radius float64) bool {
	return Distance(a, b) < radius
}
