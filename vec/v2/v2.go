// Package v2 implements 2D vector arithmetic used throughout the kernel:
// sketch coordinates, UV surface parameters, and planar boolean geometry.
package v2

import "math"

// Vec is a 2D vector/point.
type Vec struct {
	X, Y float64
}

// Add returns a + b.
func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y} }

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y} }

// MulScalar returns a * s.
func (a Vec) MulScalar(s float64) Vec { return Vec{a.X * s, a.Y * s} }

// Dot returns the dot product a·b.
func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y }

// Cross returns the scalar 2D cross product a×b.
func (a Vec) Cross(b Vec) float64 { return a.X*b.Y - a.Y*b.X }

// Length returns |a|.
func (a Vec) Length() float64 { return math.Hypot(a.X, a.Y) }

// Length2 returns |a|^2.
func (a Vec) Length2() float64 { return a.X*a.X + a.Y*a.Y }

// Normalize returns a unit vector in the direction of a, or the zero
// vector if a has exactly zero length.
func (a Vec) Normalize() Vec {
	l := a.Length()
	if l == 0 {
		return Vec{}
	}
	return Vec{a.X / l, a.Y / l}
}

// Distance returns |a - b|.
func (a Vec) Distance(b Vec) float64 { return a.Sub(b).Length() }

// Lerp returns the point t of the way from a to b.
func (a Vec) Lerp(b Vec, t float64) Vec {
	return Vec{a.X + (b.X-a.X)*t, a.Y + (b.Y-a.Y)*t}
}

// Perp returns a rotated 90 degrees counter-clockwise.
func (a Vec) Perp() Vec { return Vec{-a.Y, a.X} }

// Equals reports whether a and b differ by no more than tol in each
// component.
func (a Vec) Equals(b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol
}

// Box is an axis-aligned 2D bounding box.
type Box struct {
	Min, Max Vec
}

// NewBox returns the smallest box containing a and b.
func NewBox(a, b Vec) Box {
	return Box{
		Min: Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y)},
		Max: Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y)},
	}
}

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p Vec) Box {
	return Box{
		Min: Vec{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)},
		Max: Vec{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)},
	}
}

// Union returns the smallest box containing both a and b.
func (a Box) Union(b Box) Box {
	return Box{
		Min: Vec{math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y)},
		Max: Vec{math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y)},
	}
}

// Overlaps reports whether a and b share any area (touching counts).
func (a Box) Overlaps(b Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y
}

// Contains reports whether p lies within the box (inclusive).
func (b Box) Contains(p Vec) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
