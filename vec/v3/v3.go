// Package v3 implements 3D vector and affine-transform arithmetic shared
// by the topology, geometry, modeling and mesh packages.
package v3

import "math"

// Vec is a 3D vector/point.
type Vec struct {
	X, Y, Z float64
}

// Add returns a + b.
func (a Vec) Add(b Vec) Vec { return Vec{a.X + b.X, a.Y + b.Y, a.Z + b.Z} }

// Sub returns a - b.
func (a Vec) Sub(b Vec) Vec { return Vec{a.X - b.X, a.Y - b.Y, a.Z - b.Z} }

// MulScalar returns a * s.
func (a Vec) MulScalar(s float64) Vec { return Vec{a.X * s, a.Y * s, a.Z * s} }

// DivScalar returns a / s.
func (a Vec) DivScalar(s float64) Vec { return Vec{a.X / s, a.Y / s, a.Z / s} }

// Dot returns the dot product a·b.
func (a Vec) Dot(b Vec) float64 { return a.X*b.X + a.Y*b.Y + a.Z*b.Z }

// Cross returns the 3D cross product a×b.
func (a Vec) Cross(b Vec) Vec {
	return Vec{
		a.Y*b.Z - a.Z*b.Y,
		a.Z*b.X - a.X*b.Z,
		a.X*b.Y - a.Y*b.X,
	}
}

// Length returns |a|.
func (a Vec) Length() float64 { return math.Sqrt(a.Dot(a)) }

// Length2 returns |a|^2.
func (a Vec) Length2() float64 { return a.Dot(a) }

// Normalize returns a unit vector in the direction of a, or the zero
// vector for an input of exactly zero length.
func (a Vec) Normalize() Vec {
	l := a.Length()
	if l == 0 {
		return Vec{}
	}
	return a.DivScalar(l)
}

// Distance returns |a - b|.
func (a Vec) Distance(b Vec) float64 { return a.Sub(b).Length() }

// Lerp returns the point t of the way from a to b.
func (a Vec) Lerp(b Vec, t float64) Vec {
	return Vec{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
	}
}

// Equals reports whether a and b differ by no more than tol in each
// component.
func (a Vec) Equals(b Vec, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol && math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// MaxComponent returns the largest of X, Y, Z.
func (a Vec) MaxComponent() float64 { return math.Max(a.X, math.Max(a.Y, a.Z)) }

// Box is an axis-aligned 3D bounding box.
type Box struct {
	Min, Max Vec
}

// NewBox returns the smallest box containing a and b.
func NewBox(a, b Vec) Box {
	return Box{
		Min: Vec{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)},
		Max: Vec{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)},
	}
}

// Center returns the box's midpoint.
func (b Box) Center() Vec { return b.Min.Lerp(b.Max, 0.5) }

// Size returns the box's extent per axis.
func (b Box) Size() Vec { return b.Max.Sub(b.Min) }

// Union returns the smallest box containing both a and b.
func (a Box) Union(b Box) Box {
	return Box{
		Min: Vec{math.Min(a.Min.X, b.Min.X), math.Min(a.Min.Y, b.Min.Y), math.Min(a.Min.Z, b.Min.Z)},
		Max: Vec{math.Max(a.Max.X, b.Max.X), math.Max(a.Max.Y, b.Max.Y), math.Max(a.Max.Z, b.Max.Z)},
	}
}

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p Vec) Box {
	return Box{
		Min: Vec{math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y), math.Min(b.Min.Z, p.Z)},
		Max: Vec{math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y), math.Max(b.Max.Z, p.Z)},
	}
}

// Overlaps reports whether a and b share any volume (touching counts).
func (a Box) Overlaps(b Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// Pad returns the box grown by d on every side, used to give boolean
// candidate-pair queries a tolerance margin.
func (b Box) Pad(d float64) Box {
	pad := Vec{d, d, d}
	return Box{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Mat is a 4x4 row-major affine transform matrix.
type Mat [16]float64

// Identity returns the identity transform.
func Identity() Mat {
	return Mat{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate returns a translation transform.
func Translate(d Vec) Mat {
	m := Identity()
	m[3], m[7], m[11] = d.X, d.Y, d.Z
	return m
}

// MulVec applies m to point p (treating p as having an implicit w=1).
func (m Mat) MulVec(p Vec) Vec {
	return Vec{
		m[0]*p.X + m[1]*p.Y + m[2]*p.Z + m[3],
		m[4]*p.X + m[5]*p.Y + m[6]*p.Z + m[7],
		m[8]*p.X + m[9]*p.Y + m[10]*p.Z + m[11],
	}
}

// MulDir applies the linear (rotational) part of m to direction d,
// ignoring translation.
func (m Mat) MulDir(d Vec) Vec {
	return Vec{
		m[0]*d.X + m[1]*d.Y + m[2]*d.Z,
		m[4]*d.X + m[5]*d.Y + m[6]*d.Z,
		m[8]*d.X + m[9]*d.Y + m[10]*d.Z,
	}
}

// Mul returns a*b (a applied after b).
func (a Mat) Mul(b Mat) Mat {
	var r Mat
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[i*4+k] * b[k*4+j]
			}
			r[i*4+j] = sum
		}
	}
	return r
}

// RotateAxis returns the rotation of angle radians about unit axis,
// via Rodrigues' rotation formula (used by revolve, spec §4.5).
func RotateAxis(axis Vec, angle float64) Mat {
	a := axis.Normalize()
	s, c := math.Sin(angle), math.Cos(angle)
	t := 1 - c
	x, y, z := a.X, a.Y, a.Z
	return Mat{
		t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0,
		t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0,
		t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}
