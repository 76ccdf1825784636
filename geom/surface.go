package geom

import (
	"math"

	v3 "github.com/solidtype/kernel/vec/v3"
)

// SurfaceKind tags the analytic surface variant (spec §3 "Surfaces").
type SurfaceKind int

const (
	// SurfacePlane is an infinite plane.
	SurfacePlane SurfaceKind = iota
	// SurfaceCylinder is an infinite circular cylinder.
	SurfaceCylinder
	// SurfaceCone is an infinite circular cone.
	SurfaceCone
	// SurfaceSphere is a sphere.
	SurfaceSphere
	// SurfaceTorus is a torus.
	SurfaceTorus
)

func (k SurfaceKind) String() string {
	switch k {
	case SurfacePlane:
		return "plane"
	case SurfaceCylinder:
		return "cylinder"
	case SurfaceCone:
		return "cone"
	case SurfaceSphere:
		return "sphere"
	case SurfaceTorus:
		return "torus"
	default:
		return "unknown"
	}
}

// Surface is an analytic surface evaluated over (u,v) (spec §3).
type Surface interface {
	Kind() SurfaceKind
	Eval(u, v float64) v3.Vec
	NormalAt(u, v float64) v3.Vec
	// Inverse returns (u,v) for a 3D point known to lie on the surface.
	// For periodic surfaces the returned value may be unwrapped (outside
	// the canonical range) — see spec §4.2.
	Inverse(p v3.Vec) (u, v float64)
}

// Plane is an infinite plane through Origin with unit Normal, plus an
// in-plane (XDir, YDir) orthonormal basis defining the (u,v) axes.
type Plane struct {
	Origin, Normal, XDir, YDir v3.Vec
}

// NewPlane builds a Plane with an orthonormal basis derived from normal
// and a preferred x-axis hint.
func NewPlane(origin, normal, xHint v3.Vec) Plane {
	n := normal.Normalize()
	x := xHint.Sub(n.MulScalar(xHint.Dot(n)))
	if x.Length() < 1e-9 {
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(n.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		x = n.Cross(ref)
	}
	x = x.Normalize()
	y := n.Cross(x).Normalize()
	return Plane{Origin: origin, Normal: n, XDir: x, YDir: y}
}

// Kind implements Surface.
func (p Plane) Kind() SurfaceKind { return SurfacePlane }

// Eval implements Surface; canonical range is all of R^2.
func (p Plane) Eval(u, v float64) v3.Vec {
	return p.Origin.Add(p.XDir.MulScalar(u)).Add(p.YDir.MulScalar(v))
}

// NormalAt implements Surface; constant over the plane.
func (p Plane) NormalAt(u, v float64) v3.Vec { return p.Normal }

// Inverse implements Surface.
func (p Plane) Inverse(pt v3.Vec) (float64, float64) {
	d := pt.Sub(p.Origin)
	return d.Dot(p.XDir), d.Dot(p.YDir)
}

// Cylinder is an infinite circular cylinder with the given axis Origin,
// unit Axis direction, and Radius. u is the axial coordinate (R), v is the
// angle around the axis in [0, 2*pi).
type Cylinder struct {
	Origin, Axis v3.Vec
	Radius       float64
	XDir         v3.Vec // reference direction for v=0
}

// Kind implements Surface.
func (c Cylinder) Kind() SurfaceKind { return SurfaceCylinder }

func (c Cylinder) basis() (axis, x, y v3.Vec) {
	axis = c.Axis.Normalize()
	x = c.XDir
	if x.Length() < 1e-9 {
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(axis.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		x = axis.Cross(ref)
	}
	x = x.Sub(axis.MulScalar(x.Dot(axis))).Normalize()
	y = axis.Cross(x).Normalize()
	return axis, x, y
}

// Eval implements Surface.
func (c Cylinder) Eval(u, v float64) v3.Vec {
	axis, x, y := c.basis()
	radial := x.MulScalar(c.Radius * math.Cos(v)).Add(y.MulScalar(c.Radius * math.Sin(v)))
	return c.Origin.Add(axis.MulScalar(u)).Add(radial)
}

// NormalAt implements Surface.
func (c Cylinder) NormalAt(u, v float64) v3.Vec {
	_, x, y := c.basis()
	return x.MulScalar(math.Cos(v)).Add(y.MulScalar(math.Sin(v))).Normalize()
}

// Inverse implements Surface; v may be returned unwrapped by callers that
// track a running angle across a loop traversal (spec §4.2).
func (c Cylinder) Inverse(p v3.Vec) (float64, float64) {
	axis, x, y := c.basis()
	d := p.Sub(c.Origin)
	u := d.Dot(axis)
	radial := d.Sub(axis.MulScalar(u))
	v := math.Atan2(radial.Dot(y), radial.Dot(x))
	if v < 0 {
		v += 2 * math.Pi
	}
	return u, v
}

// Cone is an infinite circular cone with Apex, unit Axis direction
// (pointing from apex into the cone), and HalfAngle in radians. u >= 0 is
// the distance along the axis from the apex, v in [0, 2*pi) is the angle.
type Cone struct {
	Apex, Axis v3.Vec
	HalfAngle  float64
	XDir       v3.Vec
}

// Kind implements Surface.
func (c Cone) Kind() SurfaceKind { return SurfaceCone }

func (c Cone) basis() (axis, x, y v3.Vec) {
	axis = c.Axis.Normalize()
	x = c.XDir
	if x.Length() < 1e-9 {
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(axis.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		x = axis.Cross(ref)
	}
	x = x.Sub(axis.MulScalar(x.Dot(axis))).Normalize()
	y = axis.Cross(x).Normalize()
	return axis, x, y
}

// Eval implements Surface.
func (c Cone) Eval(u, v float64) v3.Vec {
	axis, x, y := c.basis()
	r := u * math.Tan(c.HalfAngle)
	radial := x.MulScalar(r * math.Cos(v)).Add(y.MulScalar(r * math.Sin(v)))
	return c.Apex.Add(axis.MulScalar(u)).Add(radial)
}

// NormalAt implements Surface.
func (c Cone) NormalAt(u, v float64) v3.Vec {
	axis, x, y := c.basis()
	alpha := c.HalfAngle
	radial := x.MulScalar(math.Cos(v)).Add(y.MulScalar(math.Sin(v)))
	n := radial.MulScalar(math.Cos(alpha)).Sub(axis.MulScalar(math.Sin(alpha)))
	return n.Normalize()
}

// Inverse implements Surface.
func (c Cone) Inverse(p v3.Vec) (float64, float64) {
	axis, x, y := c.basis()
	d := p.Sub(c.Apex)
	u := d.Dot(axis)
	radial := d.Sub(axis.MulScalar(u))
	v := math.Atan2(radial.Dot(y), radial.Dot(x))
	if v < 0 {
		v += 2 * math.Pi
	}
	return u, v
}

// Sphere is a sphere of Radius centered at Center. u in [0,pi] is the
// polar angle from the north pole along Axis, v in [0,2*pi) is azimuth.
type Sphere struct {
	Center v3.Vec
	Radius float64
	Axis   v3.Vec // polar axis; defaults to +Z if zero
	XDir   v3.Vec
}

// Kind implements Surface.
func (s Sphere) Kind() SurfaceKind { return SurfaceSphere }

func (s Sphere) basis() (axis, x, y v3.Vec) {
	axis = s.Axis
	if axis.Length() < 1e-9 {
		axis = v3.Vec{X: 0, Y: 0, Z: 1}
	}
	axis = axis.Normalize()
	x = s.XDir
	if x.Length() < 1e-9 {
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(axis.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		x = axis.Cross(ref)
	}
	x = x.Sub(axis.MulScalar(x.Dot(axis))).Normalize()
	y = axis.Cross(x).Normalize()
	return axis, x, y
}

// Eval implements Surface.
func (s Sphere) Eval(u, v float64) v3.Vec {
	axis, x, y := s.basis()
	radial := x.MulScalar(math.Cos(v)).Add(y.MulScalar(math.Sin(v))).MulScalar(math.Sin(u))
	return s.Center.Add(axis.MulScalar(s.Radius * math.Cos(u))).Add(radial.MulScalar(s.Radius))
}

// NormalAt implements Surface.
func (s Sphere) NormalAt(u, v float64) v3.Vec {
	return s.Eval(u, v).Sub(s.Center).Normalize()
}

// Inverse implements Surface.
func (s Sphere) Inverse(p v3.Vec) (float64, float64) {
	axis, x, y := s.basis()
	d := p.Sub(s.Center).Normalize()
	u := math.Acos(clampUnit(d.Dot(axis)))
	radial := d.Sub(axis.MulScalar(d.Dot(axis)))
	v := math.Atan2(radial.Dot(y), radial.Dot(x))
	if v < 0 {
		v += 2 * math.Pi
	}
	return u, v
}

func clampUnit(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Torus is a torus with Center, unit Axis (through the hole), MajorRadius
// (center of tube to center of torus) and MinorRadius (tube radius).
// u, v in [0, 2*pi).
type Torus struct {
	Center             v3.Vec
	Axis               v3.Vec
	MajorRadius, MinorRadius float64
	XDir               v3.Vec
}

// Kind implements Surface.
func (t Torus) Kind() SurfaceKind { return SurfaceTorus }

func (t Torus) basis() (axis, x, y v3.Vec) {
	axis = t.Axis
	if axis.Length() < 1e-9 {
		axis = v3.Vec{X: 0, Y: 0, Z: 1}
	}
	axis = axis.Normalize()
	x = t.XDir
	if x.Length() < 1e-9 {
		ref := v3.Vec{X: 1, Y: 0, Z: 0}
		if math.Abs(axis.Dot(ref)) > 0.9 {
			ref = v3.Vec{X: 0, Y: 1, Z: 0}
		}
		x = axis.Cross(ref)
	}
	x = x.Sub(axis.MulScalar(x.Dot(axis))).Normalize()
	y = axis.Cross(x).Normalize()
	return axis, x, y
}

// Eval implements Surface: u sweeps the major (tube-center) circle, v
// sweeps the minor (tube) circle.
func (t Torus) Eval(u, v float64) v3.Vec {
	axis, x, y := t.basis()
	ringCenter := x.MulScalar(t.MajorRadius * math.Cos(u)).Add(y.MulScalar(t.MajorRadius * math.Sin(u)))
	radialDir := x.MulScalar(math.Cos(u)).Add(y.MulScalar(math.Sin(u)))
	tube := radialDir.MulScalar(t.MinorRadius * math.Cos(v)).Add(axis.MulScalar(t.MinorRadius * math.Sin(v)))
	return t.Center.Add(ringCenter).Add(tube)
}

// NormalAt implements Surface.
func (t Torus) NormalAt(u, v float64) v3.Vec {
	axis, x, y := t.basis()
	radialDir := x.MulScalar(math.Cos(u)).Add(y.MulScalar(math.Sin(u)))
	return radialDir.MulScalar(math.Cos(v)).Add(axis.MulScalar(math.Sin(v))).Normalize()
}

// Inverse implements Surface.
func (t Torus) Inverse(p v3.Vec) (float64, float64) {
	axis, x, y := t.basis()
	d := p.Sub(t.Center)
	axialComp := d.Dot(axis)
	radial := d.Sub(axis.MulScalar(axialComp))
	u := math.Atan2(radial.Dot(y), radial.Dot(x))
	if u < 0 {
		u += 2 * math.Pi
	}
	ringCenter := radial.Normalize().MulScalar(t.MajorRadius)
	tubeVec := d.Sub(ringCenter)
	radialTube := tubeVec.Dot(radial.Normalize())
	v := math.Atan2(axialComp, radialTube)
	if v < 0 {
		v += 2 * math.Pi
	}
	return u, v
}

// UnwrapLoopAngles reduces each consecutive v-difference into (-pi, pi]
// before emission, so a loop traversal of a periodic surface does not
// jump across the seam (spec §4.2 "reference unwrapping rule").
func UnwrapLoopAngles(vs []float64) []float64 {
	if len(vs) == 0 {
		return vs
	}
	out := make([]float64, len(vs))
	out[0] = vs[0]
	for i := 1; i < len(vs); i++ {
		d := vs[i] - vs[i-1]
		for d > math.Pi {
			d -= 2 * math.Pi
		}
		for d <= -math.Pi {
			d += 2 * math.Pi
		}
		out[i] = out[i-1] + d
	}
	return out
}
