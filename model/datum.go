// Package model implements spec §4.5 "Modeling (M)": datum planes, sketch
// profiles, primitives, extrude, revolve, and the feature/checkpoint
// pipeline that drives them.
package model

import (
	"github.com/solidtype/kernel/geom"
	v3 "github.com/solidtype/kernel/vec/v3"
)

// DatumPlane is an oriented plane used as a sketch host and construction
// reference (spec §3 "Features and checkpoints", §4.5).
type DatumPlane struct {
	Origin, Normal, XDir, YDir v3.Vec
}

// PlaneToWorld maps a 2D (u,v) point on the plane into 3D world space
// (spec §4.5 "planeToWorld").
func (p DatumPlane) PlaneToWorld(u, v float64) v3.Vec {
	return p.Origin.Add(p.XDir.MulScalar(u)).Add(p.YDir.MulScalar(v))
}

// Surface returns the geom.Plane backing this datum plane.
func (p DatumPlane) Surface() geom.Plane {
	return geom.Plane{Origin: p.Origin, Normal: p.Normal, XDir: p.XDir, YDir: p.YDir}
}

// Standard datum plane instances (spec §4.5).
var (
	PlaneXY = DatumPlane{
		Origin: v3.Vec{}, Normal: v3.Vec{X: 0, Y: 0, Z: 1},
		XDir: v3.Vec{X: 1, Y: 0, Z: 0}, YDir: v3.Vec{X: 0, Y: 1, Z: 0},
	}
	PlaneYZ = DatumPlane{
		Origin: v3.Vec{}, Normal: v3.Vec{X: 1, Y: 0, Z: 0},
		XDir: v3.Vec{X: 0, Y: 1, Z: 0}, YDir: v3.Vec{X: 0, Y: 0, Z: 1},
	}
	PlaneZX = DatumPlane{
		Origin: v3.Vec{}, Normal: v3.Vec{X: 0, Y: 1, Z: 0},
		XDir: v3.Vec{X: 0, Y: 0, Z: 1}, YDir: v3.Vec{X: 1, Y: 0, Z: 0},
	}
)
