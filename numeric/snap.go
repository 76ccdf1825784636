package numeric

import v2 "github.com/solidtype/kernel/vec/v2"
import v3 "github.com/solidtype/kernel/vec/v3"

// Point2I is a point on the integer nanometre grid in 2D UV space.
type Point2I struct {
	X, Y int64
}

// Point3I is a point on the integer nanometre grid in 3D world space.
type Point3I struct {
	X, Y, Z int64
}

// Snap2 rounds a 2D point onto the integer grid (spec §3 "Integer grid":
// two points are exactly equal iff their integer triples are identical).
func Snap2(p v2.Vec) Point2I {
	return Point2I{SnapCoord(p.X), SnapCoord(p.Y)}
}

// Snap3 rounds a 3D point onto the integer grid.
func Snap3(p v3.Vec) Point3I {
	return Point3I{SnapCoord(p.X), SnapCoord(p.Y), SnapCoord(p.Z)}
}

// Unsnap2 maps an integer grid point back to a real 2D point.
func Unsnap2(p Point2I) v2.Vec {
	return v2.Vec{X: UnsnapCoord(p.X), Y: UnsnapCoord(p.Y)}
}

// Unsnap3 maps an integer grid point back to a real 3D point.
func Unsnap3(p Point3I) v3.Vec {
	return v3.Vec{X: UnsnapCoord(p.X), Y: UnsnapCoord(p.Y), Z: UnsnapCoord(p.Z)}
}

// Equal reports whether two integer-grid 2D points are exactly identical.
func (p Point2I) Equal(q Point2I) bool { return p == q }

// Equal reports whether two integer-grid 3D points are exactly identical.
func (p Point3I) Equal(q Point3I) bool { return p == q }
