// Package topo implements the in-memory BREP topology store of spec §3
// "BREP topology (T)": vertex/edge/halfedge/loop/face/shell/body pools
// addressed by branded integer handles, plus validation and healing
// (spec §4.3).
package topo

// NullID marks an absent handle, never a valid pool index.
const NullID = -1

// VertexId addresses a vertex in Store.vertices.
type VertexId int

// EdgeId addresses an edge in Store.edges.
type EdgeId int

// HalfEdgeId addresses a half-edge in Store.halfEdges.
type HalfEdgeId int

// LoopId addresses a loop in Store.loops.
type LoopId int

// FaceId addresses a face in Store.faces.
type FaceId int

// ShellId addresses a shell in Store.shells.
type ShellId int

// BodyId addresses a body in Store.bodies.
type BodyId int

// SurfaceId is a handle type for surfaces. Store keeps each face's surface
// on the face itself and has no surface pool.
type SurfaceId int

// Curve3Id is a handle type for 3D curves. Store keeps each edge's curve
// on the edge itself and has no curve pool.
type Curve3Id int

// Curve2Id is a handle type for 2D p-curves. Store has no p-curve pool.
type Curve2Id int
