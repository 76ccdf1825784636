package session

import (
	"io"

	"github.com/solidtype/kernel/mesh"
	"github.com/solidtype/kernel/topo"
)

// TessellateOptions configures a tessellation request (SPEC_FULL.md §A.3
// "options structs per operation, mirroring STEPOptions").
type TessellateOptions struct{}

// BodyMesh is one body's tessellated mesh plus the faces it had to skip
// (curved surfaces, spec §4.8's "documented not-implemented path").
type BodyMesh struct {
	Body         topo.BodyId
	Mesh         mesh.Mesh
	SkippedFaces []topo.FaceId
}

// Tessellate triangulates one body (spec §6 "tessellate(body, opts) ->
// mesh").
func (s *Session) Tessellate(body topo.BodyId, _ TessellateOptions) (BodyMesh, *ModelingError) {
	m, skipped, err := mesh.TessellateBody(s.Store, s.Ctx, body)
	if err != nil {
		return BodyMesh{}, GeometryError("tessellation failed", err)
	}
	return BodyMesh{Body: body, Mesh: m, SkippedFaces: skipped}, nil
}

// TessellateAll tessellates every live body in the store (spec §6
// "tessellateAll() -> per-body meshes").
func (s *Session) TessellateAll(opts TessellateOptions) ([]BodyMesh, *ModelingError) {
	var out []BodyMesh
	for _, b := range s.Store.Bodies() {
		bm, err := s.Tessellate(b, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, bm)
	}
	return out, nil
}

// STLOptions configures STL emission (spec §4.8 "STL emit").
type STLOptions struct {
	Binary    bool
	Header    string // binary header text; ASCII uses Name instead
	Name      string // ASCII solid name
	Precision int    // ASCII decimal precision; 0 means the package default
}

// WriteSTL tessellates body and emits it in binary or ASCII STL per opts
// (spec §4.8, §6 "STL file format (bit-exact)"). Normals are always
// recomputed from triangle geometry by the mesh package, never trusted
// from input.
func (s *Session) WriteSTL(w io.Writer, body topo.BodyId, opts STLOptions) *ModelingError {
	bm, mErr := s.Tessellate(body, TessellateOptions{})
	if mErr != nil {
		return mErr
	}
	if opts.Binary {
		if err := mesh.WriteBinarySTL(w, bm.Mesh, opts.Header); err != nil {
			return Internal("binary STL emit failed", err)
		}
		return nil
	}
	if err := mesh.WriteASCIISTLPrecision(w, bm.Mesh, opts.Name, opts.Precision); err != nil {
		return Internal("ASCII STL emit failed", err)
	}
	return nil
}
