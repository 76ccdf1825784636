package mesh

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	v3 "github.com/solidtype/kernel/vec/v3"
)

// binaryHeaderSize is the fixed 80-byte STL binary header, per spec §4.8
// "STL export": "an 80-byte header (conventionally left blank or carrying
// a tool signature), a little-endian uint32 triangle count, then one
// 50-byte record per triangle: three float32 normal components, nine
// float32 vertex components, and a trailing uint16 attribute count of
// zero".
const binaryHeaderSize = 80

// WriteBinarySTL emits m in the binary STL format, bit-exact with spec
// §4.8 and the 684-byte unit-cube scenario of spec §8 scenario F
// (12 triangles: 80 + 4 + 12*50 = 684 bytes).
func WriteBinarySTL(w io.Writer, m Mesh, header string) error {
	bw := bufio.NewWriter(w)

	var hdr [binaryHeaderSize]byte
	copy(hdr[:], header)
	if _, err := bw.Write(hdr[:]); err != nil {
		return err
	}

	if len(m.Triangles) > math.MaxUint32 {
		return fmt.Errorf("mesh: triangle count %d exceeds STL uint32 limit", len(m.Triangles))
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}

	for _, t := range m.Triangles {
		if err := writeFloat32Triple(bw, t.Normal); err != nil {
			return err
		}
		if err := writeFloat32Triple(bw, t.V0); err != nil {
			return err
		}
		if err := writeFloat32Triple(bw, t.V1); err != nil {
			return err
		}
		if err := writeFloat32Triple(bw, t.V2); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint16(0)); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func writeFloat32Triple(w io.Writer, v v3.Vec) error {
	var buf [12]byte
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(float32(v.X)))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(float32(v.Y)))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(float32(v.Z)))
	_, err := w.Write(buf[:])
	return err
}

// WriteASCIISTL emits m in the human-readable "solid ... endsolid" STL
// text format, per spec §4.8.
func WriteASCIISTL(w io.Writer, m Mesh, name string) error {
	return WriteASCIISTLPrecision(w, m, name, defaultASCIIPrecision)
}

// defaultASCIIPrecision is spec §4.8's "configurable decimal precision
// (default 6)".
const defaultASCIIPrecision = 6

// WriteASCIISTLPrecision emits m as ASCII STL with a caller-chosen number
// of significant decimal digits per coordinate (spec §4.8 "ASCII: ...
// configurable decimal precision (default 6)"). precision <= 0 falls
// back to the default.
func WriteASCIISTLPrecision(w io.Writer, m Mesh, name string, precision int) error {
	if precision <= 0 {
		precision = defaultASCIIPrecision
	}
	bw := bufio.NewWriter(w)
	if name == "" {
		name = "solidtype"
	}
	if _, err := fmt.Fprintf(bw, "solid %s\n", name); err != nil {
		return err
	}
	for _, t := range m.Triangles {
		if _, err := fmt.Fprintf(bw, "  facet normal %s\n    outer loop\n", formatFloat32Triple(t.Normal, precision)); err != nil {
			return err
		}
		for _, v := range [3]v3.Vec{t.V0, t.V1, t.V2} {
			if _, err := fmt.Fprintf(bw, "      vertex %s\n", formatFloat32Triple(v, precision)); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(bw, "    endloop\n  endfacet\n"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(bw, "endsolid %s\n", name); err != nil {
		return err
	}
	return bw.Flush()
}

func formatFloat32Triple(v v3.Vec, precision int) string {
	format := fmt.Sprintf("%%.%dg %%.%dg %%.%dg", precision, precision, precision)
	return fmt.Sprintf(format, float32(v.X), float32(v.Y), float32(v.Z))
}

// BinarySTLSize returns the exact byte size WriteBinarySTL would produce
// for a mesh with n triangles, without allocating one. Used by tests
// and callers that need to pre-size a buffer (spec §8 scenario F).
func BinarySTLSize(n int) int {
	return binaryHeaderSize + 4 + n*50
}
