// Package stlio reads and writes STL surface meshes, auto-detecting
// ASCII vs binary encoding the way tibra's io_utilities does: by
// sniffing the first bytes of the file rather than trusting the
// extension.
package stlio

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

const binaryHeaderSize = 80

// Read auto-detects ASCII vs binary STL framing and parses r into a
// TriangleMesh, deduplicating vertices within trianglemesh.SnapTolerance.
func Read(r io.Reader) (*trianglemesh.TriangleMesh, error) {
	buffered := bufio.NewReaderSize(r, 1<<16)
	head, err := buffered.Peek(binaryHeaderSize + 4)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("stlio: read header: %w", err)
	}
	if isASCII(head) {
		return readASCII(buffered)
	}
	return readBinary(buffered)
}

// isASCII applies tibra's detection heuristic: an ASCII STL's first
// non-whitespace bytes are "solid", and (unlike a binary file that
// happens to start with those bytes in its 80-byte header) its first 80
// bytes also contain "facet", "normal" and a newline.
func isASCII(head []byte) bool {
	if len(head) > binaryHeaderSize {
		head = head[:binaryHeaderSize]
	}
	s := string(head)
	return strings.HasPrefix(strings.TrimSpace(s), "solid") &&
		strings.Contains(s, "facet") && strings.Contains(s, "normal") && strings.Contains(s, "\n")
}

func readASCII(r *bufio.Reader) (*trianglemesh.TriangleMesh, error) {
	builder := trianglemesh.NewBuilder()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	var verts [3]geometry3d.Point
	var normal geometry3d.Point
	vertIdx := 0
	haveNormal := false

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			if len(fields) == 5 && fields[1] == "normal" {
				n, err := parseVec3(fields[2:5])
				if err != nil {
					return nil, fmt.Errorf("stlio: facet normal: %w", err)
				}
				normal = n
				haveNormal = true
			}
			vertIdx = 0
		case "vertex":
			if len(fields) != 4 {
				return nil, fmt.Errorf("stlio: malformed vertex line %q", scanner.Text())
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("stlio: vertex: %w", err)
			}
			if vertIdx >= 3 {
				return nil, fmt.Errorf("stlio: facet with more than 3 vertices")
			}
			verts[vertIdx] = v
			vertIdx++
		case "endfacet":
			if vertIdx != 3 {
				return nil, fmt.Errorf("stlio: facet closed with %d vertices, want 3", vertIdx)
			}
			n := normal
			if !haveNormal || n.Norm() < trianglemesh.SnapTolerance {
				n = geometryNormal(verts[0], verts[1], verts[2])
			}
			builder.AddTriangle(verts[0], verts[1], verts[2], n)
			haveNormal = false
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("stlio: scan: %w", err)
	}
	return builder.Build(), nil
}

// geometryNormal falls back to the winding-derived normal when a facet's
// stated normal is missing or degenerate, rather than handing
// trianglemesh.Builder a zero vector it cannot normalize.
func geometryNormal(p0, p1, p2 geometry3d.Point) geometry3d.Point {
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	if n.Norm() < trianglemesh.SnapTolerance {
		return geometry3d.Point{X: 0, Y: 0, Z: 1}
	}
	return n
}

func parseVec3(fields []string) (geometry3d.Point, error) {
	var v [3]float64
	for i, f := range fields {
		x, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry3d.Point{}, err
		}
		v[i] = x
	}
	return geometry3d.Point{X: v[0], Y: v[1], Z: v[2]}, nil
}

func readBinary(r *bufio.Reader) (*trianglemesh.TriangleMesh, error) {
	header := make([]byte, binaryHeaderSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, fmt.Errorf("stlio: binary header: %w", err)
	}
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("stlio: binary triangle count: %w", err)
	}

	builder := trianglemesh.NewBuilder()
	rec := make([]byte, 50)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, rec); err != nil {
			return nil, fmt.Errorf("stlio: binary facet %d: %w", i, err)
		}
		n := decodeVec3(rec[0:12])
		v0 := decodeVec3(rec[12:24])
		v1 := decodeVec3(rec[24:36])
		v2 := decodeVec3(rec[36:48])
		if n.Norm() < trianglemesh.SnapTolerance {
			n = geometryNormal(v0, v1, v2)
		}
		builder.AddTriangle(v0, v1, v2, n)
	}
	return builder.Build(), nil
}

func decodeVec3(b []byte) geometry3d.Point {
	return geometry3d.Point{
		X: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[0:4]))),
		Y: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4:8]))),
		Z: float64(math.Float32frombits(binary.LittleEndian.Uint32(b[8:12]))),
	}
}

// WriteBinary emits mesh in binary STL framing: an 80-byte header, a
// little-endian uint32 triangle count, then one 50-byte record per
// triangle (normal, three vertices, zero attribute byte count).
func WriteBinary(w io.Writer, mesh *trianglemesh.TriangleMesh) error {
	header := make([]byte, binaryHeaderSize)
	copy(header, "quadgen binary STL export")
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("stlio: write header: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(mesh.NumTriangles())); err != nil {
		return fmt.Errorf("stlio: write count: %w", err)
	}
	buf := bufio.NewWriter(w)
	rec := make([]byte, 50)
	for i := 0; i < mesh.NumTriangles(); i++ {
		encodeVec3(rec[0:12], mesh.Normal(i))
		encodeVec3(rec[12:24], mesh.P0(i))
		encodeVec3(rec[24:36], mesh.P1(i))
		encodeVec3(rec[36:48], mesh.P2(i))
		rec[48], rec[49] = 0, 0
		if _, err := buf.Write(rec); err != nil {
			return fmt.Errorf("stlio: write facet %d: %w", i, err)
		}
	}
	return buf.Flush()
}

func encodeVec3(dst []byte, p geometry3d.Point) {
	binary.LittleEndian.PutUint32(dst[0:4], math.Float32bits(float32(p.X)))
	binary.LittleEndian.PutUint32(dst[4:8], math.Float32bits(float32(p.Y)))
	binary.LittleEndian.PutUint32(dst[8:12], math.Float32bits(float32(p.Z)))
}

// WriteASCII emits mesh in the plain-text "solid ... endsolid" STL
// framing.
func WriteASCII(w io.Writer, name string, mesh *trianglemesh.TriangleMesh) error {
	buf := bufio.NewWriter(w)
	fmt.Fprintf(buf, "solid %s\n", name)
	for i := 0; i < mesh.NumTriangles(); i++ {
		n := mesh.Normal(i)
		fmt.Fprintf(buf, "facet normal %g %g %g\n", n.X, n.Y, n.Z)
		fmt.Fprintln(buf, "outer loop")
		for _, p := range [3]geometry3d.Point{mesh.P0(i), mesh.P1(i), mesh.P2(i)} {
			fmt.Fprintf(buf, "vertex %g %g %g\n", p.X, p.Y, p.Z)
		}
		fmt.Fprintln(buf, "endloop")
		fmt.Fprintln(buf, "endfacet")
	}
	fmt.Fprintf(buf, "endsolid %s\n", name)
	return buf.Flush()
}
