// Package vtkio writes legacy ASCII VTK unstructured-grid files for the
// three artifacts a run produces: the closed surface mesh, the active
// (inside + trimmed) cell hexahedra, and integration-point clouds.
// Binary export and displacement fields are out of scope; every writer
// here only ever emits the "ASCII" flavor of the legacy format.
package vtkio

import (
	"bufio"
	"fmt"
	"io"

	"github.com/embedquad/quadgen/element"
	"github.com/embedquad/quadgen/geometry3d"
	"github.com/embedquad/quadgen/trianglemesh"
)

func writeHeader(w *bufio.Writer) {
	fmt.Fprintln(w, "# vtk DataFile Version 4.1")
	fmt.Fprintln(w, "vtk output")
	fmt.Fprintln(w, "ASCII")
}

// WriteMesh emits mesh as a POLYDATA-free UNSTRUCTURED_GRID of triangle
// cells (VTK cell type 5), matching tibra's WriteMeshToVTK ASCII branch.
func WriteMesh(w io.Writer, mesh *trianglemesh.TriangleMesh) error {
	buf := bufio.NewWriter(w)
	writeHeader(buf)
	fmt.Fprintln(buf, "DATASET UNSTRUCTURED_GRID")
	fmt.Fprintf(buf, "POINTS %d double\n", mesh.NumVertices())
	for _, v := range mesh.Vertices {
		fmt.Fprintf(buf, "%.17g %.17g %.17g\n", v.X, v.Y, v.Z)
	}
	fmt.Fprintln(buf)

	n := mesh.NumTriangles()
	fmt.Fprintf(buf, "CELLS %d %d\n", n, n*4)
	for i := 0; i < n; i++ {
		t := mesh.Triangles[i]
		fmt.Fprintf(buf, "3 %d %d %d\n", t[0], t[1], t[2])
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELL_TYPES %d\n", n)
	for i := 0; i < n; i++ {
		fmt.Fprintln(buf, 5)
	}
	fmt.Fprintln(buf)
	return buf.Flush()
}

// WriteElements emits every published cell as a hexahedron (VTK cell
// type 12) built from its physical box's 8 corners, with an is_trimmed
// scalar cell field, matching tibra's WriteElementsToVTK ASCII branch.
func WriteElements(w io.Writer, container *element.Container) error {
	var elements []*element.Element
	container.Range(func(_ int, e *element.Element) bool {
		elements = append(elements, e)
		return true
	})

	buf := bufio.NewWriter(w)
	writeHeader(buf)
	fmt.Fprintln(buf, "DATASET UNSTRUCTURED_GRID")
	fmt.Fprintf(buf, "POINTS %d double\n", len(elements)*8)
	for _, e := range elements {
		for _, c := range hexCorners(e.PhysicalBox) {
			fmt.Fprintf(buf, "%.17g %.17g %.17g\n", c.X, c.Y, c.Z)
		}
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELLS %d %d\n", len(elements), len(elements)*9)
	for i := range elements {
		base := 8 * i
		fmt.Fprintf(buf, "8 %d %d %d %d %d %d %d %d\n",
			base, base+1, base+2, base+3, base+4, base+5, base+6, base+7)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELL_TYPES %d\n", len(elements))
	for range elements {
		fmt.Fprintln(buf, 12)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELL_DATA %d\n", len(elements))
	fmt.Fprintln(buf, "SCALARS is_trimmed int 1")
	fmt.Fprintln(buf, "LOOKUP_TABLE default")
	for _, e := range elements {
		flag := 0
		if e.IsTrimmed {
			flag = 1
		}
		fmt.Fprintln(buf, flag)
	}
	fmt.Fprintln(buf)
	return buf.Flush()
}

// hexCorners returns box's 8 corners in the vertex order tibra's writer
// uses: bottom face counter-clockwise from (lo,lo,lo), then the matching
// top face.
func hexCorners(box geometry3d.BoundingBox) [8]geometry3d.Point {
	l, u := box.Lower, box.Upper
	return [8]geometry3d.Point{
		{X: l.X, Y: l.Y, Z: l.Z}, {X: u.X, Y: l.Y, Z: l.Z},
		{X: u.X, Y: u.Y, Z: l.Z}, {X: l.X, Y: u.Y, Z: l.Z},
		{X: l.X, Y: l.Y, Z: u.Z}, {X: u.X, Y: l.Y, Z: u.Z},
		{X: u.X, Y: u.Y, Z: u.Z}, {X: l.X, Y: u.Y, Z: u.Z},
	}
}

// WriteIntegrationPoints emits points as VTK_VERTEX cells (type 1) with a
// weight scalar field, matching tibra's WritePointsToVTK ASCII branch.
func WriteIntegrationPoints(w io.Writer, points []element.IntegrationPoint) error {
	buf := bufio.NewWriter(w)
	writeHeader(buf)
	fmt.Fprintln(buf, "DATASET UNSTRUCTURED_GRID")
	fmt.Fprintf(buf, "POINTS %d double\n", len(points))
	for _, p := range points {
		fmt.Fprintf(buf, "%.17g %.17g %.17g\n", p.Position.X, p.Position.Y, p.Position.Z)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELLS %d %d\n", len(points), len(points)*2)
	for i := range points {
		fmt.Fprintf(buf, "1 %d\n", i)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELL_TYPES %d\n", len(points))
	for range points {
		fmt.Fprintln(buf, 1)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "POINT_DATA %d\n", len(points))
	fmt.Fprintln(buf, "SCALARS weight double 1")
	fmt.Fprintln(buf, "LOOKUP_TABLE default")
	for _, p := range points {
		fmt.Fprintf(buf, "%.17g\n", p.Weight)
	}
	fmt.Fprintln(buf)
	return buf.Flush()
}

// WriteBoundaryIntegrationPoints emits boundary points the same way as
// WriteIntegrationPoints, additionally carrying the outward normal as a
// vector field.
func WriteBoundaryIntegrationPoints(w io.Writer, points []element.BoundaryIntegrationPoint) error {
	buf := bufio.NewWriter(w)
	writeHeader(buf)
	fmt.Fprintln(buf, "DATASET UNSTRUCTURED_GRID")
	fmt.Fprintf(buf, "POINTS %d double\n", len(points))
	for _, p := range points {
		fmt.Fprintf(buf, "%.17g %.17g %.17g\n", p.Position.X, p.Position.Y, p.Position.Z)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELLS %d %d\n", len(points), len(points)*2)
	for i := range points {
		fmt.Fprintf(buf, "1 %d\n", i)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "CELL_TYPES %d\n", len(points))
	for range points {
		fmt.Fprintln(buf, 1)
	}
	fmt.Fprintln(buf)

	fmt.Fprintf(buf, "POINT_DATA %d\n", len(points))
	fmt.Fprintln(buf, "SCALARS weight double 1")
	fmt.Fprintln(buf, "LOOKUP_TABLE default")
	for _, p := range points {
		fmt.Fprintf(buf, "%.17g\n", p.Weight)
	}
	fmt.Fprintln(buf, "NORMALS normal double")
	for _, p := range points {
		fmt.Fprintf(buf, "%.17g %.17g %.17g\n", p.Normal.X, p.Normal.Y, p.Normal.Z)
	}
	fmt.Fprintln(buf)
	return buf.Flush()
}
