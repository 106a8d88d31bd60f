// Package soup holds the unstructured polygon-soup intermediate produced
// by the format readers and consumed by the mesh builder. A soup carries
// no topology guarantees; faces may reference vertices inconsistently or
// not at all.
package soup

import (
	"fmt"
	"strings"
)

// PolygonSoup is flattened vertex coordinates plus face index lists.
// Vertex order is file order and is semantically meaningful: face indices
// reference positions in the vertex sequence, and the builder preserves
// the ordering into the mesh it constructs.
type PolygonSoup struct {
	Vertices []float64 // flat x,y,z triplets
	Faces    [][]int   // zero-based vertex indices, each of length >= 3
}

// VertexCount returns the number of vertices.
func (s *PolygonSoup) VertexCount() int {
	return len(s.Vertices) / 3
}

// FaceCount returns the number of faces.
func (s *PolygonSoup) FaceCount() int {
	return len(s.Faces)
}

// Vertex returns the coordinates of vertex i.
func (s *PolygonSoup) Vertex(i int) (x, y, z float64) {
	return s.Vertices[i*3], s.Vertices[i*3+1], s.Vertices[i*3+2]
}

// FileExtension returns the lowercase substring after the last dot of
// name. A name with no dot, or ending in a dot, has no extension.
func FileExtension(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[dot+1:])
}

// IsObjFile reports whether name has a .obj extension (case-insensitive).
func IsObjFile(name string) bool {
	return FileExtension(name) == "obj"
}

// IsOffFile reports whether name has a .off extension (case-insensitive).
func IsOffFile(name string) bool {
	return FileExtension(name) == "off"
}

// Load reads a mesh file into a PolygonSoup, dispatching on the file
// extension.
func Load(path string) (*PolygonSoup, error) {
	switch {
	case IsObjFile(path):
		return LoadOBJ(path)
	case IsOffFile(path):
		return LoadOFF(path)
	default:
		return nil, fmt.Errorf("soup: unrecognized mesh format: %s", path)
	}
}
