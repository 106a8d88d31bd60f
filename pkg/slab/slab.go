// Package slab holds a medial-axis slab mesh: spheres connected by edges
// and triangles, loaded from a .ma file, simplified by edge collapse, and
// exported with its derived geometry (normals, cones, simple triangles).
package slab

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vertex is one medial sphere plus collapse bookkeeping.
type Vertex struct {
	Center v3.Vec
	Radius float64
	Normal v3.Vec

	valid    bool
	boundary bool
	version  int
}

// Valid reports whether the vertex is still part of the mesh.
func (v *Vertex) Valid() bool { return v.valid }

// Boundary reports whether the vertex lies on a slab boundary edge.
func (v *Vertex) Boundary() bool { return v.boundary }

// Edge connects two spheres. Cone geometry is filled by ComputeEdgesCone.
type Edge struct {
	V    [2]int
	Cone Cone

	valid bool
}

// Face is a triangle of spheres. Normal and the two simple triangles are
// filled by the compute passes.
type Face struct {
	V      [3]int
	Normal v3.Vec
	Tris   [2]SimpleTriangle

	valid bool
}

// Cone is the tangent cone between two spheres. Invalid when one sphere
// swallows the other.
type Cone struct {
	C1, C2 v3.Vec
	R1, R2 float64
	Axis   v3.Vec
	Valid  bool
}

// SimpleTriangle is one of the two tangent triangles of a slab face.
type SimpleTriangle struct {
	V [3]v3.Vec
}

// Mesh is a slab mesh. Vertices, edges and faces carry validity flags so
// that collapses never reindex; Compact rebuilds dense indexing.
type Mesh struct {
	Vertices []Vertex
	Edges    []Edge
	Faces    []Face

	// neighbors[v] maps an adjacent vertex to the edge index between them.
	neighbors []map[int]int

	// Hausdorff is the greatest sphere-center displacement accumulated by
	// Simplify when Options.ComputeHausdorff is set.
	Hausdorff float64
}

// NumVertices counts the vertices still present.
func (m *Mesh) NumVertices() int {
	n := 0
	for i := range m.Vertices {
		if m.Vertices[i].valid {
			n++
		}
	}
	return n
}

// NumEdges counts the edges still present.
func (m *Mesh) NumEdges() int {
	n := 0
	for i := range m.Edges {
		if m.Edges[i].valid {
			n++
		}
	}
	return n
}

// NumFaces counts the faces still present.
func (m *Mesh) NumFaces() int {
	n := 0
	for i := range m.Faces {
		if m.Faces[i].valid {
			n++
		}
	}
	return n
}

// Read parses a slab mesh in the .ma format: a "nv ne nf" header followed
// by "v x y z r", "e i j" and "f i j k" lines. Blank lines and '#'
// comments are skipped.
func Read(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fields, err := nextFields(sc)
	if err != nil {
		return nil, fmt.Errorf("slab: reading header: %w", err)
	}
	if len(fields) != 3 {
		return nil, fmt.Errorf("slab: malformed header %q", strings.Join(fields, " "))
	}
	var counts [3]int
	for i, f := range fields {
		counts[i], err = strconv.Atoi(f)
		if err != nil || counts[i] < 0 {
			return nil, fmt.Errorf("slab: malformed header count %q", f)
		}
	}
	nv, ne, nf := counts[0], counts[1], counts[2]

	m := &Mesh{
		Vertices: make([]Vertex, 0, nv),
		Edges:    make([]Edge, 0, ne),
		Faces:    make([]Face, 0, nf),
	}

	for i := 0; i < nv; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("slab: reading vertex %d: %w", i, err)
		}
		if len(fields) != 5 || fields[0] != "v" {
			return nil, fmt.Errorf("slab: malformed vertex line %q", strings.Join(fields, " "))
		}
		var vals [4]float64
		for j := 0; j < 4; j++ {
			vals[j], err = strconv.ParseFloat(fields[j+1], 64)
			if err != nil {
				return nil, fmt.Errorf("slab: vertex %d: %w", i, err)
			}
		}
		m.Vertices = append(m.Vertices, Vertex{
			Center: v3.Vec{X: vals[0], Y: vals[1], Z: vals[2]},
			Radius: vals[3],
			valid:  true,
		})
	}

	for i := 0; i < ne; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("slab: reading edge %d: %w", i, err)
		}
		if len(fields) != 3 || fields[0] != "e" {
			return nil, fmt.Errorf("slab: malformed edge line %q", strings.Join(fields, " "))
		}
		a, errA := strconv.Atoi(fields[1])
		b, errB := strconv.Atoi(fields[2])
		if errA != nil || errB != nil || a < 0 || a >= nv || b < 0 || b >= nv || a == b {
			return nil, fmt.Errorf("slab: edge %d references invalid vertices %s %s", i, fields[1], fields[2])
		}
		m.Edges = append(m.Edges, Edge{V: [2]int{a, b}, valid: true})
	}

	for i := 0; i < nf; i++ {
		fields, err := nextFields(sc)
		if err != nil {
			return nil, fmt.Errorf("slab: reading face %d: %w", i, err)
		}
		if len(fields) != 4 || fields[0] != "f" {
			return nil, fmt.Errorf("slab: malformed face line %q", strings.Join(fields, " "))
		}
		var idx [3]int
		for j := 0; j < 3; j++ {
			idx[j], err = strconv.Atoi(fields[j+1])
			if err != nil || idx[j] < 0 || idx[j] >= nv {
				return nil, fmt.Errorf("slab: face %d references invalid vertex %q", i, fields[j+1])
			}
		}
		if idx[0] == idx[1] || idx[1] == idx[2] || idx[0] == idx[2] {
			return nil, fmt.Errorf("slab: face %d repeats a vertex", i)
		}
		m.Faces = append(m.Faces, Face{V: idx, valid: true})
	}

	m.rebuildAdjacency()
	m.markBoundary()
	return m, nil
}

// Load reads a slab mesh from a .ma file.
func Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("slab: %w", err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("slab: loading %s: %w", path, err)
	}
	return m, nil
}

func nextFields(sc *bufio.Scanner) ([]string, error) {
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) > 0 {
			return fields, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nil, io.ErrUnexpectedEOF
}

// rebuildAdjacency recomputes the per-vertex neighbor map, keeping at
// most one edge per vertex pair.
func (m *Mesh) rebuildAdjacency() {
	m.neighbors = make([]map[int]int, len(m.Vertices))
	for i := range m.Vertices {
		m.neighbors[i] = make(map[int]int)
	}
	for ei := range m.Edges {
		e := &m.Edges[ei]
		if !e.valid {
			continue
		}
		a, b := e.V[0], e.V[1]
		if _, dup := m.neighbors[a][b]; dup {
			e.valid = false
			continue
		}
		m.neighbors[a][b] = ei
		m.neighbors[b][a] = ei
	}
}

// markBoundary flags vertices on edges bordered by fewer than two faces.
func (m *Mesh) markBoundary() {
	faceCount := make(map[[2]int]int)
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := f.V[k], f.V[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			faceCount[[2]int{a, b}]++
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].boundary = false
	}
	for ei := range m.Edges {
		e := &m.Edges[ei]
		if !e.valid {
			continue
		}
		a, b := e.V[0], e.V[1]
		if a > b {
			a, b = b, a
		}
		if faceCount[[2]int{a, b}] < 2 {
			m.Vertices[e.V[0]].boundary = true
			m.Vertices[e.V[1]].boundary = true
		}
	}
}

// CleanIsolatedVertices removes vertices with no incident edge or face
// and returns how many were dropped.
func (m *Mesh) CleanIsolatedVertices() int {
	used := make([]bool, len(m.Vertices))
	for ei := range m.Edges {
		if m.Edges[ei].valid {
			used[m.Edges[ei].V[0]] = true
			used[m.Edges[ei].V[1]] = true
		}
	}
	for fi := range m.Faces {
		if m.Faces[fi].valid {
			for _, v := range m.Faces[fi].V {
				used[v] = true
			}
		}
	}
	dropped := 0
	for i := range m.Vertices {
		if m.Vertices[i].valid && !used[i] {
			m.Vertices[i].valid = false
			dropped++
		}
	}
	return dropped
}

// Compact rebuilds dense vertex/edge/face indexing, dropping everything
// invalidated by collapses or cleanup.
func (m *Mesh) Compact() {
	remap := make([]int, len(m.Vertices))
	var vertices []Vertex
	for i := range m.Vertices {
		if !m.Vertices[i].valid {
			remap[i] = -1
			continue
		}
		remap[i] = len(vertices)
		vertices = append(vertices, m.Vertices[i])
	}

	var edges []Edge
	for ei := range m.Edges {
		e := m.Edges[ei]
		if !e.valid {
			continue
		}
		e.V[0], e.V[1] = remap[e.V[0]], remap[e.V[1]]
		edges = append(edges, e)
	}

	var faces []Face
	for fi := range m.Faces {
		f := m.Faces[fi]
		if !f.valid {
			continue
		}
		for k := 0; k < 3; k++ {
			f.V[k] = remap[f.V[k]]
		}
		faces = append(faces, f)
	}

	m.Vertices, m.Edges, m.Faces = vertices, edges, faces
	m.rebuildAdjacency()
	m.markBoundary()
}

// Export compacts the mesh and writes "<prefix>_simplified.ma".
func (m *Mesh) Export(prefix string) error {
	m.Compact()

	path := prefix + "_simplified.ma"
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("slab: %w", err)
	}
	if err := m.write(f); err != nil {
		f.Close()
		return fmt.Errorf("slab: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("slab: %w", err)
	}
	return nil
}

func (m *Mesh) write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", len(m.Vertices), len(m.Edges), len(m.Faces)); err != nil {
		return err
	}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if _, err := fmt.Fprintf(bw, "v %.17g %.17g %.17g %.17g\n",
			v.Center.X, v.Center.Y, v.Center.Z, v.Radius); err != nil {
			return err
		}
	}
	for i := range m.Edges {
		if _, err := fmt.Fprintf(bw, "e %d %d\n", m.Edges[i].V[0], m.Edges[i].V[1]); err != nil {
			return err
		}
	}
	for i := range m.Faces {
		f := &m.Faces[i]
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f.V[0], f.V[1], f.V[2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}
