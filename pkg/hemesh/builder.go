package hemesh

import (
	"fmt"

	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
	"github.com/Alireza-Khatami/qmat-cli/pkg/soup"
)

// Severity classifies a construction diagnostic.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal construction event. Facet is the position of
// the offending face in the input, or None when the diagnostic is not
// tied to a face.
type Diagnostic struct {
	Severity Severity
	Message  string
	Facet    int
}

// Builder constructs a half-edge mesh through an incremental protocol:
// BeginSurface, AddVertex per vertex, TestFacet/AddFacet per face,
// EndSurface. Facet insertion order fixes facet indices; vertex insertion
// order fixes vertex indices.
type Builder[P any] struct {
	mesh  *Mesh[P]
	edges map[[2]int]int // directed edge (origin, dest) -> half-edge index
	diags []Diagnostic
}

// NewBuilder returns a Builder with an empty mesh.
func NewBuilder[P any]() *Builder[P] {
	return &Builder[P]{
		mesh:  &Mesh[P]{},
		edges: make(map[[2]int]int),
	}
}

// BeginSurface starts a construction session. The hints pre-size the
// backing arenas; they do not bound the session.
func (b *Builder[P]) BeginSurface(vertexHint, facetHint int) {
	if vertexHint > 0 {
		b.mesh.vertices = make([]Vertex[P], 0, vertexHint)
	}
	if facetHint > 0 {
		b.mesh.facets = make([]Facet, 0, facetHint)
		b.mesh.halfedges = make([]Halfedge, 0, facetHint*6)
	}
}

// AddVertex appends a vertex and returns its index.
func (b *Builder[P]) AddVertex(p P) int {
	b.mesh.vertices = append(b.mesh.vertices, Vertex[P]{Point: p, Halfedge: None})
	return len(b.mesh.vertices) - 1
}

// TestFacet reports whether inserting a facet with the given vertex loop
// would keep the partial surface locally manifold. It fails when the loop
// is shorter than a triangle, repeats a vertex, or traverses a directed
// edge an earlier facet already claimed (which would give that edge a
// third incident facet or a duplicate orientation).
func (b *Builder[P]) TestFacet(indices []int) bool {
	n := len(indices)
	if n < 3 {
		return false
	}
	seen := make(map[int]struct{}, n)
	for i, v := range indices {
		if v < 0 || v >= len(b.mesh.vertices) {
			return false
		}
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
		w := indices[(i+1)%n]
		if h, ok := b.edges[[2]int{v, w}]; ok && b.mesh.halfedges[h].Facet != None {
			return false
		}
	}
	return true
}

// AddFacet inserts a facet with its vertices in the given order;
// orientation is preserved, never corrected. The caller is expected to
// have passed the loop through TestFacet.
func (b *Builder[P]) AddFacet(indices []int) error {
	n := len(indices)
	if n < 3 {
		return fmt.Errorf("hemesh: facet needs at least 3 vertices, got %d", n)
	}
	f := len(b.mesh.facets)
	loop := make([]int, n)

	for i := 0; i < n; i++ {
		a, c := indices[i], indices[(i+1)%n]
		if h, ok := b.edges[[2]int{a, c}]; ok {
			if b.mesh.halfedges[h].Facet != None {
				return fmt.Errorf("hemesh: directed edge %d->%d already bound to facet %d",
					a, c, b.mesh.halfedges[h].Facet)
			}
			loop[i] = h
			continue
		}
		// New edge: create both half-edges, the reverse one as border.
		h := len(b.mesh.halfedges)
		b.mesh.halfedges = append(b.mesh.halfedges,
			Halfedge{Origin: a, Twin: h + 1, Next: None, Prev: None, Facet: None},
			Halfedge{Origin: c, Twin: h, Next: None, Prev: None, Facet: None},
		)
		b.edges[[2]int{a, c}] = h
		b.edges[[2]int{c, a}] = h + 1
		loop[i] = h
	}

	for i, h := range loop {
		b.mesh.halfedges[h].Facet = f
		b.mesh.halfedges[h].Next = loop[(i+1)%n]
		b.mesh.halfedges[h].Prev = loop[(i-1+n)%n]
		if b.mesh.vertices[indices[i]].Halfedge == None {
			b.mesh.vertices[indices[i]].Halfedge = h
		}
	}
	b.mesh.facets = append(b.mesh.facets, Facet{Halfedge: loop[0]})
	return nil
}

// EndSurface finalizes adjacency by linking border half-edges into
// loops. A border that cannot be resolved means the accepted facets do
// not form a surface the protocol can finish; that is a hard error.
func (b *Builder[P]) EndSurface() error {
	hes := b.mesh.halfedges
	for h := range hes {
		if hes[h].Facet != None {
			continue
		}
		// Rotate around the destination vertex until the next border
		// half-edge leaving it is found. The twin of a border half-edge
		// always carries a facet, so Prev is defined along the way.
		g := hes[h].Twin
		steps := 0
		for hes[g].Facet != None {
			g = hes[hes[g].Prev].Twin
			steps++
			if steps > len(hes) {
				return fmt.Errorf("hemesh: cannot resolve border loop at vertex %d", hes[g].Origin)
			}
		}
		hes[h].Next = g
		hes[g].Prev = h
	}
	return nil
}

// Mesh returns the constructed mesh.
func (b *Builder[P]) Mesh() *Mesh[P] { return b.mesh }

// Diagnostics returns the diagnostics emitted so far, in order.
func (b *Builder[P]) Diagnostics() []Diagnostic { return b.diags }

func (b *Builder[P]) warnf(facet int, format string, args ...any) {
	b.diags = append(b.diags, Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Facet:    facet,
	})
}

// Build constructs a half-edge mesh from a polygon soup under the given
// point kernel. Vertex i of the mesh is soup vertex i. Faces failing the
// local manifold test are skipped with a warning diagnostic; out-of-range
// indices and protocol failures abort with an error and no mesh. A panic
// inside the delegation is converted to an error.
func Build[P any](s *soup.PolygonSoup, k kernel.Kernel[P]) (m *Mesh[P], diags []Diagnostic, err error) {
	b := NewBuilder[P]()
	defer func() {
		if r := recover(); r != nil {
			m = nil
			diags = b.Diagnostics()
			err = fmt.Errorf("hemesh: building polyhedron: %v", r)
		}
	}()

	numVertices := s.VertexCount()
	b.BeginSurface(numVertices, s.FaceCount())

	for i := 0; i < numVertices; i++ {
		x, y, z := s.Vertex(i)
		b.AddVertex(k.MakePoint(x, y, z))
	}

	for i, face := range s.Faces {
		for _, idx := range face {
			if idx < 0 || idx >= numVertices {
				return nil, b.Diagnostics(), fmt.Errorf(
					"hemesh: facet %d references vertex %d, out of range [0,%d)", i, idx, numVertices)
			}
		}
		if len(face) < 3 {
			return nil, b.Diagnostics(), fmt.Errorf("hemesh: facet %d has %d vertices", i, len(face))
		}
		if !b.TestFacet(face) {
			b.warnf(i, "skipping invalid facet %d", i)
			continue
		}
		if err := b.AddFacet(face); err != nil {
			return nil, b.Diagnostics(), err
		}
	}

	if err := b.EndSurface(); err != nil {
		return nil, b.Diagnostics(), err
	}
	return b.Mesh(), b.Diagnostics(), nil
}
