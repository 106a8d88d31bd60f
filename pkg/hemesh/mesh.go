// Package hemesh implements a half-edge polyhedral mesh built
// incrementally from a polygon soup. The mesh is generic over the point
// algebra so the same construction algorithm can emit a floating-point
// storage mesh and an exact-kernel domain mesh.
//
// Vertices, half-edges and facets live in flat arenas owned by the mesh;
// all adjacency ("twin", "next", "facet") is index-based, so there are no
// pointer lifetime hazards and the structure can be copied or inspected
// freely.
package hemesh

// None marks an unset arena index. Border half-edges have Facet == None.
const None = -1

// Vertex is a mesh vertex: a point plus one outgoing half-edge
// (None while the vertex is referenced by no facet).
type Vertex[P any] struct {
	Point    P
	Halfedge int
}

// Halfedge is one directed side of an edge.
type Halfedge struct {
	Origin int // vertex the half-edge leaves
	Twin   int // oppositely directed half-edge of the same edge
	Next   int // next half-edge around the facet (or border loop)
	Prev   int // previous half-edge around the facet (or border loop)
	Facet  int // incident facet, None on the border
}

// Facet is a polygonal face, referencing one of its half-edges.
type Facet struct {
	Halfedge int
}

// Mesh is a half-edge polyhedral surface over point type P.
type Mesh[P any] struct {
	vertices  []Vertex[P]
	halfedges []Halfedge
	facets    []Facet
}

// VertexCount returns the number of vertices.
func (m *Mesh[P]) VertexCount() int { return len(m.vertices) }

// FacetCount returns the number of facets.
func (m *Mesh[P]) FacetCount() int { return len(m.facets) }

// HalfedgeCount returns the number of half-edges.
func (m *Mesh[P]) HalfedgeCount() int { return len(m.halfedges) }

// Point returns the position of vertex v.
func (m *Mesh[P]) Point(v int) P { return m.vertices[v].Point }

// Halfedge returns half-edge h by value.
func (m *Mesh[P]) Halfedge(h int) Halfedge { return m.halfedges[h] }

// Dest returns the vertex half-edge h points to.
func (m *Mesh[P]) Dest(h int) int {
	return m.halfedges[m.halfedges[h].Twin].Origin
}

// FacetVertices returns the vertex indices around facet f in loop order.
func (m *Mesh[P]) FacetVertices(f int) []int {
	var out []int
	start := m.facets[f].Halfedge
	h := start
	for {
		out = append(out, m.halfedges[h].Origin)
		h = m.halfedges[h].Next
		if h == start {
			break
		}
	}
	return out
}

// BorderHalfedgeCount returns the number of half-edges without an
// incident facet. Zero means the surface is closed.
func (m *Mesh[P]) BorderHalfedgeCount() int {
	n := 0
	for i := range m.halfedges {
		if m.halfedges[i].Facet == None {
			n++
		}
	}
	return n
}

// IsClosed reports whether every edge is shared by exactly two facets.
func (m *Mesh[P]) IsClosed() bool {
	return m.BorderHalfedgeCount() == 0
}
