package hemesh

import "fmt"

// Validate checks structural cross-reference integrity: every half-edge
// has a valid twin/next/prev, facet loops close, and vertex/facet
// references point back correctly. A nil result means the mesh is
// well-formed; any error makes the mesh unusable downstream.
func (m *Mesh[P]) Validate() error {
	nh := len(m.halfedges)
	for h := 0; h < nh; h++ {
		he := m.halfedges[h]
		if he.Origin < 0 || he.Origin >= len(m.vertices) {
			return fmt.Errorf("hemesh: half-edge %d has origin %d out of range", h, he.Origin)
		}
		if he.Twin < 0 || he.Twin >= nh {
			return fmt.Errorf("hemesh: half-edge %d has twin %d out of range", h, he.Twin)
		}
		if he.Twin == h {
			return fmt.Errorf("hemesh: half-edge %d is its own twin", h)
		}
		if m.halfedges[he.Twin].Twin != h {
			return fmt.Errorf("hemesh: half-edge %d twin reference is not symmetric", h)
		}
		if he.Next < 0 || he.Next >= nh {
			return fmt.Errorf("hemesh: half-edge %d has next %d out of range", h, he.Next)
		}
		if he.Prev < 0 || he.Prev >= nh {
			return fmt.Errorf("hemesh: half-edge %d has prev %d out of range", h, he.Prev)
		}
		if m.halfedges[he.Next].Prev != h {
			return fmt.Errorf("hemesh: half-edge %d next/prev links disagree", h)
		}
		if m.halfedges[he.Prev].Next != h {
			return fmt.Errorf("hemesh: half-edge %d prev/next links disagree", h)
		}
		// The next half-edge must continue where this one ends.
		if m.halfedges[he.Next].Origin != m.Dest(h) {
			return fmt.Errorf("hemesh: half-edge %d does not chain into its next", h)
		}
		if m.halfedges[he.Next].Facet != he.Facet {
			return fmt.Errorf("hemesh: half-edge %d and its next straddle facets", h)
		}
		if he.Facet != None && (he.Facet < 0 || he.Facet >= len(m.facets)) {
			return fmt.Errorf("hemesh: half-edge %d has facet %d out of range", h, he.Facet)
		}
	}

	for f := range m.facets {
		start := m.facets[f].Halfedge
		if start < 0 || start >= nh {
			return fmt.Errorf("hemesh: facet %d references half-edge %d out of range", f, start)
		}
		h := start
		for count := 0; ; count++ {
			if m.halfedges[h].Facet != f {
				return fmt.Errorf("hemesh: facet %d loop crosses half-edge %d of facet %d",
					f, h, m.halfedges[h].Facet)
			}
			h = m.halfedges[h].Next
			if h == start {
				if count < 2 {
					return fmt.Errorf("hemesh: facet %d loop shorter than a triangle", f)
				}
				break
			}
			if count > nh {
				return fmt.Errorf("hemesh: facet %d loop does not close", f)
			}
		}
	}

	for v := range m.vertices {
		h := m.vertices[v].Halfedge
		if h == None {
			continue
		}
		if h < 0 || h >= nh {
			return fmt.Errorf("hemesh: vertex %d references half-edge %d out of range", v, h)
		}
		if m.halfedges[h].Origin != v {
			return fmt.Errorf("hemesh: vertex %d half-edge does not leave it", v)
		}
	}
	return nil
}

// IsValid reports whether Validate passes.
func (m *Mesh[P]) IsValid() bool {
	return m.Validate() == nil
}
