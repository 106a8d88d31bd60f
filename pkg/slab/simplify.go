package slab

import (
	"container/heap"
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Options tune the edge-collapse simplification.
type Options struct {
	// Type selects the collapse placement: 1 places the merged sphere at
	// the weighted midpoint of the pair.
	Type int

	// K regularizes the hyperbolic weight denominator. Must be positive.
	K float64

	// BoundWeight multiplies the cost of edges touching the slab boundary.
	BoundWeight float64

	// PreserveBoundaryMethod: 0 collapses boundary edges like any other,
	// 1 never collapses an edge touching the boundary.
	PreserveBoundaryMethod int

	// HyperbolicWeightType scales the base cost: 0 none, 1 by edge length,
	// 2 by squared length, 3 by length over the mean radius plus K.
	HyperbolicWeightType int

	// ComputeHausdorff tracks the greatest sphere-center displacement in
	// Mesh.Hausdorff.
	ComputeHausdorff bool

	// BoundaryComputeScale additionally scales boundary-edge cost by the
	// edge length when positive.
	BoundaryComputeScale float64

	// PreventInversion rejects collapses that flip an incident face.
	PreventInversion bool
}

// DefaultOptions returns the standard simplification configuration.
func DefaultOptions() Options {
	return Options{
		Type:                   1,
		K:                      0.00001,
		BoundWeight:            1.0,
		PreserveBoundaryMethod: 0,
		HyperbolicWeightType:   3,
		ComputeHausdorff:       false,
		BoundaryComputeScale:   0,
		PreventInversion:       false,
	}
}

type collapseItem struct {
	edge   int
	cost   float64
	vu, vv int // vertex version stamps at push time
	u, v   int
	index  int
}

type collapseHeap []*collapseItem

func (h collapseHeap) Len() int            { return len(h) }
func (h collapseHeap) Less(i, j int) bool  { return h[i].cost < h[j].cost }
func (h collapseHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *collapseHeap) Push(x any) {
	it := x.(*collapseItem)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *collapseHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// Simplify collapses reduction edges, each time merging the cheapest
// remaining pair of spheres. Returns the number of collapses performed,
// which may be less than requested when the mesh runs out of collapsible
// edges.
func (m *Mesh) Simplify(reduction int, opts Options) (int, error) {
	if reduction <= 0 {
		return 0, nil
	}
	if opts.K <= 0 {
		return 0, fmt.Errorf("slab: k factor must be positive, got %g", opts.K)
	}

	h := &collapseHeap{}
	for ei := range m.Edges {
		if !m.Edges[ei].valid {
			continue
		}
		m.pushEdge(h, ei, opts)
	}
	heap.Init(h)

	done := 0
	for done < reduction && h.Len() > 0 {
		it := heap.Pop(h).(*collapseItem)
		if !m.collapseStillValid(it) {
			continue
		}
		if opts.PreventInversion && m.wouldInvert(it.u, it.v, opts) {
			continue
		}
		m.collapse(it.u, it.v, opts)
		done++

		// Incident edges changed; re-rank them.
		for _, ei := range m.neighbors[it.u] {
			m.pushEdge(h, ei, opts)
		}
	}
	return done, nil
}

func (m *Mesh) pushEdge(h *collapseHeap, ei int, opts Options) {
	e := &m.Edges[ei]
	u, v := e.V[0], e.V[1]
	if opts.PreserveBoundaryMethod == 1 &&
		(m.Vertices[u].boundary || m.Vertices[v].boundary) {
		return
	}
	heap.Push(h, &collapseItem{
		edge: ei,
		cost: m.collapseCost(ei, opts),
		vu:   m.Vertices[u].version,
		vv:   m.Vertices[v].version,
		u:    u,
		v:    v,
	})
}

func (m *Mesh) collapseStillValid(it *collapseItem) bool {
	if !m.Edges[it.edge].valid {
		return false
	}
	u, v := &m.Vertices[it.u], &m.Vertices[it.v]
	return u.valid && v.valid && u.version == it.vu && v.version == it.vv
}

// collapseCost is the squared sphere distance weighted by the hyperbolic
// factor and the boundary penalty.
func (m *Mesh) collapseCost(ei int, opts Options) float64 {
	e := &m.Edges[ei]
	u, v := &m.Vertices[e.V[0]], &m.Vertices[e.V[1]]

	d := u.Center.Sub(v.Center).Length()
	dr := u.Radius - v.Radius
	cost := d*d + dr*dr

	switch opts.HyperbolicWeightType {
	case 1:
		cost *= d
	case 2:
		cost *= d * d
	case 3:
		cost *= d / ((u.Radius+v.Radius)/2 + opts.K)
	}

	if u.boundary || v.boundary {
		cost *= opts.BoundWeight
		if opts.BoundaryComputeScale > 0 {
			cost *= opts.BoundaryComputeScale * d
		}
	}
	return cost
}

// collapse merges v into u, placing the merged sphere per Options.Type.
func (m *Mesh) collapse(u, v int, opts Options) {
	vu, vv := &m.Vertices[u], &m.Vertices[v]

	var merged Vertex
	switch opts.Type {
	default: // weighted midpoint
		merged.Center = vu.Center.Add(vv.Center).MulScalar(0.5)
		merged.Radius = (vu.Radius + vv.Radius) / 2
	}
	merged.valid = true
	merged.boundary = vu.boundary || vv.boundary
	merged.version = vu.version + 1

	if opts.ComputeHausdorff {
		if d := vu.Center.Sub(merged.Center).Length(); d > m.Hausdorff {
			m.Hausdorff = d
		}
		if d := vv.Center.Sub(merged.Center).Length(); d > m.Hausdorff {
			m.Hausdorff = d
		}
	}

	// Faces touching both endpoints degenerate; faces touching v move to u.
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		hasU, hasV := false, false
		for _, w := range f.V {
			if w == u {
				hasU = true
			}
			if w == v {
				hasV = true
			}
		}
		if !hasV {
			continue
		}
		if hasU {
			f.valid = false
			continue
		}
		for k := 0; k < 3; k++ {
			if f.V[k] == v {
				f.V[k] = u
			}
		}
	}

	// Rewire v's edges onto u, dropping the collapsed edge and duplicates.
	if ei, ok := m.neighbors[u][v]; ok {
		m.Edges[ei].valid = false
		delete(m.neighbors[u], v)
		delete(m.neighbors[v], u)
	}
	for w, ei := range m.neighbors[v] {
		delete(m.neighbors[w], v)
		if _, dup := m.neighbors[u][w]; dup || w == u {
			m.Edges[ei].valid = false
			continue
		}
		e := &m.Edges[ei]
		if e.V[0] == v {
			e.V[0] = u
		}
		if e.V[1] == v {
			e.V[1] = u
		}
		m.neighbors[u][w] = ei
		m.neighbors[w][u] = ei
	}
	m.neighbors[v] = make(map[int]int)

	m.Vertices[u] = merged
	vv.valid = false
	vv.version++
}

// wouldInvert reports whether merging v into u flips the plane normal of
// any face incident to exactly one endpoint.
func (m *Mesh) wouldInvert(u, v int, opts Options) bool {
	vu, vv := &m.Vertices[u], &m.Vertices[v]
	var merged v3.Vec
	switch opts.Type {
	default:
		merged = vu.Center.Add(vv.Center).MulScalar(0.5)
	}

	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		moved := -1
		dies := false
		for k, w := range f.V {
			if w == u || w == v {
				if moved >= 0 {
					dies = true
					break
				}
				moved = k
			}
		}
		if dies || moved < 0 {
			continue
		}
		a := m.Vertices[f.V[(moved+1)%3]].Center
		b := m.Vertices[f.V[(moved+2)%3]].Center
		before := a.Sub(m.Vertices[f.V[moved]].Center).Cross(b.Sub(m.Vertices[f.V[moved]].Center))
		after := a.Sub(merged).Cross(b.Sub(merged))
		if before.Dot(after) < 0 {
			return true
		}
	}
	return false
}
