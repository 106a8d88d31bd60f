package hemesh

import (
	"math"
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Attributes are derived per-mesh display properties of the storage
// mesh: bounding box, facet normals, and a random color per facet.
type Attributes struct {
	BBoxMin      v3.Vec
	BBoxMax      v3.Vec
	FacetNormals []v3.Vec
	FacetColors  [][3]uint8
}

// ComputeAttributes derives the attributes of a floating-point mesh.
// Normals use Newell's method so non-planar polygons still get a
// sensible direction. Colors are deterministic for a given facet count.
func ComputeAttributes(m *Mesh[v3.Vec]) *Attributes {
	a := &Attributes{
		BBoxMin: v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		BBoxMax: v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}

	for v := 0; v < m.VertexCount(); v++ {
		p := m.Point(v)
		a.BBoxMin = a.BBoxMin.Min(p)
		a.BBoxMax = a.BBoxMax.Max(p)
	}
	if m.VertexCount() == 0 {
		a.BBoxMin = v3.Vec{}
		a.BBoxMax = v3.Vec{}
	}

	rng := rand.New(rand.NewSource(1))
	a.FacetNormals = make([]v3.Vec, m.FacetCount())
	a.FacetColors = make([][3]uint8, m.FacetCount())
	for f := 0; f < m.FacetCount(); f++ {
		a.FacetNormals[f] = FacetNormal(m, f)
		a.FacetColors[f] = [3]uint8{
			uint8(rng.Intn(256)),
			uint8(rng.Intn(256)),
			uint8(rng.Intn(256)),
		}
	}
	return a
}

// FacetNormal returns the unit normal of facet f (Newell's method).
func FacetNormal(m *Mesh[v3.Vec], f int) v3.Vec {
	verts := m.FacetVertices(f)
	var n v3.Vec
	for i, vi := range verts {
		cur := m.Point(vi)
		nxt := m.Point(verts[(i+1)%len(verts)])
		n.X += (cur.Y - nxt.Y) * (cur.Z + nxt.Z)
		n.Y += (cur.Z - nxt.Z) * (cur.X + nxt.X)
		n.Z += (cur.X - nxt.X) * (cur.Y + nxt.Y)
	}
	if n.Length() == 0 {
		return n
	}
	return n.Normalize()
}
