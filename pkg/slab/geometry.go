package slab

import (
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ComputeFacesNormal recomputes every face normal from its sphere centers.
// Degenerate faces get a zero normal.
func (m *Mesh) ComputeFacesNormal() {
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		a := m.Vertices[f.V[0]].Center
		b := m.Vertices[f.V[1]].Center
		c := m.Vertices[f.V[2]].Center
		n := b.Sub(a).Cross(c.Sub(a))
		if n.Length2() > 0 {
			n = n.Normalize()
		}
		f.Normal = n
	}
}

// ComputeVerticesNormal averages the incident face normals per vertex.
// Run ComputeFacesNormal first.
func (m *Mesh) ComputeVerticesNormal() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = v3.Vec{}
	}
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		for _, v := range f.V {
			m.Vertices[v].Normal = m.Vertices[v].Normal.Add(f.Normal)
		}
	}
	for i := range m.Vertices {
		v := &m.Vertices[i]
		if v.valid && v.Normal.Length2() > 0 {
			v.Normal = v.Normal.Normalize()
		}
	}
}

// ComputeEdgesCone recomputes the tangent cone of every edge. The cone is
// invalid when one sphere contains the other or the centers coincide.
func (m *Mesh) ComputeEdgesCone() {
	for ei := range m.Edges {
		e := &m.Edges[ei]
		if !e.valid {
			continue
		}
		u, v := &m.Vertices[e.V[0]], &m.Vertices[e.V[1]]

		axis := v.Center.Sub(u.Center)
		d := axis.Length()
		dr := u.Radius - v.Radius
		if d <= math.Abs(dr) || d == 0 {
			e.Cone = Cone{Valid: false}
			continue
		}
		axis = axis.DivScalar(d)

		// Tangency offsets the contact circles along the axis and shrinks
		// their radii by the cone half-angle.
		sinA := dr / d
		cosA := math.Sqrt(1 - sinA*sinA)
		e.Cone = Cone{
			C1:    u.Center.Add(axis.MulScalar(u.Radius * sinA)),
			C2:    v.Center.Add(axis.MulScalar(v.Radius * sinA)),
			R1:    u.Radius * cosA,
			R2:    v.Radius * cosA,
			Axis:  axis,
			Valid: true,
		}
	}
}

// ComputeFacesSimpleTriangles recomputes the two tangent triangles of
// every face by offsetting the sphere centers along the face normal.
// Run ComputeFacesNormal first.
func (m *Mesh) ComputeFacesSimpleTriangles() {
	for fi := range m.Faces {
		f := &m.Faces[fi]
		if !f.valid {
			continue
		}
		for k := 0; k < 3; k++ {
			v := &m.Vertices[f.V[k]]
			f.Tris[0].V[k] = v.Center.Add(f.Normal.MulScalar(v.Radius))
			f.Tris[1].V[k] = v.Center.Sub(f.Normal.MulScalar(v.Radius))
		}
	}
}
