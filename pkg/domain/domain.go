// Package domain wraps a validated exact-kernel mesh in a spatial query
// structure. Inside/outside tests use exact rational predicates so they
// never misclassify near the surface; proximity queries run against an
// R-tree over the facet bounding boxes.
package domain

import (
	"fmt"
	"math"
	"math/rand"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/dhconnelly/rtreego"

	"github.com/Alireza-Khatami/qmat-cli/pkg/hemesh"
	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
)

// rayAttempts bounds the perturbed re-casts when a ray hits a triangle
// edge or vertex exactly.
const rayAttempts = 32

// triangle is one fan triangle of a facet, carried in both algebras:
// exact points feed the predicates, float mirrors feed the R-tree and
// distance arithmetic.
type triangle struct {
	a, b, c    kernel.Point
	fa, fb, fc v3.Vec
	rect       rtreego.Rect
}

func (t *triangle) Bounds() rtreego.Rect { return t.rect }

// Domain answers inside/outside and proximity queries for the volume
// bounded by a polyhedral mesh. The mesh is referenced, not copied.
type Domain struct {
	mesh  *hemesh.Mesh[kernel.Point]
	tris  []*triangle
	tree  *rtreego.Rtree
	bbMin v3.Vec
	bbMax v3.Vec
	diag  float64
}

// New builds a domain over an exact-kernel mesh. Polygonal facets are
// fan-triangulated for the query structures; the mesh itself is left
// untouched.
func New(m *hemesh.Mesh[kernel.Point]) (*Domain, error) {
	if m.FacetCount() == 0 {
		return nil, fmt.Errorf("domain: mesh has no facets")
	}

	d := &Domain{
		mesh:  m,
		bbMin: v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)},
		bbMax: v3.Vec{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)},
	}
	for v := 0; v < m.VertexCount(); v++ {
		p := m.Point(v).Vec()
		d.bbMin = d.bbMin.Min(p)
		d.bbMax = d.bbMax.Max(p)
	}
	d.diag = d.bbMax.Sub(d.bbMin).Length()

	d.tree = rtreego.NewTree(3, 25, 50)
	for f := 0; f < m.FacetCount(); f++ {
		verts := m.FacetVertices(f)
		for i := 1; i+1 < len(verts); i++ {
			tri := &triangle{
				a: m.Point(verts[0]),
				b: m.Point(verts[i]),
				c: m.Point(verts[i+1]),
			}
			tri.fa = tri.a.Vec()
			tri.fb = tri.b.Vec()
			tri.fc = tri.c.Vec()
			rect, err := triangleRect(tri.fa, tri.fb, tri.fc)
			if err != nil {
				return nil, fmt.Errorf("domain: indexing facet %d: %w", f, err)
			}
			tri.rect = rect
			d.tris = append(d.tris, tri)
			d.tree.Insert(tri)
		}
	}
	return d, nil
}

// Mesh returns the underlying exact mesh.
func (d *Domain) Mesh() *hemesh.Mesh[kernel.Point] { return d.mesh }

// BoundingBox returns the axis-aligned bounding box of the boundary.
func (d *Domain) BoundingBox() (min, max v3.Vec) { return d.bbMin, d.bbMax }

func triangleRect(a, b, c v3.Vec) (rtreego.Rect, error) {
	lo := a.Min(b).Min(c)
	hi := a.Max(b).Max(c)
	size := hi.Sub(lo)
	// rtreego rejects zero-extent rectangles; pad degenerate axes.
	const pad = 1e-12
	return rtreego.NewRect(
		rtreego.Point{lo.X, lo.Y, lo.Z},
		[]float64{size.X + pad, size.Y + pad, size.Z + pad},
	)
}

// Contains reports whether p lies inside (or exactly on) the boundary
// surface. It casts a segment from p to a point outside the bounding box
// and counts exact crossings; hits on edges or vertices re-cast in a
// perturbed direction.
func (d *Domain) Contains(p v3.Vec) bool {
	if p.X < d.bbMin.X || p.Y < d.bbMin.Y || p.Z < d.bbMin.Z ||
		p.X > d.bbMax.X || p.Y > d.bbMax.Y || p.Z > d.bbMax.Z {
		return false
	}

	pe := kernel.NewPoint(p.X, p.Y, p.Z)
	for _, tri := range d.tris {
		if kernel.Orient3D(tri.a, tri.b, tri.c, pe) == 0 && pointInCoplanarTriangle(pe, tri) {
			return true // on the boundary
		}
	}

	rng := rand.New(rand.NewSource(int64(math.Float64bits(p.X) ^ math.Float64bits(p.Y))))
	scale := 4*d.diag + 1
	for attempt := 0; attempt < rayAttempts; attempt++ {
		dir := v3.Vec{
			X: 0.5 + rng.Float64(),
			Y: 0.5 + rng.Float64(),
			Z: 0.5 + rng.Float64(),
		}
		if attempt%2 == 1 {
			dir = dir.MulScalar(-1)
		}
		q := p.Add(dir.MulScalar(scale))
		qe := kernel.NewPoint(q.X, q.Y, q.Z)

		crossings, ok := d.countCrossings(pe, qe)
		if ok {
			return crossings%2 == 1
		}
	}
	// Every cast was degenerate; out of caution report outside.
	return false
}

// countCrossings counts exact segment/triangle crossings. ok is false
// when the segment grazes an edge, vertex, or coplanar configuration and
// the parity is not trustworthy.
func (d *Domain) countCrossings(p, q kernel.Point) (int, bool) {
	crossings := 0
	for _, tri := range d.tris {
		sp := kernel.Orient3D(tri.a, tri.b, tri.c, p)
		sq := kernel.Orient3D(tri.a, tri.b, tri.c, q)
		if sq == 0 {
			return 0, false
		}
		if sp == 0 || sp == sq {
			// p on the plane crosses nothing (surface hits were handled
			// before casting); same side crosses nothing.
			continue
		}
		s1 := kernel.Orient3D(p, q, tri.a, tri.b)
		s2 := kernel.Orient3D(p, q, tri.b, tri.c)
		s3 := kernel.Orient3D(p, q, tri.c, tri.a)
		if s1 == 0 || s2 == 0 || s3 == 0 {
			return 0, false
		}
		if s1 == s2 && s2 == s3 {
			crossings++
		}
	}
	return crossings, true
}

// SquaredDistance returns the squared distance from p to the nearest
// boundary facet, searching R-tree candidates nearest by bounding box.
func (d *Domain) SquaredDistance(p v3.Vec) float64 {
	const candidates = 16
	nearest := d.tree.NearestNeighbors(candidates, rtreego.Point{p.X, p.Y, p.Z})
	best := math.Inf(1)
	for _, s := range nearest {
		if s == nil {
			continue
		}
		tri := s.(*triangle)
		if d2 := pointTriangleSquaredDistance(p, tri.fa, tri.fb, tri.fc); d2 < best {
			best = d2
		}
	}
	return best
}
