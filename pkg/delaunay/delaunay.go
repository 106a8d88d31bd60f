// Package delaunay computes a three-dimensional Delaunay triangulation
// with the incremental Bowyer-Watson algorithm. The medial-axis stage
// consumes the tetrahedra and their circumspheres.
package delaunay

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Tetrahedron is one cell of the triangulation, with its circumsphere
// precomputed.
type Tetrahedron struct {
	V      [4]int // indices into Triangulation.Points
	Center v3.Vec // circumcenter
	R2     float64
}

// Triangulation is the set of Delaunay tetrahedra over a point set.
type Triangulation struct {
	Points []v3.Vec
	Tets   []Tetrahedron
}

// faceKey identifies an undirected triangular face.
type faceKey [3]int

func makeFaceKey(a, b, c int) faceKey {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return faceKey{a, b, c}
}

// Faces returns the four faces of the tetrahedron as sorted keys.
func (t *Tetrahedron) Faces() [4]faceKey {
	v := t.V
	return [4]faceKey{
		makeFaceKey(v[0], v[1], v[2]),
		makeFaceKey(v[0], v[1], v[3]),
		makeFaceKey(v[0], v[2], v[3]),
		makeFaceKey(v[1], v[2], v[3]),
	}
}

// Triangulate computes the Delaunay tetrahedralization of points.
// Duplicate points are inserted once. At least four non-coplanar points
// are required for a non-empty result.
func Triangulate(points []v3.Vec) (*Triangulation, error) {
	if len(points) < 4 {
		return nil, fmt.Errorf("delaunay: need at least 4 points, got %d", len(points))
	}

	tri := &Triangulation{Points: append([]v3.Vec(nil), points...)}
	n := len(tri.Points)

	// Enclosing super-tetrahedron, appended after the real points.
	min := v3.Vec{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	max := min.MulScalar(-1)
	for _, p := range tri.Points {
		min = min.Min(p)
		max = max.Max(p)
	}
	mid := min.Add(max).MulScalar(0.5)
	s := max.Sub(min).Length()*10 + 1
	tri.Points = append(tri.Points,
		mid.Add(v3.Vec{X: 0, Y: 0, Z: 4 * s}),
		mid.Add(v3.Vec{X: -4 * s, Y: -4 * s, Z: -2 * s}),
		mid.Add(v3.Vec{X: 4 * s, Y: -4 * s, Z: -2 * s}),
		mid.Add(v3.Vec{X: 0, Y: 4 * s, Z: -2 * s}),
	)

	super, ok := makeTet(tri.Points, n, n+1, n+2, n+3)
	if !ok {
		return nil, fmt.Errorf("delaunay: degenerate super-tetrahedron")
	}
	tets := []Tetrahedron{super}

	seen := make(map[v3.Vec]struct{}, n)
	for i := 0; i < n; i++ {
		p := tri.Points[i]
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}

		// Cavity: all tetrahedra whose circumsphere contains p.
		var keep []Tetrahedron
		faceCount := make(map[faceKey]int)
		faceOwner := make(map[faceKey][3]int)
		for _, t := range tets {
			if p.Sub(t.Center).Length2() <= t.R2*(1+1e-12) {
				for _, fk := range t.Faces() {
					faceCount[fk]++
					faceOwner[fk] = [3]int{fk[0], fk[1], fk[2]}
				}
			} else {
				keep = append(keep, t)
			}
		}
		if len(faceCount) == 0 {
			return nil, fmt.Errorf("delaunay: point %d falls outside the super-tetrahedron", i)
		}

		// Re-triangulate the cavity boundary against p.
		tets = keep
		for fk, count := range faceCount {
			if count != 1 {
				continue
			}
			f := faceOwner[fk]
			t, ok := makeTet(tri.Points, f[0], f[1], f[2], i)
			if !ok {
				continue // sliver against a cavity face
			}
			tets = append(tets, t)
		}
	}

	// Drop every tetrahedron touching a super-vertex.
	for _, t := range tets {
		if t.V[0] >= n || t.V[1] >= n || t.V[2] >= n || t.V[3] >= n {
			continue
		}
		tri.Tets = append(tri.Tets, t)
	}
	tri.Points = tri.Points[:n]
	return tri, nil
}

// makeTet assembles a positively oriented tetrahedron and its
// circumsphere. ok is false for (near-)degenerate cells.
func makeTet(points []v3.Vec, i0, i1, i2, i3 int) (Tetrahedron, bool) {
	p0 := points[i0]
	a := points[i1].Sub(p0)
	b := points[i2].Sub(p0)
	c := points[i3].Sub(p0)

	det := a.Dot(b.Cross(c))
	scale := a.Length() * b.Length() * c.Length()
	if math.Abs(det) <= 1e-12*scale || scale == 0 {
		return Tetrahedron{}, false
	}
	if det < 0 {
		i2, i3 = i3, i2
		b, c = c, b
		det = -det
	}

	// Circumcenter offset from p0.
	o := b.Cross(c).MulScalar(a.Length2()).
		Add(c.Cross(a).MulScalar(b.Length2())).
		Add(a.Cross(b).MulScalar(c.Length2())).
		DivScalar(2 * det)

	return Tetrahedron{
		V:      [4]int{i0, i1, i2, i3},
		Center: p0.Add(o),
		R2:     o.Length2(),
	}, true
}
