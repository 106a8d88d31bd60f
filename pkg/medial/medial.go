// Package medial approximates the interior medial axis of a polyhedral
// domain from the Voronoi diagram dual to a Delaunay triangulation:
// circumcenters of tetrahedra inside the domain become medial vertices
// carrying their circumradius, adjacent interior tetrahedra yield medial
// edges, and rings of interior tetrahedra around a Delaunay edge yield
// medial faces.
package medial

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Alireza-Khatami/qmat-cli/pkg/delaunay"
	"github.com/Alireza-Khatami/qmat-cli/pkg/domain"
)

// Sphere is a medial vertex: a center with its maximal inscribed radius.
type Sphere struct {
	Center v3.Vec
	Radius float64
}

// Axis is the extracted medial-axis approximation.
type Axis struct {
	Vertices []Sphere
	Edges    [][2]int
	Faces    [][3]int
}

// Extract computes the medial axis of the domain from its Delaunay
// triangulation. Only tetrahedra whose circumcenter lies inside the
// domain contribute.
func Extract(tri *delaunay.Triangulation, dom *domain.Domain) (*Axis, error) {
	axis := &Axis{}

	// Interior tetrahedra become medial vertices.
	tetVertex := make(map[int]int)
	for ti := range tri.Tets {
		tet := &tri.Tets[ti]
		if !dom.Contains(tet.Center) {
			continue
		}
		tetVertex[ti] = len(axis.Vertices)
		axis.Vertices = append(axis.Vertices, Sphere{
			Center: tet.Center,
			Radius: math.Sqrt(tet.R2),
		})
	}
	if len(axis.Vertices) == 0 {
		return nil, fmt.Errorf("medial: no interior Voronoi vertices; domain may be too thin for its sampling")
	}

	// Shared faces between interior tetrahedra become medial edges.
	type faceRef struct{ a, b int }
	faceTets := make(map[[3]int]faceRef)
	for ti := range tri.Tets {
		if _, interior := tetVertex[ti]; !interior {
			continue
		}
		for _, fk := range tri.Tets[ti].Faces() {
			key := [3]int{fk[0], fk[1], fk[2]}
			ref, seen := faceTets[key]
			if !seen {
				faceTets[key] = faceRef{a: ti, b: -1}
				continue
			}
			ref.b = ti
			faceTets[key] = ref
		}
	}
	for ti := range tri.Tets {
		if _, interior := tetVertex[ti]; !interior {
			continue
		}
		for _, fk := range tri.Tets[ti].Faces() {
			key := [3]int{fk[0], fk[1], fk[2]}
			ref := faceTets[key]
			if ref.b == ti { // emit each shared face once, from its second tet
				axis.Edges = append(axis.Edges, [2]int{tetVertex[ref.a], tetVertex[ref.b]})
			}
		}
	}

	// Rings of interior tetrahedra around a Delaunay edge become faces.
	edgeTets := make(map[[2]int][]int)
	var edgeOrder [][2]int
	for ti := range tri.Tets {
		if _, interior := tetVertex[ti]; !interior {
			continue
		}
		v := tri.Tets[ti].V
		for i := 0; i < 4; i++ {
			for j := i + 1; j < 4; j++ {
				a, b := v[i], v[j]
				if a > b {
					a, b = b, a
				}
				key := [2]int{a, b}
				if _, seen := edgeTets[key]; !seen {
					edgeOrder = append(edgeOrder, key)
				}
				edgeTets[key] = append(edgeTets[key], ti)
			}
		}
	}
	for _, key := range edgeOrder {
		ring := orderRing(tri, edgeTets[key])
		if len(ring) < 3 {
			continue
		}
		for i := 1; i+1 < len(ring); i++ {
			axis.Faces = append(axis.Faces, [3]int{
				tetVertex[ring[0]],
				tetVertex[ring[i]],
				tetVertex[ring[i+1]],
			})
		}
	}

	return axis, nil
}

// orderRing orders the tetrahedra around a Delaunay edge by face
// adjacency and returns them only if they close into a cycle.
func orderRing(tri *delaunay.Triangulation, tets []int) []int {
	if len(tets) < 3 {
		return nil
	}
	adjacent := func(a, b int) bool {
		shared := 0
		for _, va := range tri.Tets[a].V {
			for _, vb := range tri.Tets[b].V {
				if va == vb {
					shared++
				}
			}
		}
		return shared == 3
	}

	ring := []int{tets[0]}
	used := map[int]bool{tets[0]: true}
	for len(ring) < len(tets) {
		last := ring[len(ring)-1]
		found := false
		for _, t := range tets {
			if !used[t] && adjacent(last, t) {
				ring = append(ring, t)
				used[t] = true
				found = true
				break
			}
		}
		if !found {
			return nil // open fan, not a closed ring
		}
	}
	if !adjacent(ring[len(ring)-1], ring[0]) {
		return nil
	}
	return ring
}

// VertexCount returns the number of medial vertices.
func (a *Axis) VertexCount() int { return len(a.Vertices) }

// Write emits the axis in the .ma format: a "nv ne nf" header followed
// by "v x y z r", "e i j" and "f i j k" lines.
func (a *Axis) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%d %d %d\n", len(a.Vertices), len(a.Edges), len(a.Faces)); err != nil {
		return err
	}
	for _, s := range a.Vertices {
		if _, err := fmt.Fprintf(bw, "v %.17g %.17g %.17g %.17g\n",
			s.Center.X, s.Center.Y, s.Center.Z, s.Radius); err != nil {
			return err
		}
	}
	for _, e := range a.Edges {
		if _, err := fmt.Fprintf(bw, "e %d %d\n", e[0], e[1]); err != nil {
			return err
		}
	}
	for _, f := range a.Faces {
		if _, err := fmt.Fprintf(bw, "f %d %d %d\n", f[0], f[1], f[2]); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes the axis to path in the .ma format.
func (a *Axis) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("medial: %w", err)
	}
	if err := a.Write(f); err != nil {
		f.Close()
		return fmt.Errorf("medial: writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("medial: %w", err)
	}
	return nil
}
