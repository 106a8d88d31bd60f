package medial

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Alireza-Khatami/qmat-cli/pkg/delaunay"
	"github.com/Alireza-Khatami/qmat-cli/pkg/domain"
	"github.com/Alireza-Khatami/qmat-cli/pkg/hemesh"
	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
	"github.com/Alireza-Khatami/qmat-cli/pkg/soup"
)

// boxSoup is a closed, slightly perturbed cube; the perturbation keeps
// the corners out of degenerate (cospherical) position.
func boxSoup() *soup.PolygonSoup {
	return &soup.PolygonSoup{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0.001,
			1, 1, 0,
			0, 1, 0.002,
			0, 0.001, 1,
			1, 0, 1.001,
			1.002, 1, 1,
			0, 1, 1,
		},
		Faces: [][]int{
			{0, 3, 2, 1},
			{4, 5, 6, 7},
			{0, 1, 5, 4},
			{2, 3, 7, 6},
			{0, 4, 7, 3},
			{1, 2, 6, 5},
		},
	}
}

func boxDomain(t *testing.T) *domain.Domain {
	t.Helper()
	m, _, err := hemesh.Build(boxSoup(), kernel.Exact{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	d, err := domain.New(m)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func boxPoints() []v3.Vec {
	s := boxSoup()
	points := make([]v3.Vec, s.VertexCount())
	for i := range points {
		x, y, z := s.Vertex(i)
		points[i] = v3.Vec{X: x, Y: y, Z: z}
	}
	return points
}

func TestExtractBox(t *testing.T) {
	dom := boxDomain(t)
	tri, err := delaunay.Triangulate(boxPoints())
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}

	axis, err := Extract(tri, dom)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if axis.VertexCount() == 0 {
		t.Fatal("no medial vertices for a box")
	}

	// Medial spheres of a box sit near its center with a radius bounded
	// by the half-diagonal.
	for i, s := range axis.Vertices {
		if !dom.Contains(s.Center) {
			t.Errorf("vertex %d center %v not inside the domain", i, s.Center)
		}
		if s.Radius <= 0 || s.Radius > 2 {
			t.Errorf("vertex %d radius = %v, out of plausible range", i, s.Radius)
		}
		if s.Center.Sub(v3.Vec{X: 0.5, Y: 0.5, Z: 0.5}).Length() > 0.9 {
			t.Errorf("vertex %d center = %v, far from the box center", i, s.Center)
		}
	}

	if len(tri.Tets) > 1 && len(axis.Edges) == 0 {
		t.Error("adjacent interior tetrahedra produced no edges")
	}
	for i, e := range axis.Edges {
		if e[0] < 0 || e[0] >= axis.VertexCount() || e[1] < 0 || e[1] >= axis.VertexCount() {
			t.Errorf("edge %d references vertex out of range: %v", i, e)
		}
	}
	for i, f := range axis.Faces {
		for _, v := range f {
			if v < 0 || v >= axis.VertexCount() {
				t.Errorf("face %d references vertex out of range: %v", i, f)
			}
		}
	}
}

func TestExtractNoInteriorVertices(t *testing.T) {
	// The circumcenter of a right-corner tetrahedron lies outside it.
	s := &soup.PolygonSoup{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		Faces: [][]int{
			{0, 2, 1},
			{0, 1, 3},
			{1, 2, 3},
			{0, 3, 2},
		},
	}
	m, _, err := hemesh.Build(s, kernel.Exact{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	dom, err := domain.New(m)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	tri, err := delaunay.Triangulate([]v3.Vec{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
	})
	if err != nil {
		t.Fatalf("Triangulate() error = %v", err)
	}
	if _, err := Extract(tri, dom); err == nil {
		t.Fatal("expected error when no circumcenter is interior")
	}
}

func TestWriteFormat(t *testing.T) {
	axis := &Axis{
		Vertices: []Sphere{
			{Center: v3.Vec{X: 1, Y: 2, Z: 3}, Radius: 0.5},
			{Center: v3.Vec{X: 4, Y: 5, Z: 6}, Radius: 1.5},
			{Center: v3.Vec{X: 7, Y: 8, Z: 9}, Radius: 2.5},
		},
		Edges: [][2]int{{0, 1}, {1, 2}},
		Faces: [][3]int{{0, 1, 2}},
	}

	var sb strings.Builder
	if err := axis.Write(&sb); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	lines := strings.Split(strings.TrimRight(sb.String(), "\n"), "\n")
	if len(lines) != 1+3+2+1 {
		t.Fatalf("got %d lines, want 7", len(lines))
	}
	if lines[0] != "3 2 1" {
		t.Errorf("header = %q, want %q", lines[0], "3 2 1")
	}
	if lines[1] != "v 1 2 3 0.5" {
		t.Errorf("vertex line = %q", lines[1])
	}
	if lines[4] != "e 0 1" {
		t.Errorf("edge line = %q", lines[4])
	}
	if lines[6] != "f 0 1 2" {
		t.Errorf("face line = %q", lines[6])
	}
}

func TestWriteFile(t *testing.T) {
	axis := &Axis{
		Vertices: []Sphere{{Center: v3.Vec{X: 0, Y: 0, Z: 0}, Radius: 1}},
	}
	path := filepath.Join(t.TempDir(), "out.ma")
	if err := axis.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.HasPrefix(string(data), "1 0 0\n") {
		t.Errorf("file starts with %q", string(data[:min(len(data), 10)]))
	}
}
