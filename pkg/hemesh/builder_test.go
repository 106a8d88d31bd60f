package hemesh

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
	"github.com/Alireza-Khatami/qmat-cli/pkg/soup"
)

// tetraSoup is a closed tetrahedron with consistent outward orientation.
func tetraSoup() *soup.PolygonSoup {
	return &soup.PolygonSoup{
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
}

// fanSoup is an open fan of triangles around a central vertex.
func fanSoup() *soup.PolygonSoup {
	return &soup.PolygonSoup{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			1, 1, 0,
			0, 1, 0,
			-1, 1, 0,
		},
		Faces: [][]int{
			{0, 1, 2},
			{0, 2, 3},
			{0, 3, 4},
		},
	}
}

func TestBuildTetrahedron(t *testing.T) {
	s := tetraSoup()
	m, diags, err := Build(s, kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
	if m.VertexCount() != s.VertexCount() {
		t.Errorf("VertexCount() = %d, want %d", m.VertexCount(), s.VertexCount())
	}
	if m.FacetCount() != 4 {
		t.Errorf("FacetCount() = %d, want 4", m.FacetCount())
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if !m.IsClosed() {
		t.Error("tetrahedron should be closed")
	}
}

func TestBuildPreservesOrder(t *testing.T) {
	s := tetraSoup()
	m, _, err := Build(s, kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	for i := 0; i < s.VertexCount(); i++ {
		x, y, z := s.Vertex(i)
		if p := m.Point(i); p != (v3.Vec{X: x, Y: y, Z: z}) {
			t.Errorf("Point(%d) = %v, want (%v %v %v)", i, p, x, y, z)
		}
	}
	for f := 0; f < m.FacetCount(); f++ {
		got := m.FacetVertices(f)
		want := s.Faces[f]
		if len(got) != len(want) {
			t.Fatalf("facet %d arity = %d, want %d", f, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("facet %d = %v, want %v (orientation must be preserved)", f, got, want)
				break
			}
		}
	}
}

func TestBuildOpenFan(t *testing.T) {
	m, diags, err := Build(fanSoup(), kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
	if m.IsClosed() {
		t.Error("open fan must not report closed")
	}
	if m.BorderHalfedgeCount() == 0 {
		t.Error("open fan should have border half-edges")
	}
}

func TestBuildSkipsDuplicateDirectedEdge(t *testing.T) {
	s := &soup.PolygonSoup{
		Vertices: []float64{
			0, 0, 0,
			1, 0, 0,
			0, 1, 0,
			0, 0, 1,
		},
		Faces: [][]int{
			{0, 1, 2},
			{0, 1, 3}, // reuses directed edge 0->1: must be skipped
		},
	}
	m, diags, err := Build(s, kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.FacetCount() != 1 {
		t.Errorf("FacetCount() = %d, want 1 (second facet skipped)", m.FacetCount())
	}
	if len(diags) != 1 {
		t.Fatalf("diagnostics = %v, want exactly one", diags)
	}
	d := diags[0]
	if d.Severity != SeverityWarning || d.Facet != 1 {
		t.Errorf("diagnostic = %+v, want warning about facet 1", d)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() after skip = %v, want nil", err)
	}
}

func TestBuildRejectsRepeatedVertexInFace(t *testing.T) {
	s := tetraSoup()
	s.Faces = [][]int{{0, 1, 0}}
	m, diags, err := Build(s, kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.FacetCount() != 0 {
		t.Errorf("FacetCount() = %d, want 0", m.FacetCount())
	}
	if len(diags) != 1 {
		t.Errorf("diagnostics = %v, want one skip warning", diags)
	}
}

func TestBuildOutOfRangeIndexFails(t *testing.T) {
	s := tetraSoup()
	s.Faces[2] = []int{1, 2, 99}
	m, _, err := Build(s, kernel.Float{})
	if err == nil {
		t.Fatal("expected error for out-of-range index")
	}
	if m != nil {
		t.Error("no mesh must be returned on failure")
	}
	if !strings.Contains(err.Error(), "out of range") {
		t.Errorf("error = %q, want out-of-range message", err)
	}
	if !strings.Contains(err.Error(), "99") {
		t.Errorf("error = %q, should name the bad index", err)
	}
}

func TestBuildDeterministic(t *testing.T) {
	s := fanSoup()
	m1, _, err1 := Build(s, kernel.Float{})
	m2, _, err2 := Build(s, kernel.Float{})
	if err1 != nil || err2 != nil {
		t.Fatalf("Build() errors = %v, %v", err1, err2)
	}
	if m1.VertexCount() != m2.VertexCount() || m1.FacetCount() != m2.FacetCount() {
		t.Fatal("repeated construction disagrees on counts")
	}
	for f := 0; f < m1.FacetCount(); f++ {
		a, b := m1.FacetVertices(f), m2.FacetVertices(f)
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("facet %d differs between runs: %v vs %v", f, a, b)
			}
		}
	}
}

func TestBuildExactKernel(t *testing.T) {
	m, _, err := Build(tetraSoup(), kernel.Exact{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if !m.IsClosed() {
		t.Error("exact-kernel tetrahedron should be closed")
	}
	if x, _ := m.Point(1).X.Float64(); x != 1 {
		t.Errorf("Point(1).X = %v, want 1", x)
	}
}

func TestTestFacet(t *testing.T) {
	b := NewBuilder[v3.Vec]()
	b.BeginSurface(4, 2)
	for i := 0; i < 4; i++ {
		b.AddVertex(v3.Vec{X: float64(i)})
	}
	if err := b.AddFacet([]int{0, 1, 2}); err != nil {
		t.Fatalf("AddFacet() error = %v", err)
	}

	tests := []struct {
		name    string
		indices []int
		want    bool
	}{
		{"too short", []int{0, 1}, false},
		{"repeated vertex", []int{0, 1, 0}, false},
		{"claimed directed edge", []int{0, 1, 3}, false},
		{"opposite orientation ok", []int{2, 1, 3}, true},
		{"out of range", []int{0, 1, 9}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := b.TestFacet(tt.indices); got != tt.want {
				t.Errorf("TestFacet(%v) = %v, want %v", tt.indices, got, tt.want)
			}
		})
	}
}
