package hemesh

import (
	"strings"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
)

func TestValidateDetectsBrokenTwin(t *testing.T) {
	m, _, err := Build(tetraSoup(), kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	m.halfedges[0].Twin = 0
	err = m.Validate()
	if err == nil {
		t.Fatal("expected validation failure")
	}
	if !strings.Contains(err.Error(), "twin") {
		t.Errorf("error = %q, want twin complaint", err)
	}
}

func TestValidateDetectsBrokenChain(t *testing.T) {
	m, _, err := Build(tetraSoup(), kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	m.halfedges[2].Next = m.halfedges[2].Twin
	if m.Validate() == nil {
		t.Fatal("expected validation failure for broken next chain")
	}
}

func TestValidateEmptyMesh(t *testing.T) {
	m := &Mesh[v3.Vec]{}
	if err := m.Validate(); err != nil {
		t.Errorf("empty mesh Validate() = %v, want nil", err)
	}
	if !m.IsClosed() {
		t.Error("empty mesh is vacuously closed")
	}
}

func TestBorderLoopIsStitched(t *testing.T) {
	m, _, err := Build(fanSoup(), kernel.Float{})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	// Walk the border starting from any border half-edge; the Next links
	// set by EndSurface must cycle through every border half-edge.
	start := None
	for h := 0; h < m.HalfedgeCount(); h++ {
		if m.Halfedge(h).Facet == None {
			start = h
			break
		}
	}
	if start == None {
		t.Fatal("fan should have a border")
	}
	visited := 0
	h := start
	for {
		if m.Halfedge(h).Facet != None {
			t.Fatalf("border walk entered facet half-edge %d", h)
		}
		visited++
		h = m.Halfedge(h).Next
		if h == start {
			break
		}
		if visited > m.HalfedgeCount() {
			t.Fatal("border walk does not cycle")
		}
	}
	if visited != m.BorderHalfedgeCount() {
		t.Errorf("border cycle covers %d half-edges, want %d", visited, m.BorderHalfedgeCount())
	}
}
