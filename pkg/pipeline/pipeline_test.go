package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/Alireza-Khatami/qmat-cli/pkg/config"
)

// A closed, slightly perturbed cube; the perturbation keeps the corners
// out of degenerate (cospherical) position for the triangulation stage.
const cubeOFF = `OFF
8 6 0
0 0 0
1 0 0.001
1 1 0
0 1 0.002
0 0.001 1
1 0 1.001
1.002 1 1
0 1 1
4 0 3 2 1
4 4 5 6 7
4 0 1 5 4
4 2 3 7 6
4 0 4 7 3
4 1 2 6 5
`

func writeCube(t *testing.T) (input, prefix string) {
	t.Helper()
	dir := t.TempDir()
	input = filepath.Join(dir, "cube.off")
	if err := os.WriteFile(input, []byte(cubeOFF), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return input, filepath.Join(dir, "cube")
}

func cubeConfig(t *testing.T, simplify int) *config.Config {
	t.Helper()
	input, prefix := writeCube(t)
	cfg := config.Default()
	cfg.Input = input
	cfg.Pipeline.OutputPrefix = prefix
	cfg.Pipeline.Simplify = simplify
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	cfg := cubeConfig(t, 0)
	p := New(cfg, zap.NewNop())
	if err := p.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if p.Mesh() == nil || p.Mesh().VertexCount() != 8 {
		t.Error("storage mesh missing or wrong size")
	}
	if p.Attributes() == nil {
		t.Error("attributes not computed")
	}
	if p.Axis() == nil || p.Axis().VertexCount() == 0 {
		t.Error("medial axis empty")
	}
	if p.Slab() != nil {
		t.Error("simplification ran without a target")
	}

	if _, err := os.Stat(cfg.Pipeline.OutputPrefix + ".ma"); err != nil {
		t.Errorf("medial axis file missing: %v", err)
	}
	if _, err := os.Stat(cfg.Pipeline.OutputPrefix + "_simplified.ma"); err == nil {
		t.Error("simplified file written although the stage was skipped")
	}
}

func TestRunWithSimplification(t *testing.T) {
	cfg := cubeConfig(t, 2)
	p := New(cfg, zap.NewNop())
	if err := p.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if p.Slab() == nil {
		t.Fatal("simplification stage produced no slab")
	}
	if got, before := p.Slab().NumVertices(), p.Axis().VertexCount(); got >= before {
		t.Errorf("slab vertices = %d, want fewer than %d", got, before)
	}
	if _, err := os.Stat(cfg.Pipeline.OutputPrefix + "_simplified.ma"); err != nil {
		t.Errorf("simplified file missing: %v", err)
	}
}

func TestRunSkipsSimplificationAboveCurrent(t *testing.T) {
	cfg := cubeConfig(t, 100000)
	p := New(cfg, zap.NewNop())
	if err := p.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if p.Slab() != nil {
		t.Error("simplification ran although the target exceeds the vertex count")
	}
}

func TestRunFailsOnMissingInput(t *testing.T) {
	cfg := config.Default()
	cfg.Input = filepath.Join(t.TempDir(), "nope.off")
	cfg.Pipeline.OutputPrefix = "nope"
	if err := New(cfg, zap.NewNop()).Run(); err == nil {
		t.Fatal("expected error for a missing input file")
	}
}

func TestRunFailsOnUnknownFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "cube.stl")
	if err := os.WriteFile(input, []byte("solid cube"), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	cfg := config.Default()
	cfg.Input = input
	cfg.Pipeline.OutputPrefix = filepath.Join(dir, "cube")
	if err := New(cfg, zap.NewNop()).Run(); err == nil {
		t.Fatal("expected error for an unrecognized format")
	}
}
