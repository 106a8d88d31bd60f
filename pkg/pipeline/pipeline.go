// Package pipeline runs the medial-axis stages in order: load the mesh,
// build the exact query domain, triangulate, extract the medial axis,
// and optionally simplify the slab. Each stage gates the next; the first
// failure halts the run.
package pipeline

import (
	"fmt"
	"time"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Alireza-Khatami/qmat-cli/pkg/config"
	"github.com/Alireza-Khatami/qmat-cli/pkg/delaunay"
	"github.com/Alireza-Khatami/qmat-cli/pkg/domain"
	"github.com/Alireza-Khatami/qmat-cli/pkg/hemesh"
	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
	"github.com/Alireza-Khatami/qmat-cli/pkg/medial"
	"github.com/Alireza-Khatami/qmat-cli/pkg/slab"
	"github.com/Alireza-Khatami/qmat-cli/pkg/soup"
)

// Pipeline holds the intermediate products of a run.
type Pipeline struct {
	cfg *config.Config
	log *zap.Logger

	mesh  *hemesh.Mesh[v3.Vec]
	attrs *hemesh.Attributes
	dom   *domain.Domain
	tri   *delaunay.Triangulation
	axis  *medial.Axis
	slab  *slab.Mesh
}

// New prepares a pipeline for the given configuration. Every log line of
// the run carries a fresh run identifier.
func New(cfg *config.Config, log *zap.Logger) *Pipeline {
	return &Pipeline{
		cfg: cfg,
		log: log.With(zap.String("run", uuid.NewString())),
	}
}

// Mesh returns the float storage mesh after Run.
func (p *Pipeline) Mesh() *hemesh.Mesh[v3.Vec] { return p.mesh }

// Attributes returns the derived mesh attributes after Run.
func (p *Pipeline) Attributes() *hemesh.Attributes { return p.attrs }

// Axis returns the extracted medial axis after Run.
func (p *Pipeline) Axis() *medial.Axis { return p.axis }

// Slab returns the simplified slab mesh, or nil when the simplification
// stage was skipped.
func (p *Pipeline) Slab() *slab.Mesh { return p.slab }

// Run executes the stages in order. Any stage failure halts the run and
// is returned; there are no retries.
func (p *Pipeline) Run() error {
	stages := []struct {
		name string
		fn   func() error
	}{
		{"load", p.load},
		{"build-domain", p.buildDomain},
		{"triangulate", p.triangulate},
		{"extract-medial-axis", p.extractMedialAxis},
		{"simplify", p.simplify},
	}
	for _, st := range stages {
		start := time.Now()
		if err := st.fn(); err != nil {
			p.log.Error("stage failed",
				zap.String("stage", st.name),
				zap.Duration("elapsed", time.Since(start)),
				zap.Error(err))
			return fmt.Errorf("pipeline: %s: %w", st.name, err)
		}
		p.log.Info("stage complete",
			zap.String("stage", st.name),
			zap.Duration("elapsed", time.Since(start)))
	}
	return nil
}

// load parses the input into a float mesh and derives its attributes.
func (p *Pipeline) load() error {
	s, err := soup.Load(p.cfg.Input)
	if err != nil {
		return err
	}
	p.log.Info("parsed polygon soup",
		zap.String("input", p.cfg.Input),
		zap.Int("vertices", s.VertexCount()),
		zap.Int("faces", s.FaceCount()))

	m, diags, err := hemesh.Build(s, kernel.Float{})
	if err != nil {
		return err
	}
	for _, d := range diags {
		switch d.Severity {
		case hemesh.SeverityWarning:
			p.log.Warn(d.Message, zap.Int("facet", d.Facet))
		default:
			p.log.Info(d.Message, zap.Int("facet", d.Facet))
		}
	}
	if err := m.Validate(); err != nil {
		return err
	}
	if !m.IsClosed() {
		p.log.Warn("mesh is not closed",
			zap.Int("borderHalfedges", m.BorderHalfedgeCount()))
	}

	p.mesh = m
	p.attrs = hemesh.ComputeAttributes(m)
	p.log.Info("built half-edge mesh",
		zap.Int("vertices", m.VertexCount()),
		zap.Int("facets", m.FacetCount()),
		zap.Any("bboxMin", p.attrs.BBoxMin),
		zap.Any("bboxMax", p.attrs.BBoxMax))
	return nil
}

// buildDomain re-reads the input under the exact kernel and wraps it in
// a query domain. The second parse keeps the two meshes independent.
func (p *Pipeline) buildDomain() error {
	s, err := soup.Load(p.cfg.Input)
	if err != nil {
		return err
	}
	m, _, err := hemesh.Build(s, kernel.Exact{})
	if err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return err
	}
	p.dom, err = domain.New(m)
	return err
}

func (p *Pipeline) triangulate() error {
	points := make([]v3.Vec, p.mesh.VertexCount())
	for i := range points {
		points[i] = p.mesh.Point(i)
	}
	tri, err := delaunay.Triangulate(points)
	if err != nil {
		return err
	}
	p.tri = tri
	p.log.Info("triangulated", zap.Int("tetrahedra", len(tri.Tets)))
	return nil
}

func (p *Pipeline) extractMedialAxis() error {
	axis, err := medial.Extract(p.tri, p.dom)
	if err != nil {
		return err
	}
	p.axis = axis
	p.log.Info("extracted medial axis",
		zap.Int("vertices", len(axis.Vertices)),
		zap.Int("edges", len(axis.Edges)),
		zap.Int("faces", len(axis.Faces)))
	return axis.WriteFile(p.cfg.Pipeline.OutputPrefix + ".ma")
}

// simplify runs only when the target is positive and below the current
// vertex count; otherwise it is skipped, not failed.
func (p *Pipeline) simplify() error {
	target := p.cfg.Pipeline.Simplify
	if target <= 0 {
		p.log.Info("simplification skipped", zap.String("reason", "no target requested"))
		return nil
	}
	if target >= p.axis.VertexCount() {
		p.log.Info("simplification skipped",
			zap.String("reason", "target not below current vertex count"),
			zap.Int("target", target),
			zap.Int("current", p.axis.VertexCount()))
		return nil
	}

	sm, err := slab.Load(p.cfg.Pipeline.OutputPrefix + ".ma")
	if err != nil {
		return err
	}
	if dropped := sm.CleanIsolatedVertices(); dropped > 0 {
		p.log.Info("dropped isolated vertices", zap.Int("count", dropped))
	}

	opts := slab.DefaultOptions()
	opts.K = p.cfg.Pipeline.K
	done, err := sm.Simplify(sm.NumVertices()-target, opts)
	if err != nil {
		return err
	}
	p.log.Info("simplified slab",
		zap.Int("collapses", done),
		zap.Int("vertices", sm.NumVertices()),
		zap.Float64("k", opts.K))

	sm.ComputeFacesNormal()
	sm.ComputeVerticesNormal()
	sm.ComputeEdgesCone()
	sm.ComputeFacesSimpleTriangles()

	if err := sm.Export(p.cfg.Pipeline.OutputPrefix); err != nil {
		return err
	}
	p.slab = sm
	return nil
}
