// Package kernel defines the point algebras the mesh builder can be
// instantiated with. The builder algorithm is written once against the
// Kernel interface; two concrete kernels are provided, a plain
// floating-point kernel for the storage mesh and an exact rational
// kernel whose predicates are robust against roundoff.
package kernel

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Kernel constructs points of the algebra P from raw float coordinates.
// The mesh builder is generic over P and touches coordinates only
// through this interface.
type Kernel[P any] interface {
	MakePoint(x, y, z float64) P
}

// Float is the floating-point kernel. Its point type is the sdfx
// three-vector, so meshes built with it plug directly into the float
// vector math used for normals, bounding boxes and the medial stages.
type Float struct{}

// MakePoint returns the coordinates as a v3.Vec.
func (Float) MakePoint(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

// Exact is the exact-predicate kernel. Points carry arbitrary-precision
// rational coordinates; orientation predicates evaluated on them never
// misclassify, which the spatial domain queries rely on.
type Exact struct{}

// MakePoint converts the coordinates exactly into rationals. float64
// values are binary rationals, so the conversion is lossless.
func (Exact) MakePoint(x, y, z float64) Point {
	return NewPoint(x, y, z)
}

// Compile-time checks that both kernels satisfy the interface.
var (
	_ Kernel[v3.Vec] = Float{}
	_ Kernel[Point]  = Exact{}
)
