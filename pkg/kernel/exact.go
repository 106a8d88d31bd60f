package kernel

import (
	"math/big"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Point is a point with arbitrary-precision rational coordinates.
// Coordinate fields are never mutated after construction, so Points can
// be copied and shared freely.
type Point struct {
	X, Y, Z *big.Rat
}

// NewPoint builds an exact point from float64 coordinates. Non-finite
// inputs collapse to zero; parsed geometry files never produce them.
func NewPoint(x, y, z float64) Point {
	return Point{X: ratFromFloat(x), Y: ratFromFloat(y), Z: ratFromFloat(z)}
}

func ratFromFloat(f float64) *big.Rat {
	r := new(big.Rat).SetFloat64(f)
	if r == nil {
		return new(big.Rat)
	}
	return r
}

// Vec returns the nearest floating-point representation of the point.
func (p Point) Vec() v3.Vec {
	x, _ := p.X.Float64()
	y, _ := p.Y.Float64()
	z, _ := p.Z.Float64()
	return v3.Vec{X: x, Y: y, Z: z}
}

// Orient3D returns the sign of the orientation determinant of the
// tetrahedron (a,b,c,d): +1 if d lies on the positive side of the plane
// through a,b,c (counterclockwise when seen from d), -1 on the negative
// side, 0 if the four points are coplanar. Evaluated exactly.
func Orient3D(a, b, c, d Point) int {
	ax := new(big.Rat).Sub(b.X, a.X)
	ay := new(big.Rat).Sub(b.Y, a.Y)
	az := new(big.Rat).Sub(b.Z, a.Z)
	bx := new(big.Rat).Sub(c.X, a.X)
	by := new(big.Rat).Sub(c.Y, a.Y)
	bz := new(big.Rat).Sub(c.Z, a.Z)
	cx := new(big.Rat).Sub(d.X, a.X)
	cy := new(big.Rat).Sub(d.Y, a.Y)
	cz := new(big.Rat).Sub(d.Z, a.Z)

	// Scalar triple product (b-a) . ((c-a) x (d-a)).
	m1 := new(big.Rat).Sub(
		new(big.Rat).Mul(by, cz),
		new(big.Rat).Mul(bz, cy),
	)
	m2 := new(big.Rat).Sub(
		new(big.Rat).Mul(bz, cx),
		new(big.Rat).Mul(bx, cz),
	)
	m3 := new(big.Rat).Sub(
		new(big.Rat).Mul(bx, cy),
		new(big.Rat).Mul(by, cx),
	)

	det := new(big.Rat).Mul(ax, m1)
	det.Add(det, new(big.Rat).Mul(ay, m2))
	det.Add(det, new(big.Rat).Mul(az, m3))
	return det.Sign()
}
