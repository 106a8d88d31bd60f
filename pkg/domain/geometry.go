package domain

import (
	"math/big"

	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/Alireza-Khatami/qmat-cli/pkg/kernel"
)

type ratVec [3]*big.Rat

func ratSub(p, q kernel.Point) ratVec {
	return ratVec{
		new(big.Rat).Sub(p.X, q.X),
		new(big.Rat).Sub(p.Y, q.Y),
		new(big.Rat).Sub(p.Z, q.Z),
	}
}

func ratCross(a, b ratVec) ratVec {
	return ratVec{
		new(big.Rat).Sub(new(big.Rat).Mul(a[1], b[2]), new(big.Rat).Mul(a[2], b[1])),
		new(big.Rat).Sub(new(big.Rat).Mul(a[2], b[0]), new(big.Rat).Mul(a[0], b[2])),
		new(big.Rat).Sub(new(big.Rat).Mul(a[0], b[1]), new(big.Rat).Mul(a[1], b[0])),
	}
}

func ratDotSign(a, b ratVec) int {
	sum := new(big.Rat).Mul(a[0], b[0])
	sum.Add(sum, new(big.Rat).Mul(a[1], b[1]))
	sum.Add(sum, new(big.Rat).Mul(a[2], b[2]))
	return sum.Sign()
}

// pointInCoplanarTriangle reports whether p, known to lie on the plane of
// tri, lies inside or on the border of the triangle. Exact.
func pointInCoplanarTriangle(p kernel.Point, tri *triangle) bool {
	ab := ratSub(tri.b, tri.a)
	bc := ratSub(tri.c, tri.b)
	ca := ratSub(tri.a, tri.c)
	n := ratCross(ab, ratSub(tri.c, tri.a))

	if ratDotSign(ratCross(ab, ratSub(p, tri.a)), n) < 0 {
		return false
	}
	if ratDotSign(ratCross(bc, ratSub(p, tri.b)), n) < 0 {
		return false
	}
	if ratDotSign(ratCross(ca, ratSub(p, tri.c)), n) < 0 {
		return false
	}
	return true
}

// pointTriangleSquaredDistance returns the squared distance from p to
// triangle (a,b,c), by Voronoi-region classification.
func pointTriangleSquaredDistance(p, a, b, c v3.Vec) float64 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return ap.Length2() // vertex a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return bp.Length2() // vertex b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		return p.Sub(a.Add(ab.MulScalar(t))).Length2() // edge ab
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return cp.Length2() // vertex c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		return p.Sub(a.Add(ac.MulScalar(t))).Length2() // edge ac
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return p.Sub(b.Add(c.Sub(b).MulScalar(t))).Length2() // edge bc
	}

	// Interior: project onto the plane.
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return p.Sub(a.Add(ab.MulScalar(v)).Add(ac.MulScalar(w))).Length2()
}
