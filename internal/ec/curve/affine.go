package curve

import (
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// AffineNeutral returns the neutral element in the form's affine system.
func (c *Curve) AffineNeutral() *point.Point {
	aff := model.Affine(c.mdl)
	switch c.mdl {
	case model.Edwards:
		return point.MustNew(aff, map[string]mod.Mod{
			"x": mod.NewInt(0, c.prime),
			"y": c.Param("c"),
		})
	case model.TwistedEdwards:
		return point.MustNew(aff, map[string]mod.Mod{
			"x": mod.NewInt(0, c.prime),
			"y": mod.NewInt(1, c.prime),
		})
	default:
		return point.Infinity(aff)
	}
}

// ToAffine normalizes a point into the form's affine coordinate system.
// For the x-only Montgomery xz system the y coordinate is recovered from
// the curve equation; which of the two roots is returned is unspecified,
// so x-only callers must compare x coordinates.
func (c *Curve) ToAffine(p *point.Point) (*point.Point, error) {
	m := p.Model()
	if m.Affine() {
		return p.Clone(), nil
	}
	if m != c.coords {
		return nil, fmt.Errorf("curve: cannot normalize %v point on %v curve", m, c.coords)
	}
	aff := model.Affine(c.mdl)
	switch m.Name() {
	case "projective":
		z := p.Coord("Z")
		if z.IsZero() {
			if c.mdl == model.TwistedEdwards {
				return nil, fmt.Errorf("curve: exceptional projective point %v", p)
			}
			return point.Infinity(aff), nil
		}
		zi, err := z.Inverse()
		if err != nil {
			return nil, err
		}
		return point.MustNew(aff, map[string]mod.Mod{
			"x": p.Coord("X").Mul(zi),
			"y": p.Coord("Y").Mul(zi),
		}), nil
	case "xz":
		z := p.Coord("Z")
		if z.IsZero() {
			return point.Infinity(aff), nil
		}
		x, err := p.Coord("X").Div(z)
		if err != nil {
			return nil, err
		}
		// b*y^2 = x^3 + a*x^2 + x
		x2 := x.Square()
		rhs := x2.Mul(x).Add(c.Param("a").Mul(x2)).Add(x)
		y2, err := rhs.Div(c.Param("b"))
		if err != nil {
			return nil, err
		}
		y, ok := y2.Sqrt()
		if !ok {
			return nil, ErrNotOnCurve
		}
		return point.MustNew(aff, map[string]mod.Mod{"x": x, "y": y}), nil
	}
	return nil, fmt.Errorf("curve: no affine conversion for %v", m)
}

// FromAffine converts an affine point into the curve's coordinate system.
func (c *Curve) FromAffine(p *point.Point) (*point.Point, error) {
	if !p.Model().Affine() || p.Model().Model() != c.mdl {
		return nil, fmt.Errorf("curve: expected %v affine point, got %v", c.mdl, p.Model())
	}
	if p.IsInfinity() || (c.coords.Affine() && c.IsNeutral(p)) {
		return c.Neutral(), nil
	}
	if c.coords.Affine() {
		return p.Clone(), nil
	}
	one := mod.NewInt(1, c.prime)
	switch c.coords.Name() {
	case "projective":
		return point.MustNew(c.coords, map[string]mod.Mod{
			"X": p.Coord("x"),
			"Y": p.Coord("y"),
			"Z": one,
		}), nil
	case "xz":
		return point.MustNew(c.coords, map[string]mod.Mod{
			"X": p.Coord("x"),
			"Z": one,
		}), nil
	}
	return nil, fmt.Errorf("curve: no conversion into %v", c.coords)
}

// Equal is curve equality: both points are normalized to affine and their
// coordinates compared. Points from x-only systems compare by x alone.
func (c *Curve) Equal(p, q *point.Point) bool {
	pa, err := c.ToAffine(p)
	if err != nil {
		return false
	}
	qa, err := c.ToAffine(q)
	if err != nil {
		return false
	}
	if pa.IsInfinity() || qa.IsInfinity() {
		return pa.IsInfinity() == qa.IsInfinity()
	}
	xOnly := p.Model().Name() == "xz" || q.Model().Name() == "xz"
	if !pa.Coord("x").Equal(qa.Coord("x")) {
		return false
	}
	return xOnly || pa.Coord("y").Equal(qa.Coord("y"))
}

// AffineNegate negates an affine point.
func (c *Curve) AffineNegate(p *point.Point) (*point.Point, error) {
	if err := c.checkAffine(p); err != nil {
		return nil, err
	}
	if p.IsInfinity() {
		return p.Clone(), nil
	}
	aff := model.Affine(c.mdl)
	switch c.mdl {
	case model.Edwards, model.TwistedEdwards:
		return point.MustNew(aff, map[string]mod.Mod{
			"x": p.Coord("x").Neg(),
			"y": p.Coord("y"),
		}), nil
	default:
		return point.MustNew(aff, map[string]mod.Mod{
			"x": p.Coord("x"),
			"y": p.Coord("y").Neg(),
		}), nil
	}
}

// AffineAdd adds two affine points using the form's affine group law.
func (c *Curve) AffineAdd(p, q *point.Point) (*point.Point, error) {
	if err := c.checkAffine(p); err != nil {
		return nil, err
	}
	if err := c.checkAffine(q); err != nil {
		return nil, err
	}
	switch c.mdl {
	case model.ShortWeierstrass:
		return c.weierstrassAdd(p, q)
	case model.Montgomery:
		return c.montgomeryAdd(p, q)
	case model.Edwards, model.TwistedEdwards:
		return c.edwardsAdd(p, q)
	}
	return nil, fmt.Errorf("curve: no affine addition for form %v", c.mdl)
}

// AffineDouble doubles an affine point.
func (c *Curve) AffineDouble(p *point.Point) (*point.Point, error) {
	return c.AffineAdd(p, p)
}

// AffineMultiply computes the scalar multiple k*p with plain affine
// double-and-add. This is the analysis-side reference multiplication; it
// makes no side-channel claims.
func (c *Curve) AffineMultiply(p *point.Point, k *big.Int) (*point.Point, error) {
	if err := c.checkAffine(p); err != nil {
		return nil, err
	}
	if k.Sign() < 0 {
		return nil, ErrNegativeScalar
	}
	r := c.AffineNeutral()
	for i := k.BitLen() - 1; i >= 0; i-- {
		var err error
		r, err = c.AffineDouble(r)
		if err != nil {
			return nil, err
		}
		if k.Bit(i) == 1 {
			r, err = c.AffineAdd(r, p)
			if err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

func (c *Curve) checkAffine(p *point.Point) error {
	if !p.Model().Affine() || p.Model().Model() != c.mdl {
		return fmt.Errorf("curve: expected %v affine point, got %v", c.mdl, p.Model())
	}
	return nil
}

func (c *Curve) weierstrassAdd(p, q *point.Point) (*point.Point, error) {
	if p.IsInfinity() {
		return q.Clone(), nil
	}
	if q.IsInfinity() {
		return p.Clone(), nil
	}
	x1, y1 := p.Coord("x"), p.Coord("y")
	x2, y2 := q.Coord("x"), q.Coord("y")
	var lambda mod.Mod
	if x1.Equal(x2) {
		if !y1.Equal(y2) || y1.IsZero() {
			return point.Infinity(p.Model()), nil
		}
		// lambda = (3*x1^2 + a) / (2*y1)
		num := mod.NewInt(3, c.prime).Mul(x1.Square()).Add(c.Param("a"))
		den := y1.Add(y1)
		var err error
		lambda, err = num.Div(den)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		lambda, err = y2.Sub(y1).Div(x2.Sub(x1))
		if err != nil {
			return nil, err
		}
	}
	x3 := lambda.Square().Sub(x1).Sub(x2)
	y3 := lambda.Mul(x1.Sub(x3)).Sub(y1)
	return point.MustNew(p.Model(), map[string]mod.Mod{"x": x3, "y": y3}), nil
}

func (c *Curve) montgomeryAdd(p, q *point.Point) (*point.Point, error) {
	if p.IsInfinity() {
		return q.Clone(), nil
	}
	if q.IsInfinity() {
		return p.Clone(), nil
	}
	x1, y1 := p.Coord("x"), p.Coord("y")
	x2, y2 := q.Coord("x"), q.Coord("y")
	a, b := c.Param("a"), c.Param("b")
	var lambda mod.Mod
	if x1.Equal(x2) {
		if !y1.Equal(y2) || y1.IsZero() {
			return point.Infinity(p.Model()), nil
		}
		// lambda = (3*x1^2 + 2*a*x1 + 1) / (2*b*y1)
		x1sq := x1.Square()
		num := mod.NewInt(3, c.prime).Mul(x1sq).Add(a.Mul(x1).Add(a.Mul(x1))).Add(mod.NewInt(1, c.prime))
		den := b.Mul(y1.Add(y1))
		var err error
		lambda, err = num.Div(den)
		if err != nil {
			return nil, err
		}
	} else {
		var err error
		lambda, err = y2.Sub(y1).Div(x2.Sub(x1))
		if err != nil {
			return nil, err
		}
	}
	x3 := b.Mul(lambda.Square()).Sub(a).Sub(x1).Sub(x2)
	y3 := lambda.Mul(x1.Sub(x3)).Sub(y1)
	return point.MustNew(p.Model(), map[string]mod.Mod{"x": x3, "y": y3}), nil
}

// edwardsAdd implements the complete (twisted) Edwards addition law.
func (c *Curve) edwardsAdd(p, q *point.Point) (*point.Point, error) {
	x1, y1 := p.Coord("x"), p.Coord("y")
	x2, y2 := q.Coord("x"), q.Coord("y")
	d := c.Param("d")
	one := mod.NewInt(1, c.prime)

	t := d.Mul(x1).Mul(x2).Mul(y1).Mul(y2)
	xnum := x1.Mul(y2).Add(y1.Mul(x2))
	xden := one.Add(t)
	var ynum, yden mod.Mod
	if c.mdl == model.Edwards {
		cc := c.Param("c")
		xden = cc.Mul(xden)
		ynum = y1.Mul(y2).Sub(x1.Mul(x2))
		yden = cc.Mul(one.Sub(t))
	} else {
		ynum = y1.Mul(y2).Sub(c.Param("a").Mul(x1).Mul(x2))
		yden = one.Sub(t)
	}
	x3, err := xnum.Div(xden)
	if err != nil {
		return nil, err
	}
	y3, err := ynum.Div(yden)
	if err != nil {
		return nil, err
	}
	return point.MustNew(p.Model(), map[string]mod.Mod{"x": x3, "y": y3}), nil
}
