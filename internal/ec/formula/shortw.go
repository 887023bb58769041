package formula

import (
	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Short Weierstrass projective formulas, after the 1998 Cohen-Miyaji-Ono
// addition and doubling. The exceptional cases (neutral operands, equal
// operands, inverse operands) are detected algebraically and resolved, so
// the evaluations are total even though the polynomial maps alone are not;
// the completeness flags reflect the classical status of the polynomials.

var swProjective = mustCoords(model.ShortWeierstrass, "projective")

func mustCoords(m model.Model, name string) *model.CoordinateModel {
	c, err := model.Coordinates(m, name)
	if err != nil {
		panic(err)
	}
	return c
}

var (
	// SWAdd1998CMO is the projective addition formula "add-1998-cmo".
	SWAdd1998CMO = register(&formula{
		name: "add-1998-cmo", role: Addition, coords: swProjective,
		inputs: 2, outputs: 1, complete: false,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			return []*point.Point{swAdd(c, in[0], in[1])}, nil
		},
	})

	// SWDbl1998CMO is the projective doubling formula "dbl-1998-cmo".
	SWDbl1998CMO = register(&formula{
		name: "dbl-1998-cmo", role: Doubling, coords: swProjective,
		inputs: 1, outputs: 1, complete: false,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			return []*point.Point{swDbl(c, in[0])}, nil
		},
	})

	// SWNeg negates a projective point.
	SWNeg = register(&formula{
		name: "neg", role: Negation, coords: swProjective,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			return []*point.Point{point.MustNew(swProjective, map[string]mod.Mod{
				"X": p.Coord("X"),
				"Y": p.Coord("Y").Neg(),
				"Z": p.Coord("Z"),
			})}, nil
		},
	})

	// SWScale normalizes a projective point to Z = 1.
	SWScale = register(&formula{
		name: "scale", role: Scaling, coords: swProjective,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			z := p.Coord("Z")
			if z.IsZero() {
				return []*point.Point{c.Neutral()}, nil
			}
			zi, err := z.Inverse()
			if err != nil {
				return nil, err
			}
			one := mod.NewInt(1, c.Prime())
			return []*point.Point{point.MustNew(swProjective, map[string]mod.Mod{
				"X": p.Coord("X").Mul(zi),
				"Y": p.Coord("Y").Mul(zi),
				"Z": one,
			})}, nil
		},
	})

	// SWLadderCMO fuses one doubling and one addition into a single ladder
	// step: (base, p0, p1) -> (2*p0, p0+p1).
	SWLadderCMO = register(&formula{
		name: "ladd-cmo", role: Ladder, coords: swProjective,
		inputs: 3, outputs: 2, complete: false,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			return []*point.Point{swDbl(c, in[1]), swAdd(c, in[1], in[2])}, nil
		},
	})

	// SWDiffAddCMO is differential addition on full projective coordinates:
	// (base, p0, p1) -> (p0+p1). The known difference is not exploited.
	SWDiffAddCMO = register(&formula{
		name: "dadd-cmo", role: DifferentialAddition, coords: swProjective,
		inputs: 3, outputs: 1, complete: false,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			return []*point.Point{swAdd(c, in[1], in[2])}, nil
		},
	})
)

func swNeutral(c *curve.Curve) *point.Point {
	p := c.Prime()
	return point.MustNew(swProjective, map[string]mod.Mod{
		"X": mod.NewInt(0, p),
		"Y": mod.NewInt(1, p),
		"Z": mod.NewInt(0, p),
	})
}

// swAdd evaluates add-1998-cmo with exceptional cases resolved.
func swAdd(c *curve.Curve, p, q *point.Point) *point.Point {
	x1, y1, z1 := p.Coord("X"), p.Coord("Y"), p.Coord("Z")
	x2, y2, z2 := q.Coord("X"), q.Coord("Y"), q.Coord("Z")
	if z1.IsZero() {
		return q.Clone()
	}
	if z2.IsZero() {
		return p.Clone()
	}
	y1z2 := y1.Mul(z2)
	x1z2 := x1.Mul(z2)
	z1z2 := z1.Mul(z2)
	u := y2.Mul(z1).Sub(y1z2)
	v := x2.Mul(z1).Sub(x1z2)
	if v.IsZero() {
		if u.IsZero() {
			return swDbl(c, p)
		}
		return swNeutral(c)
	}
	uu := u.Square()
	vv := v.Square()
	vvv := v.Mul(vv)
	r := vv.Mul(x1z2)
	a := uu.Mul(z1z2).Sub(vvv).Sub(r.Add(r))
	x3 := v.Mul(a)
	y3 := u.Mul(r.Sub(a)).Sub(vvv.Mul(y1z2))
	z3 := vvv.Mul(z1z2)
	return point.MustNew(swProjective, map[string]mod.Mod{"X": x3, "Y": y3, "Z": z3})
}

// swDbl evaluates dbl-1998-cmo with exceptional cases resolved.
func swDbl(c *curve.Curve, p *point.Point) *point.Point {
	x1, y1, z1 := p.Coord("X"), p.Coord("Y"), p.Coord("Z")
	if z1.IsZero() {
		return p.Clone()
	}
	if y1.IsZero() {
		// 2-torsion doubles to the neutral element.
		return swNeutral(c)
	}
	xx := x1.Square()
	zz := z1.Square()
	w := c.Param("a").Mul(zz).Add(mod.NewInt(3, c.Prime()).Mul(xx))
	s := y1.Mul(z1)
	s = s.Add(s)
	ss := s.Square()
	sss := s.Mul(ss)
	r := y1.Mul(s)
	rr := r.Square()
	b := x1.Add(r).Square().Sub(xx).Sub(rr)
	h := w.Square().Sub(b.Add(b))
	x3 := h.Mul(s)
	y3 := w.Mul(b.Sub(h)).Sub(rr.Add(rr))
	z3 := sss
	return point.MustNew(swProjective, map[string]mod.Mod{"X": x3, "Y": y3, "Z": z3})
}
