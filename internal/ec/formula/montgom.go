package formula

import (
	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Montgomery x-only formulas from Montgomery's 1987 paper. The xz system
// represents the neutral element as Z = 0, which these polynomials handle
// without branches.

var montXZ = mustCoords(model.Montgomery, "xz")

var (
	// MontDbl1987 is the xz doubling formula "dbl-1987-m".
	MontDbl1987 = register(&formula{
		name: "dbl-1987-m", role: Doubling, coords: montXZ,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			a24, err := montA24(c)
			if err != nil {
				return nil, err
			}
			return []*point.Point{montDbl(a24, in[0])}, nil
		},
	})

	// MontLadd1987 is the fused ladder step "ladd-1987-m":
	// (base, p0, p1) -> (2*p0, p0+p1), with base the invariant difference
	// p1 - p0.
	MontLadd1987 = register(&formula{
		name: "ladd-1987-m", role: Ladder, coords: montXZ,
		inputs: 3, outputs: 2, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			a24, err := montA24(c)
			if err != nil {
				return nil, err
			}
			return []*point.Point{montDbl(a24, in[1]), montDadd(in[0], in[1], in[2])}, nil
		},
	})

	// MontDadd1987 is the differential addition "dadd-1987-m":
	// (base, p0, p1) -> (p0+p1) with base = p1 - p0.
	MontDadd1987 = register(&formula{
		name: "dadd-1987-m", role: DifferentialAddition, coords: montXZ,
		inputs: 3, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			return []*point.Point{montDadd(in[0], in[1], in[2])}, nil
		},
	})

	// MontScale normalizes an xz point to Z = 1.
	MontScale = register(&formula{
		name: "scale", role: Scaling, coords: montXZ,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			z := p.Coord("Z")
			if z.IsZero() {
				return []*point.Point{c.Neutral()}, nil
			}
			x, err := p.Coord("X").Div(z)
			if err != nil {
				return nil, err
			}
			return []*point.Point{point.MustNew(montXZ, map[string]mod.Mod{
				"X": x,
				"Z": mod.NewInt(1, c.Prime()),
			})}, nil
		},
	})
)

// montA24 computes (a+2)/4, the doubling constant.
func montA24(c *curve.Curve) (mod.Mod, error) {
	p := c.Prime()
	return c.Param("a").Add(mod.NewInt(2, p)).Div(mod.NewInt(4, p))
}

func montDbl(a24 mod.Mod, p *point.Point) *point.Point {
	x, z := p.Coord("X"), p.Coord("Z")
	a := x.Add(z).Square()
	b := x.Sub(z).Square()
	c := a.Sub(b)
	x3 := a.Mul(b)
	z3 := c.Mul(b.Add(a24.Mul(c)))
	return point.MustNew(montXZ, map[string]mod.Mod{"X": x3, "Z": z3})
}

func montDadd(base, p0, p1 *point.Point) *point.Point {
	xb, zb := base.Coord("X"), base.Coord("Z")
	a := p0.Coord("X").Add(p0.Coord("Z"))
	b := p0.Coord("X").Sub(p0.Coord("Z"))
	cc := p1.Coord("X").Add(p1.Coord("Z"))
	d := p1.Coord("X").Sub(p1.Coord("Z"))
	da := d.Mul(a)
	cb := cc.Mul(b)
	x3 := zb.Mul(da.Add(cb).Square())
	z3 := xb.Mul(da.Sub(cb).Square())
	return point.MustNew(montXZ, map[string]mod.Mod{"X": x3, "Z": z3})
}
