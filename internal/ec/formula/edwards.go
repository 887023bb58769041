package formula

import (
	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Twisted Edwards projective formulas from Bernstein-Birkner-Joye-Lange-
// Peters 2008. The addition is complete when a is a square and d is not,
// which holds for the usual twisted Edwards instantiations (ed25519).

var tedProjective = mustCoords(model.TwistedEdwards, "projective")

var (
	// TEdAdd2008BBJLP is the complete projective addition "add-2008-bbjlp".
	TEdAdd2008BBJLP = register(&formula{
		name: "add-2008-bbjlp", role: Addition, coords: tedProjective,
		inputs: 2, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p, q := in[0], in[1]
			x1, y1, z1 := p.Coord("X"), p.Coord("Y"), p.Coord("Z")
			x2, y2, z2 := q.Coord("X"), q.Coord("Y"), q.Coord("Z")
			a := z1.Mul(z2)
			b := a.Square()
			cc := x1.Mul(x2)
			d := y1.Mul(y2)
			e := c.Param("d").Mul(cc).Mul(d)
			f := b.Sub(e)
			g := b.Add(e)
			x3 := a.Mul(f).Mul(x1.Add(y1).Mul(x2.Add(y2)).Sub(cc).Sub(d))
			y3 := a.Mul(g).Mul(d.Sub(c.Param("a").Mul(cc)))
			z3 := f.Mul(g)
			return []*point.Point{point.MustNew(tedProjective, map[string]mod.Mod{
				"X": x3, "Y": y3, "Z": z3,
			})}, nil
		},
	})

	// TEdDbl2008BBJLP is the projective doubling "dbl-2008-bbjlp".
	TEdDbl2008BBJLP = register(&formula{
		name: "dbl-2008-bbjlp", role: Doubling, coords: tedProjective,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			x1, y1, z1 := p.Coord("X"), p.Coord("Y"), p.Coord("Z")
			b := x1.Add(y1).Square()
			cc := x1.Square()
			d := y1.Square()
			e := c.Param("a").Mul(cc)
			f := e.Add(d)
			h := z1.Square()
			j := f.Sub(h.Add(h))
			x3 := b.Sub(cc).Sub(d).Mul(j)
			y3 := f.Mul(e.Sub(d))
			z3 := f.Mul(j)
			return []*point.Point{point.MustNew(tedProjective, map[string]mod.Mod{
				"X": x3, "Y": y3, "Z": z3,
			})}, nil
		},
	})

	// TEdNeg negates a projective twisted Edwards point.
	TEdNeg = register(&formula{
		name: "neg", role: Negation, coords: tedProjective,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			return []*point.Point{point.MustNew(tedProjective, map[string]mod.Mod{
				"X": p.Coord("X").Neg(),
				"Y": p.Coord("Y"),
				"Z": p.Coord("Z"),
			})}, nil
		},
	})

	// TEdScale normalizes a projective point to Z = 1.
	TEdScale = register(&formula{
		name: "scale", role: Scaling, coords: tedProjective,
		inputs: 1, outputs: 1, complete: true,
		apply: func(c *curve.Curve, in []*point.Point) ([]*point.Point, error) {
			p := in[0]
			zi, err := p.Coord("Z").Inverse()
			if err != nil {
				return nil, err
			}
			return []*point.Point{point.MustNew(tedProjective, map[string]mod.Mod{
				"X": p.Coord("X").Mul(zi),
				"Y": p.Coord("Y").Mul(zi),
				"Z": mod.NewInt(1, c.Prime()),
			})}, nil
		},
	})
)
