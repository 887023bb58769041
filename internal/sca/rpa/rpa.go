// Package rpa implements the Refined Power Analysis attack primitive:
// curve points with a zero affine coordinate and a distinguisher that
// identifies which scalar multiplier a black-box implementation runs by
// steering those points into its intermediate values.
package rpa

import (
	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// PointX0 returns an affine point (x, 0) on a short Weierstrass curve,
// found as a root of the curve cubic. The result is nil when the cubic
// has no root in the field, and on non-Weierstrass forms, where the
// zero-coordinate points are the neutral element or small torsion and
// carry no leakage signal.
func PointX0(p *params.DomainParameters) (*point.Point, error) {
	c := p.Curve
	if c.Model() != model.ShortWeierstrass {
		return nil, nil
	}
	prime := c.Prime()
	x, ok := cubicRoot(c.Param("a").Big(), c.Param("b").Big(), prime)
	if !ok {
		return nil, nil
	}
	return point.New(model.Affine(model.ShortWeierstrass), map[string]mod.Mod{
		"x": mod.New(x, prime),
		"y": mod.NewInt(0, prime),
	})
}

// Point0Y returns an affine point (0, y) on a short Weierstrass curve,
// with y a square root of the constant term. Nil when b is a non-residue
// and on non-Weierstrass forms.
func Point0Y(p *params.DomainParameters) (*point.Point, error) {
	c := p.Curve
	if c.Model() != model.ShortWeierstrass {
		return nil, nil
	}
	y, ok := c.Param("b").Sqrt()
	if !ok {
		return nil, nil
	}
	return point.New(model.Affine(model.ShortWeierstrass), map[string]mod.Mod{
		"x": mod.NewInt(0, c.Prime()),
		"y": y,
	})
}
