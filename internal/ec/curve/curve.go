// Package curve implements elliptic curves over prime fields: the curve
// definition itself, membership and neutrality checks, conversions between
// coordinate systems, and reference affine arithmetic for every supported
// curve form. The affine operations are the correctness baseline the
// formula catalogue and multipliers are tested against, and they construct
// the probe points the RPA distinguisher feeds to its oracle.
package curve

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

var (
	// ErrNotOnCurve is returned when a coordinate cannot be completed to a
	// curve point.
	ErrNotOnCurve = errors.New("curve: point is not on the curve")
	// ErrNegativeScalar is returned for negative multiplication scalars.
	ErrNegativeScalar = errors.New("curve: negative scalar")
)

// Curve is an elliptic curve over GF(prime) in a fixed curve form and
// coordinate system, together with its neutral element. Immutable after
// construction and safe for concurrent use.
type Curve struct {
	mdl     model.Model
	coords  *model.CoordinateModel
	prime   *big.Int
	params  map[string]mod.Mod
	neutral *point.Point
}

// New validates that the parameter names match the curve form exactly and
// that the coordinate system and neutral point belong to the form.
func New(m model.Model, coords *model.CoordinateModel, prime *big.Int, params map[string]mod.Mod, neutral *point.Point) (*Curve, error) {
	if coords.Model() != m {
		return nil, fmt.Errorf("curve: coordinate model %v does not belong to form %v", coords, m)
	}
	names := m.ParameterNames()
	if len(params) != len(names) {
		return nil, fmt.Errorf("curve: form %v requires parameters %v", m, names)
	}
	cp := make(map[string]mod.Mod, len(names))
	for _, name := range names {
		v, ok := params[name]
		if !ok {
			return nil, fmt.Errorf("curve: form %v requires parameter %q", m, name)
		}
		cp[name] = v
	}
	if neutral.Model() != coords {
		return nil, fmt.Errorf("curve: neutral point is in %v, curve uses %v", neutral.Model(), coords)
	}
	return &Curve{mdl: m, coords: coords, prime: prime, params: cp, neutral: neutral.Clone()}, nil
}

func (c *Curve) Model() model.Model                  { return c.mdl }
func (c *Curve) Coordinates() *model.CoordinateModel { return c.coords }

// Prime returns the field modulus. The returned value must not be mutated.
func (c *Curve) Prime() *big.Int { return c.prime }

// Param returns a curve parameter by name. It panics for names outside the
// form's parameter set, which construction has already validated.
func (c *Curve) Param(name string) mod.Mod {
	v, ok := c.params[name]
	if !ok {
		panic(fmt.Sprintf("curve: form %v has no parameter %q", c.mdl, name))
	}
	return v
}

// Neutral returns a copy of the neutral element in the curve's coordinate
// system.
func (c *Curve) Neutral() *point.Point { return c.neutral.Clone() }

// IsNeutral reports whether p represents the neutral element. The point may
// be in the curve's coordinate system or in the form's affine system, and
// any projective representative of the neutral class is recognized.
func (c *Curve) IsNeutral(p *point.Point) bool {
	if p.IsInfinity() {
		return true
	}
	switch {
	case p.Model().Affine():
		switch c.mdl {
		case model.Edwards:
			return p.Coord("x").IsZero() && p.Coord("y").Equal(c.Param("c"))
		case model.TwistedEdwards:
			return p.Coord("x").IsZero() && p.Coord("y").IsOne()
		default:
			// Weierstrass and Montgomery affine neutrals are infinity points.
			return false
		}
	case p.Model().Name() == "projective" && c.mdl == model.ShortWeierstrass:
		return p.Coord("Z").IsZero()
	case p.Model().Name() == "xz":
		return p.Coord("Z").IsZero()
	case p.Model().Name() == "projective" && c.mdl == model.TwistedEdwards:
		return p.Coord("X").IsZero() && p.Coord("Y").Equal(p.Coord("Z"))
	}
	return p.Equal(c.neutral)
}

// Contains reports whether the affine point satisfies the curve equation.
func (c *Curve) Contains(p *point.Point) bool {
	if !p.Model().Affine() {
		a, err := c.ToAffine(p)
		if err != nil {
			return false
		}
		p = a
	}
	if p.IsInfinity() {
		return true
	}
	x, y := p.Coord("x"), p.Coord("y")
	x2 := x.Square()
	y2 := y.Square()
	switch c.mdl {
	case model.ShortWeierstrass:
		rhs := x2.Mul(x).Add(c.Param("a").Mul(x)).Add(c.Param("b"))
		return y2.Equal(rhs)
	case model.Montgomery:
		lhs := c.Param("b").Mul(y2)
		rhs := x2.Mul(x).Add(c.Param("a").Mul(x2)).Add(x)
		return lhs.Equal(rhs)
	case model.Edwards:
		cc := c.Param("c").Square()
		lhs := x2.Add(y2)
		rhs := cc.Add(cc.Mul(c.Param("d")).Mul(x2).Mul(y2))
		return lhs.Equal(rhs)
	case model.TwistedEdwards:
		lhs := c.Param("a").Mul(x2).Add(y2)
		one := mod.NewInt(1, c.prime)
		rhs := one.Add(c.Param("d").Mul(x2).Mul(y2))
		return lhs.Equal(rhs)
	}
	return false
}
