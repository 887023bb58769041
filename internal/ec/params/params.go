// Package params holds elliptic curve domain parameters: a curve, its
// generator, the generator's order and the cofactor, plus a catalogue of
// standard named curves.
package params

import (
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// DomainParameters binds a curve to a generator of a subgroup of the given
// order. Immutable and safe to share across concurrent multiplications.
type DomainParameters struct {
	Curve     *curve.Curve
	Generator *point.Point // in the curve's coordinate system
	Order     *big.Int
	Cofactor  *big.Int
	Name      string
}

// New validates that the generator lies on the curve and is expressed in
// the curve's coordinate system. That order times the generator is the
// neutral element is assumed, not re-verified.
func New(c *curve.Curve, generator *point.Point, order, cofactor *big.Int) (*DomainParameters, error) {
	if generator.Model() != c.Coordinates() {
		g, err := c.FromAffine(generator)
		if err != nil {
			return nil, fmt.Errorf("params: generator: %w", err)
		}
		generator = g
	}
	if !c.Contains(generator) {
		return nil, fmt.Errorf("params: generator %v is not on the curve", generator)
	}
	if order.Sign() <= 0 {
		return nil, fmt.Errorf("params: order must be positive")
	}
	return &DomainParameters{
		Curve:     c,
		Generator: generator.Clone(),
		Order:     new(big.Int).Set(order),
		Cofactor:  new(big.Int).Set(cofactor),
	}, nil
}
