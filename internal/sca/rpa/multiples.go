package rpa

import (
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
	"github.com/ecleak/ecleak/internal/ec/trace"
)

// multiplesContext infers, from formula roles alone, which scalar
// multiple of the multiplication input each intermediate point holds.
// The inference is exact because every formula's output multiple is a
// fixed function of its input multiples.
type multiplesContext struct {
	order     *big.Int
	depth     int
	multiples map[string]*big.Int
}

var _ trace.Context = (*multiplesContext)(nil)

func newMultiplesContext(order *big.Int) *multiplesContext {
	return &multiplesContext{order: order, multiples: map[string]*big.Int{}}
}

func (c *multiplesContext) EnterMultiplication(p *point.Point, scalar *big.Int) {
	c.depth++
	if c.depth > 1 {
		return
	}
	c.multiples[p.Key()] = big.NewInt(1)
}

func (c *multiplesContext) ObserveFormula(f formula.Formula, inputs, outputs []*point.Point) {
	get := func(p *point.Point) (*big.Int, bool) {
		m, ok := c.multiples[p.Key()]
		return m, ok
	}
	set := func(p *point.Point, m *big.Int) {
		c.multiples[p.Key()] = m.Mod(m, c.order)
	}
	switch f.Role() {
	case formula.Addition:
		a, aok := get(inputs[0])
		b, bok := get(inputs[1])
		if aok && bok {
			set(outputs[0], new(big.Int).Add(a, b))
		}
	case formula.Doubling:
		if a, ok := get(inputs[0]); ok {
			set(outputs[0], new(big.Int).Lsh(a, 1))
		}
	case formula.Negation:
		if a, ok := get(inputs[0]); ok {
			set(outputs[0], new(big.Int).Neg(a))
		}
	case formula.Scaling:
		if a, ok := get(inputs[0]); ok {
			set(outputs[0], new(big.Int).Set(a))
		}
	case formula.Ladder:
		// inputs are (base, p0, p1), outputs (2*p0, p0+p1)
		a, aok := get(inputs[1])
		b, bok := get(inputs[2])
		if aok {
			set(outputs[0], new(big.Int).Lsh(a, 1))
		}
		if aok && bok {
			set(outputs[1], new(big.Int).Add(a, b))
		}
	case formula.DifferentialAddition:
		a, aok := get(inputs[1])
		b, bok := get(inputs[2])
		if aok && bok {
			set(outputs[0], new(big.Int).Add(a, b))
		}
	}
}

func (c *multiplesContext) ExitMultiplication(result *point.Point) {
	c.depth--
}

// Multiples returns the distinct inferred multiples, canonicalized to
// min(m, order-m) so a value and its negative coincide.
func (c *multiplesContext) Multiples() map[string]*big.Int {
	out := map[string]*big.Int{}
	for _, m := range c.multiples {
		v := canonicalMultiple(m, c.order)
		out[v.String()] = v
	}
	return out
}

func canonicalMultiple(m, order *big.Int) *big.Int {
	v := new(big.Int).Mod(m, order)
	neg := new(big.Int).Sub(order, v)
	if neg.Cmp(v) < 0 {
		return neg
	}
	return v
}
