// Package trace observes the formula executions performed by a scalar
// multiplier. A Context is attached to a multiplier for the duration of
// one Multiply call and receives every intermediate formula application,
// which is the raw material for leakage analysis.
package trace

import (
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Context receives the events of a scalar multiplication. Implementations
// must tolerate nested EnterMultiplication calls: a multiplier may invoke
// another multiplier internally.
type Context interface {
	// EnterMultiplication is called once at the start of a Multiply call,
	// before any formula runs.
	EnterMultiplication(p *point.Point, scalar *big.Int)
	// ObserveFormula is called for every formula application, with the
	// concrete input and output points.
	ObserveFormula(f formula.Formula, inputs, outputs []*point.Point)
	// ExitMultiplication is called with the final result.
	ExitMultiplication(result *point.Point)
}

// Action is one recorded formula application.
type Action struct {
	Formula formula.Formula
	Inputs  []*point.Point
	Outputs []*point.Point
}

// CountingContext records every formula application of the outermost
// multiplication and counts how many times each point value occurs as a
// formula output. Point values are compared by their raw coordinate
// representation, so two unscaled encodings of the same curve point count
// separately.
type CountingContext struct {
	depth   int
	base    *point.Point
	scalar  *big.Int
	result  *point.Point
	actions []Action
	counts  map[string]int
	seen    map[string]*point.Point
}

var _ Context = (*CountingContext)(nil)

// NewCountingContext returns an empty context ready to be attached to a
// multiplier.
func NewCountingContext() *CountingContext {
	return &CountingContext{
		counts: map[string]int{},
		seen:   map[string]*point.Point{},
	}
}

func (c *CountingContext) EnterMultiplication(p *point.Point, scalar *big.Int) {
	c.depth++
	if c.depth > 1 {
		return
	}
	c.base = p.Clone()
	c.scalar = new(big.Int).Set(scalar)
	c.record(p)
}

func (c *CountingContext) ObserveFormula(f formula.Formula, inputs, outputs []*point.Point) {
	act := Action{Formula: f}
	for _, p := range inputs {
		act.Inputs = append(act.Inputs, p.Clone())
	}
	for _, p := range outputs {
		act.Outputs = append(act.Outputs, p.Clone())
		c.record(p)
	}
	c.actions = append(c.actions, act)
}

func (c *CountingContext) ExitMultiplication(result *point.Point) {
	c.depth--
	if c.depth > 0 {
		return
	}
	c.result = result.Clone()
	c.record(result)
}

func (c *CountingContext) record(p *point.Point) {
	key := p.Key()
	c.counts[key]++
	if _, ok := c.seen[key]; !ok {
		c.seen[key] = p.Clone()
	}
}

// Base returns the input point of the outermost multiplication.
func (c *CountingContext) Base() *point.Point { return c.base }

// Scalar returns the scalar of the outermost multiplication.
func (c *CountingContext) Scalar() *big.Int { return c.scalar }

// Result returns the final point, or nil before ExitMultiplication.
func (c *CountingContext) Result() *point.Point { return c.result }

// Actions returns the recorded formula applications in execution order.
func (c *CountingContext) Actions() []Action { return c.actions }

// Points returns one representative per distinct recorded point value.
func (c *CountingContext) Points() []*point.Point {
	out := make([]*point.Point, 0, len(c.seen))
	for _, p := range c.seen {
		out = append(out, p)
	}
	return out
}

// Count returns how many times the exact point value was recorded.
func (c *CountingContext) Count(p *point.Point) int { return c.counts[p.Key()] }

// Reset clears the context for reuse.
func (c *CountingContext) Reset() {
	*c = CountingContext{
		counts: map[string]int{},
		seen:   map[string]*point.Point{},
	}
}
