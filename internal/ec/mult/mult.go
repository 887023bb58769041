// Package mult implements scalar multiplication algorithms on top of the
// formula catalogue. Every multiplier follows the same lifecycle: construct
// it with the formulas it executes, Init it with domain parameters and a
// point, then Multiply scalars. An attached trace.Context observes each
// formula application, which is what makes the multipliers usable as
// side-channel simulation targets.
package mult

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/point"
	"github.com/ecleak/ecleak/internal/ec/trace"
)

// ErrNotInitialized is returned by Multiply before Init was called.
var ErrNotInitialized = errors.New("mult: multiplier is not initialized")

// AccumulationOrder fixes the operand order when a partial result is
// combined with a precomputed point. The order is observable in traces,
// so it is part of a multiplier's identity.
type AccumulationOrder int

const (
	// AccumulatorFirst computes add(R, Q).
	AccumulatorFirst AccumulationOrder = iota
	// AccumulatorLast computes add(Q, R).
	AccumulatorLast
)

func (o AccumulationOrder) String() string {
	if o == AccumulatorFirst {
		return "RQ"
	}
	return "QR"
}

// ProcessingDirection is the scalar bit processing order.
type ProcessingDirection int

const (
	LeftToRight ProcessingDirection = iota
	RightToLeft
)

func (d ProcessingDirection) String() string {
	if d == LeftToRight {
		return "ltr"
	}
	return "rtl"
}

// Multiplier computes scalar multiples of a fixed point.
type Multiplier interface {
	// Init binds the multiplier to domain parameters and a point. Affine
	// points are converted into the curve's coordinate system.
	Init(p *params.DomainParameters, pt *point.Point) error
	// Multiply computes scalar*point. The scalar must be non-negative.
	Multiply(scalar *big.Int) (*point.Point, error)
	// Trace attaches a context observing subsequent Multiply calls, or
	// detaches it when ctx is nil.
	Trace(ctx trace.Context)
	String() string
}

// base carries the state shared by all multipliers.
type base struct {
	formulas     map[formula.Role]formula.Formula
	shortCircuit bool
	params       *params.DomainParameters
	point        *point.Point
	ctx          trace.Context
}

// newBase indexes the given formulas by role and checks them against the
// multiplier's required and optional roles.
func newBase(shortCircuit bool, formulas []formula.Formula, required, optional []formula.Role) (base, error) {
	byRole := make(map[formula.Role]formula.Formula, len(formulas))
	allowed := map[formula.Role]bool{}
	for _, r := range required {
		allowed[r] = true
	}
	for _, r := range optional {
		allowed[r] = true
	}
	for _, f := range formulas {
		if f == nil {
			continue
		}
		if !allowed[f.Role()] {
			return base{}, fmt.Errorf("mult: formula role %v not usable here", f.Role())
		}
		if _, dup := byRole[f.Role()]; dup {
			return base{}, fmt.Errorf("mult: duplicate formula for role %v", f.Role())
		}
		byRole[f.Role()] = f
	}
	for _, r := range required {
		if _, ok := byRole[r]; !ok {
			return base{}, fmt.Errorf("mult: missing required formula role %v", r)
		}
	}
	return base{formulas: byRole, shortCircuit: shortCircuit}, nil
}

func (b *base) Init(p *params.DomainParameters, pt *point.Point) error {
	if p == nil || pt == nil {
		return errors.New("mult: nil parameters or point")
	}
	for _, f := range b.formulas {
		if f.Coordinates() != p.Curve.Coordinates() {
			return fmt.Errorf("mult: formula %v does not fit %v curve", f, p.Curve.Coordinates())
		}
	}
	if pt.Model().Affine() {
		conv, err := p.Curve.FromAffine(pt)
		if err != nil {
			return err
		}
		pt = conv
	}
	if pt.Model() != p.Curve.Coordinates() {
		return fmt.Errorf("mult: point model %v does not match curve %v", pt.Model(), p.Curve.Coordinates())
	}
	b.params = p
	b.point = pt.Clone()
	return nil
}

func (b *base) Trace(ctx trace.Context) { b.ctx = ctx }

func (b *base) curve() *curve.Curve { return b.params.Curve }

func (b *base) isNeutral(p *point.Point) bool { return b.params.Curve.IsNeutral(p) }

// start validates a Multiply call and opens the trace scope.
func (b *base) start(k *big.Int) error {
	if b.params == nil {
		return ErrNotInitialized
	}
	if k.Sign() < 0 {
		return curve.ErrNegativeScalar
	}
	if b.ctx != nil {
		b.ctx.EnterMultiplication(b.point, k)
	}
	return nil
}

// finish applies the optional scaling formula and closes the trace scope.
// It must be called exactly once per successful start.
func (b *base) finish(r *point.Point, err error) (*point.Point, error) {
	if err != nil {
		return nil, err
	}
	if _, ok := b.formulas[formula.Scaling]; ok && !b.isNeutral(r) {
		r, err = b.scl(r)
		if err != nil {
			return nil, err
		}
	}
	if b.ctx != nil {
		b.ctx.ExitMultiplication(r)
	}
	return r, nil
}

func (b *base) apply(role formula.Role, inputs ...*point.Point) ([]*point.Point, error) {
	f, ok := b.formulas[role]
	if !ok {
		return nil, fmt.Errorf("mult: no formula for role %v", role)
	}
	out, err := f.Apply(b.curve(), inputs...)
	if err != nil {
		return nil, err
	}
	if b.ctx != nil {
		b.ctx.ObserveFormula(f, inputs, out)
	}
	return out, nil
}

func (b *base) add(p, q *point.Point) (*point.Point, error) {
	if b.shortCircuit {
		if b.isNeutral(p) {
			return q.Clone(), nil
		}
		if b.isNeutral(q) {
			return p.Clone(), nil
		}
	}
	out, err := b.apply(formula.Addition, p, q)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (b *base) dbl(p *point.Point) (*point.Point, error) {
	if b.shortCircuit && b.isNeutral(p) {
		return p.Clone(), nil
	}
	out, err := b.apply(formula.Doubling, p)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (b *base) neg(p *point.Point) (*point.Point, error) {
	if b.shortCircuit && b.isNeutral(p) {
		return p.Clone(), nil
	}
	out, err := b.apply(formula.Negation, p)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

func (b *base) scl(p *point.Point) (*point.Point, error) {
	out, err := b.apply(formula.Scaling, p)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}

// ladd is one ladder step: given the fixed base and the pair (p0, p1) with
// p1 - p0 = base, it returns (2*p0, p0 + p1).
func (b *base) ladd(bp, p0, p1 *point.Point) (*point.Point, *point.Point, error) {
	if b.shortCircuit {
		if b.isNeutral(p0) {
			return p0.Clone(), p1.Clone(), nil
		}
		if b.isNeutral(p1) {
			d, err := b.dbl(p0)
			if err != nil {
				return nil, nil, err
			}
			return d, p0.Clone(), nil
		}
	}
	out, err := b.apply(formula.Ladder, bp, p0, p1)
	if err != nil {
		return nil, nil, err
	}
	return out[0], out[1], nil
}

// dadd is differential addition: p + q where p - q is the fixed base.
func (b *base) dadd(bp, p, q *point.Point) (*point.Point, error) {
	if b.shortCircuit {
		if b.isNeutral(p) {
			return q.Clone(), nil
		}
		if b.isNeutral(q) {
			return p.Clone(), nil
		}
	}
	out, err := b.apply(formula.DifferentialAddition, bp, p, q)
	if err != nil {
		return nil, err
	}
	return out[0], nil
}
