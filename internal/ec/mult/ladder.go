package mult

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// LadderMultiplier is the Montgomery ladder built on a fused ladder
// formula. Each step keeps the pair (p0, p1) with p1 - p0 equal to the
// input point.
type LadderMultiplier struct {
	base
	complete bool
}

// NewLadder builds a ladder multiplier. dbl may be nil when the ladder
// formula is complete and shortCircuit is off; it is needed otherwise, for
// the top-bit preseed and the neutral-operand rewrite. scl is optional.
func NewLadder(ladd, dbl, scl formula.Formula, complete, shortCircuit bool) (*LadderMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{ladd, dbl, scl},
		[]formula.Role{formula.Ladder},
		[]formula.Role{formula.Doubling, formula.Scaling})
	if err != nil {
		return nil, err
	}
	if _, ok := b.formulas[formula.Doubling]; !ok && (!complete || shortCircuit) {
		return nil, errors.New("mult: ladder without doubling formula must be complete and not short-circuit")
	}
	return &LadderMultiplier{base: b, complete: complete}, nil
}

func (m *LadderMultiplier) String() string {
	return fmt.Sprintf("ladder(complete=%v)", m.complete)
}

func (m *LadderMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	q := m.point
	var p0, p1 *point.Point
	var top int
	if m.complete {
		p0 = m.curve().Neutral()
		p1 = q.Clone()
		top = m.params.Order.BitLen() - 1
	} else {
		var err error
		p0 = q.Clone()
		p1, err = m.dbl(q)
		if err != nil {
			return nil, err
		}
		top = k.BitLen() - 2
	}
	for i := top; i >= 0; i-- {
		var err error
		if k.Bit(i) == 0 {
			p0, p1, err = m.ladd(q, p0, p1)
		} else {
			p1, p0, err = m.ladd(q, p1, p0)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.finish(p0, nil)
}

// SimpleLadderMultiplier is the Montgomery ladder spelled out with
// separate addition and doubling formulas.
type SimpleLadderMultiplier struct {
	base
	complete bool
}

func NewSimpleLadder(add, dbl, scl formula.Formula, complete, shortCircuit bool) (*SimpleLadderMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, scl},
		[]formula.Role{formula.Addition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &SimpleLadderMultiplier{base: b, complete: complete}, nil
}

func (m *SimpleLadderMultiplier) String() string {
	return fmt.Sprintf("simple-ladder(complete=%v)", m.complete)
}

func (m *SimpleLadderMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	p0 := m.curve().Neutral()
	p1 := m.point.Clone()
	top := k.BitLen() - 1
	if m.complete {
		top = m.params.Order.BitLen() - 1
	}
	for i := top; i >= 0; i-- {
		var err error
		if k.Bit(i) == 0 {
			p1, err = m.add(p0, p1)
			if err != nil {
				return nil, err
			}
			p0, err = m.dbl(p0)
		} else {
			p0, err = m.add(p0, p1)
			if err != nil {
				return nil, err
			}
			p1, err = m.dbl(p1)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.finish(p0, nil)
}

// DifferentialLadderMultiplier is the ladder built on differential
// addition plus doubling, for x-only coordinate systems.
type DifferentialLadderMultiplier struct {
	base
	complete bool
}

func NewDifferentialLadder(dadd, dbl, scl formula.Formula, complete, shortCircuit bool) (*DifferentialLadderMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{dadd, dbl, scl},
		[]formula.Role{formula.DifferentialAddition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &DifferentialLadderMultiplier{base: b, complete: complete}, nil
}

func (m *DifferentialLadderMultiplier) String() string {
	return fmt.Sprintf("differential-ladder(complete=%v)", m.complete)
}

func (m *DifferentialLadderMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	q := m.point
	p0 := m.curve().Neutral()
	p1 := q.Clone()
	top := k.BitLen() - 1
	if m.complete {
		top = m.params.Order.BitLen() - 1
	}
	for i := top; i >= 0; i-- {
		var err error
		if k.Bit(i) == 0 {
			p1, err = m.dadd(q, p0, p1)
			if err != nil {
				return nil, err
			}
			p0, err = m.dbl(p0)
		} else {
			p0, err = m.dadd(q, p0, p1)
			if err != nil {
				return nil, err
			}
			p1, err = m.dbl(p1)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.finish(p0, nil)
}
