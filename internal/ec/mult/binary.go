package mult

import (
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// accumulate folds a precomputed point into the running result in the
// multiplier's configured operand order.
func accumulate(b *base, order AccumulationOrder, r, q *point.Point) (*point.Point, error) {
	if order == AccumulatorFirst {
		return b.add(r, q)
	}
	return b.add(q, r)
}

// LTRMultiplier is left-to-right double-and-add. With always set it
// performs a discarded dummy addition on zero bits, the classic
// double-and-add-always countermeasure.
type LTRMultiplier struct {
	base
	order    AccumulationOrder
	always   bool
	complete bool
}

func NewLTR(add, dbl, scl formula.Formula, order AccumulationOrder, always, complete, shortCircuit bool) (*LTRMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, scl},
		[]formula.Role{formula.Addition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &LTRMultiplier{base: b, order: order, always: always, complete: complete}, nil
}

func (m *LTRMultiplier) String() string {
	return fmt.Sprintf("ltr(always=%v,order=%v)", m.always, m.order)
}

func (m *LTRMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	q := m.point
	r := m.curve().Neutral()
	top := k.BitLen() - 1
	if m.complete {
		top = m.params.Order.BitLen() - 1
	}
	for i := top; i >= 0; i-- {
		var err error
		r, err = m.dbl(r)
		if err != nil {
			return nil, err
		}
		if k.Bit(i) == 1 {
			r, err = accumulate(&m.base, m.order, r, q)
		} else if m.always {
			// Dummy addition, result discarded.
			_, err = accumulate(&m.base, m.order, r, q)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.finish(r, nil)
}

// RTLMultiplier is right-to-left double-and-add: the base point is
// doubled while set bits fold its current multiple into the result.
type RTLMultiplier struct {
	base
	order    AccumulationOrder
	always   bool
	complete bool
}

func NewRTL(add, dbl, scl formula.Formula, order AccumulationOrder, always, complete, shortCircuit bool) (*RTLMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, scl},
		[]formula.Role{formula.Addition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &RTLMultiplier{base: b, order: order, always: always, complete: complete}, nil
}

func (m *RTLMultiplier) String() string {
	return fmt.Sprintf("rtl(always=%v,order=%v)", m.always, m.order)
}

func (m *RTLMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	q := m.point.Clone()
	r := m.curve().Neutral()
	top := k.BitLen()
	if m.complete {
		top = m.params.Order.BitLen()
	}
	for i := 0; i < top; i++ {
		var err error
		if k.Bit(i) == 1 {
			r, err = accumulate(&m.base, m.order, r, q)
		} else if m.always {
			_, err = accumulate(&m.base, m.order, r, q)
		}
		if err != nil {
			return nil, err
		}
		q, err = m.dbl(q)
		if err != nil {
			return nil, err
		}
	}
	return m.finish(r, nil)
}
