package mult

import (
	"fmt"
	"math/big"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// recodeNAF returns the non-adjacent form of k, least significant digit
// first. Digits are in {-1, 0, 1} and no two adjacent digits are nonzero.
func recodeNAF(k *big.Int) []int {
	var digits []int
	n := new(big.Int).Set(k)
	four := big.NewInt(4)
	mod := new(big.Int)
	for n.Sign() > 0 {
		if n.Bit(0) == 1 {
			d := 2 - int(mod.Mod(n, four).Int64())
			digits = append(digits, d)
			n.Sub(n, big.NewInt(int64(d)))
		} else {
			digits = append(digits, 0)
		}
		n.Rsh(n, 1)
	}
	return digits
}

// recodeWindowNAF returns the width-w NAF of k, least significant digit
// first. Nonzero digits are odd and lie in (-2^(w-1), 2^(w-1)).
func recodeWindowNAF(k *big.Int, width int) []int {
	var digits []int
	n := new(big.Int).Set(k)
	pow := new(big.Int).Lsh(big.NewInt(1), uint(width))
	half := new(big.Int).Rsh(pow, 1)
	mod := new(big.Int)
	for n.Sign() > 0 {
		if n.Bit(0) == 1 {
			mod.Mod(n, pow)
			d := int(mod.Int64())
			if mod.Cmp(half) >= 0 {
				d -= int(pow.Int64())
			}
			digits = append(digits, d)
			n.Sub(n, big.NewInt(int64(d)))
		} else {
			digits = append(digits, 0)
		}
		n.Rsh(n, 1)
	}
	return digits
}

// BinaryNAFMultiplier recodes the scalar into non-adjacent form and
// processes the signed digits in the configured direction.
type BinaryNAFMultiplier struct {
	base
	direction ProcessingDirection
}

func NewBinaryNAF(add, dbl, neg, scl formula.Formula, direction ProcessingDirection, shortCircuit bool) (*BinaryNAFMultiplier, error) {
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, neg, scl},
		[]formula.Role{formula.Addition, formula.Doubling, formula.Negation},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &BinaryNAFMultiplier{base: b, direction: direction}, nil
}

func (m *BinaryNAFMultiplier) String() string {
	return fmt.Sprintf("bnaf(%v)", m.direction)
}

func (m *BinaryNAFMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	q := m.point
	negQ, err := m.neg(q)
	if err != nil {
		return nil, err
	}
	digits := recodeNAF(k)
	r := m.curve().Neutral()
	if m.direction == LeftToRight {
		for i := len(digits) - 1; i >= 0; i-- {
			r, err = m.dbl(r)
			if err != nil {
				return nil, err
			}
			switch digits[i] {
			case 1:
				r, err = m.add(r, q)
			case -1:
				r, err = m.add(r, negQ)
			}
			if err != nil {
				return nil, err
			}
		}
	} else {
		q = q.Clone()
		for i := 0; i < len(digits); i++ {
			switch digits[i] {
			case 1:
				r, err = m.add(r, q)
			case -1:
				r, err = m.add(r, negQ)
			}
			if err != nil {
				return nil, err
			}
			q, err = m.dbl(q)
			if err != nil {
				return nil, err
			}
			negQ, err = m.dbl(negQ)
			if err != nil {
				return nil, err
			}
		}
	}
	return m.finish(r, nil)
}

// WindowNAFMultiplier recodes the scalar into width-w NAF and uses a
// table of odd multiples, recomputed on every call so attached trace
// contexts see the full computation.
type WindowNAFMultiplier struct {
	base
	width int
	order AccumulationOrder
}

func NewWindowNAF(add, dbl, neg, scl formula.Formula, width int, order AccumulationOrder, shortCircuit bool) (*WindowNAFMultiplier, error) {
	if width < 2 {
		return nil, fmt.Errorf("mult: window width %d too small", width)
	}
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, neg, scl},
		[]formula.Role{formula.Addition, formula.Doubling, formula.Negation},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &WindowNAFMultiplier{base: b, width: width, order: order}, nil
}

func (m *WindowNAFMultiplier) String() string {
	return fmt.Sprintf("wnaf(%d,order=%v)", m.width, m.order)
}

// oddMultiples computes [1]q, [3]q, ..., [count*2-1]q.
func (b *base) oddMultiples(q *point.Point, count int) (map[int]*point.Point, error) {
	table := map[int]*point.Point{1: q.Clone()}
	if count <= 1 {
		return table, nil
	}
	two, err := b.dbl(q)
	if err != nil {
		return nil, err
	}
	for i := 1; i < count; i++ {
		next, err := b.add(table[2*i-1], two)
		if err != nil {
			return nil, err
		}
		table[2*i+1] = next
	}
	return table, nil
}

func (m *WindowNAFMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	table, err := m.oddMultiples(m.point, 1<<(m.width-2))
	if err != nil {
		return nil, err
	}
	negTable := map[int]*point.Point{}
	digits := recodeWindowNAF(k, m.width)
	r := m.curve().Neutral()
	for i := len(digits) - 1; i >= 0; i-- {
		r, err = m.dbl(r)
		if err != nil {
			return nil, err
		}
		d := digits[i]
		switch {
		case d > 0:
			r, err = accumulate(&m.base, m.order, r, table[d])
		case d < 0:
			n, ok := negTable[-d]
			if !ok {
				n, err = m.neg(table[-d])
				if err != nil {
					return nil, err
				}
				negTable[-d] = n
			}
			r, err = accumulate(&m.base, m.order, r, n)
		}
		if err != nil {
			return nil, err
		}
	}
	return m.finish(r, nil)
}
