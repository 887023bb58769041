package mult

import (
	"fmt"
	"math/big"
	"math/bits"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// recodeSlidingLTR splits the scalar into odd windows of at most the
// given width, scanning from the most significant bit. The result has one
// digit per bit position, least significant first; nonzero digits are odd.
func recodeSlidingLTR(k *big.Int, width int) []int {
	digits := make([]int, k.BitLen())
	i := k.BitLen() - 1
	for i >= 0 {
		if k.Bit(i) == 0 {
			i--
			continue
		}
		j := i - width + 1
		if j < 0 {
			j = 0
		}
		for k.Bit(j) == 0 {
			j++
		}
		value := 0
		for b := i; b >= j; b-- {
			value = value<<1 | int(k.Bit(b))
		}
		digits[j] = value
		i = j - 1
	}
	return digits
}

// recodeSlidingRTL splits the scalar into odd windows of exactly the
// given width (sans leading zeros), scanning from the least significant
// bit.
func recodeSlidingRTL(k *big.Int, width int) []int {
	digits := make([]int, k.BitLen())
	i := 0
	for i < k.BitLen() {
		if k.Bit(i) == 0 {
			i++
			continue
		}
		value := 0
		for b := i + width - 1; b >= i; b-- {
			value = value<<1 | int(k.Bit(b))
		}
		digits[i] = value
		i += width
	}
	return digits
}

// SlidingWindowMultiplier recodes the scalar into odd windows and
// evaluates them left-to-right against a table of odd multiples. The
// direction selects the recoding scan order, which changes the window
// placement and hence the trace.
type SlidingWindowMultiplier struct {
	base
	width     int
	direction ProcessingDirection
	order     AccumulationOrder
}

func NewSlidingWindow(add, dbl, scl formula.Formula, width int, direction ProcessingDirection, order AccumulationOrder, shortCircuit bool) (*SlidingWindowMultiplier, error) {
	if width < 1 {
		return nil, fmt.Errorf("mult: window width %d too small", width)
	}
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, scl},
		[]formula.Role{formula.Addition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &SlidingWindowMultiplier{base: b, width: width, direction: direction, order: order}, nil
}

func (m *SlidingWindowMultiplier) String() string {
	return fmt.Sprintf("sliding(%d,%v,order=%v)", m.width, m.direction, m.order)
}

func (m *SlidingWindowMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	table, err := m.oddMultiples(m.point, 1<<(m.width-1))
	if err != nil {
		return nil, err
	}
	var digits []int
	if m.direction == LeftToRight {
		digits = recodeSlidingLTR(k, m.width)
	} else {
		digits = recodeSlidingRTL(k, m.width)
	}
	r := m.curve().Neutral()
	for i := len(digits) - 1; i >= 0; i-- {
		r, err = m.dbl(r)
		if err != nil {
			return nil, err
		}
		if d := digits[i]; d != 0 {
			r, err = accumulate(&m.base, m.order, r, table[d])
			if err != nil {
				return nil, err
			}
		}
	}
	return m.finish(r, nil)
}

// FixedWindowLTRMultiplier processes the scalar as base-m digits from the
// most significant end. m does not have to be a power of two; the
// accumulator is then multiplied by m with a short double-and-add.
type FixedWindowLTRMultiplier struct {
	base
	m     int
	order AccumulationOrder
}

func NewFixedWindowLTR(add, dbl, scl formula.Formula, m int, order AccumulationOrder, shortCircuit bool) (*FixedWindowLTRMultiplier, error) {
	if m < 2 {
		return nil, fmt.Errorf("mult: window base %d too small", m)
	}
	b, err := newBase(shortCircuit, []formula.Formula{add, dbl, scl},
		[]formula.Role{formula.Addition, formula.Doubling},
		[]formula.Role{formula.Scaling})
	if err != nil {
		return nil, err
	}
	return &FixedWindowLTRMultiplier{base: b, m: m, order: order}, nil
}

func (m *FixedWindowLTRMultiplier) String() string {
	return fmt.Sprintf("fixed(%d,order=%v)", m.m, m.order)
}

// mTimes multiplies the accumulator by the window base.
func (m *FixedWindowLTRMultiplier) mTimes(p *point.Point) (*point.Point, error) {
	if m.m&(m.m-1) == 0 {
		r := p
		var err error
		for i := 0; i < bits.TrailingZeros(uint(m.m)); i++ {
			r, err = m.dbl(r)
			if err != nil {
				return nil, err
			}
		}
		return r, nil
	}
	r := p.Clone()
	for i := bits.Len(uint(m.m)) - 2; i >= 0; i-- {
		var err error
		r, err = m.dbl(r)
		if err != nil {
			return nil, err
		}
		if m.m&(1<<i) != 0 {
			r, err = m.add(r, p)
			if err != nil {
				return nil, err
			}
		}
	}
	return r, nil
}

// baseMDigits returns the base-m digits of k, most significant first.
func baseMDigits(k *big.Int, m int) []int {
	var digits []int
	n := new(big.Int).Set(k)
	mb := big.NewInt(int64(m))
	rem := new(big.Int)
	for n.Sign() > 0 {
		n.DivMod(n, mb, rem)
		digits = append(digits, int(rem.Int64()))
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return digits
}

func (m *FixedWindowLTRMultiplier) Multiply(k *big.Int) (*point.Point, error) {
	if err := m.start(k); err != nil {
		return nil, err
	}
	if k.Sign() == 0 {
		return m.finish(m.curve().Neutral(), nil)
	}
	// Table of small multiples [1]q .. [m-1]q.
	table := map[int]*point.Point{1: m.point.Clone()}
	for d := 2; d < m.m; d++ {
		next, err := m.add(table[d-1], m.point)
		if err != nil {
			return nil, err
		}
		table[d] = next
	}
	r := m.curve().Neutral()
	for _, d := range baseMDigits(k, m.m) {
		var err error
		r, err = m.mTimes(r)
		if err != nil {
			return nil, err
		}
		if d != 0 {
			r, err = accumulate(&m.base, m.order, r, table[d])
			if err != nil {
				return nil, err
			}
		}
	}
	return m.finish(r, nil)
}
