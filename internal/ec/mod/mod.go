// Package mod implements arithmetic in a prime field GF(p).
package mod

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNotInvertible is returned when a modular inverse does not exist.
var ErrNotInvertible = errors.New("mod: value is not invertible")

// Mod is an integer kept reduced into [0, modulus). Values are immutable:
// every operation returns a fresh element and both operands must share the
// same modulus.
type Mod struct {
	x *big.Int
	n *big.Int
}

// New creates a field element, reducing value into [0, modulus).
func New(value, modulus *big.Int) Mod {
	return Mod{x: new(big.Int).Mod(value, modulus), n: modulus}
}

// NewInt creates a field element from a small integer.
func NewInt(value int64, modulus *big.Int) Mod {
	return New(big.NewInt(value), modulus)
}

// NewHex creates a field element from a big-endian hex string (no 0x prefix).
func NewHex(value string, modulus *big.Int) (Mod, error) {
	x, ok := new(big.Int).SetString(value, 16)
	if !ok {
		return Mod{}, fmt.Errorf("mod: invalid hex value %q", value)
	}
	return New(x, modulus), nil
}

// Big returns a copy of the value.
func (m Mod) Big() *big.Int {
	return new(big.Int).Set(m.x)
}

// Modulus returns the field modulus. The returned value must not be mutated.
func (m Mod) Modulus() *big.Int {
	return m.n
}

func (m Mod) IsZero() bool {
	return m.x.Sign() == 0
}

func (m Mod) IsOne() bool {
	return m.x.Cmp(oneInt) == 0
}

// Equal reports whether both elements have the same value and modulus.
func (m Mod) Equal(o Mod) bool {
	return m.n.Cmp(o.n) == 0 && m.x.Cmp(o.x) == 0
}

var oneInt = big.NewInt(1)

func (m Mod) Add(o Mod) Mod {
	r := new(big.Int).Add(m.x, o.x)
	return Mod{x: r.Mod(r, m.n), n: m.n}
}

func (m Mod) Sub(o Mod) Mod {
	r := new(big.Int).Sub(m.x, o.x)
	return Mod{x: r.Mod(r, m.n), n: m.n}
}

func (m Mod) Mul(o Mod) Mod {
	r := new(big.Int).Mul(m.x, o.x)
	return Mod{x: r.Mod(r, m.n), n: m.n}
}

func (m Mod) Neg() Mod {
	r := new(big.Int).Neg(m.x)
	return Mod{x: r.Mod(r, m.n), n: m.n}
}

func (m Mod) Square() Mod {
	return m.Mul(m)
}

// Exp raises the element to the given exponent. Negative exponents invert
// first and fail for non-invertible values.
func (m Mod) Exp(e *big.Int) (Mod, error) {
	if e.Sign() < 0 {
		inv, err := m.Inverse()
		if err != nil {
			return Mod{}, err
		}
		return inv.Exp(new(big.Int).Neg(e))
	}
	return Mod{x: new(big.Int).Exp(m.x, e, m.n), n: m.n}, nil
}

// Inverse returns the multiplicative inverse, or ErrNotInvertible if none
// exists (the value shares a factor with the modulus, e.g. zero).
func (m Mod) Inverse() (Mod, error) {
	r := new(big.Int).ModInverse(m.x, m.n)
	if r == nil {
		return Mod{}, ErrNotInvertible
	}
	return Mod{x: r, n: m.n}, nil
}

// Div returns m / o, failing when o is not invertible.
func (m Mod) Div(o Mod) (Mod, error) {
	inv, err := o.Inverse()
	if err != nil {
		return Mod{}, err
	}
	return m.Mul(inv), nil
}

// Sqrt returns a square root of the element if one exists. Which of the two
// roots is returned is unspecified but deterministic.
func (m Mod) Sqrt() (Mod, bool) {
	r := new(big.Int).ModSqrt(m.x, m.n)
	if r == nil {
		return Mod{}, false
	}
	return Mod{x: r, n: m.n}, true
}

// Text returns the value in the given base.
func (m Mod) Text(base int) string {
	return m.x.Text(base)
}

func (m Mod) String() string {
	return m.x.Text(16)
}
