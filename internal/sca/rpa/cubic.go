package rpa

import (
	"math/big"
)

// Root finding for x^3 + a*x + b over GF(p), used to locate points with a
// zero y coordinate. The cubic is split off x^p - x with polynomial GCDs,
// so only roots in GF(p) itself are ever reported.

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// poly is a dense polynomial over GF(p), least significant coefficient
// first, with no leading zero coefficients.
type poly []*big.Int

func polyTrim(f poly) poly {
	for len(f) > 0 && f[len(f)-1].Sign() == 0 {
		f = f[:len(f)-1]
	}
	return f
}

func polyClone(f poly) poly {
	out := make(poly, len(f))
	for i, c := range f {
		out[i] = new(big.Int).Set(c)
	}
	return out
}

func polySub(f, g poly, p *big.Int) poly {
	n := len(f)
	if len(g) > n {
		n = len(g)
	}
	out := make(poly, n)
	for i := 0; i < n; i++ {
		c := new(big.Int)
		if i < len(f) {
			c.Set(f[i])
		}
		if i < len(g) {
			c.Sub(c, g[i])
		}
		out[i] = c.Mod(c, p)
	}
	return polyTrim(out)
}

func polyMul(f, g poly, p *big.Int) poly {
	if len(f) == 0 || len(g) == 0 {
		return nil
	}
	out := make(poly, len(f)+len(g)-1)
	for i := range out {
		out[i] = new(big.Int)
	}
	t := new(big.Int)
	for i, fc := range f {
		for j, gc := range g {
			t.Mul(fc, gc)
			out[i+j].Add(out[i+j], t)
			out[i+j].Mod(out[i+j], p)
		}
	}
	return polyTrim(out)
}

// polyDivMod divides f by a monic g.
func polyDivMod(f, g poly, p *big.Int) (quo, rem poly) {
	rem = polyClone(f)
	if len(g) == 0 {
		panic("rpa: division by zero polynomial")
	}
	if len(rem) < len(g) {
		return nil, polyTrim(rem)
	}
	quo = make(poly, len(rem)-len(g)+1)
	for i := range quo {
		quo[i] = new(big.Int)
	}
	t := new(big.Int)
	for i := len(rem) - len(g); i >= 0; i-- {
		c := new(big.Int).Set(rem[i+len(g)-1])
		if c.Sign() == 0 {
			continue
		}
		quo[i].Set(c)
		for j, gc := range g {
			t.Mul(c, gc)
			rem[i+j].Sub(rem[i+j], t)
			rem[i+j].Mod(rem[i+j], p)
		}
	}
	return polyTrim(quo), polyTrim(rem)
}

// polyMonic scales f to leading coefficient 1.
func polyMonic(f poly, p *big.Int) poly {
	f = polyTrim(f)
	if len(f) == 0 {
		return f
	}
	lead := f[len(f)-1]
	if lead.Cmp(bigOne) == 0 {
		return f
	}
	inv := new(big.Int).ModInverse(lead, p)
	out := make(poly, len(f))
	for i, c := range f {
		out[i] = new(big.Int).Mul(c, inv)
		out[i].Mod(out[i], p)
	}
	return out
}

func polyGCD(f, g poly, p *big.Int) poly {
	a, b := polyMonic(f, p), polyMonic(g, p)
	for len(b) > 0 {
		_, r := polyDivMod(a, b, p)
		a, b = b, polyMonic(r, p)
	}
	return a
}

// polyPowMod computes base^e modulo the monic polynomial m.
func polyPowMod(base poly, e *big.Int, m poly, p *big.Int) poly {
	if len(m) <= 1 {
		return nil
	}
	result := poly{new(big.Int).Set(bigOne)}
	_, b := polyDivMod(base, m, p)
	for i := e.BitLen() - 1; i >= 0; i-- {
		result = polyMul(result, result, p)
		_, result = polyDivMod(result, m, p)
		if e.Bit(i) == 1 {
			result = polyMul(result, b, p)
			_, result = polyDivMod(result, m, p)
		}
	}
	return result
}

// quadraticRoot solves the monic x^2 + c1*x + c0 over GF(p).
func quadraticRoot(c1, c0, p *big.Int) (*big.Int, bool) {
	// discriminant c1^2 - 4*c0
	disc := new(big.Int).Mul(c1, c1)
	disc.Sub(disc, new(big.Int).Lsh(c0, 2))
	disc.Mod(disc, p)
	s := new(big.Int).ModSqrt(disc, p)
	if s == nil {
		return nil, false
	}
	inv2 := new(big.Int).ModInverse(bigTwo, p)
	r := new(big.Int).Neg(c1)
	r.Add(r, s)
	r.Mul(r, inv2)
	r.Mod(r, p)
	return r, true
}

// rootOf extracts one root from a squarefree product of linear factors of
// degree at most 3.
func rootOf(g poly, p *big.Int) (*big.Int, bool) {
	switch len(g) {
	case 0, 1:
		return nil, false
	case 2:
		// monic x + c0
		r := new(big.Int).Neg(g[0])
		return r.Mod(r, p), true
	case 3:
		return quadraticRoot(g[1], g[0], p)
	}
	// Degree 3 with all roots in GF(p): split with gcd(g, (x+r)^((p-1)/2) - 1)
	// for successive shifts until a proper factor appears.
	exp := new(big.Int).Rsh(new(big.Int).Sub(p, bigOne), 1)
	for shift := int64(0); shift < 64; shift++ {
		base := poly{big.NewInt(shift), new(big.Int).Set(bigOne)}
		h := polyPowMod(base, exp, g, p)
		h = polySub(h, poly{new(big.Int).Set(bigOne)}, p)
		d := polyGCD(h, g, p)
		if len(d) > 1 && len(d) < len(g) {
			return rootOf(d, p)
		}
	}
	return nil, false
}

// cubicRoot returns a root of x^3 + a*x + b over GF(p), if one exists.
func cubicRoot(a, b, p *big.Int) (*big.Int, bool) {
	f := poly{
		new(big.Int).Mod(b, p),
		new(big.Int).Mod(a, p),
		new(big.Int),
		new(big.Int).Set(bigOne),
	}
	// x^p mod f
	xp := polyPowMod(poly{new(big.Int), new(big.Int).Set(bigOne)}, p, f, p)
	// gcd(x^p - x, f) collects the roots living in GF(p).
	g := polyGCD(polySub(xp, poly{new(big.Int), new(big.Int).Set(bigOne)}, p), f, p)
	return rootOf(g, p)
}
