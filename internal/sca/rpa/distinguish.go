package rpa

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"
	"sort"

	log "github.com/sirupsen/logrus"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/mult"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/point"
	"github.com/ecleak/ecleak/internal/ec/trace"
)

// Oracle answers whether the black-box implementation, multiplying the
// given point by the given scalar, touched a point with a zero affine
// coordinate. A real attack derives this bit from power traces; tests
// simulate it from a known multiplier.
type Oracle func(scalar *big.Int, pt *point.Point) (bool, error)

// Options tune a Distinguish run.
type Options struct {
	// Rand drives the scalar choices. Required.
	Rand *rand.Rand
	// MaxTries bounds the number of oracle queries. Zero means 64.
	MaxTries int
	// Logger receives per-iteration progress. Nil disables logging.
	Logger log.FieldLogger
}

// ErrNoSpecialPoint is returned when the curve has neither an (x, 0) nor
// a (0, y) point to steer into the computation.
var ErrNoSpecialPoint = errors.New("rpa: curve has no zero-coordinate point")

// SimulatedOracle builds an Oracle from a known multiplier, standing in
// for the device under attack.
func SimulatedOracle(m mult.Multiplier, p *params.DomainParameters) Oracle {
	return func(scalar *big.Int, pt *point.Point) (bool, error) {
		return leaksZeroCoordinate(m, p, pt, scalar)
	}
}

// leaksZeroCoordinate runs one traced multiplication and reports whether
// any intermediate point had a zero coordinate other than Z.
func leaksZeroCoordinate(m mult.Multiplier, p *params.DomainParameters, pt *point.Point, scalar *big.Int) (bool, error) {
	bound := pt
	if bound.Model().Affine() {
		var err error
		bound, err = p.Curve.FromAffine(bound)
		if err != nil {
			return false, err
		}
	}
	if err := m.Init(p, bound); err != nil {
		return false, err
	}
	ctx := trace.NewCountingContext()
	m.Trace(ctx)
	defer m.Trace(nil)
	if _, err := m.Multiply(scalar); err != nil {
		return false, err
	}
	for _, q := range ctx.Points() {
		if hasZeroCoordinate(p.Curve, q) {
			return true, nil
		}
	}
	return false, nil
}

// hasZeroCoordinate reports a zero coordinate on any axis but Z, for
// points other than the neutral.
func hasZeroCoordinate(c *curve.Curve, p *point.Point) bool {
	if c.IsNeutral(p) {
		return false
	}
	for _, axis := range p.Model().Axes() {
		if axis == "Z" {
			continue
		}
		if p.Coord(axis).IsZero() {
			return true
		}
	}
	return false
}

// DefaultBattery returns the standard candidate set over the short
// Weierstrass projective formulas: the binary, ladder, NAF and window
// multipliers in their common configurations.
func DefaultBattery() ([]mult.Multiplier, error) {
	add, dbl := formula.SWAdd1998CMO, formula.SWDbl1998CMO
	neg := formula.SWNeg

	var out []mult.Multiplier
	var firstErr error
	push := func(m mult.Multiplier, err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
		out = append(out, m)
	}
	push(mult.NewLTR(add, dbl, nil, mult.AccumulatorFirst, false, true, true))
	push(mult.NewLTR(add, dbl, nil, mult.AccumulatorFirst, true, true, true))
	push(mult.NewRTL(add, dbl, nil, mult.AccumulatorFirst, false, true, true))
	push(mult.NewRTL(add, dbl, nil, mult.AccumulatorFirst, true, true, true))
	push(mult.NewSimpleLadder(add, dbl, nil, true, true))
	push(mult.NewBinaryNAF(add, dbl, neg, nil, mult.LeftToRight, true))
	push(mult.NewWindowNAF(add, dbl, neg, nil, 3, mult.AccumulatorFirst, true))
	push(mult.NewWindowNAF(add, dbl, neg, nil, 4, mult.AccumulatorFirst, true))
	push(mult.NewSlidingWindow(add, dbl, nil, 3, mult.LeftToRight, mult.AccumulatorFirst, true))
	push(mult.NewSlidingWindow(add, dbl, nil, 3, mult.RightToLeft, mult.AccumulatorFirst, true))
	push(mult.NewFixedWindowLTR(add, dbl, nil, 3, mult.AccumulatorFirst, true))
	push(mult.NewFixedWindowLTR(add, dbl, nil, 8, mult.AccumulatorFirst, true))
	return out, firstErr
}

// Distinguish narrows the candidate set down to the multipliers
// consistent with the oracle. Each iteration picks a random scalar,
// infers the intermediate multiples every surviving candidate would
// compute, selects a multiple that splits the survivors and queries the
// oracle with the point (m^-1 mod n) * P0, so that exactly the candidates
// computing the multiple m pass through the zero-coordinate point P0.
// Candidates are re-initialized in the process.
func Distinguish(p *params.DomainParameters, candidates []mult.Multiplier, oracle Oracle, opts Options) ([]mult.Multiplier, error) {
	if opts.Rand == nil {
		return nil, errors.New("rpa: options need a random source")
	}
	maxTries := opts.MaxTries
	if maxTries == 0 {
		maxTries = 64
	}
	logger := opts.Logger
	if logger == nil {
		l := log.New()
		l.SetLevel(log.PanicLevel)
		logger = l
	}

	p0, err := Point0Y(p)
	if err != nil {
		return nil, err
	}
	if p0 == nil {
		// The (x, 0) point has order 2, which weakens the probe, but it
		// is better than nothing.
		p0, err = PointX0(p)
		if err != nil {
			return nil, err
		}
	}
	if p0 == nil {
		return nil, ErrNoSpecialPoint
	}

	survivors := append([]mult.Multiplier(nil), candidates...)
	for tries := 0; len(survivors) > 1 && tries < maxTries; tries++ {
		k := new(big.Int).Rand(opts.Rand, new(big.Int).Sub(p.Order, bigOne))
		k.Add(k, bigOne)

		sets, err := candidateMultiples(p, survivors, k)
		if err != nil {
			return nil, err
		}
		m := splittingMultiple(sets, p.Order, k)
		if m == nil {
			logger.WithFields(log.Fields{"try": tries, "scalar": k.Text(16)}).
				Debug("no splitting multiple, rerolling scalar")
			continue
		}

		minv := new(big.Int).ModInverse(m, p.Order)
		if minv == nil {
			continue
		}
		probe, err := p.Curve.AffineMultiply(p0, minv)
		if err != nil {
			return nil, err
		}
		verdict, err := oracle(k, probe)
		if err != nil {
			return nil, err
		}

		var next []mult.Multiplier
		for _, cand := range survivors {
			predicted, err := leaksZeroCoordinate(cand, p, probe, k)
			if err != nil {
				return nil, err
			}
			if predicted == verdict {
				next = append(next, cand)
			}
		}
		logger.WithFields(log.Fields{
			"try":       tries,
			"scalar":    k.Text(16),
			"multiple":  m.Text(16),
			"verdict":   verdict,
			"survivors": len(next),
		}).Debug("distinguishing step")
		if len(next) == 0 {
			// The oracle disagreed with every candidate; keep the old set
			// rather than losing the true one to a bad probe.
			continue
		}
		survivors = next
	}
	return survivors, nil
}

// candidateMultiples runs each candidate on the generator under a
// multiples-tracking context.
func candidateMultiples(p *params.DomainParameters, candidates []mult.Multiplier, k *big.Int) ([]map[string]*big.Int, error) {
	sets := make([]map[string]*big.Int, len(candidates))
	for i, cand := range candidates {
		if err := cand.Init(p, p.Generator); err != nil {
			return nil, err
		}
		ctx := newMultiplesContext(p.Order)
		cand.Trace(ctx)
		_, err := cand.Multiply(k)
		cand.Trace(nil)
		if err != nil {
			return nil, err
		}
		sets[i] = ctx.Multiples()
	}
	return sets, nil
}

// splittingMultiple picks the multiple whose presence best bisects the
// candidate sets. Trivial multiples (0, 1 and the scalar itself, which
// every correct candidate computes) are excluded, as are multiples that
// share a factor with the order: the probe needs m^-1 mod n, and on
// even-order curves most doubling outputs would otherwise be wasted
// oracle queries. Ties break on the smallest key so a run is a pure
// function of its random source.
func splittingMultiple(sets []map[string]*big.Int, order, k *big.Int) *big.Int {
	exclude := map[string]bool{
		"0": true,
		"1": true,
		canonicalMultiple(k, order).String(): true,
	}
	counts := map[string]*big.Int{}
	occur := map[string]int{}
	gcd := new(big.Int)
	for _, set := range sets {
		for key, v := range set {
			if exclude[key] {
				continue
			}
			if gcd.GCD(nil, nil, v, order).Cmp(bigOne) != 0 {
				continue
			}
			counts[key] = v
			occur[key]++
		}
	}
	keys := make([]string, 0, len(occur))
	for key := range occur {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	var best *big.Int
	bestScore := -1
	half := len(sets) / 2
	for _, key := range keys {
		n := occur[key]
		if n == 0 || n == len(sets) {
			continue
		}
		score := half - abs(n-half)
		if score > bestScore {
			bestScore = score
			best = counts[key]
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// String renders a candidate list for logs and CLI output.
func String(candidates []mult.Multiplier) string {
	s := ""
	for i, c := range candidates {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprint(c)
	}
	return s
}
