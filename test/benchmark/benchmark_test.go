package benchmark

import (
	"math/big"
	"testing"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/mult"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/trace"
)

// setupSW binds a multiplier to the secp256k1 generator.
func setupSW(b *testing.B, m mult.Multiplier, err error) (mult.Multiplier, *big.Int) {
	b.Helper()
	if err != nil {
		b.Fatalf("building multiplier: %v", err)
	}
	p, err := params.ByName("secp256k1", "projective")
	if err != nil {
		b.Fatalf("loading curve: %v", err)
	}
	if err := m.Init(p, p.Generator); err != nil {
		b.Fatalf("init: %v", err)
	}
	k, _ := new(big.Int).SetString("70a1b97c44e2d03358c7f1a2909dd4b6ef0823c155d97e64a8c2f01b3d6e9a57", 16)
	return m, k
}

func runMultiply(b *testing.B, m mult.Multiplier, k *big.Int) {
	b.Helper()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Multiply(k); err != nil {
			b.Fatalf("multiply: %v", err)
		}
	}
}

func BenchmarkLTR(b *testing.B) {
	ltr, err := mult.NewLTR(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWScale,
		mult.AccumulatorFirst, false, true, true)
	m, k := setupSW(b, ltr, err)
	runMultiply(b, m, k)
}

func BenchmarkLTRAlways(b *testing.B) {
	ltr, err := mult.NewLTR(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWScale,
		mult.AccumulatorFirst, true, true, true)
	m, k := setupSW(b, ltr, err)
	runMultiply(b, m, k)
}

func BenchmarkSimpleLadder(b *testing.B) {
	sl, err := mult.NewSimpleLadder(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWScale, true, true)
	m, k := setupSW(b, sl, err)
	runMultiply(b, m, k)
}

func BenchmarkWindowNAF4(b *testing.B) {
	wn, err := mult.NewWindowNAF(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWNeg,
		formula.SWScale, 4, mult.AccumulatorFirst, true)
	m, k := setupSW(b, wn, err)
	runMultiply(b, m, k)
}

func BenchmarkMontgomeryLadder(b *testing.B) {
	m, err := mult.NewLadder(formula.MontLadd1987, formula.MontDbl1987, formula.MontScale, true, true)
	if err != nil {
		b.Fatalf("building multiplier: %v", err)
	}
	p, err := params.ByName("curve25519", "xz")
	if err != nil {
		b.Fatalf("loading curve: %v", err)
	}
	if err := m.Init(p, p.Generator); err != nil {
		b.Fatalf("init: %v", err)
	}
	k, _ := new(big.Int).SetString("59c2f6a610b3d08e447a1c95e2d6f013b8a46c20d97e315fa8c4302b1d6e98a4", 16)
	runMultiply(b, m, k)
}

// BenchmarkTracedLTR measures the tracing overhead on top of BenchmarkLTR.
func BenchmarkTracedLTR(b *testing.B) {
	ltr, err := mult.NewLTR(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWScale,
		mult.AccumulatorFirst, false, true, true)
	m, k := setupSW(b, ltr, err)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ctx := trace.NewCountingContext()
		m.Trace(ctx)
		if _, err := m.Multiply(k); err != nil {
			b.Fatalf("multiply: %v", err)
		}
		m.Trace(nil)
	}
}
