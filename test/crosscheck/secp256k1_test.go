// Package crosscheck verifies the formula-driven multipliers against
// independent curve implementations.
package crosscheck

import (
	"math/big"
	"testing"

	gnark "github.com/consensys/gnark-crypto/ecc/secp256k1"
	decred "github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/mult"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/point"
)

func secpScalars() []*big.Int {
	k1, _ := new(big.Int).SetString("deadbeef", 16)
	k2, _ := new(big.Int).SetString("4b3a6f1dd7c92e85219fd0a4e1c57b60931d8426fa705c11e2b34cd89f60217e", 16)
	return []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(97), k1, k2}
}

func secpMultiply(t *testing.T, k *big.Int) *point.Point {
	t.Helper()
	p, err := params.ByName("secp256k1", "projective")
	require.NoError(t, err)
	m, err := mult.NewLTR(formula.SWAdd1998CMO, formula.SWDbl1998CMO, formula.SWScale,
		mult.AccumulatorFirst, false, true, true)
	require.NoError(t, err)
	require.NoError(t, m.Init(p, p.Generator))
	r, err := m.Multiply(k)
	require.NoError(t, err)
	aff, err := p.Curve.ToAffine(r)
	require.NoError(t, err)
	return aff
}

func TestSecp256k1AgainstDecred(t *testing.T) {
	for _, k := range secpScalars() {
		aff := secpMultiply(t, k)
		wantX, wantY := decred.S256().ScalarBaseMult(k.Bytes())
		assert.Zero(t, aff.Coord("x").Big().Cmp(wantX), "x mismatch for scalar %v", k)
		assert.Zero(t, aff.Coord("y").Big().Cmp(wantY), "y mismatch for scalar %v", k)
	}
}

func TestSecp256k1AgainstGnark(t *testing.T) {
	_, g := gnark.Generators()
	for _, k := range secpScalars() {
		aff := secpMultiply(t, k)
		var r gnark.G1Affine
		r.ScalarMultiplication(&g, k)
		assert.Zero(t, aff.Coord("x").Big().Cmp(r.X.BigInt(new(big.Int))), "x mismatch for scalar %v", k)
		assert.Zero(t, aff.Coord("y").Big().Cmp(r.Y.BigInt(new(big.Int))), "y mismatch for scalar %v", k)
	}
}
