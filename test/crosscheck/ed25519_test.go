package crosscheck

import (
	"math/big"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kyber "go.dedis.ch/kyber/v3/group/edwards25519"

	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/mult"
	"github.com/ecleak/ecleak/internal/ec/params"
)

func edScalars() []*big.Int {
	k1, _ := new(big.Int).SetString("1234567890abcdef", 16)
	k2, _ := new(big.Int).SetString("a5c7e2188f3b00d4962e17cd40b5ff13246a0e98d1c2533b7ee9084fb6d92c1", 16)
	return []*big.Int{big.NewInt(1), big.NewInt(7), k1, k2}
}

// compressed renders k*G in the usual ed25519 wire form: the y coordinate
// little-endian with the x parity in the top bit.
func compressed(t *testing.T, k *big.Int) []byte {
	t.Helper()
	p, err := params.ByName("ed25519", "projective")
	require.NoError(t, err)
	m, err := mult.NewLTR(formula.TEdAdd2008BBJLP, formula.TEdDbl2008BBJLP, formula.TEdScale,
		mult.AccumulatorFirst, false, true, true)
	require.NoError(t, err)
	require.NoError(t, m.Init(p, p.Generator))
	r, err := m.Multiply(k)
	require.NoError(t, err)
	aff, err := p.Curve.ToAffine(r)
	require.NoError(t, err)

	var be [32]byte
	aff.Coord("y").Big().FillBytes(be[:])
	out := reverse(be[:])
	if aff.Coord("x").Big().Bit(0) == 1 {
		out[31] |= 0x80
	}
	return out
}

// reverse flips big-endian scalar bytes into the little-endian form both
// reference libraries expect.
func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, v := range b {
		out[len(b)-1-i] = v
	}
	return out
}

func TestEd25519AgainstFilippo(t *testing.T) {
	for _, k := range edScalars() {
		var be [32]byte
		k.FillBytes(be[:])
		s, err := edwards25519.NewScalar().SetCanonicalBytes(reverse(be[:]))
		require.NoError(t, err)
		want := new(edwards25519.Point).ScalarBaseMult(s).Bytes()
		assert.Equal(t, want, compressed(t, k), "scalar %v", k)
	}
}

func TestEd25519AgainstKyber(t *testing.T) {
	suite := kyber.NewBlakeSHA256Ed25519()
	for _, k := range edScalars() {
		var be [32]byte
		k.FillBytes(be[:])
		s := suite.Scalar().SetBytes(reverse(be[:]))
		want, err := suite.Point().Mul(s, nil).MarshalBinary()
		require.NoError(t, err)
		assert.Equal(t, want, compressed(t, k), "scalar %v", k)
	}
}
