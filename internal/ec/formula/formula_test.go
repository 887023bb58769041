package formula_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/formula"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/params"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// mul computes k*p with the affine reference multiplication and converts
// the result back into the curve's coordinate system.
func mul(t *testing.T, c *curve.Curve, p *point.Point, k int64) *point.Point {
	t.Helper()
	aff, err := c.ToAffine(p)
	require.NoError(t, err)
	r, err := c.AffineMultiply(aff, big.NewInt(k))
	require.NoError(t, err)
	out, err := c.FromAffine(r)
	require.NoError(t, err)
	return out
}

func TestRegistry(t *testing.T) {
	swProj, err := model.Coordinates(model.ShortWeierstrass, "projective")
	require.NoError(t, err)

	t.Run("lookup by name", func(t *testing.T) {
		f, err := formula.Lookup(swProj, "add-1998-cmo")
		require.NoError(t, err)
		assert.Equal(t, formula.Addition, f.Role())
		assert.Equal(t, 2, f.NumInputs())
		assert.Equal(t, 1, f.NumOutputs())

		_, err = formula.Lookup(swProj, "no-such-formula")
		assert.Error(t, err)
	})

	t.Run("lookup by role", func(t *testing.T) {
		f, err := formula.ByRole(swProj, formula.Doubling)
		require.NoError(t, err)
		assert.Equal(t, "dbl-1998-cmo", f.Name())
	})

	t.Run("names", func(t *testing.T) {
		names := formula.Names(swProj)
		assert.Contains(t, names, "add-1998-cmo")
		assert.Contains(t, names, "ladd-cmo")
	})
}

func TestApplyValidation(t *testing.T) {
	sw, err := params.ByName("secp128r1", "projective")
	require.NoError(t, err)
	mont, err := params.ByName("curve25519", "xz")
	require.NoError(t, err)

	t.Run("wrong arity", func(t *testing.T) {
		_, err := formula.SWAdd1998CMO.Apply(sw.Curve, sw.Generator)
		assert.Error(t, err)
	})

	t.Run("wrong curve form", func(t *testing.T) {
		_, err := formula.SWDbl1998CMO.Apply(mont.Curve, mont.Generator)
		assert.Error(t, err)
	})

	t.Run("foreign point model", func(t *testing.T) {
		_, err := formula.SWDbl1998CMO.Apply(sw.Curve, mont.Generator)
		assert.Error(t, err)
	})
}

func TestShortWeierstrass(t *testing.T) {
	p, err := params.ByName("secp128r1", "projective")
	require.NoError(t, err)
	c := p.Curve
	g := p.Generator

	two := mul(t, c, g, 2)
	three := mul(t, c, g, 3)

	t.Run("addition matches affine", func(t *testing.T) {
		out, err := formula.SWAdd1998CMO.Apply(c, g, two)
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.True(t, c.Contains(out[0]))
		assert.True(t, c.Equal(out[0], three))
	})

	t.Run("doubling matches affine", func(t *testing.T) {
		out, err := formula.SWDbl1998CMO.Apply(c, g)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], two))
	})

	t.Run("addition of equal inputs doubles", func(t *testing.T) {
		out, err := formula.SWAdd1998CMO.Apply(c, g, g.Clone())
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], two))
	})

	t.Run("neutral operands", func(t *testing.T) {
		out, err := formula.SWAdd1998CMO.Apply(c, c.Neutral(), g)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], g))

		out, err = formula.SWAdd1998CMO.Apply(c, g, c.Neutral())
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], g))

		out, err = formula.SWDbl1998CMO.Apply(c, c.Neutral())
		require.NoError(t, err)
		assert.True(t, c.IsNeutral(out[0]))
	})

	t.Run("inverse operands give neutral", func(t *testing.T) {
		neg, err := formula.SWNeg.Apply(c, g)
		require.NoError(t, err)
		out, err := formula.SWAdd1998CMO.Apply(c, g, neg[0])
		require.NoError(t, err)
		assert.True(t, c.IsNeutral(out[0]))
	})

	t.Run("scale normalizes", func(t *testing.T) {
		sum, err := formula.SWAdd1998CMO.Apply(c, g, two)
		require.NoError(t, err)
		scaled, err := formula.SWScale.Apply(c, sum[0])
		require.NoError(t, err)
		assert.True(t, scaled[0].Coord("Z").IsOne())
		assert.True(t, c.Equal(scaled[0], three))
	})

	t.Run("ladder step", func(t *testing.T) {
		out, err := formula.SWLadderCMO.Apply(c, g, g, two)
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.True(t, c.Equal(out[0], two), "first output is the doubled accumulator")
		assert.True(t, c.Equal(out[1], three), "second output is the sum")
	})

	t.Run("differential addition", func(t *testing.T) {
		out, err := formula.SWDiffAddCMO.Apply(c, g, g, two)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], three))
	})
}

func TestMontgomeryXZ(t *testing.T) {
	p, err := params.ByName("curve25519", "xz")
	require.NoError(t, err)
	c := p.Curve
	g := p.Generator

	two := mul(t, c, g, 2)
	three := mul(t, c, g, 3)
	five := mul(t, c, g, 5)

	t.Run("doubling", func(t *testing.T) {
		out, err := formula.MontDbl1987.Apply(c, g)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], two))
	})

	t.Run("doubling fixes neutral", func(t *testing.T) {
		out, err := formula.MontDbl1987.Apply(c, c.Neutral())
		require.NoError(t, err)
		assert.True(t, c.IsNeutral(out[0]))
	})

	t.Run("differential addition", func(t *testing.T) {
		// 2G and 3G differ by G, so dadd(G, 2G, 3G) = 5G.
		out, err := formula.MontDadd1987.Apply(c, g, two, three)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], five))
	})

	t.Run("ladder step", func(t *testing.T) {
		out, err := formula.MontLadd1987.Apply(c, g, two, three)
		require.NoError(t, err)
		require.Len(t, out, 2)
		four := mul(t, c, g, 4)
		assert.True(t, c.Equal(out[0], four))
		assert.True(t, c.Equal(out[1], five))
	})

	t.Run("scale", func(t *testing.T) {
		dbl, err := formula.MontDbl1987.Apply(c, g)
		require.NoError(t, err)
		scaled, err := formula.MontScale.Apply(c, dbl[0])
		require.NoError(t, err)
		assert.True(t, scaled[0].Coord("Z").IsOne())
		assert.True(t, c.Equal(scaled[0], two))
	})
}

func TestTwistedEdwards(t *testing.T) {
	p, err := params.ByName("ed25519", "projective")
	require.NoError(t, err)
	c := p.Curve
	g := p.Generator

	two := mul(t, c, g, 2)
	three := mul(t, c, g, 3)

	t.Run("addition", func(t *testing.T) {
		out, err := formula.TEdAdd2008BBJLP.Apply(c, g, two)
		require.NoError(t, err)
		assert.True(t, c.Contains(out[0]))
		assert.True(t, c.Equal(out[0], three))
	})

	t.Run("addition is complete on equal inputs", func(t *testing.T) {
		out, err := formula.TEdAdd2008BBJLP.Apply(c, g, g.Clone())
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], two))
	})

	t.Run("addition absorbs neutral", func(t *testing.T) {
		out, err := formula.TEdAdd2008BBJLP.Apply(c, c.Neutral(), g)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], g))
	})

	t.Run("doubling", func(t *testing.T) {
		out, err := formula.TEdDbl2008BBJLP.Apply(c, g)
		require.NoError(t, err)
		assert.True(t, c.Equal(out[0], two))
	})

	t.Run("doubling the neutral", func(t *testing.T) {
		out, err := formula.TEdDbl2008BBJLP.Apply(c, c.Neutral())
		require.NoError(t, err)
		assert.True(t, c.IsNeutral(out[0]))
	})

	t.Run("negation cancels", func(t *testing.T) {
		neg, err := formula.TEdNeg.Apply(c, g)
		require.NoError(t, err)
		out, err := formula.TEdAdd2008BBJLP.Apply(c, g, neg[0])
		require.NoError(t, err)
		assert.True(t, c.IsNeutral(out[0]))
	})

	t.Run("scale", func(t *testing.T) {
		dbl, err := formula.TEdDbl2008BBJLP.Apply(c, g)
		require.NoError(t, err)
		scaled, err := formula.TEdScale.Apply(c, dbl[0])
		require.NoError(t, err)
		assert.True(t, scaled[0].Coord("Z").IsOne())
	})
}
