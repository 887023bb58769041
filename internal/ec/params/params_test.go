package params

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

func TestByName(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			dp, err := ByName(name, "")
			require.NoError(t, err)
			assert.Equal(t, name, dp.Name)
			assert.True(t, dp.Curve.Contains(dp.Generator))
			assert.Positive(t, dp.Order.Sign())
			assert.Positive(t, dp.Cofactor.Sign())
		})
	}
}

func TestByNameCoordinates(t *testing.T) {
	dp, err := ByName("secp128r1", "projective")
	require.NoError(t, err)
	assert.Equal(t, "projective", dp.Curve.Coordinates().Name())
	assert.Equal(t, dp.Curve.Coordinates(), dp.Generator.Model())

	dp, err = ByName("secp128r1", model.AffineName)
	require.NoError(t, err)
	assert.True(t, dp.Generator.Model().Affine())

	_, err = ByName("secp128r1", "xz")
	assert.Error(t, err, "xz belongs to the Montgomery form")

	_, err = ByName("nosuchcurve", "")
	assert.Error(t, err)
}

func TestOrderTimesGenerator(t *testing.T) {
	// Affine sanity check on curves small enough to multiply quickly.
	for _, name := range []string{"secp128r1", "secp128r2"} {
		t.Run(name, func(t *testing.T) {
			dp, err := ByName(name, model.AffineName)
			require.NoError(t, err)
			res, err := dp.Curve.AffineMultiply(dp.Generator, dp.Order)
			require.NoError(t, err)
			assert.True(t, dp.Curve.IsNeutral(res))
		})
	}
}

func TestGeneratorValidation(t *testing.T) {
	dp, err := ByName("secp128r1", "")
	require.NoError(t, err)

	p := dp.Curve.Prime()
	bogus := point.MustNew(model.Affine(model.ShortWeierstrass), map[string]mod.Mod{
		"x": mod.NewInt(4, p),
		"y": mod.NewInt(5, p),
	})
	_, err = New(dp.Curve, bogus, dp.Order, dp.Cofactor)
	assert.Error(t, err)

	_, err = New(dp.Curve, dp.Generator, big.NewInt(0), dp.Cofactor)
	assert.Error(t, err)
}
