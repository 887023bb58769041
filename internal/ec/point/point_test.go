package point

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
)

var prime = big.NewInt(23)

func coordsXYZ(x, y, z int64) map[string]mod.Mod {
	return map[string]mod.Mod{
		"X": mod.NewInt(x, prime),
		"Y": mod.NewInt(y, prime),
		"Z": mod.NewInt(z, prime),
	}
}

func TestNew(t *testing.T) {
	proj, _ := model.Coordinates(model.ShortWeierstrass, "projective")

	p, err := New(proj, coordsXYZ(1, 2, 1))
	assert.NoError(t, err)
	assert.Equal(t, big.NewInt(2), p.Coord("Y").Big())
	assert.False(t, p.IsInfinity())

	_, err = New(proj, map[string]mod.Mod{"X": mod.NewInt(1, prime)})
	assert.Error(t, err)

	_, err = New(proj, map[string]mod.Mod{
		"X": mod.NewInt(1, prime), "Y": mod.NewInt(2, prime), "W": mod.NewInt(1, prime),
	})
	assert.Error(t, err)
}

func TestEqual(t *testing.T) {
	proj, _ := model.Coordinates(model.ShortWeierstrass, "projective")

	p := MustNew(proj, coordsXYZ(1, 2, 1))
	q := MustNew(proj, coordsXYZ(1, 2, 1))
	assert.True(t, p.Equal(q))

	// Projectively equal representative, raw-unequal.
	r := MustNew(proj, coordsXYZ(2, 4, 2))
	assert.False(t, p.Equal(r))

	aff := model.Affine(model.ShortWeierstrass)
	a := MustNew(aff, map[string]mod.Mod{"x": mod.NewInt(1, prime), "y": mod.NewInt(2, prime)})
	assert.False(t, p.Equal(a))
}

func TestInfinity(t *testing.T) {
	aff := model.Affine(model.ShortWeierstrass)
	p := Infinity(aff)
	assert.True(t, p.IsInfinity())
	assert.True(t, p.Equal(Infinity(aff)))
	assert.Equal(t, "inf", p.String())
	assert.Panics(t, func() { p.Coord("x") })
}

func TestKey(t *testing.T) {
	proj, _ := model.Coordinates(model.ShortWeierstrass, "projective")

	p := MustNew(proj, coordsXYZ(1, 2, 1))
	q := MustNew(proj, coordsXYZ(1, 2, 1))
	r := MustNew(proj, coordsXYZ(2, 4, 2))
	assert.Equal(t, p.Key(), q.Key())
	assert.NotEqual(t, p.Key(), r.Key())

	c := p.Clone()
	assert.True(t, p.Equal(c))
	assert.Equal(t, p.Key(), c.Key())
}
