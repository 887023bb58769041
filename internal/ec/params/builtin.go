package params

import (
	"fmt"
	"math/big"
	"sort"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Spec is a raw curve description with hex-encoded values, the shape
// external parameter files are parsed into as well.
type Spec struct {
	Name     string
	Form     model.Model
	P        string
	Params   map[string]string // per-form parameter names
	Gx, Gy   string
	N        string
	H        string
}

var builtin = map[string]Spec{
	"secp128r1": {
		Form: model.ShortWeierstrass,
		P:    "fffffffdffffffffffffffffffffffff",
		Params: map[string]string{
			"a": "fffffffdfffffffffffffffffffffffc",
			"b": "e87579c11079f43dd824993c2cee5ed3",
		},
		Gx: "161ff7528b899b2d0c28607ca52c5b86",
		Gy: "cf5ac8395bafeb13c02da292dded7a83",
		N:  "fffffffe0000000075a30d1b9038a115",
		H:  "1",
	},
	"secp128r2": {
		Form: model.ShortWeierstrass,
		P:    "fffffffdffffffffffffffffffffffff",
		Params: map[string]string{
			"a": "d6031998d1b3bbfebf59cc9bbff9aee1",
			"b": "5eeefca380d02919dc2c6558bb6d8a5d",
		},
		Gx: "7b6aa5d85e572983e6fb32a7cdebc140",
		Gy: "27b6916a894d3aee7106fe805fc34b44",
		N:  "3fffffff7fffffffbe0024720613b5a3",
		H:  "4",
	},
	"secp192r1": {
		Form: model.ShortWeierstrass,
		P:    "fffffffffffffffffffffffffffffffeffffffffffffffff",
		Params: map[string]string{
			"a": "fffffffffffffffffffffffffffffffefffffffffffffffc",
			"b": "64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1",
		},
		Gx: "188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012",
		Gy: "07192b95ffc8da78631011ed6b24cdd573f977a11e794811",
		N:  "ffffffffffffffffffffffff99def836146bc9b1b4d22831",
		H:  "1",
	},
	"secp256r1": {
		Form: model.ShortWeierstrass,
		P:    "ffffffff00000001000000000000000000000000ffffffffffffffffffffffff",
		Params: map[string]string{
			"a": "ffffffff00000001000000000000000000000000fffffffffffffffffffffffc",
			"b": "5ac635d8aa3a93e7b3ebbd55769886bc651d06b0cc53b0f63bce3c3e27d2604b",
		},
		Gx: "6b17d1f2e12c4247f8bce6e563a440f277037d812deb33a0f4a13945d898c296",
		Gy: "4fe342e2fe1a7f9b8ee7eb4a7c0f9e162bce33576b315ececbb6406837bf51f5",
		N:  "ffffffff00000000ffffffffffffffffbce6faada7179e84f3b9cac2fc632551",
		H:  "1",
	},
	"secp256k1": {
		Form: model.ShortWeierstrass,
		P:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffefffffc2f",
		Params: map[string]string{
			"a": "0",
			"b": "7",
		},
		Gx: "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798",
		Gy: "483ada7726a3c4655da4fbfc0e1108a8fd17b448a68554199c47d08ffb10d4b8",
		N:  "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141",
		H:  "1",
	},
	"curve25519": {
		Form: model.Montgomery,
		P:    "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
		Params: map[string]string{
			"a": "76d06",
			"b": "1",
		},
		Gx: "9",
		Gy: "20ae19a1b8a086b4e01edd2c7748d14c923d4d7e6d7c61b229e9c5a27eced3d9",
		N:  "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
		H:  "8",
	},
	"ed25519": {
		Form: model.TwistedEdwards,
		P:    "7fffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffed",
		Params: map[string]string{
			"a": "-1",
			"d": "52036cee2b6ffe738cc740797779e89800700a4d4141d8ab75eb4dca135978a3",
		},
		Gx: "216936d3cd6e53fec0a4e231fdd6dc5c692cc7609525a7b2c9562d608f25d51a",
		Gy: "6666666666666666666666666666666666666666666666666666666666666658",
		N:  "1000000000000000000000000000000014def9dea2f79cd65812631a5cf5d3ed",
		H:  "8",
	},
	"ed448": {
		Form: model.Edwards,
		P:    "fffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
		Params: map[string]string{
			"c": "1",
			"d": "fffffffffffffffffffffffffffffffffffffffffffffffffffffffeffffffffffffffffffffffffffffffffffffffffffffffffffff6756",
		},
		Gx: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa955555555555555555555555555555555555555555555555555555555",
		Gy: "ae05e9634ad7048db359d6205086c2b0036ed7a035884dd7b7e36d728ad8c4b80d6565833a2a3098bbbcb2bed1cda06bdaeafbcdea9386ed",
		N:  "3fffffffffffffffffffffffffffffffffffffffffffffffffffffff7cca23e9c44edb49aed63690216cc2728dc58f552378c292ab5844f3",
		H:  "4",
	},
}

// Names lists the built-in curves in sorted order.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultCoordinates is the coordinate system ByName uses when none is
// requested.
func DefaultCoordinates(m model.Model) string {
	switch m {
	case model.Montgomery:
		return "xz"
	case model.Edwards:
		return model.AffineName
	default:
		return "projective"
	}
}

// ByName builds the domain parameters of a built-in curve in the given
// coordinate system (empty for the form's default).
func ByName(name, coords string) (*DomainParameters, error) {
	spec, ok := builtin[name]
	if !ok {
		return nil, fmt.Errorf("params: unknown curve %q", name)
	}
	spec.Name = name
	return FromSpec(spec, coords)
}

// FromSpec builds domain parameters from a raw curve description.
func FromSpec(spec Spec, coords string) (*DomainParameters, error) {
	if coords == "" {
		coords = DefaultCoordinates(spec.Form)
	}
	cm, err := model.Coordinates(spec.Form, coords)
	if err != nil {
		return nil, err
	}
	p, ok := new(big.Int).SetString(spec.P, 16)
	if !ok {
		return nil, fmt.Errorf("params: invalid field prime %q", spec.P)
	}
	curveParams := make(map[string]mod.Mod, len(spec.Params))
	for pname, raw := range spec.Params {
		v, err := mod.NewHex(raw, p)
		if err != nil {
			return nil, err
		}
		curveParams[pname] = v
	}
	neutral, err := neutralFor(cm, p, curveParams)
	if err != nil {
		return nil, err
	}
	c, err := curve.New(spec.Form, cm, p, curveParams, neutral)
	if err != nil {
		return nil, err
	}
	gx, err := mod.NewHex(spec.Gx, p)
	if err != nil {
		return nil, err
	}
	gy, err := mod.NewHex(spec.Gy, p)
	if err != nil {
		return nil, err
	}
	gen := point.MustNew(model.Affine(spec.Form), map[string]mod.Mod{"x": gx, "y": gy})
	order, ok := new(big.Int).SetString(spec.N, 16)
	if !ok {
		return nil, fmt.Errorf("params: invalid order %q", spec.N)
	}
	cofactor, ok := new(big.Int).SetString(spec.H, 16)
	if !ok {
		return nil, fmt.Errorf("params: invalid cofactor %q", spec.H)
	}
	dp, err := New(c, gen, order, cofactor)
	if err != nil {
		return nil, err
	}
	dp.Name = spec.Name
	return dp, nil
}

// neutralFor constructs the neutral element in the given coordinate system.
func neutralFor(cm *model.CoordinateModel, p *big.Int, curveParams map[string]mod.Mod) (*point.Point, error) {
	zero := mod.NewInt(0, p)
	one := mod.NewInt(1, p)
	switch {
	case cm.Affine():
		switch cm.Model() {
		case model.Edwards:
			return point.New(cm, map[string]mod.Mod{"x": zero, "y": curveParams["c"]})
		case model.TwistedEdwards:
			return point.New(cm, map[string]mod.Mod{"x": zero, "y": one})
		default:
			return point.Infinity(cm), nil
		}
	case cm.Name() == "projective" && cm.Model() == model.ShortWeierstrass:
		return point.New(cm, map[string]mod.Mod{"X": zero, "Y": one, "Z": zero})
	case cm.Name() == "projective" && cm.Model() == model.TwistedEdwards:
		return point.New(cm, map[string]mod.Mod{"X": zero, "Y": one, "Z": one})
	case cm.Name() == "xz":
		return point.New(cm, map[string]mod.Mod{"X": one, "Z": zero})
	}
	return nil, fmt.Errorf("params: no neutral element for %v", cm)
}
