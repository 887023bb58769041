// Package point implements curve points as named coordinates tied to a
// coordinate model.
package point

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ecleak/ecleak/internal/ec/mod"
	"github.com/ecleak/ecleak/internal/ec/model"
)

// Point is a mapping from coordinate-axis name to field element, tagged
// with the coordinate model it lives in. The zero-coordinate infinity
// marker is used by affine systems that cannot represent the neutral
// element with coordinates.
type Point struct {
	coords map[string]mod.Mod
	model  *model.CoordinateModel
	inf    bool
}

// New creates a point. The coordinate names must match the model's axes
// exactly.
func New(m *model.CoordinateModel, coords map[string]mod.Mod) (*Point, error) {
	axes := m.Axes()
	if len(coords) != len(axes) {
		return nil, fmt.Errorf("point: %v expects axes %v, got %d coordinates", m, axes, len(coords))
	}
	cp := make(map[string]mod.Mod, len(coords))
	for _, axis := range axes {
		v, ok := coords[axis]
		if !ok {
			return nil, fmt.Errorf("point: missing %q coordinate for %v", axis, m)
		}
		cp[axis] = v
	}
	return &Point{coords: cp, model: m}, nil
}

// MustNew is New for statically known-good coordinates.
func MustNew(m *model.CoordinateModel, coords map[string]mod.Mod) *Point {
	p, err := New(m, coords)
	if err != nil {
		panic(err)
	}
	return p
}

// Infinity creates the coordinate-less point at infinity in the given model.
func Infinity(m *model.CoordinateModel) *Point {
	return &Point{coords: map[string]mod.Mod{}, model: m, inf: true}
}

func (p *Point) Model() *model.CoordinateModel { return p.model }

func (p *Point) IsInfinity() bool { return p.inf }

// Coord returns the named coordinate. It panics if the axis does not belong
// to the point's model; callers must check IsInfinity first for infinity
// points.
func (p *Point) Coord(axis string) mod.Mod {
	v, ok := p.coords[axis]
	if !ok {
		panic(fmt.Sprintf("point: no %q coordinate on %v point", axis, p.model))
	}
	return v
}

// Equal is raw coordinate equality: same model, identical coordinate
// values. Projectively equal points with different representatives compare
// unequal here; use Curve.Equal for curve equality.
func (p *Point) Equal(q *Point) bool {
	if p.model != q.model || p.inf != q.inf {
		return false
	}
	for axis, v := range p.coords {
		if !v.Equal(q.coords[axis]) {
			return false
		}
	}
	return true
}

func (p *Point) Clone() *Point {
	cp := make(map[string]mod.Mod, len(p.coords))
	for axis, v := range p.coords {
		cp[axis] = v
	}
	return &Point{coords: cp, model: p.model, inf: p.inf}
}

// Key returns a stable string key for raw-equality deduplication, e.g. in
// trace occurrence maps.
func (p *Point) Key() string {
	if p.inf {
		return p.model.String() + ":inf"
	}
	axes := p.model.Axes()
	sort.Strings(axes)
	parts := make([]string, 0, len(axes)+1)
	parts = append(parts, p.model.String())
	for _, axis := range axes {
		parts = append(parts, axis+"="+p.coords[axis].Text(16))
	}
	return strings.Join(parts, ":")
}

func (p *Point) String() string {
	if p.inf {
		return "inf"
	}
	axes := p.model.Axes()
	parts := make([]string, len(axes))
	for i, axis := range axes {
		parts[i] = p.coords[axis].Text(16)
	}
	return "(" + strings.Join(parts, " : ") + ")"
}
