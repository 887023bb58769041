// Package formula implements the catalogue of elementary point operations:
// named, stateless, pure functions over points in a fixed coordinate
// system. Multipliers compose formulas into bit-processing loops; tracing
// observes formula applications as the elementary events of a side-channel
// trace.
package formula

import (
	"fmt"

	"github.com/ecleak/ecleak/internal/ec/curve"
	"github.com/ecleak/ecleak/internal/ec/model"
	"github.com/ecleak/ecleak/internal/ec/point"
)

// Role is the operation a formula performs, the slot it can fill in a
// multiplier's formula set.
type Role int

const (
	Addition Role = iota
	Doubling
	Negation
	Scaling
	Ladder
	DifferentialAddition
)

func (r Role) String() string {
	switch r {
	case Addition:
		return "add"
	case Doubling:
		return "dbl"
	case Negation:
		return "neg"
	case Scaling:
		return "scl"
	case Ladder:
		return "ladd"
	case DifferentialAddition:
		return "dadd"
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// Formula is a deterministic pure point operation. Implementations never
// mutate their inputs and are safe for concurrent use.
//
// A complete formula produces the correct result for every valid input,
// including neutral operands and doubling-as-addition collisions; callers
// of an incomplete formula must avoid its undefined inputs structurally.
type Formula interface {
	Name() string
	Role() Role
	Coordinates() *model.CoordinateModel
	NumInputs() int
	NumOutputs() int
	Complete() bool

	// Apply evaluates the formula on the given curve and input points.
	Apply(c *curve.Curve, inputs ...*point.Point) ([]*point.Point, error)
}

type applyFunc func(c *curve.Curve, inputs []*point.Point) ([]*point.Point, error)

type formula struct {
	name     string
	role     Role
	coords   *model.CoordinateModel
	inputs   int
	outputs  int
	complete bool
	apply    applyFunc
}

func (f *formula) Name() string                        { return f.name }
func (f *formula) Role() Role                          { return f.role }
func (f *formula) Coordinates() *model.CoordinateModel { return f.coords }
func (f *formula) NumInputs() int                      { return f.inputs }
func (f *formula) NumOutputs() int                     { return f.outputs }
func (f *formula) Complete() bool                      { return f.complete }
func (f *formula) String() string                      { return f.coords.String() + "/" + f.name }

func (f *formula) Apply(c *curve.Curve, inputs ...*point.Point) ([]*point.Point, error) {
	if c.Coordinates() != f.coords {
		return nil, fmt.Errorf("formula: %s expects a %v curve, got %v", f.name, f.coords, c.Coordinates())
	}
	if len(inputs) != f.inputs {
		return nil, fmt.Errorf("formula: %s takes %d points, got %d", f.name, f.inputs, len(inputs))
	}
	for i, p := range inputs {
		if p.Model() != f.coords {
			return nil, fmt.Errorf("formula: %s input %d is in %v, want %v", f.name, i, p.Model(), f.coords)
		}
	}
	return f.apply(c, inputs)
}

var registry = map[*model.CoordinateModel]map[string]Formula{}

func register(f *formula) Formula {
	byName, ok := registry[f.coords]
	if !ok {
		byName = map[string]Formula{}
		registry[f.coords] = byName
	}
	byName[f.name] = f
	return f
}

// Lookup finds a formula by coordinate model and name.
func Lookup(coords *model.CoordinateModel, name string) (Formula, error) {
	f, ok := registry[coords][name]
	if !ok {
		return nil, fmt.Errorf("formula: no %q in %v", name, coords)
	}
	return f, nil
}

// ByRole finds the sole formula with the given role in a coordinate model,
// failing when there is none or the choice is ambiguous.
func ByRole(coords *model.CoordinateModel, role Role) (Formula, error) {
	var found Formula
	for _, f := range registry[coords] {
		if f.Role() != role {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("formula: multiple %v formulas in %v", role, coords)
		}
		found = f
	}
	if found == nil {
		return nil, fmt.Errorf("formula: no %v formula in %v", role, coords)
	}
	return found, nil
}

// Names lists the formulas registered for a coordinate model.
func Names(coords *model.CoordinateModel) []string {
	var names []string
	for name := range registry[coords] {
		names = append(names, name)
	}
	return names
}
