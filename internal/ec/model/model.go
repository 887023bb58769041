// Package model describes curve forms and the coordinate systems defined
// for them. Coordinate models are canonical singletons: two packages naming
// the same system always share the same *CoordinateModel.
package model

import "fmt"

// Model is a curve form: the shape of the curve equation and the set of
// parameter names that define a concrete curve of that form.
type Model int

const (
	ShortWeierstrass Model = iota // y^2 = x^3 + a*x + b
	Montgomery                    // b*y^2 = x^3 + a*x^2 + x
	Edwards                       // x^2 + y^2 = c^2*(1 + d*x^2*y^2)
	TwistedEdwards                // a*x^2 + y^2 = 1 + d*x^2*y^2
)

func (m Model) String() string {
	switch m {
	case ShortWeierstrass:
		return "shortw"
	case Montgomery:
		return "montgom"
	case Edwards:
		return "edwards"
	case TwistedEdwards:
		return "twisted"
	}
	return fmt.Sprintf("model(%d)", int(m))
}

// ParameterNames returns the exact set of curve parameters the form requires.
func (m Model) ParameterNames() []string {
	switch m {
	case ShortWeierstrass, Montgomery:
		return []string{"a", "b"}
	case Edwards:
		return []string{"c", "d"}
	case TwistedEdwards:
		return []string{"a", "d"}
	}
	return nil
}

// ParseModel maps a curve form name (std-curves spelling) to a Model.
func ParseModel(name string) (Model, error) {
	switch name {
	case "Weierstrass", "shortw":
		return ShortWeierstrass, nil
	case "Montgomery", "montgom":
		return Montgomery, nil
	case "Edwards", "edwards":
		return Edwards, nil
	case "TwistedEdwards", "twisted":
		return TwistedEdwards, nil
	}
	return 0, fmt.Errorf("model: unknown curve form %q", name)
}

// CoordinateModel names an ordered set of coordinate axes for a curve form.
type CoordinateModel struct {
	model Model
	name  string
	axes  []string
}

func (c *CoordinateModel) Model() Model { return c.model }
func (c *CoordinateModel) Name() string { return c.name }

// Axes returns the axis names in canonical order.
func (c *CoordinateModel) Axes() []string {
	out := make([]string, len(c.axes))
	copy(out, c.axes)
	return out
}

// Affine reports whether this is the affine system of its form.
func (c *CoordinateModel) Affine() bool { return c.name == AffineName }

func (c *CoordinateModel) String() string {
	return c.model.String() + "/" + c.name
}

// AffineName is the name of every form's affine coordinate system, the
// canonical external point representation.
const AffineName = "affine"

var (
	swAffine     = &CoordinateModel{ShortWeierstrass, AffineName, []string{"x", "y"}}
	swProjective = &CoordinateModel{ShortWeierstrass, "projective", []string{"X", "Y", "Z"}}
	montAffine   = &CoordinateModel{Montgomery, AffineName, []string{"x", "y"}}
	montXZ       = &CoordinateModel{Montgomery, "xz", []string{"X", "Z"}}
	edAffine     = &CoordinateModel{Edwards, AffineName, []string{"x", "y"}}
	tedAffine    = &CoordinateModel{TwistedEdwards, AffineName, []string{"x", "y"}}
	tedProj      = &CoordinateModel{TwistedEdwards, "projective", []string{"X", "Y", "Z"}}
)

var coordinateModels = map[Model]map[string]*CoordinateModel{
	ShortWeierstrass: {AffineName: swAffine, "projective": swProjective},
	Montgomery:       {AffineName: montAffine, "xz": montXZ},
	Edwards:          {AffineName: edAffine},
	TwistedEdwards:   {AffineName: tedAffine, "projective": tedProj},
}

// Affine returns the affine coordinate model of the given form.
func Affine(m Model) *CoordinateModel {
	return coordinateModels[m][AffineName]
}

// Coordinates looks up a coordinate model by form and name.
func Coordinates(m Model, name string) (*CoordinateModel, error) {
	byName, ok := coordinateModels[m]
	if !ok {
		return nil, fmt.Errorf("model: unknown curve form %v", m)
	}
	c, ok := byName[name]
	if !ok {
		return nil, fmt.Errorf("model: form %v has no %q coordinate system", m, name)
	}
	return c, nil
}

// CoordinateNames lists the coordinate systems defined for a form.
func CoordinateNames(m Model) []string {
	var names []string
	for name := range coordinateModels[m] {
		names = append(names, name)
	}
	return names
}
