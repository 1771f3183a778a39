// Package r44 assembles the Robinson R44 helicopter on top of the generic
// aircraft model: the rotor propulsion contributor, the required mass
// stations and the default data file.
package r44

import (
	_ "embed"

	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/input"
)

// Name is the aircraft type key.
const Name = "r44"

// Stations are the variable masses every R44 data file must define.
var Stations = []string{"pilot", "copilot", "passengers", "fuel"}

//go:embed data/r44.yaml
var defaultData []byte

// DefaultData returns the built-in data tree.
func DefaultData() (*config.Node, error) {
	return config.Parse(defaultData)
}

// DefaultDataBytes returns a copy of the built-in data file.
func DefaultDataBytes() []byte {
	out := make([]byte, len(defaultData))
	copy(out, defaultData)
	return out
}

// Aircraft is an R44. It serves as the trim source of its own propulsion.
type Aircraft struct {
	*aircraft.Aircraft
	propulsion *Propulsion
}

// New builds an unconfigured R44 reading its controls from inputs.
func New(inputs input.Reader, opts ...aircraft.Option) (*Aircraft, error) {
	prop := NewPropulsion(inputs, nil)
	set, err := aircraft.NewContributorSet(
		aircraft.NewMass(inputs),
		prop,
		aircraft.NewAerodynamics(),
		aircraft.NewLandingGear(),
	)
	if err != nil {
		return nil, err
	}
	base, err := aircraft.New(Name, set, opts...)
	if err != nil {
		return nil, err
	}
	a := &Aircraft{Aircraft: base, propulsion: prop}
	prop.SetTrimSource(a)
	return a, nil
}

// Load builds an R44 and configures it from root, or from the built-in data
// when root is nil.
func Load(inputs input.Reader, root *config.Node, opts ...aircraft.Option) (*Aircraft, error) {
	if root == nil {
		var err error
		if root, err = DefaultData(); err != nil {
			return nil, err
		}
	}
	a, err := New(inputs, opts...)
	if err != nil {
		return nil, err
	}
	if err := a.ReadData(root); err != nil {
		return nil, err
	}
	return a, nil
}

// ReadData configures every contributor and checks the mass stations.
func (a *Aircraft) ReadData(root *config.Node) error {
	if err := a.Aircraft.ReadData(root); err != nil {
		return err
	}
	for _, name := range Stations {
		if _, err := a.Mass().VariableMassByName(name); err != nil {
			return errors.Wrapf(config.ErrMissingField, "r44 mass station %q", name)
		}
	}
	return nil
}

// EngineOn reports the engine state of the initial conditions.
func (a *Aircraft) EngineOn() bool {
	return a.InitialConditions().EngineOn
}

func (a *Aircraft) Propulsion() *Propulsion { return a.propulsion }
