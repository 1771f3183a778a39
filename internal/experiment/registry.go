package experiment

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/input"
	"github.com/san-kum/fdmsim/internal/integrators"
	"github.com/san-kum/fdmsim/internal/metrics"
	"github.com/san-kum/fdmsim/internal/r44"
	"github.com/san-kum/fdmsim/internal/sim"
)

// Builder assembles an aircraft type. A nil data node selects the type's
// bundled data.
type Builder func(inputs input.Reader, data *config.Node, opts ...aircraft.Option) (sim.Vehicle, error)

// AircraftType describes one registered aircraft.
type AircraftType struct {
	Name        string
	Description string
	Data        []byte
	Build       Builder
}

type Registry struct {
	aircraft    map[string]AircraftType
	integrators map[string]func() dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		aircraft:    make(map[string]AircraftType),
		integrators: make(map[string]func() dynamo.Integrator),
	}

	r.aircraft[r44.Name] = AircraftType{
		Name:        r44.Name,
		Description: "Robinson R44 light helicopter",
		Data:        r44.DefaultDataBytes(),
		Build: func(inputs input.Reader, data *config.Node, opts ...aircraft.Option) (sim.Vehicle, error) {
			return r44.Load(inputs, data, opts...)
		},
	}

	r.integrators["euler"] = func() dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() dynamo.Integrator { return integrators.NewRK4() }

	return r
}

func (r *Registry) GetAircraft(name string) (AircraftType, error) {
	t, ok := r.aircraft[name]
	if !ok {
		return AircraftType{}, errors.Wrapf(dynamo.ErrNotFound, "unknown aircraft: %s", name)
	}
	return t, nil
}

func (r *Registry) GetIntegrator(name string) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrNotFound, "unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListAircraft() []string {
	names := make([]string, 0, len(r.aircraft))
	for name := range r.aircraft {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns the metrics recorded for every run of cfg.
func (r *Registry) DefaultMetrics(cfg *config.Config, v sim.Vehicle) []sim.Metric {
	g := cfg.Environment.Gravity
	if g == 0 {
		g = env.StandardGravity
	}
	ms := []sim.Metric{
		metrics.NewEnergy(g),
		metrics.NewEnergyDrift(g),
		metrics.NewStability(1.0),
		metrics.NewControlEffort(cfg.Autopilot.PedalTrim),
	}
	if cfg.Autopilot.AltitudeHold {
		ms = append(ms, metrics.NewAltitudeDeviation(cfg.Autopilot.Target))
	}
	if c, err := v.Contributor(aircraft.RolePropulsion); err == nil {
		if p, ok := c.(*r44.Propulsion); ok {
			ms = append(ms, metrics.NewRotorSpeedDeviation(p.MainRotor().NominalOmega))
		}
	}
	return ms
}
