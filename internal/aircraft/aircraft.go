// Package aircraft implements the rigid-body flight model: the contributor
// framework, the mass and inertia aggregator, generic airframe contributors
// and the Aircraft aggregate that integrates the equations of motion.
//
// An Aircraft owns one contributor per role. Each substep every contributor
// computes its force and moment from the same Snapshot, the sums drive the
// 6-DOF integration, and only then are contributors advanced with Update.
// A failed substep leaves the instance invalid until Reset.
package aircraft

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/geom"
	"github.com/san-kum/fdmsim/internal/integrators"
)

type Option func(*Aircraft)

func WithIntegrator(i dynamo.Integrator) Option {
	return func(a *Aircraft) { a.integrator = i }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(a *Aircraft) { a.logger = l }
}

func WithEnvironment(e *env.Environment) Option {
	return func(a *Aircraft) { a.env = e }
}

type Aircraft struct {
	name         string
	contributors *ContributorSet
	mass         *Mass
	integrator   dynamo.Integrator
	env          *env.Environment
	logger       *zap.SugaredLogger
	body         *rigidBody

	ic          InitialConditions
	state       RigidBodyState
	time        float64
	steps       int
	force       r3.Vector
	moment      r3.Vector
	rates       massRates
	configured  bool
	initialized bool
	invalid     bool
}

// New builds an aircraft over set, which must hold a *Mass in the mass role.
// The default integrator is RK4 in a standard atmosphere.
func New(name string, set *ContributorSet, opts ...Option) (*Aircraft, error) {
	if set == nil {
		return nil, errors.Wrap(dynamo.ErrConfiguration, "nil contributor set")
	}
	c, err := set.Get(RoleMass)
	if err != nil {
		return nil, errors.Wrap(dynamo.ErrConfiguration, err.Error())
	}
	mass, ok := c.(*Mass)
	if !ok {
		return nil, errors.Wrapf(dynamo.ErrConfiguration, "mass role held by %T", c)
	}

	a := &Aircraft{
		name:         name,
		contributors: set,
		mass:         mass,
		integrator:   integrators.NewRK4(),
		env:          env.Standard(),
		logger:       zap.NewNop().Sugar(),
		body:         newRigidBody(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// ReadData configures every contributor from the data tree node named after
// its role.
func (a *Aircraft) ReadData(root *config.Node) error {
	for _, c := range a.contributors.All() {
		n, err := root.Child(c.Role().String())
		if err != nil {
			return err
		}
		if err := c.ReadData(n); err != nil {
			return errors.Wrapf(err, "%s %s", a.name, c.Role())
		}
	}
	a.configured = true
	a.logger.Debugw("configured", "aircraft", a.name, "contributors", a.contributors.Len())
	return nil
}

// Initialize places the aircraft at ic and initializes every contributor.
func (a *Aircraft) Initialize(ic InitialConditions) error {
	if !a.configured {
		return errors.Wrapf(dynamo.ErrNotInitialized, "%s has no data", a.name)
	}
	a.ic = ic
	return a.Reset()
}

// Reset returns to the last initial conditions and clears the invalid flag.
func (a *Aircraft) Reset() error {
	if !a.configured {
		return errors.Wrapf(dynamo.ErrNotInitialized, "%s has no data", a.name)
	}
	a.state = a.ic.state()
	a.time = 0
	a.steps = 0
	a.force, a.moment = r3.Vector{}, r3.Vector{}
	a.rates = massRates{}
	a.initialized = false
	a.invalid = false

	if err := a.contributors.initialize(); err != nil {
		return err
	}
	a.initialized = true
	a.logger.Debugw("initialized", "aircraft", a.name, "altitude", a.ic.Altitude, "mass", a.mass.Mass())
	return nil
}

// ComputeForceAndMoment evaluates and sums the contributors for the current
// state without integrating.
func (a *Aircraft) ComputeForceAndMoment() error {
	if err := a.ready(); err != nil {
		return err
	}
	snap := a.Snapshot()
	force, moment, err := a.contributors.Compute(&snap)
	if err != nil {
		return err
	}
	a.force, a.moment = force, moment
	return nil
}

// Advance integrates dt split into substeps equal substeps.
func (a *Aircraft) Advance(dt float64, substeps int) error {
	if substeps < 1 {
		return errors.Wrapf(dynamo.ErrConfiguration, "substeps must be at least 1, got %d", substeps)
	}
	h := dt / float64(substeps)
	for i := 0; i < substeps; i++ {
		if err := a.Step(h); err != nil {
			return err
		}
	}
	return nil
}

// Step integrates one substep of length dt.
func (a *Aircraft) Step(dt float64) error {
	if err := a.ready(); err != nil {
		return err
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return errors.Wrapf(dynamo.ErrConfiguration, "time step must be positive, got %v", dt)
	}
	if err := a.step(dt); err != nil {
		a.invalid = true
		a.logger.Debugw("invalidated", "aircraft", a.name, "step", a.steps, "time", a.time, "error", err)
		return &dynamo.SimulationError{Step: a.steps, Time: a.time, Wrapped: err}
	}
	return nil
}

func (a *Aircraft) step(dt float64) error {
	snap := a.Snapshot()
	force, moment, err := a.contributors.Compute(&snap)
	if err != nil {
		return err
	}
	a.force, a.moment = force, moment

	before := a.mass.Properties()
	if err := a.body.prepare(before, a.rates, force, moment); err != nil {
		return err
	}
	next := a.integrator.Step(a.body, a.state.Pack(), a.time, dt)
	if a.body.err != nil {
		return a.body.err
	}
	if !next.IsValid() {
		return dynamo.ErrInvalidState
	}
	state := Unpack(next)
	state.Attitude = geom.QuatNormalize(state.Attitude)

	if err := a.contributors.update(dt); err != nil {
		return err
	}

	after := a.mass.Properties()
	a.rates = massRates{
		mass:    (after.TotalMass - before.TotalMass) / dt,
		first:   after.FirstMoment.Sub(before.FirstMoment).Mul(1 / dt),
		inertia: after.InertiaBAS.Sub(before.InertiaBAS).Scale(1 / dt),
	}
	a.state = state
	a.time += dt
	a.steps++
	return nil
}

func (a *Aircraft) ready() error {
	if a.invalid {
		return errors.Wrap(dynamo.ErrInvalidated, a.name)
	}
	if !a.initialized {
		return errors.Wrapf(dynamo.ErrNotInitialized, "%s", a.name)
	}
	return nil
}

// Snapshot returns the view contributors see for the current state.
func (a *Aircraft) Snapshot() Snapshot {
	return Snapshot{
		Time:  a.time,
		State: a.state,
		Env:   a.env.At(a.state.Altitude()),
	}
}

func (a *Aircraft) Name() string                         { return a.name }
func (a *Aircraft) State() RigidBodyState                { return a.state }
func (a *Aircraft) Time() float64                        { return a.time }
func (a *Aircraft) Steps() int                           { return a.steps }
func (a *Aircraft) Force() r3.Vector                     { return a.force }
func (a *Aircraft) Moment() r3.Vector                    { return a.moment }
func (a *Aircraft) Mass() *Mass                          { return a.mass }
func (a *Aircraft) Valid() bool                          { return !a.invalid }
func (a *Aircraft) InitialConditions() InitialConditions { return a.ic }
func (a *Aircraft) Integrator() dynamo.Integrator        { return a.integrator }
func (a *Aircraft) Environment() *env.Environment        { return a.env }

// Contributor returns the contributor holding role.
func (a *Aircraft) Contributor(role Role) (Contributor, error) {
	return a.contributors.Get(role)
}
