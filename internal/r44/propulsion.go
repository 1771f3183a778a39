package r44

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/input"
	"github.com/san-kum/fdmsim/internal/lag"
)

// TrimSource supplies the aircraft trim the propulsion starts from.
type TrimSource interface {
	EngineOn() bool
}

type phase int

const (
	unconfigured phase = iota
	configured
	initialized
	running
)

// MainRotor holds the main rotor geometry and coefficients.
type MainRotor struct {
	Hub          r3.Vector // [m] BAS
	Radius       float64   // [m]
	NominalOmega float64   // [rad/s]
	ThrustCoef   float64   // C_T at full collective
	ProfileCoef  float64   // profile torque coefficient C_Q0
	InducedCoef  float64   // induced torque factor k, C_Q = C_Q0 + k·C_T^1.5
	MaxTilt      float64   // [rad] disc tilt at full cyclic
	Direction    float64   // +1 counter-clockwise seen from above
}

// TailRotor holds the tail rotor geometry and coefficients.
type TailRotor struct {
	Hub        r3.Vector // [m] BAS
	Radius     float64   // [m]
	GearRatio  float64   // tail to main rotor speed
	ThrustCoef float64   // C_T at full pedal
}

// Propulsion is the R44 engine and rotor model. Rotor azimuths advance with
// the previous rate; the main rotor speed follows the governor command
// through a first-order lag.
type Propulsion struct {
	inputs     input.Reader
	trim       TrimSource
	collective input.Handle
	cyclicLat  input.Handle
	cyclicLon  input.Handle
	pedals     input.Handle
	throttle   input.Handle

	main    MainRotor
	tail    TailRotor
	tau     float64
	omegaMR *lag.Filter
	phase   phase

	mainPsi, mainOmega float64
	tailPsi, tailOmega float64

	mainThrust r3.Vector
	mainTorque float64
	tailThrust r3.Vector
	force      r3.Vector
	moment     r3.Vector
}

func NewPropulsion(inputs input.Reader, trim TrimSource) *Propulsion {
	if inputs == nil {
		inputs = input.NewRegistry()
	}
	return &Propulsion{
		inputs:     inputs,
		trim:       trim,
		collective: inputs.Resolve(input.Collective),
		cyclicLat:  inputs.Resolve(input.CyclicLat),
		cyclicLon:  inputs.Resolve(input.CyclicLon),
		pedals:     inputs.Resolve(input.Pedals),
		throttle:   inputs.Resolve(input.Throttle),
	}
}

func (p *Propulsion) Role() aircraft.Role { return aircraft.RolePropulsion }

// SetTrimSource replaces the trim back-reference. The source is not owned.
func (p *Propulsion) SetTrimSource(t TrimSource) { p.trim = t }

func (p *Propulsion) ReadData(n *config.Node) error {
	mr, err := n.Child("main_rotor")
	if err != nil {
		return err
	}
	if err := readMainRotor(mr, &p.main); err != nil {
		return err
	}
	tr, err := n.Child("tail_rotor")
	if err != nil {
		return err
	}
	if err := readTailRotor(tr, &p.tail); err != nil {
		return err
	}
	if p.tau, err = n.PositiveFloat("rotor_time_constant"); err != nil {
		return err
	}
	if p.omegaMR, err = lag.New(p.tau); err != nil {
		return err
	}
	p.phase = configured
	return nil
}

func readMainRotor(n *config.Node, r *MainRotor) error {
	var err error
	if r.Hub, err = n.Vector3("hub"); err != nil {
		return err
	}
	if r.Radius, err = n.PositiveFloat("radius"); err != nil {
		return err
	}
	if r.NominalOmega, err = n.PositiveFloat("nominal_omega"); err != nil {
		return err
	}
	if r.ThrustCoef, err = n.PositiveFloat("thrust_coef_max"); err != nil {
		return err
	}
	if r.ProfileCoef, err = n.FloatOr("torque_coef_profile", 0); err != nil {
		return err
	}
	if r.InducedCoef, err = n.FloatOr("induced_factor", 0); err != nil {
		return err
	}
	tilt, err := n.FloatOr("max_tilt", 0)
	if err != nil {
		return err
	}
	r.MaxTilt = tilt * math.Pi / 180

	dir, err := n.StringOr("direction", "ccw")
	if err != nil {
		return err
	}
	switch dir {
	case "ccw":
		r.Direction = 1
	case "cw":
		r.Direction = -1
	default:
		return errors.Wrapf(config.ErrInvalidValue, "%s/direction: %q is neither cw nor ccw", n.Path(), dir)
	}
	if r.ProfileCoef < 0 || r.InducedCoef < 0 {
		return errors.Wrapf(config.ErrInvalidValue, "%s: torque coefficients must not be negative", n.Path())
	}
	return nil
}

func readTailRotor(n *config.Node, r *TailRotor) error {
	var err error
	if r.Hub, err = n.Vector3("hub"); err != nil {
		return err
	}
	if r.Radius, err = n.PositiveFloat("radius"); err != nil {
		return err
	}
	if r.GearRatio, err = n.PositiveFloat("gear_ratio"); err != nil {
		return err
	}
	if r.ThrustCoef, err = n.PositiveFloat("thrust_coef_max"); err != nil {
		return err
	}
	return nil
}

// Initialize sets the rotors at rest or at nominal speed depending on
// whether the trim has the engine running. Azimuths start at zero.
func (p *Propulsion) Initialize() error {
	if p.phase == unconfigured {
		return errors.Wrap(dynamo.ErrNotInitialized, "propulsion has no data")
	}
	omega := 0.0
	if p.trim != nil && p.trim.EngineOn() {
		omega = p.main.NominalOmega
	}
	p.omegaMR.SetValue(omega)
	p.mainOmega = omega
	p.tailOmega = omega * p.tail.GearRatio
	p.mainPsi, p.tailPsi = 0, 0
	p.force, p.moment = r3.Vector{}, r3.Vector{}
	p.phase = initialized
	return nil
}

// ComputeForceAndMoment uses the current rotor speeds and control positions.
func (p *Propulsion) ComputeForceAndMoment(s *aircraft.Snapshot) error {
	if p.phase < initialized {
		return errors.Wrap(dynamo.ErrNotInitialized, "propulsion")
	}
	rho := s.Env.Density

	// main rotor
	area := math.Pi * p.main.Radius * p.main.Radius
	tip := p.mainOmega * p.main.Radius
	dyn := rho * area * tip * tip

	ct := p.main.ThrustCoef * clamp(p.inputs.Value(p.collective), 0, 1)
	thrust := dyn * ct

	lon := clamp(p.inputs.Value(p.cyclicLon), -1, 1) * p.main.MaxTilt
	lat := clamp(p.inputs.Value(p.cyclicLat), -1, 1) * p.main.MaxTilt
	sinLon, cosLon := math.Sincos(lon)
	sinLat, cosLat := math.Sincos(lat)
	p.mainThrust = r3.Vector{
		X: thrust * sinLon * cosLat,
		Y: thrust * sinLat,
		Z: -thrust * cosLon * cosLat,
	}

	cq := p.main.ProfileCoef + p.main.InducedCoef*math.Pow(ct, 1.5)
	p.mainTorque = p.main.Direction * dyn * p.main.Radius * cq

	// tail rotor, thrust along +y for positive pedal
	tailArea := math.Pi * p.tail.Radius * p.tail.Radius
	tailTip := p.tailOmega * p.tail.Radius
	ctTail := p.tail.ThrustCoef * clamp(p.inputs.Value(p.pedals), -1, 1)
	p.tailThrust = r3.Vector{Y: p.main.Direction * rho * tailArea * tailTip * tailTip * ctTail}

	p.force = p.mainThrust.Add(p.tailThrust)
	p.moment = p.main.Hub.Cross(p.mainThrust).
		Add(p.tail.Hub.Cross(p.tailThrust)).
		Add(r3.Vector{Z: p.mainTorque})
	return nil
}

// Update advances the azimuths with the pre-step rates, then moves the rotor
// speed toward throttle times nominal.
func (p *Propulsion) Update(dt float64) error {
	if p.phase < initialized {
		return errors.Wrap(dynamo.ErrNotInitialized, "propulsion")
	}
	p.phase = running

	p.mainPsi = dynamo.WrapTwoPi(p.mainPsi + p.mainOmega*dt)
	p.tailPsi = dynamo.WrapTwoPi(p.tailPsi + p.tailOmega*dt)

	command := clamp(p.inputs.Value(p.throttle), 0, 1) * p.main.NominalOmega
	p.omegaMR.Update(command, dt)
	p.mainOmega = math.Max(0, p.omegaMR.Value())
	p.tailOmega = p.mainOmega * p.tail.GearRatio
	return nil
}

func (p *Propulsion) Force() r3.Vector  { return p.force }
func (p *Propulsion) Moment() r3.Vector { return p.moment }

func (p *Propulsion) MainRotorPsi() float64   { return p.mainPsi }
func (p *Propulsion) MainRotorOmega() float64 { return p.mainOmega }
func (p *Propulsion) TailRotorPsi() float64   { return p.tailPsi }
func (p *Propulsion) TailRotorOmega() float64 { return p.tailOmega }

// MainRotorThrust is the last computed main rotor force in BAS.
func (p *Propulsion) MainRotorThrust() r3.Vector { return p.mainThrust }

// MainRotorTorque is the last computed reaction torque about BAS z.
func (p *Propulsion) MainRotorTorque() float64 { return p.mainTorque }

func (p *Propulsion) TailRotorThrust() r3.Vector { return p.tailThrust }

func (p *Propulsion) MainRotor() MainRotor { return p.main }
func (p *Propulsion) TailRotor() TailRotor { return p.tail }

// Running reports whether Update has been called since Initialize.
func (p *Propulsion) Running() bool { return p.phase == running }

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		v = 0
	}
	return math.Max(lo, math.Min(hi, v))
}
