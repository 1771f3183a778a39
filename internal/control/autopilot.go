package control

import (
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/input"
)

// Attitude loop gains. Cyclic and pedal outputs are normalized to [-1, 1].
const (
	rollKp, rollKi, rollKd    = 2.0, 0.1, 0.3
	pitchKp, pitchKi, pitchKd = 3.0, 0.2, 0.3
	yawKp, yawKi              = 1.0, 0.2
)

type AutopilotSettings struct {
	AltitudeHold bool
	AttitudeHold bool
	Target       float64 // [m]
	Trim         float64 // collective at hover
	PedalTrim    float64
	Kp, Ki, Kd   float64
}

// Autopilot writes the collective, cyclic and pedal channels.
type Autopilot struct {
	settings AutopilotSettings
	inputs   *input.Registry

	altitude *PID
	roll     *PID
	pitch    *PID
	yawRate  *PID

	collective input.Handle
	cyclicLat  input.Handle
	cyclicLon  input.Handle
	pedals     input.Handle
}

func NewAutopilot(reg *input.Registry, s AutopilotSettings) *Autopilot {
	return &Autopilot{
		settings:   s,
		inputs:     reg,
		altitude:   NewPID(s.Kp, s.Ki, s.Kd, s.Target).WithLimits(-s.Trim, 1-s.Trim),
		roll:       NewPID(rollKp, rollKi, rollKd, 0).WithLimits(-1, 1),
		pitch:      NewPID(pitchKp, pitchKi, pitchKd, 0).WithLimits(-1, 1),
		yawRate:    NewPID(yawKp, yawKi, 0, 0).WithLimits(-1-s.PedalTrim, 1-s.PedalTrim),
		collective: reg.Resolve(input.Collective),
		cyclicLat:  reg.Resolve(input.CyclicLat),
		cyclicLon:  reg.Resolve(input.CyclicLon),
		pedals:     reg.Resolve(input.Pedals),
	}
}

// Enabled reports whether any loop is active.
func (a *Autopilot) Enabled() bool {
	return a.settings.AltitudeHold || a.settings.AttitudeHold
}

// Apply updates the control channels for state s at time t. Channels of
// disabled loops are left untouched.
func (a *Autopilot) Apply(s aircraft.RigidBodyState, t float64) error {
	var err error
	if a.settings.AltitudeHold {
		u := a.settings.Trim + a.altitude.Compute(s.Altitude(), t)
		err = multierr.Append(err, a.inputs.SetHandle(a.collective, u))
	}
	if a.settings.AttitudeHold {
		roll, pitch, _ := s.Euler()
		err = multierr.Combine(err,
			a.inputs.SetHandle(a.cyclicLat, a.roll.Compute(roll, t)),
			a.inputs.SetHandle(a.cyclicLon, -a.pitch.Compute(pitch, t)),
			a.inputs.SetHandle(a.pedals, a.settings.PedalTrim-a.yawRate.Compute(s.Omega.Z, t)),
		)
	}
	return errors.Wrap(err, "autopilot")
}

// Altitude returns the altitude loop for live tuning.
func (a *Autopilot) Altitude() *PID { return a.altitude }

func (a *Autopilot) Reset() {
	a.altitude.Reset()
	a.roll.Reset()
	a.pitch.Reset()
	a.yawRate.Reset()
}
