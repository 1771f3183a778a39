package control

import "math"

// PID is a scalar controller. Output is clamped to [Min, Max] when Max > Min,
// and the integral stops accumulating while the output is saturated.
type PID struct {
	Kp       float64
	Ki       float64
	Kd       float64
	Target   float64
	Min      float64
	Max      float64
	integral float64
	prevErr  float64
	prevT    float64
	first    bool
}

func NewPID(kp, ki, kd, target float64) *PID {
	return &PID{
		Kp:     kp,
		Ki:     ki,
		Kd:     kd,
		Target: target,
		first:  true,
	}
}

// WithLimits sets the output range and returns p.
func (p *PID) WithLimits(min, max float64) *PID {
	p.Min, p.Max = min, max
	return p
}

// Compute returns the control output for measurement y at time t.
func (p *PID) Compute(y, t float64) float64 {
	err := p.Target - y

	if p.first {
		p.prevErr = err
		p.prevT = t
		p.first = false
		return p.limit(p.Kp * err)
	}

	dt := t - p.prevT
	if dt <= 0 {
		return p.limit(p.Kp*err + p.Ki*p.integral)
	}

	integral := p.integral + err*dt
	derivative := (err - p.prevErr) / dt
	u := p.Kp*err + p.Ki*integral + p.Kd*derivative

	if lu := p.limit(u); lu == u {
		p.integral = integral
	} else {
		u = lu
	}

	p.prevErr = err
	p.prevT = t
	return u
}

func (p *PID) limit(u float64) float64 {
	if p.Max <= p.Min {
		return u
	}
	return math.Max(p.Min, math.Min(p.Max, u))
}

// Reset clears integral and derivative state
func (p *PID) Reset() {
	p.integral = 0
	p.prevErr = 0
	p.first = true
}

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":     p.Kp,
		"Ki":     p.Ki,
		"Kd":     p.Kd,
		"Target": p.Target,
	}
}

// SetParam adjusts a PID parameter
func (p *PID) SetParam(name string, value float64) {
	switch name {
	case "Kp":
		p.Kp = value
	case "Ki":
		p.Ki = value
	case "Kd":
		p.Kd = value
	case "Target":
		p.Target = value
	}
}
