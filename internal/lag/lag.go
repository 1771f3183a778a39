// Package lag implements a discrete first-order lag used to emulate
// actuator, sensor and rotor response dynamics.
//
// The filter is discretized with the bilinear (trapezoidal) transform, so the
// output depends on both the current and the previous input:
//
//	c1    = 1/τ
//	denom = 2 + dt·c1
//	y[n]  = (u[n] + u[n-1])·(dt·c1/denom) + y[n-1]·(2 - dt·c1)/denom
//
// A Filter is not safe for concurrent use. Given the same time constant,
// input sequence and step sequence it always produces the same output.
package lag

import (
	"math"

	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Filter is a first-order lag with an immutable time constant.
type Filter struct {
	tau   float64
	y     float64
	uPrev float64
}

// New returns a filter with zero initial output.
func New(tau float64) (*Filter, error) {
	return NewWithValue(tau, 0)
}

// NewWithValue returns a filter at steady state y0.
func NewWithValue(tau, y0 float64) (*Filter, error) {
	if !(tau > 0) || math.IsInf(tau, 0) {
		return nil, errors.Wrapf(dynamo.ErrConfiguration, "lag time constant must be positive and finite, got %v", tau)
	}
	return &Filter{tau: tau, y: y0, uPrev: y0}, nil
}

// Update advances the filter by dt with input u. Non-positive steps are
// ignored.
func (f *Filter) Update(u, dt float64) {
	if dt <= 0 {
		return
	}

	c1 := 1.0 / f.tau
	denom := 2.0 + dt*c1
	ca := dt * c1 / denom
	cb := (2.0 - dt*c1) / denom

	f.y = (u+f.uPrev)*ca + f.y*cb
	f.uPrev = u
}

// Value returns the current output.
func (f *Filter) Value() float64 { return f.y }

// SetValue puts the filter at steady state y.
func (f *Filter) SetValue(y float64) {
	f.y = y
	f.uPrev = y
}

func (f *Filter) TimeConstant() float64 { return f.tau }
