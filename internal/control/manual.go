package control

import (
	"math"

	"github.com/san-kum/fdmsim/internal/input"
)

// Manual holds stick and pedal positions set interactively.
type Manual struct {
	inputs *input.Registry
	values map[string]float64
}

func NewManual(reg *input.Registry) *Manual {
	m := &Manual{inputs: reg, values: make(map[string]float64)}
	for _, ch := range []string{input.Collective, input.CyclicLat, input.CyclicLon, input.Pedals, input.Throttle} {
		v, _ := reg.Get(ch)
		m.values[ch] = v
	}
	return m
}

// Nudge moves a channel by delta within its range and writes it through.
func (m *Manual) Nudge(channel string, delta float64) float64 {
	lo := -1.0
	if channel == input.Collective || channel == input.Throttle {
		lo = 0
	}
	v := math.Max(lo, math.Min(1, m.values[channel]+delta))
	m.values[channel] = v
	m.inputs.Set(channel, v)
	return v
}

// Center returns the cyclic and pedals to neutral.
func (m *Manual) Center() {
	for _, ch := range []string{input.CyclicLat, input.CyclicLon, input.Pedals} {
		m.values[ch] = 0
		m.inputs.Set(ch, 0)
	}
}

func (m *Manual) Value(channel string) float64 {
	return m.values[channel]
}
