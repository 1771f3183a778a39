package metrics

import (
	"math"

	"github.com/san-kum/fdmsim/internal/sim"
)

// RotorSpeedDeviation is the largest relative main rotor speed error
// against nominal. Samples before the rotor is turning are ignored.
type RotorSpeedDeviation struct {
	nominal float64
	max     float64
}

func NewRotorSpeedDeviation(nominal float64) *RotorSpeedDeviation {
	return &RotorSpeedDeviation{nominal: nominal}
}

func (d *RotorSpeedDeviation) Name() string { return "rotor_speed_deviation" }

func (d *RotorSpeedDeviation) Observe(r sim.Record) {
	if d.nominal <= 0 || r.MainOmega == 0 {
		return
	}
	d.max = math.Max(d.max, math.Abs(r.MainOmega-d.nominal)/d.nominal)
}

func (d *RotorSpeedDeviation) Value() float64 { return d.max }

func (d *RotorSpeedDeviation) Reset() { d.max = 0 }
