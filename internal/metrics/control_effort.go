package metrics

import (
	"math"

	"github.com/san-kum/fdmsim/internal/sim"
)

// ControlEffort is the mean summed absolute control displacement. Pedals
// are measured from their trim position.
type ControlEffort struct {
	name      string
	pedalTrim float64
	sum       float64
	samples   int
}

func NewControlEffort(pedalTrim float64) *ControlEffort {
	return &ControlEffort{
		name:      "control_effort",
		pedalTrim: pedalTrim,
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(r sim.Record) {
	c.sum += math.Abs(r.Collective) + math.Abs(r.CyclicLat) + math.Abs(r.CyclicLon) + math.Abs(r.Pedals-c.pedalTrim)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
