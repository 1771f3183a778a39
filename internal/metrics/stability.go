package metrics

import (
	"math"

	"github.com/san-kum/fdmsim/internal/sim"
)

// Stability is the fraction of samples whose body rates all stay below a
// threshold, in rad/s.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(r sim.Record) {
	s.samples++
	for _, rate := range [...]float64{r.P, r.Q, r.R} {
		if math.Abs(rate) > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

// AltitudeDeviation tracks the largest distance from a target altitude.
type AltitudeDeviation struct {
	target float64
	max    float64
}

func NewAltitudeDeviation(target float64) *AltitudeDeviation {
	return &AltitudeDeviation{target: target}
}

func (a *AltitudeDeviation) Name() string { return "altitude_deviation" }

func (a *AltitudeDeviation) Observe(r sim.Record) {
	a.max = math.Max(a.max, math.Abs(r.Altitude-a.target))
}

func (a *AltitudeDeviation) Value() float64 { return a.max }

func (a *AltitudeDeviation) Reset() { a.max = 0 }
