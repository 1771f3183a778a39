package dynamo

import "math"

const TwoPi = 2 * math.Pi

// WrapTwoPi maps an angle to [0, 2π).
func WrapTwoPi(x float64) float64 {
	x = math.Mod(x, TwoPi)
	if x < 0 {
		x += TwoPi
	}
	// math.Mod of a tiny negative value plus 2π rounds to exactly 2π
	if x >= TwoPi {
		x = 0
	}
	return x
}

// WrapPi maps an angle to [-π, π).
func WrapPi(x float64) float64 {
	return WrapTwoPi(x+math.Pi) - math.Pi
}

// TrigTable provides precomputed sin/cos values for fast lookup.
// Uses linear interpolation for values between table entries.
type TrigTable struct {
	sin []float64
	cos []float64
	n   int
}

// Global default trig table (4096 entries = ~0.0015 rad resolution)
var DefaultTrigTable = NewTrigTable(4096)

// NewTrigTable creates a precomputed trig lookup table
func NewTrigTable(n int) *TrigTable {
	t := &TrigTable{
		sin: make([]float64, n),
		cos: make([]float64, n),
		n:   n,
	}

	for i := 0; i < n; i++ {
		angle := float64(i) * TwoPi / float64(n)
		t.sin[i] = math.Sin(angle)
		t.cos[i] = math.Cos(angle)
	}

	return t
}

func (t *TrigTable) lookup(x float64) (i0, i1 int, frac float64) {
	idx := WrapTwoPi(x) * float64(t.n) / TwoPi
	i := int(idx)
	frac = idx - float64(i)
	return i % t.n, (i + 1) % t.n, frac
}

// Sin returns approximate sin using table lookup with interpolation
func (t *TrigTable) Sin(x float64) float64 {
	i0, i1, frac := t.lookup(x)
	return t.sin[i0]*(1-frac) + t.sin[i1]*frac
}

// Cos returns approximate cos using table lookup with interpolation
func (t *TrigTable) Cos(x float64) float64 {
	i0, i1, frac := t.lookup(x)
	return t.cos[i0]*(1-frac) + t.cos[i1]*frac
}

// SinCos returns both sin and cos efficiently
func (t *TrigTable) SinCos(x float64) (sin, cos float64) {
	i0, i1, frac := t.lookup(x)
	sin = t.sin[i0]*(1-frac) + t.sin[i1]*frac
	cos = t.cos[i0]*(1-frac) + t.cos[i1]*frac
	return
}

// FastSinCos uses the default table
func FastSinCos(x float64) (float64, float64) {
	return DefaultTrigTable.SinCos(x)
}
