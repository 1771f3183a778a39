package analysis

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

func TestPowerSpectrum_Sine(t *testing.T) {
	const (
		dt   = 0.1
		n    = 200
		freq = 0.5
		amp  = 3.0
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 10 + amp*math.Sin(2*math.Pi*freq*float64(i)*dt)
	}

	s, err := PowerSpectrum(data, dt)
	if err != nil {
		t.Fatal(err)
	}
	f, a := s.Dominant()
	if math.Abs(f-freq) > 1e-9 {
		t.Errorf("expected dominant frequency %v, got %v", freq, f)
	}
	if math.Abs(a-amp) > 1e-6 {
		t.Errorf("expected amplitude %v, got %v", amp, a)
	}
	if math.Abs(s.Period()-2) > 1e-9 {
		t.Errorf("expected period 2, got %v", s.Period())
	}
	if s.Amplitude[0] > 1e-9 {
		t.Errorf("mean should be removed, DC amplitude %v", s.Amplitude[0])
	}
}

func TestPowerSpectrum_Constant(t *testing.T) {
	s, err := PowerSpectrum([]float64{4, 4, 4, 4}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := s.Dominant(); f != 0 {
		t.Errorf("constant signal has no dominant frequency, got %v", f)
	}
	if !math.IsInf(s.Period(), 1) {
		t.Errorf("expected infinite period, got %v", s.Period())
	}
}

func TestPowerSpectrum_Errors(t *testing.T) {
	if _, err := PowerSpectrum([]float64{1}, 0.1); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
	if _, err := PowerSpectrum([]float64{1, 2}, 0); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
