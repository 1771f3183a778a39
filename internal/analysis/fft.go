package analysis

import (
	"math"
	"math/cmplx"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Spectrum is a one-sided amplitude spectrum.
type Spectrum struct {
	Freqs     []float64 // [Hz]
	Amplitude []float64
}

// PowerSpectrum returns the amplitude spectrum of samples taken every dt
// seconds. The mean is removed first so the DC bin does not dominate.
func PowerSpectrum(data []float64, dt float64) (*Spectrum, error) {
	if len(data) < 2 {
		return nil, errors.Wrapf(dynamo.ErrConfiguration, "spectrum needs at least 2 samples, got %d", len(data))
	}
	if dt <= 0 {
		return nil, errors.Wrapf(dynamo.ErrConfiguration, "sample interval must be positive, got %v", dt)
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	fft := fourier.NewFFT(len(centered))
	coeff := fft.Coefficients(nil, centered)

	s := &Spectrum{
		Freqs:     make([]float64, len(coeff)),
		Amplitude: make([]float64, len(coeff)),
	}
	n := float64(len(centered))
	for i, c := range coeff {
		s.Freqs[i] = fft.Freq(i) / dt
		s.Amplitude[i] = 2 * cmplx.Abs(c) / n
	}
	return s, nil
}

// Dominant returns the frequency and amplitude of the strongest non-DC bin.
func (s *Spectrum) Dominant() (freq, amplitude float64) {
	for i := 1; i < len(s.Amplitude); i++ {
		if s.Amplitude[i] > amplitude {
			freq, amplitude = s.Freqs[i], s.Amplitude[i]
		}
	}
	return freq, amplitude
}

// Period returns 1/f of the dominant frequency, or +Inf when there is none.
func (s *Spectrum) Period() float64 {
	f, _ := s.Dominant()
	if f == 0 {
		return math.Inf(1)
	}
	return 1 / f
}
