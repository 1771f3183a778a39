package input

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Point is one breakpoint of a time history.
type Point struct {
	T, V float64
}

// History is a piecewise-linear time history. Values before the first
// point and after the last one are held constant.
type History []Point

// At interpolates the history at t.
func (h History) At(t float64) float64 {
	if len(h) == 0 {
		return 0
	}
	if t <= h[0].T {
		return h[0].V
	}
	last := h[len(h)-1]
	if t >= last.T {
		return last.V
	}
	i := sort.Search(len(h), func(i int) bool { return h[i].T > t })
	a, b := h[i-1], h[i]
	if b.T == a.T {
		return b.V
	}
	return a.V + (b.V-a.V)*(t-a.T)/(b.T-a.T)
}

// Schedule drives several channels from time histories.
type Schedule struct {
	channels []string
	series   map[string]History
}

func NewSchedule() *Schedule {
	return &Schedule{series: make(map[string]History)}
}

// Add registers a history for channel. Breakpoint times must not decrease.
func (s *Schedule) Add(channel string, h History) error {
	for i := 1; i < len(h); i++ {
		if h[i].T < h[i-1].T {
			return errors.Wrapf(dynamo.ErrConfiguration, "schedule for %q: time %v after %v", channel, h[i].T, h[i-1].T)
		}
	}
	if _, ok := s.series[channel]; !ok {
		s.channels = append(s.channels, channel)
	}
	s.series[channel] = h
	return nil
}

func (s *Schedule) Len() int { return len(s.channels) }

// Apply writes every scheduled channel value at time t into the registry.
func (s *Schedule) Apply(r *Registry, t float64) {
	for _, ch := range s.channels {
		r.Set(ch, s.series[ch].At(t))
	}
}
