// Package input holds the named scalar channels that feed the flight model:
// control positions, variable mass quantities and similar external values.
//
// The registry owns every channel. Models resolve a channel name once, at
// configuration time, and keep only the returned Handle; they read the value
// through it once per step and never write to it.
package input

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Common channel names.
const (
	Collective = "input/controls/collective"
	CyclicLat  = "input/controls/cyclic_lat"
	CyclicLon  = "input/controls/cyclic_lon"
	Pedals     = "input/controls/pedals"
	Throttle   = "input/controls/throttle"

	massPrefix = "input/mass/"
)

// MassChannel returns the channel name bound to a variable mass component.
func MassChannel(component string) string {
	return massPrefix + component
}

// Handle identifies a channel within one Registry.
type Handle int

// Reader is the read-only view the flight model depends on.
type Reader interface {
	Resolve(name string) Handle
	Value(h Handle) float64
}

// Registry stores channel values. It is not safe for concurrent use; each
// simulated aircraft gets its own registry.
type Registry struct {
	index  map[string]Handle
	names  []string
	values []float64
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]Handle)}
}

// Resolve returns the handle for name, creating a zero-valued channel the
// first time a name is seen.
func (r *Registry) Resolve(name string) Handle {
	if h, ok := r.index[name]; ok {
		return h
	}
	h := Handle(len(r.values))
	r.index[name] = h
	r.names = append(r.names, name)
	r.values = append(r.values, 0)
	return h
}

func (r *Registry) Lookup(name string) (Handle, bool) {
	h, ok := r.index[name]
	return h, ok
}

// Value returns the channel value, or 0 for a handle from another registry.
func (r *Registry) Value(h Handle) float64 {
	if h < 0 || int(h) >= len(r.values) {
		return 0
	}
	return r.values[h]
}

// Get reads a channel by name.
func (r *Registry) Get(name string) (float64, error) {
	h, ok := r.index[name]
	if !ok {
		return 0, errors.Wrapf(dynamo.ErrNotFound, "input channel %q", name)
	}
	return r.values[h], nil
}

// Set writes a channel by name, creating it if needed.
func (r *Registry) Set(name string, v float64) {
	h := r.Resolve(name)
	r.values[h] = v
}

func (r *Registry) SetHandle(h Handle, v float64) error {
	if h < 0 || int(h) >= len(r.values) {
		return errors.Wrapf(dynamo.ErrNotFound, "input handle %d", h)
	}
	r.values[h] = v
	return nil
}

// Names returns channel names in lexical order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.names))
	copy(names, r.names)
	sort.Strings(names)
	return names
}
