package aircraft

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Role identifies the job a contributor does within an aircraft.
type Role int

const (
	RoleMass Role = iota
	RolePropulsion
	RoleAerodynamics
	RoleLandingGear
)

// String is also the data tree key the contributor is configured from.
func (r Role) String() string {
	switch r {
	case RoleMass:
		return "mass"
	case RolePropulsion:
		return "propulsion"
	case RoleAerodynamics:
		return "aerodynamics"
	case RoleLandingGear:
		return "landing_gear"
	default:
		return "unknown"
	}
}

// Contributor produces a force and moment in BAS, about the BAS origin.
//
// The lifecycle is ReadData once, Initialize, then per substep
// ComputeForceAndMoment followed by Update. ComputeForceAndMoment must only
// depend on the snapshot and the contributor's own pre-step state.
type Contributor interface {
	Role() Role
	ReadData(n *config.Node) error
	Initialize() error
	ComputeForceAndMoment(s *Snapshot) error
	Update(dt float64) error
	Force() r3.Vector
	Moment() r3.Vector
}

// ContributorSet is an ordered collection with at most one contributor per
// role.
type ContributorSet struct {
	items []Contributor
}

func NewContributorSet(cs ...Contributor) (*ContributorSet, error) {
	set := &ContributorSet{}
	for _, c := range cs {
		if err := set.Add(c); err != nil {
			return nil, err
		}
	}
	return set, nil
}

func (s *ContributorSet) Add(c Contributor) error {
	if c == nil {
		return errors.Wrap(dynamo.ErrConfiguration, "nil contributor")
	}
	if _, err := s.Get(c.Role()); err == nil {
		return errors.Wrapf(dynamo.ErrConfiguration, "duplicate %s contributor", c.Role())
	}
	s.items = append(s.items, c)
	return nil
}

// Get returns the contributor holding role.
func (s *ContributorSet) Get(role Role) (Contributor, error) {
	for _, c := range s.items {
		if c.Role() == role {
			return c, nil
		}
	}
	return nil, errors.Wrapf(dynamo.ErrNotFound, "%s contributor", role)
}

func (s *ContributorSet) Len() int { return len(s.items) }

// All returns the contributors in evaluation order.
func (s *ContributorSet) All() []Contributor {
	out := make([]Contributor, len(s.items))
	copy(out, s.items)
	return out
}

// Compute evaluates every contributor against the same snapshot and returns
// the summed force and moment.
func (s *ContributorSet) Compute(snap *Snapshot) (force, moment r3.Vector, err error) {
	for _, c := range s.items {
		if err := c.ComputeForceAndMoment(snap); err != nil {
			return r3.Vector{}, r3.Vector{}, errors.Wrapf(err, "%s", c.Role())
		}
	}
	for _, c := range s.items {
		force = force.Add(c.Force())
		moment = moment.Add(c.Moment())
	}
	return force, moment, nil
}

func (s *ContributorSet) update(dt float64) error {
	for _, c := range s.items {
		if err := c.Update(dt); err != nil {
			return errors.Wrapf(err, "%s update", c.Role())
		}
	}
	return nil
}

func (s *ContributorSet) initialize() error {
	for _, c := range s.items {
		if err := c.Initialize(); err != nil {
			return errors.Wrapf(err, "%s initialize", c.Role())
		}
	}
	return nil
}
