package aircraft

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
)

// slipSpeed regularizes Coulomb friction near zero sliding speed.
const slipSpeed = 0.1 // [m/s]

// Contact is a ground contact point such as a skid end.
type Contact struct {
	Name     string
	Position r3.Vector // [m] BAS
}

// LandingGear models flat ground at NED z = 0 with spring-damper contacts.
type LandingGear struct {
	contacts  []Contact
	stiffness float64 // [N/m]
	damping   float64 // [N·s/m]
	friction  float64

	onGround bool
	force    r3.Vector
	moment   r3.Vector
}

func NewLandingGear() *LandingGear {
	return &LandingGear{}
}

func (g *LandingGear) Role() Role { return RoleLandingGear }

func (g *LandingGear) ReadData(n *config.Node) error {
	var err error
	if g.stiffness, err = n.PositiveFloat("stiffness"); err != nil {
		return err
	}
	if g.damping, err = n.FloatOr("damping", 0); err != nil {
		return err
	}
	if g.friction, err = n.FloatOr("friction", 0); err != nil {
		return err
	}
	if g.damping < 0 || g.friction < 0 {
		return errors.Wrapf(config.ErrInvalidValue, "%s: damping and friction must not be negative", n.Path())
	}

	nodes, err := n.Children("contacts")
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return errors.Wrapf(config.ErrMissingField, "%s/contacts", n.Path())
	}
	g.contacts = g.contacts[:0]
	for _, c := range nodes {
		name, err := c.StringOr("name", "")
		if err != nil {
			return err
		}
		pos, err := c.Vector3("coordinates")
		if err != nil {
			return err
		}
		g.contacts = append(g.contacts, Contact{Name: name, Position: pos})
	}
	return nil
}

func (g *LandingGear) Initialize() error {
	if len(g.contacts) == 0 {
		return errors.Wrap(dynamo.ErrNotInitialized, "landing gear has no contacts")
	}
	g.onGround = false
	g.force, g.moment = r3.Vector{}, r3.Vector{}
	return nil
}

func (g *LandingGear) ComputeForceAndMoment(s *Snapshot) error {
	g.force, g.moment = r3.Vector{}, r3.Vector{}
	g.onGround = false

	q := s.State.Attitude
	for _, c := range g.contacts {
		p := s.State.Position.Add(geom.Rotate(q, c.Position))
		if p.Z <= 0 {
			continue
		}
		g.onGround = true

		vel := geom.Rotate(q, s.State.Velocity.Add(s.State.Omega.Cross(c.Position)))
		normal := math.Max(0, g.stiffness*p.Z+g.damping*vel.Z)

		f := r3.Vector{Z: -normal}
		if slide := math.Hypot(vel.X, vel.Y); slide > 0 {
			mu := g.friction * normal * math.Min(1, slide/slipSpeed) / slide
			f.X = -mu * vel.X
			f.Y = -mu * vel.Y
		}

		fb := geom.RotateInverse(q, f)
		g.force = g.force.Add(fb)
		g.moment = g.moment.Add(c.Position.Cross(fb))
	}
	return nil
}

func (g *LandingGear) Update(float64) error { return nil }

func (g *LandingGear) Force() r3.Vector  { return g.force }
func (g *LandingGear) Moment() r3.Vector { return g.moment }

// OnGround reports whether any contact touched the ground in the last
// computation.
func (g *LandingGear) OnGround() bool { return g.onGround }

func (g *LandingGear) Contacts() []Contact {
	out := make([]Contact, len(g.contacts))
	copy(out, g.contacts)
	return out
}
