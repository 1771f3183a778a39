package aircraft

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Aerodynamics is a lumped airframe model: quadratic drag on the relative
// wind acting at an aerodynamic center plus linear rotational damping.
type Aerodynamics struct {
	dragArea   r3.Vector // [m^2] Cd·A per BAS axis
	center     r3.Vector // [m] BAS
	damping    r3.Vector // [N·m·s/rad] per BAS axis
	configured bool

	force  r3.Vector
	moment r3.Vector
}

func NewAerodynamics() *Aerodynamics {
	return &Aerodynamics{}
}

func (a *Aerodynamics) Role() Role { return RoleAerodynamics }

func (a *Aerodynamics) ReadData(n *config.Node) error {
	var err error
	if a.dragArea, err = n.Vector3("drag_area"); err != nil {
		return err
	}
	if a.center, err = n.Vector3Or("center", r3.Vector{}); err != nil {
		return err
	}
	if a.damping, err = n.Vector3Or("damping", r3.Vector{}); err != nil {
		return err
	}
	if a.dragArea.X < 0 || a.dragArea.Y < 0 || a.dragArea.Z < 0 {
		return errors.Wrapf(config.ErrInvalidValue, "%s/drag_area must not be negative", n.Path())
	}
	if a.damping.X < 0 || a.damping.Y < 0 || a.damping.Z < 0 {
		return errors.Wrapf(config.ErrInvalidValue, "%s/damping must not be negative", n.Path())
	}
	a.configured = true
	return nil
}

func (a *Aerodynamics) Initialize() error {
	if !a.configured {
		return errors.Wrap(dynamo.ErrNotInitialized, "aerodynamics has no data")
	}
	a.force, a.moment = r3.Vector{}, r3.Vector{}
	return nil
}

func (a *Aerodynamics) ComputeForceAndMoment(s *Snapshot) error {
	va := s.AirVelocity()
	q := 0.5 * s.Env.Density * va.Norm()
	a.force = r3.Vector{
		X: -q * a.dragArea.X * va.X,
		Y: -q * a.dragArea.Y * va.Y,
		Z: -q * a.dragArea.Z * va.Z,
	}
	w := s.State.Omega
	damping := r3.Vector{X: -a.damping.X * w.X, Y: -a.damping.Y * w.Y, Z: -a.damping.Z * w.Z}
	a.moment = a.center.Cross(a.force).Add(damping)
	return nil
}

func (a *Aerodynamics) Update(float64) error { return nil }

func (a *Aerodynamics) Force() r3.Vector  { return a.force }
func (a *Aerodynamics) Moment() r3.Vector { return a.moment }
