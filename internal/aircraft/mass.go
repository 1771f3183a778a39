package aircraft

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
	"github.com/san-kum/fdmsim/internal/input"
)

// VariableMass is a named point mass driven by an input channel, such as a
// fuel tank or a seat.
type VariableMass struct {
	Name     string
	Channel  input.Handle
	Mass     float64   // [kg] current, clamped to [0, MassMax]
	MassMax  float64   // [kg]
	Position r3.Vector // [m] BAS
}

// MassProperties describes the aircraft mass distribution. Tensors are in
// BAS axes.
type MassProperties struct {
	EmptyMass    float64
	TotalMass    float64
	EmptyCM      r3.Vector
	TotalCM      r3.Vector
	FirstMoment  r3.Vector    // total, about the BAS origin
	EmptyInertia geom.Matrix3 // about the empty CM
	Inertia      geom.Matrix3 // about the total CM
	InertiaBAS   geom.Matrix3 // about the BAS origin
}

// Mass aggregates the empty airframe with variable masses and contributes
// gravity.
type Mass struct {
	inputs input.Reader

	emptyMass    float64
	emptyCM      r3.Vector
	emptyInertia geom.Matrix3
	configured   bool

	masses []*VariableMass
	props  MassProperties

	force  r3.Vector
	moment r3.Vector
}

func NewMass(inputs input.Reader) *Mass {
	if inputs == nil {
		inputs = input.NewRegistry()
	}
	return &Mass{inputs: inputs}
}

func (m *Mass) Role() Role { return RoleMass }

// ReadData reads empty_mass, inertia_tensor, center_of_mass and an optional
// variable_mass list of {name, mass_max, coordinates}.
func (m *Mass) ReadData(n *config.Node) error {
	mass, err := n.PositiveFloat("empty_mass")
	if err != nil {
		return err
	}
	it, err := n.Matrix3("inertia_tensor")
	if err != nil {
		return err
	}
	cm, err := n.Vector3("center_of_mass")
	if err != nil {
		return err
	}
	if err := m.SetEmpty(mass, cm, it); err != nil {
		return errors.Wrap(err, n.Path())
	}

	entries, err := n.Children("variable_mass")
	if err != nil {
		return err
	}
	for _, e := range entries {
		name, err := e.String("name")
		if err != nil {
			return err
		}
		massMax, err := e.Float("mass_max")
		if err != nil {
			return err
		}
		pos, err := e.Vector3("coordinates")
		if err != nil {
			return err
		}
		if err := m.AddVariableMass(name, massMax, pos); err != nil {
			return errors.Wrap(err, e.Path())
		}
	}
	return nil
}

// SetEmpty sets the empty airframe properties. The inertia tensor is about
// the empty center of mass.
func (m *Mass) SetEmpty(mass float64, cm r3.Vector, inertia geom.Matrix3) error {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return errors.Wrapf(config.ErrInvalidValue, "empty mass must be positive, got %v", mass)
	}
	if !geom.VecIsFinite(cm) {
		return errors.Wrap(config.ErrInvalidValue, "center of mass must be finite")
	}
	if !inertia.IsFinite() || !inertia.IsSymmetric(1e-9) {
		return errors.Wrap(config.ErrInvalidValue, "inertia tensor must be finite and symmetric")
	}
	for i := 0; i < 3; i++ {
		if inertia[i][i] < 0 {
			return errors.Wrapf(config.ErrInvalidValue, "inertia tensor diagonal %d is negative", i)
		}
	}
	m.emptyMass = mass
	m.emptyCM = cm
	m.emptyInertia = inertia
	m.configured = true
	return nil
}

// AddVariableMass registers a point mass bound to the input/mass/<name>
// channel.
func (m *Mass) AddVariableMass(name string, massMax float64, pos r3.Vector) error {
	if name == "" {
		return errors.Wrap(config.ErrMissingField, "variable mass name")
	}
	if !(massMax >= 0) || math.IsInf(massMax, 0) {
		return errors.Wrapf(config.ErrInvalidValue, "variable mass %q: mass_max must not be negative, got %v", name, massMax)
	}
	if !geom.VecIsFinite(pos) {
		return errors.Wrapf(config.ErrInvalidValue, "variable mass %q: coordinates must be finite", name)
	}
	if _, err := m.VariableMassByName(name); err == nil {
		return errors.Wrapf(config.ErrInvalidValue, "variable mass %q defined twice", name)
	}
	m.masses = append(m.masses, &VariableMass{
		Name:     name,
		Channel:  m.inputs.Resolve(input.MassChannel(name)),
		MassMax:  massMax,
		Position: pos,
	})
	return nil
}

// VariableMassByName returns the entry owned by m. Callers may adjust its
// limits or position during configuration.
func (m *Mass) VariableMassByName(name string) (*VariableMass, error) {
	for _, vm := range m.masses {
		if vm.Name == name {
			return vm, nil
		}
	}
	return nil, errors.Wrapf(dynamo.ErrNotFound, "variable mass %q", name)
}

// VariableMasses returns the entries in configuration order.
func (m *Mass) VariableMasses() []VariableMass {
	out := make([]VariableMass, len(m.masses))
	for i, vm := range m.masses {
		out[i] = *vm
	}
	return out
}

func (m *Mass) Initialize() error {
	if !m.configured {
		return errors.Wrap(dynamo.ErrNotInitialized, "mass has no data")
	}
	return m.Update(0)
}

// Update reads the variable mass inputs and recomputes the mass properties.
func (m *Mass) Update(float64) error {
	if !m.configured {
		return errors.Wrap(dynamo.ErrNotInitialized, "mass has no data")
	}
	for _, vm := range m.masses {
		v := m.inputs.Value(vm.Channel)
		if math.IsNaN(v) {
			v = 0
		}
		vm.Mass = math.Max(0, math.Min(v, vm.MassMax))
	}
	return m.recompute()
}

func (m *Mass) recompute() error {
	total := m.emptyMass
	first := m.emptyCM.Mul(m.emptyMass)
	for _, vm := range m.masses {
		total += vm.Mass
		first = first.Add(vm.Position.Mul(vm.Mass))
	}
	if !(total > 0) {
		return errors.Wrapf(dynamo.ErrDivisionByZero, "total mass %v", total)
	}
	cm := first.Mul(1 / total)

	inertia := m.emptyInertia.Add(geom.PointMassInertia(m.emptyMass, m.emptyCM.Sub(cm)))
	for _, vm := range m.masses {
		inertia = inertia.Add(geom.PointMassInertia(vm.Mass, vm.Position.Sub(cm)))
	}

	m.props = MassProperties{
		EmptyMass:    m.emptyMass,
		TotalMass:    total,
		EmptyCM:      m.emptyCM,
		TotalCM:      cm,
		FirstMoment:  first,
		EmptyInertia: m.emptyInertia,
		Inertia:      inertia,
		InertiaBAS:   inertia.Add(geom.PointMassInertia(total, cm)),
	}
	return nil
}

// ComputeForceAndMoment sets the gravity force and its moment about the BAS
// origin.
func (m *Mass) ComputeForceAndMoment(s *Snapshot) error {
	m.force = s.GravityBAS().Mul(m.props.TotalMass)
	m.moment = m.props.TotalCM.Cross(m.force)
	return nil
}

func (m *Mass) Force() r3.Vector  { return m.force }
func (m *Mass) Moment() r3.Vector { return m.moment }

func (m *Mass) Mass() float64                { return m.props.TotalMass }
func (m *Mass) EmptyMass() float64           { return m.emptyMass }
func (m *Mass) CenterOfMass() r3.Vector      { return m.props.TotalCM }
func (m *Mass) FirstMomentOfMass() r3.Vector { return m.props.FirstMoment }

// InertiaTensor is about the total center of mass.
func (m *Mass) InertiaTensor() geom.Matrix3 { return m.props.Inertia }

// InertiaTensorBAS is about the BAS origin.
func (m *Mass) InertiaTensorBAS() geom.Matrix3 { return m.props.InertiaBAS }

func (m *Mass) Properties() MassProperties { return m.props }

// InertiaMatrix returns the 6x6 generalized mass matrix about the BAS origin,
//
//	| m·E   −S̃  |
//	| S̃     I_O |
//
// where S is the first mass moment. It is symmetric since S̃ is skew.
func (m *Mass) InertiaMatrix() *mat.SymDense {
	return inertiaMatrix(m.props)
}

func inertiaMatrix(p MassProperties) *mat.SymDense {
	a := mat.NewSymDense(6, nil)
	s := geom.Skew(p.FirstMoment)
	for i := 0; i < 3; i++ {
		a.SetSym(i, i, p.TotalMass)
		for j := 0; j < 3; j++ {
			if j >= i {
				a.SetSym(3+i, 3+j, p.InertiaBAS[i][j])
			}
			a.SetSym(3+i, j, s[i][j])
		}
	}
	return a
}
