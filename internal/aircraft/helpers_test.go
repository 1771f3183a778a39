package aircraft

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/input"
)

const testAirframe = `
mass:
  empty_mass: 1000
  center_of_mass: [0, 0, 0]
  inertia_tensor: [1000, 0, 0, 0, 2000, 0, 0, 0, 1500]
  variable_mass:
    - name: fuel
      mass_max: 100
      coordinates: [0.5, 0, 0.2]
    - name: pilot
      mass_max: 120
      coordinates: [1.2, 0.4, 0.1]
aerodynamics:
  drag_area: [1.0, 2.5, 4.0]
  center: [0.2, 0, 0]
  damping: [800, 1200, 600]
propulsion:
  kind: test
landing_gear:
  stiffness: 40000
  damping: 4000
  friction: 0.5
  contacts:
    - {name: left_front, coordinates: [1, -1, 1]}
    - {name: right_front, coordinates: [1, 1, 1]}
    - {name: left_rear, coordinates: [-1, -1, 1]}
    - {name: right_rear, coordinates: [-1, 1, 1]}
`

// testingT is the part of testing.TB the helpers need; GinkgoT satisfies it
// as well.
type testingT interface {
	Helper()
	Fatalf(format string, args ...any)
}

func testTree(t testingT, doc string) *config.Node {
	t.Helper()
	root, err := config.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func newTestMass(t testingT, doc string, reg *input.Registry) *Mass {
	t.Helper()
	n, err := testTree(t, doc).Child("mass")
	if err != nil {
		t.Fatalf("mass node: %v", err)
	}
	if reg == nil {
		reg = input.NewRegistry()
	}
	m := NewMass(reg)
	if err := m.ReadData(n); err != nil {
		t.Fatalf("read mass: %v", err)
	}
	if err := m.Initialize(); err != nil {
		t.Fatalf("initialize mass: %v", err)
	}
	return m
}

// newTestAircraft builds and configures an aircraft from contributors
// created in the given role order.
func newTestAircraft(t testingT, reg *input.Registry, roles ...Role) *Aircraft {
	t.Helper()
	var cs []Contributor
	for _, r := range roles {
		switch r {
		case RoleMass:
			cs = append(cs, NewMass(reg))
		case RoleAerodynamics:
			cs = append(cs, NewAerodynamics())
		case RoleLandingGear:
			cs = append(cs, NewLandingGear())
		default:
			t.Fatalf("unsupported role %s", r)
		}
	}
	set, err := NewContributorSet(cs...)
	if err != nil {
		t.Fatalf("contributor set: %v", err)
	}
	a, err := New("test", set)
	if err != nil {
		t.Fatalf("new aircraft: %v", err)
	}
	if err := a.ReadData(testTree(t, testAirframe)); err != nil {
		t.Fatalf("read data: %v", err)
	}
	return a
}

// faultyContributor reports a non-finite force once armed.
type faultyContributor struct {
	armed bool
	force r3.Vector
}

func (f *faultyContributor) Role() Role                   { return RolePropulsion }
func (f *faultyContributor) ReadData(*config.Node) error  { return nil }
func (f *faultyContributor) Initialize() error            { f.armed = false; return nil }
func (f *faultyContributor) Update(float64) error         { return nil }
func (f *faultyContributor) Force() r3.Vector             { return f.force }
func (f *faultyContributor) Moment() r3.Vector            { return r3.Vector{} }
func (f *faultyContributor) ComputeForceAndMoment(*Snapshot) error {
	f.force = r3.Vector{}
	if f.armed {
		f.force.X = math.NaN()
	}
	return nil
}

// spyContributor records the snapshot it was handed.
type spyContributor struct {
	seen []RigidBodyState
}

func (s *spyContributor) Role() Role                  { return RolePropulsion }
func (s *spyContributor) ReadData(*config.Node) error { return nil }
func (s *spyContributor) Initialize() error           { s.seen = nil; return nil }
func (s *spyContributor) Update(float64) error        { return nil }
func (s *spyContributor) Force() r3.Vector            { return r3.Vector{} }
func (s *spyContributor) Moment() r3.Vector           { return r3.Vector{} }
func (s *spyContributor) ComputeForceAndMoment(snap *Snapshot) error {
	s.seen = append(s.seen, snap.State)
	return nil
}
