package aircraft

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/geom"
	"github.com/san-kum/fdmsim/internal/input"
	"github.com/san-kum/fdmsim/internal/integrators"
	"github.com/san-kum/fdmsim/internal/logging"
)

func testSample() env.Sample {
	return env.Sample{Gravity: env.StandardGravity, Density: 1.225}
}

func TestAircraft_FreeFall(t *testing.T) {
	reg := input.NewRegistry()
	reg.Set(input.MassChannel("fuel"), 50)
	a := newTestAircraft(t, reg, RoleMass)
	if err := a.Initialize(InitialConditions{Altitude: 1000}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10; i++ {
		if err := a.Advance(0.1, 10); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	g := env.StandardGravity
	s := a.State()
	if math.Abs(a.Time()-1) > 1e-12 {
		t.Errorf("expected t=1, got %v", a.Time())
	}
	if math.Abs(s.Velocity.Z-g) > 1e-9 {
		t.Errorf("expected vz %v, got %v", g, s.Velocity.Z)
	}
	if math.Abs(s.Altitude()-(1000-0.5*g)) > 1e-9 {
		t.Errorf("expected altitude %v, got %v", 1000-0.5*g, s.Altitude())
	}
	// an offset CM must not induce rotation in a uniform field
	if s.Omega.Norm() > 1e-9 {
		t.Errorf("unexpected rotation %v", s.Omega)
	}
	if a.Steps() != 100 {
		t.Errorf("expected 100 substeps, got %d", a.Steps())
	}
}

func TestAircraft_GroundSupport(t *testing.T) {
	a := newTestAircraft(t, input.NewRegistry(), RoleMass, RoleLandingGear)
	if err := a.Initialize(InitialConditions{Altitude: 1}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 100; i++ {
		if err := a.Advance(0.1, 10); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	// four contacts share the weight
	want := 1 - 1000*env.StandardGravity/(4*40000)
	s := a.State()
	if math.Abs(s.Altitude()-want) > 1e-3 {
		t.Errorf("expected rest altitude %v, got %v", want, s.Altitude())
	}
	if math.Abs(s.Velocity.Z) > 1e-3 {
		t.Errorf("expected to be at rest, vz=%v", s.Velocity.Z)
	}
	gc, _ := a.Contributor(RoleLandingGear)
	if !gc.(*LandingGear).OnGround() {
		t.Error("expected gear on ground")
	}
}

func TestAircraft_OrderIndependence(t *testing.T) {
	orders := [][]Role{
		{RoleMass, RoleAerodynamics, RoleLandingGear},
		{RoleLandingGear, RoleAerodynamics, RoleMass},
		{RoleAerodynamics, RoleMass, RoleLandingGear},
	}
	ic := InitialConditions{Altitude: 0.8, Airspeed: 15, Heading: 30, Pitch: 4, Roll: -6}

	var refF, refM r3.Vector
	for i, order := range orders {
		reg := input.NewRegistry()
		reg.Set(input.MassChannel("fuel"), 70)
		a := newTestAircraft(t, reg, order...)
		a.env.FromSpeedAndDir(8, 270)
		if err := a.Initialize(ic); err != nil {
			t.Fatal(err)
		}
		if err := a.ComputeForceAndMoment(); err != nil {
			t.Fatal(err)
		}
		if i == 0 {
			refF, refM = a.Force(), a.Moment()
			continue
		}
		if !geom.VecApproxEqual(a.Force(), refF, 1e-9) || !geom.VecApproxEqual(a.Moment(), refM, 1e-9) {
			t.Errorf("order %v: got %v/%v, expected %v/%v", order, a.Force(), a.Moment(), refF, refM)
		}
	}
}

func TestAircraft_SnapshotIsPreStep(t *testing.T) {
	spy := &spyContributor{}
	set, err := NewContributorSet(NewMass(nil), spy)
	if err != nil {
		t.Fatal(err)
	}
	a, err := New("spy", set)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.ReadData(testTree(t, testAirframe)); err != nil {
		t.Fatal(err)
	}
	if err := a.Initialize(InitialConditions{Altitude: 500}); err != nil {
		t.Fatal(err)
	}

	var pre []RigidBodyState
	for i := 0; i < 5; i++ {
		pre = append(pre, a.State())
		if err := a.Step(0.01); err != nil {
			t.Fatal(err)
		}
	}
	if len(spy.seen) != len(pre) {
		t.Fatalf("expected %d snapshots, got %d", len(pre), len(spy.seen))
	}
	for i := range pre {
		if spy.seen[i] != pre[i] {
			t.Errorf("step %d: contributor saw %v, pre-step state was %v", i, spy.seen[i], pre[i])
		}
	}
}

func TestAircraft_Invalidation(t *testing.T) {
	faulty := &faultyContributor{}
	set, err := NewContributorSet(NewMass(nil), faulty)
	if err != nil {
		t.Fatal(err)
	}
	logger, logs := logging.NewObservedTestLogger(t)
	a, err := New("faulty", set, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if err := a.ReadData(testTree(t, testAirframe)); err != nil {
		t.Fatal(err)
	}
	if err := a.Initialize(InitialConditions{Altitude: 100}); err != nil {
		t.Fatal(err)
	}
	if err := a.Step(0.01); err != nil {
		t.Fatalf("healthy step failed: %v", err)
	}

	faulty.armed = true
	err = a.Step(0.01)
	if !errors.Is(err, dynamo.ErrNumericalDegeneracy) {
		t.Fatalf("expected numerical degeneracy, got %v", err)
	}
	var simErr *dynamo.SimulationError
	if !errors.As(err, &simErr) || simErr.Step != 1 {
		t.Errorf("expected SimulationError at step 1, got %v", err)
	}
	if a.Valid() {
		t.Error("aircraft should be invalid")
	}
	if logs.FilterMessage("invalidated").Len() != 1 {
		t.Error("expected an invalidated log entry")
	}

	faulty.armed = false
	if err := a.Step(0.01); !errors.Is(err, dynamo.ErrInvalidated) {
		t.Errorf("expected ErrInvalidated, got %v", err)
	}

	if err := a.Reset(); err != nil {
		t.Fatal(err)
	}
	if !a.Valid() || a.Time() != 0 {
		t.Error("reset should restore a valid instance at t=0")
	}
	if err := a.Step(0.01); err != nil {
		t.Errorf("step after reset: %v", err)
	}
}

func TestAircraft_SingularInertia(t *testing.T) {
	const pointMass = `
mass:
  empty_mass: 10
  center_of_mass: [0, 0, 0]
  inertia_tensor: [0, 0, 0, 0, 0, 0, 0, 0, 0]
`
	set, err := NewContributorSet(NewMass(nil))
	if err != nil {
		t.Fatal(err)
	}
	a, err := New("point", set)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.ReadData(testTree(t, pointMass)); err != nil {
		t.Fatal(err)
	}
	if err := a.Initialize(InitialConditions{Altitude: 100}); err != nil {
		t.Fatal(err)
	}

	err = a.Step(0.01)
	if !errors.Is(err, dynamo.ErrSingularInertia) {
		t.Fatalf("expected ErrSingularInertia, got %v", err)
	}
	if !errors.Is(err, dynamo.ErrNumericalDegeneracy) {
		t.Errorf("singular inertia should be a numerical degeneracy, got %v", err)
	}
	if a.Valid() {
		t.Error("aircraft should be invalid after a singular mass matrix")
	}
	if err := a.Step(0.01); !errors.Is(err, dynamo.ErrInvalidated) {
		t.Errorf("expected ErrInvalidated, got %v", err)
	}
}

func TestAircraft_Lifecycle(t *testing.T) {
	set, _ := NewContributorSet(NewMass(nil))
	a, err := New("bare", set)
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Step(0.01); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
	if err := a.Initialize(InitialConditions{}); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized before ReadData, got %v", err)
	}

	a = newTestAircraft(t, input.NewRegistry(), RoleMass)
	if err := a.Initialize(InitialConditions{Altitude: 10}); err != nil {
		t.Fatal(err)
	}
	if err := a.Advance(0.1, 0); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for zero substeps, got %v", err)
	}
	if err := a.Step(-0.1); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for negative dt, got %v", err)
	}
	if !a.Valid() {
		t.Error("argument errors must not invalidate the instance")
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := New("x", nil); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for nil set, got %v", err)
	}

	set, _ := NewContributorSet(NewAerodynamics())
	if _, err := New("x", set); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration without mass, got %v", err)
	}

	if _, err := NewContributorSet(NewMass(nil), NewMass(nil)); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected ErrConfiguration for duplicate role, got %v", err)
	}
}

func TestAircraft_Determinism(t *testing.T) {
	run := func() RigidBodyState {
		reg := input.NewRegistry()
		reg.Set(input.MassChannel("fuel"), 40)
		a := newTestAircraft(t, reg, RoleMass, RoleAerodynamics)
		a.env.FromSpeedAndDir(5, 45)
		if err := a.Initialize(InitialConditions{Altitude: 300, Airspeed: 10, Roll: 5}); err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 30; i++ {
			reg.Set(input.MassChannel("fuel"), 40-float64(i))
			if err := a.Advance(0.1, 10); err != nil {
				t.Fatal(err)
			}
		}
		return a.State()
	}

	if a, b := run(), run(); a != b {
		t.Errorf("runs diverged:\n%v\n%v", a, b)
	}
}

func TestAircraft_EulerIntegrator(t *testing.T) {
	a := newTestAircraft(t, input.NewRegistry(), RoleMass)
	a.integrator = integrators.NewEuler()
	if err := a.Initialize(InitialConditions{Altitude: 100}); err != nil {
		t.Fatal(err)
	}
	if err := a.Advance(1, 100); err != nil {
		t.Fatal(err)
	}
	// explicit Euler lags the exact solution by g·dt·t/2
	want := 100 - 0.5*env.StandardGravity + 0.5*env.StandardGravity*0.01
	if math.Abs(a.State().Altitude()-want) > 1e-9 {
		t.Errorf("expected altitude %v, got %v", want, a.State().Altitude())
	}
}
