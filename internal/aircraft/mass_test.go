package aircraft

import (
	"errors"
	"math"
	"testing"

	"github.com/golang/geo/r3"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
	"github.com/san-kum/fdmsim/internal/input"
)

func TestMass_ClampInvariant(t *testing.T) {
	tests := []struct {
		name        string
		fuel, pilot float64
		wantFuel    float64
		wantPilot   float64
	}{
		{"empty", 0, 0, 0, 0},
		{"nominal", 60, 80, 60, 80},
		{"negative", -25, -1, 0, 0},
		{"above max", 150, 500, 100, 120},
		{"at max", 100, 120, 100, 120},
		{"not a number", math.NaN(), 70, 0, 70},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := input.NewRegistry()
			m := newTestMass(t, testAirframe, reg)
			reg.Set(input.MassChannel("fuel"), tt.fuel)
			reg.Set(input.MassChannel("pilot"), tt.pilot)
			if err := m.Update(0.01); err != nil {
				t.Fatalf("update: %v", err)
			}

			want := m.EmptyMass() + tt.wantFuel + tt.wantPilot
			if math.Abs(m.Mass()-want) > 1e-12 {
				t.Errorf("expected total mass %v, got %v", want, m.Mass())
			}
			if m.Mass() < m.EmptyMass() {
				t.Errorf("total mass %v below empty mass %v", m.Mass(), m.EmptyMass())
			}
			fuel, _ := m.VariableMassByName("fuel")
			if fuel.Mass != tt.wantFuel {
				t.Errorf("expected fuel %v, got %v", tt.wantFuel, fuel.Mass)
			}
		})
	}
}

func TestMass_CenterOfMassShift(t *testing.T) {
	reg := input.NewRegistry()
	m := newTestMass(t, testAirframe, reg)
	fuel, err := m.VariableMassByName("fuel")
	if err != nil {
		t.Fatal(err)
	}

	prev := math.Inf(1)
	for q := 0.0; q <= 100; q += 10 {
		reg.Set(input.MassChannel("fuel"), q)
		if err := m.Update(0.01); err != nil {
			t.Fatal(err)
		}

		// empty CM is the origin and the pilot seat is empty
		want := fuel.Position.Mul(q / (m.EmptyMass() + q))
		if !geom.VecApproxEqual(m.CenterOfMass(), want, 1e-12) {
			t.Errorf("fuel %v: expected CM %v, got %v", q, want, m.CenterOfMass())
		}

		d := m.CenterOfMass().Sub(fuel.Position).Norm()
		if d >= prev {
			t.Errorf("fuel %v: CM did not move toward the tank (%v >= %v)", q, d, prev)
		}
		prev = d
	}
}

func TestMass_ParallelAxis(t *testing.T) {
	const doc = `
mass:
  empty_mass: 2
  center_of_mass: [0, 0, 0]
  inertia_tensor: [0, 0, 0, 0, 0, 0, 0, 0, 0]
  variable_mass:
    - name: payload
      mass_max: 10
      coordinates: [1, 2, -0.5]
`
	reg := input.NewRegistry()
	reg.Set(input.MassChannel("payload"), 3)
	m := newTestMass(t, doc, reg)

	r := r3.Vector{X: 1, Y: 2, Z: -0.5}
	cm := r.Mul(3.0 / 5.0)
	if !geom.VecApproxEqual(m.CenterOfMass(), cm, 1e-12) {
		t.Fatalf("expected CM %v, got %v", cm, m.CenterOfMass())
	}

	want := geom.PointMassInertia(2, cm.Mul(-1)).Add(geom.PointMassInertia(3, r.Sub(cm)))
	if !m.InertiaTensor().ApproxEqual(want, 1e-12) {
		t.Errorf("inertia about CM:\nexpected %v\ngot      %v", want, m.InertiaTensor())
	}

	// the empty mass sits on the origin, so only the payload contributes
	if !m.InertiaTensorBAS().ApproxEqual(geom.PointMassInertia(3, r), 1e-12) {
		t.Errorf("inertia about origin: got %v", m.InertiaTensorBAS())
	}
	if !geom.VecApproxEqual(m.FirstMomentOfMass(), r.Mul(3), 1e-12) {
		t.Errorf("unexpected first moment %v", m.FirstMomentOfMass())
	}
}

func TestMass_InertiaMatrix(t *testing.T) {
	reg := input.NewRegistry()
	reg.Set(input.MassChannel("fuel"), 80)
	m := newTestMass(t, testAirframe, reg)

	a := m.InertiaMatrix()
	S := m.FirstMomentOfMass()
	I := m.InertiaTensorBAS()

	for i := 0; i < 3; i++ {
		if a.At(i, i) != m.Mass() {
			t.Errorf("diagonal %d: expected %v, got %v", i, m.Mass(), a.At(i, i))
		}
		for j := 0; j < 3; j++ {
			if a.At(3+i, 3+j) != I[i][j] {
				t.Errorf("inertia block (%d,%d) mismatch", i, j)
			}
		}
	}
	// lower-left block is the cross-product matrix of S
	if a.At(3, 1) != -S.Z || a.At(4, 0) != S.Z || a.At(3, 2) != S.Y {
		t.Errorf("unexpected coupling block %v", a)
	}
}

func TestMass_Gravity(t *testing.T) {
	reg := input.NewRegistry()
	reg.Set(input.MassChannel("fuel"), 100)
	m := newTestMass(t, testAirframe, reg)

	snap := &Snapshot{
		State: RigidBodyState{Attitude: geom.QuatIdentity()},
		Env:   testSample(),
	}
	if err := m.ComputeForceAndMoment(snap); err != nil {
		t.Fatal(err)
	}

	wantF := r3.Vector{Z: m.Mass() * 9.80665}
	if !geom.VecApproxEqual(m.Force(), wantF, 1e-9) {
		t.Errorf("expected force %v, got %v", wantF, m.Force())
	}
	wantM := m.CenterOfMass().Cross(wantF)
	if !geom.VecApproxEqual(m.Moment(), wantM, 1e-9) {
		t.Errorf("expected moment %v, got %v", wantM, m.Moment())
	}

	// pitched 90° nose up, gravity acts along -x in BAS
	snap.State.Attitude = geom.QuatFromEuler(0, math.Pi/2, 0)
	if err := m.ComputeForceAndMoment(snap); err != nil {
		t.Fatal(err)
	}
	if !geom.VecApproxEqual(m.Force(), r3.Vector{X: -m.Mass() * 9.80665}, 1e-9) {
		t.Errorf("unexpected pitched force %v", m.Force())
	}
}

func TestMass_VariableMassByName(t *testing.T) {
	m := newTestMass(t, testAirframe, nil)

	vm, err := m.VariableMassByName("pilot")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if vm.MassMax != 120 {
		t.Errorf("expected mass_max 120, got %v", vm.MassMax)
	}

	if _, err := m.VariableMassByName("cargo"); !errors.Is(err, dynamo.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestMass_ReadDataErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			"zero empty mass",
			"mass: {empty_mass: 0, center_of_mass: [0,0,0], inertia_tensor: [1,0,0,0,1,0,0,0,1]}",
			config.ErrInvalidValue,
		},
		{
			"missing inertia",
			"mass: {empty_mass: 10, center_of_mass: [0,0,0]}",
			config.ErrMissingField,
		},
		{
			"asymmetric inertia",
			"mass: {empty_mass: 10, center_of_mass: [0,0,0], inertia_tensor: [1,2,0,0,1,0,0,0,1]}",
			config.ErrInvalidValue,
		},
		{
			"negative mass_max",
			`mass: {empty_mass: 10, center_of_mass: [0,0,0], inertia_tensor: [1,0,0,0,1,0,0,0,1],
  variable_mass: [{name: fuel, mass_max: -1, coordinates: [0,0,0]}]}`,
			config.ErrInvalidValue,
		},
		{
			"duplicate name",
			`mass: {empty_mass: 10, center_of_mass: [0,0,0], inertia_tensor: [1,0,0,0,1,0,0,0,1],
  variable_mass: [{name: fuel, mass_max: 1, coordinates: [0,0,0]}, {name: fuel, mass_max: 2, coordinates: [1,0,0]}]}`,
			config.ErrInvalidValue,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := testTree(t, tt.doc).Child("mass")
			if err != nil {
				t.Fatal(err)
			}
			err = NewMass(nil).ReadData(n)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, dynamo.ErrConfiguration) {
				t.Errorf("expected a configuration error, got %v", err)
			}
		})
	}
}

func TestMass_NotConfigured(t *testing.T) {
	if err := NewMass(nil).Initialize(); !errors.Is(err, dynamo.ErrNotInitialized) {
		t.Errorf("expected ErrNotInitialized, got %v", err)
	}
}
