package integrators

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
)

type oscillator struct{}

func (oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (oscillator) StateDim() int { return 2 }

func TestRK4Accuracy(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(oscillator{}, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestEulerFirstOrder(t *testing.T) {
	integ := NewEuler()

	x := dynamo.State{1.0, 0.0}
	x = integ.Step(oscillator{}, x, 0, 0.1)

	if x[0] != 1.0 || math.Abs(x[1]+0.1) > 1e-15 {
		t.Errorf("unexpected euler step result %v", x)
	}
}

func TestIntegratorsDoNotMutateInput(t *testing.T) {
	for _, integ := range []dynamo.Integrator{NewEuler(), NewRK4()} {
		x := dynamo.State{1.0, 0.5}
		_ = integ.Step(oscillator{}, x, 0, 0.01)
		if x[0] != 1.0 || x[1] != 0.5 {
			t.Errorf("%s mutated its input: %v", integ.Name(), x)
		}
	}
}

func TestIntegratorsDeterministic(t *testing.T) {
	run := func(integ dynamo.Integrator) dynamo.State {
		x := dynamo.State{0.3, -0.2}
		for i := 0; i < 500; i++ {
			x = integ.Step(oscillator{}, x, float64(i)*0.01, 0.01)
		}
		return x
	}

	for _, mk := range []func() dynamo.Integrator{
		func() dynamo.Integrator { return NewEuler() },
		func() dynamo.Integrator { return NewRK4() },
	} {
		a, b := run(mk()), run(mk())
		if a[0] != b[0] || a[1] != b[1] {
			t.Errorf("non-deterministic result: %v vs %v", a, b)
		}
	}
}

func TestRK4CoordinatedTurn(t *testing.T) {
	integ := NewRK4()

	x := dynamo.State{0, 0, 0, 1, 0, 0, 0, 20, 0, 0, 0, 0, 0.3}
	for i := 0; i < 100; i++ {
		x = integ.Step(spinner{}, x, float64(i)*0.01, 0.01)
	}

	q := quat.Number{Real: x[3], Imag: x[4], Jmag: x[5], Kmag: x[6]}
	if n := quat.Abs(q); math.Abs(n-1) > 1e-9 {
		t.Errorf("quaternion norm drifted to %.12f", n)
	}
	if _, _, yaw := geom.QuatToEuler(q); math.Abs(yaw-0.3) > 1e-8 {
		t.Errorf("yaw = %.10f, want 0.3", yaw)
	}

	radius := 20 / 0.3
	north, east := radius*math.Sin(0.3), radius*(1-math.Cos(0.3))
	if math.Abs(x[0]-north) > 1e-6 || math.Abs(x[1]-east) > 1e-6 {
		t.Errorf("position = (%.8f, %.8f), want (%.8f, %.8f)", x[0], x[1], north, east)
	}
}
