package geom

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
)

func TestSkewMatchesCross(t *testing.T) {
	a := r3.Vector{X: 1, Y: -2, Z: 3}
	b := r3.Vector{X: 0.5, Y: 4, Z: -1}

	got := Skew(a).MulVec(b)
	want := a.Cross(b)
	if !VecApproxEqual(got, want, 1e-12) {
		t.Errorf("Skew(a)·b = %v, want %v", got, want)
	}
}

func TestPointMassInertia(t *testing.T) {
	// a point on the x axis has no inertia about x and m·d² about y and z
	j := PointMassInertia(2.0, r3.Vector{X: 3})
	want := Matrix3{{0, 0, 0}, {0, 18, 0}, {0, 0, 18}}
	if !j.ApproxEqual(want, 1e-12) {
		t.Errorf("got %v, want %v", j, want)
	}

	j = PointMassInertia(1.5, r3.Vector{X: 1, Y: 2, Z: -1})
	if !j.IsSymmetric(1e-12) {
		t.Errorf("inertia not symmetric: %v", j)
	}
	if math.Abs(j[0][1]+3) > 1e-12 || math.Abs(j[0][2]-1.5) > 1e-12 {
		t.Errorf("unexpected products of inertia: %v", j)
	}
}

func TestMatrixOps(t *testing.T) {
	m := NewMatrix3([9]float64{1, 2, 3, 4, 5, 6, 7, 8, 9})
	if m.Transpose()[0][2] != 7 {
		t.Errorf("transpose failed: %v", m.Transpose())
	}
	if !m.Sub(m).ApproxEqual(Matrix3{}, 0) {
		t.Errorf("m - m should be zero")
	}
	v := Identity3().Scale(2).MulVec(r3.Vector{X: 1, Y: 2, Z: 3})
	if v != (r3.Vector{X: 2, Y: 4, Z: 6}) {
		t.Errorf("scaled identity product = %v", v)
	}
	if m.Dense().At(2, 1) != 8 {
		t.Errorf("dense copy mismatch")
	}
	m[1][1] = math.NaN()
	if m.IsFinite() {
		t.Errorf("NaN matrix reported finite")
	}
}

func TestEulerRoundTrip(t *testing.T) {
	tests := []struct{ roll, pitch, yaw float64 }{
		{0, 0, 0},
		{0.1, -0.2, 0.3},
		{-1.0, 0.5, 5.0},
		{0.0, 0.0, math.Pi},
	}

	for _, tt := range tests {
		q := QuatFromEuler(tt.roll, tt.pitch, tt.yaw)
		r, p, y := QuatToEuler(q)
		if math.Abs(r-tt.roll) > 1e-9 || math.Abs(p-tt.pitch) > 1e-9 || math.Abs(y-tt.yaw) > 1e-9 {
			t.Errorf("round trip (%v, %v, %v) -> (%v, %v, %v)", tt.roll, tt.pitch, tt.yaw, r, p, y)
		}
	}
}

func TestRotate(t *testing.T) {
	// yaw 90°: body x points east
	q := QuatFromEuler(0, 0, math.Pi/2)
	got := Rotate(q, r3.Vector{X: 1})
	if !VecApproxEqual(got, r3.Vector{Y: 1}, 1e-12) {
		t.Errorf("Rotate = %v, want east", got)
	}
	back := RotateInverse(q, got)
	if !VecApproxEqual(back, r3.Vector{X: 1}, 1e-12) {
		t.Errorf("RotateInverse = %v", back)
	}

	// pitch up 90°: body x points up, i.e. -z in NED
	q = QuatFromEuler(0, math.Pi/2, 0)
	got = Rotate(q, r3.Vector{X: 1})
	if !VecApproxEqual(got, r3.Vector{Z: -1}, 1e-12) {
		t.Errorf("Rotate = %v, want up", got)
	}
}

func TestQuatDerivativeIntegratesYaw(t *testing.T) {
	q := QuatIdentity()
	omega := r3.Vector{Z: 0.5}
	dt := 0.001
	for i := 0; i < 1000; i++ {
		dq := QuatDerivative(q, omega)
		q.Real += dq.Real * dt
		q.Imag += dq.Imag * dt
		q.Jmag += dq.Jmag * dt
		q.Kmag += dq.Kmag * dt
		q = QuatNormalize(q)
	}
	_, _, yaw := QuatToEuler(q)
	if math.Abs(yaw-0.5) > 1e-3 {
		t.Errorf("expected yaw 0.5 after 1 s at 0.5 rad/s, got %v", yaw)
	}
}
