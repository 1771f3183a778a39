package aircraft

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/geom"
)

// maxCondition bounds the mass matrix condition number accepted per substep.
const maxCondition = 1e12

// rigidBody is the 6-DOF equations of motion about the BAS origin, which
// need not coincide with the center of mass. Force, moment and mass
// properties are held constant over one substep.
//
//	m·v̇ − S×ω̇ = F − ω×p − ṁ·v − ω×Ṡ,                 p = m·v + ω×S
//	S×v̇ + I·ω̇ = M − ω×h − v×(ω×S) − İ·ω − Ṡ×v,       h = I·ω + S×v
type rigidBody struct {
	chol mat.Cholesky
	rhs  *mat.VecDense
	acc  *mat.VecDense

	mass        float64
	first       r3.Vector
	inertia     geom.Matrix3
	massRate    float64
	firstRate   r3.Vector
	inertiaRate geom.Matrix3
	force       r3.Vector
	moment      r3.Vector

	err error
}

func newRigidBody() *rigidBody {
	return &rigidBody{
		rhs: mat.NewVecDense(6, nil),
		acc: mat.NewVecDense(6, nil),
	}
}

// massRates are finite-difference rates of the mass properties over the
// previous substep.
type massRates struct {
	mass    float64
	first   r3.Vector
	inertia geom.Matrix3
}

func (b *rigidBody) prepare(p MassProperties, rates massRates, force, moment r3.Vector) error {
	if !(p.TotalMass > 0) {
		return errors.Wrapf(dynamo.ErrDivisionByZero, "total mass %v", p.TotalMass)
	}
	if ok := b.chol.Factorize(inertiaMatrix(p)); !ok {
		return errors.Wrap(dynamo.ErrSingularInertia, "mass matrix is not positive definite")
	}
	if c := b.chol.Cond(); math.IsNaN(c) || c > maxCondition {
		return errors.Wrapf(dynamo.ErrSingularInertia, "mass matrix condition %g", c)
	}
	b.mass = p.TotalMass
	b.first = p.FirstMoment
	b.inertia = p.InertiaBAS
	b.massRate = rates.mass
	b.firstRate = rates.first
	b.inertiaRate = rates.inertia
	b.force = force
	b.moment = moment
	b.err = nil
	return nil
}

func (b *rigidBody) StateDim() int { return StateDim }

func (b *rigidBody) Derive(x dynamo.State, t float64) dynamo.State {
	s := Unpack(x)
	v, w, S := s.Velocity, s.Omega, b.first

	p := v.Mul(b.mass).Add(w.Cross(S))
	h := b.inertia.MulVec(w).Add(S.Cross(v))

	f := b.force.Sub(w.Cross(p)).Sub(v.Mul(b.massRate)).Sub(w.Cross(b.firstRate))
	m := b.moment.Sub(w.Cross(h)).Sub(v.Cross(w.Cross(S))).Sub(b.inertiaRate.MulVec(w)).
		Sub(b.firstRate.Cross(v))

	b.rhs.SetVec(0, f.X)
	b.rhs.SetVec(1, f.Y)
	b.rhs.SetVec(2, f.Z)
	b.rhs.SetVec(3, m.X)
	b.rhs.SetVec(4, m.Y)
	b.rhs.SetVec(5, m.Z)
	if err := b.chol.SolveVecTo(b.acc, b.rhs); err != nil && b.err == nil {
		b.err = errors.Wrap(dynamo.ErrSingularInertia, err.Error())
	}

	posDot := geom.Rotate(geom.QuatNormalize(s.Attitude), v)
	qDot := geom.QuatDerivative(s.Attitude, w)

	return dynamo.State{
		posDot.X, posDot.Y, posDot.Z,
		qDot.Real, qDot.Imag, qDot.Jmag, qDot.Kmag,
		b.acc.AtVec(0), b.acc.AtVec(1), b.acc.AtVec(2),
		b.acc.AtVec(3), b.acc.AtVec(4), b.acc.AtVec(5),
	}
}
