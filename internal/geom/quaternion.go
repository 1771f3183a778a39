package geom

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"
)

func QuatIdentity() quat.Number {
	return quat.Number{Real: 1}
}

// QuatFromEuler builds the BAS to NED rotation for Z-Y-X angles in radians.
func QuatFromEuler(roll, pitch, yaw float64) quat.Number {
	sr, cr := math.Sincos(roll / 2)
	sp, cp := math.Sincos(pitch / 2)
	sy, cy := math.Sincos(yaw / 2)

	return quat.Number{
		Real: cr*cp*cy + sr*sp*sy,
		Imag: sr*cp*cy - cr*sp*sy,
		Jmag: cr*sp*cy + sr*cp*sy,
		Kmag: cr*cp*sy - sr*sp*cy,
	}
}

// QuatToEuler returns roll, pitch and yaw in radians. Yaw is in [0, 2π).
func QuatToEuler(q quat.Number) (roll, pitch, yaw float64) {
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	roll = math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y))

	sinp := 2 * (w*y - z*x)
	sinp = math.Max(-1, math.Min(1, sinp))
	pitch = math.Asin(sinp)

	yaw = math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))
	if yaw < 0 {
		yaw += 2 * math.Pi
	}
	return roll, pitch, yaw
}

// Rotate maps a BAS vector into NED.
func Rotate(q quat.Number, v r3.Vector) r3.Vector {
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return r3.Vector{X: p.Imag, Y: p.Jmag, Z: p.Kmag}
}

// RotateInverse maps a NED vector into BAS.
func RotateInverse(q quat.Number, v r3.Vector) r3.Vector {
	return Rotate(quat.Conj(q), v)
}

// QuatDerivative is the attitude kinematics q̇ = ½·q⊗(0, ω) with ω in BAS.
func QuatDerivative(q quat.Number, omega r3.Vector) quat.Number {
	return quat.Scale(0.5, quat.Mul(q, quat.Number{Imag: omega.X, Jmag: omega.Y, Kmag: omega.Z}))
}

// QuatNormalize returns q scaled to unit norm, or identity for a zero q.
func QuatNormalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 || math.IsNaN(n) {
		return QuatIdentity()
	}
	return quat.Scale(1/n, q)
}
