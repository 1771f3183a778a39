package aircraft

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/quat"

	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/geom"
)

// StateDim is the length of a packed RigidBodyState.
const StateDim = 13

// RigidBodyState is the integrated state of the airframe.
type RigidBodyState struct {
	Position r3.Vector   // [m] NED, origin at the initial ground point
	Attitude quat.Number // BAS to NED
	Velocity r3.Vector   // [m/s] BAS
	Omega    r3.Vector   // [rad/s] BAS
}

// Pack flattens s as [pos(3) quat(4) vel(3) omega(3)].
func (s RigidBodyState) Pack() dynamo.State {
	return dynamo.State{
		s.Position.X, s.Position.Y, s.Position.Z,
		s.Attitude.Real, s.Attitude.Imag, s.Attitude.Jmag, s.Attitude.Kmag,
		s.Velocity.X, s.Velocity.Y, s.Velocity.Z,
		s.Omega.X, s.Omega.Y, s.Omega.Z,
	}
}

// Unpack is the inverse of Pack.
func Unpack(x dynamo.State) RigidBodyState {
	return RigidBodyState{
		Position: r3.Vector{X: x[0], Y: x[1], Z: x[2]},
		Attitude: quat.Number{Real: x[3], Imag: x[4], Jmag: x[5], Kmag: x[6]},
		Velocity: r3.Vector{X: x[7], Y: x[8], Z: x[9]},
		Omega:    r3.Vector{X: x[10], Y: x[11], Z: x[12]},
	}
}

// Altitude above the NED origin in meters.
func (s RigidBodyState) Altitude() float64 {
	return -s.Position.Z
}

// Euler returns roll, pitch and yaw in radians.
func (s RigidBodyState) Euler() (roll, pitch, yaw float64) {
	return geom.QuatToEuler(s.Attitude)
}

// VelocityNED returns the velocity rotated into the local frame.
func (s RigidBodyState) VelocityNED() r3.Vector {
	return geom.Rotate(s.Attitude, s.Velocity)
}

// Snapshot is the read-only view every contributor computes from during
// one substep.
type Snapshot struct {
	Time  float64
	State RigidBodyState
	Env   env.Sample
}

// GravityBAS returns the gravity acceleration rotated into BAS.
func (s *Snapshot) GravityBAS() r3.Vector {
	return geom.RotateInverse(s.State.Attitude, s.Env.GravityNED())
}

// AirVelocity returns the velocity relative to the air mass, in BAS.
func (s *Snapshot) AirVelocity() r3.Vector {
	return s.State.Velocity.Sub(geom.RotateInverse(s.State.Attitude, s.Env.Wind))
}

// InitialConditions seed the aircraft at Initialize and Reset. Angles are in
// degrees.
type InitialConditions struct {
	North    float64
	East     float64
	Altitude float64
	Airspeed float64
	Heading  float64
	Pitch    float64
	Roll     float64
	EngineOn bool
}

func (ic InitialConditions) state() RigidBodyState {
	const deg = math.Pi / 180
	return RigidBodyState{
		Position: r3.Vector{X: ic.North, Y: ic.East, Z: -ic.Altitude},
		Attitude: geom.QuatFromEuler(ic.Roll*deg, ic.Pitch*deg, ic.Heading*deg),
		Velocity: r3.Vector{X: ic.Airspeed},
	}
}
