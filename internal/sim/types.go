package sim

import (
	"github.com/san-kum/fdmsim/internal/aircraft"
)

// Vehicle is the aircraft the driver steps. *aircraft.Aircraft and the
// types embedding it satisfy it.
type Vehicle interface {
	Name() string
	Initialize(ic aircraft.InitialConditions) error
	Advance(dt float64, substeps int) error
	State() aircraft.RigidBodyState
	Time() float64
	Mass() *aircraft.Mass
	Contributor(role aircraft.Role) (aircraft.Contributor, error)
}

// Rotors is implemented by rotorcraft propulsion contributors.
type Rotors interface {
	MainRotorPsi() float64
	MainRotorOmega() float64
	TailRotorPsi() float64
	TailRotorOmega() float64
}

// Record is one sample of a run, taken after each external step. Angles are
// in radians, body rates and velocities in BAS.
type Record struct {
	Time       float64 `json:"time"`
	North      float64 `json:"north"`
	East       float64 `json:"east"`
	Altitude   float64 `json:"altitude"`
	Roll       float64 `json:"roll"`
	Pitch      float64 `json:"pitch"`
	Yaw        float64 `json:"yaw"`
	U          float64 `json:"u"`
	V          float64 `json:"v"`
	W          float64 `json:"w"`
	P          float64 `json:"p"`
	Q          float64 `json:"q"`
	R          float64 `json:"r"`
	MainPsi    float64 `json:"main_psi"`
	MainOmega  float64 `json:"main_omega"`
	TailPsi    float64 `json:"tail_psi"`
	TailOmega  float64 `json:"tail_omega"`
	Mass       float64 `json:"mass"`
	Collective float64 `json:"collective"`
	CyclicLat  float64 `json:"cyclic_lat"`
	CyclicLon  float64 `json:"cyclic_lon"`
	Pedals     float64 `json:"pedals"`
}

type Metric interface {
	Name() string
	Observe(r Record)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(r Record)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(r Record)

func (f ObserverFunc) OnStep(r Record) { f(r) }

type Result struct {
	Aircraft   string
	Records    []Record
	Metrics    map[string]float64
	StepsTaken int
}

// Final returns the last record, or a zero record for an empty result.
func (r *Result) Final() Record {
	if len(r.Records) == 0 {
		return Record{}
	}
	return r.Records[len(r.Records)-1]
}
