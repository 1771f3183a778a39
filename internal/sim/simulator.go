// Package sim drives aircraft through time: it applies scheduled inputs and
// the autopilot at each external step, advances the aircraft with the
// configured number of substeps and records the trajectory.
package sim

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/control"
	"github.com/san-kum/fdmsim/internal/input"
)

type Simulator struct {
	vehicle   Vehicle
	inputs    *input.Registry
	logger    *zap.SugaredLogger
	metrics   []Metric
	observers []Observer
}

// New drives v, which must read its inputs from reg.
func New(v Vehicle, reg *input.Registry, logger *zap.SugaredLogger) *Simulator {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Simulator{
		vehicle:   v,
		inputs:    reg,
		logger:    logger,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

func (s *Simulator) Vehicle() Vehicle        { return s.vehicle }
func (s *Simulator) Inputs() *input.Registry { return s.inputs }

// Run simulates cfg.Duration seconds. On cancellation it returns the partial
// result together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	sess, err := s.Start(cfg)
	if err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / cfg.Dt))
	result := &Result{
		Aircraft: s.vehicle.Name(),
		Records:  make([]Record, 0, steps+1),
		Metrics:  make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.observe(result, sess.Record())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result)
			return result, ctx.Err()
		default:
		}

		rec, err := sess.Step()
		if err != nil {
			s.finish(result)
			return result, err
		}
		result.StepsTaken++
		s.observe(result, rec)
	}

	s.finish(result)
	s.logger.Infow("run complete", "aircraft", result.Aircraft, "steps", result.StepsTaken, "t", sess.Time())
	return result, nil
}

func (s *Simulator) observe(result *Result, rec Record) {
	result.Records = append(result.Records, rec)
	for _, m := range s.metrics {
		m.Observe(rec)
	}
	for _, obs := range s.observers {
		obs.OnStep(rec)
	}
}

func (s *Simulator) finish(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

// Session steps one configured run. The live view drives it frame by frame.
type Session struct {
	sim       *Simulator
	cfg       *config.Config
	schedule  *input.Schedule
	autopilot *control.Autopilot
	manual    bool
}

// Start validates cfg, writes the constant inputs and initializes the
// vehicle.
func (s *Simulator) Start(cfg *config.Config) (*Session, error) {
	if cfg == nil {
		return nil, errors.Wrap(config.ErrMissingField, "run config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	for _, name := range cfg.InputNames() {
		s.inputs.Set(name, cfg.Inputs[name])
	}
	schedule := input.NewSchedule()
	for _, name := range cfg.ScheduleNames() {
		var h input.History
		for _, p := range cfg.Schedule[name] {
			h = append(h, input.Point{T: p[0], V: p[1]})
		}
		if err := schedule.Add(name, h); err != nil {
			return nil, err
		}
	}

	ap := cfg.Autopilot
	autopilot := control.NewAutopilot(s.inputs, control.AutopilotSettings{
		AltitudeHold: ap.AltitudeHold,
		AttitudeHold: ap.AttitudeHold,
		Target:       ap.Target,
		Trim:         ap.Trim,
		PedalTrim:    ap.PedalTrim,
		Kp:           ap.Kp,
		Ki:           ap.Ki,
		Kd:           ap.Kd,
	})

	ic := cfg.InitState
	err := s.vehicle.Initialize(aircraft.InitialConditions{
		North:    ic.North,
		East:     ic.East,
		Altitude: ic.Altitude,
		Airspeed: ic.Airspeed,
		Heading:  ic.Heading,
		Pitch:    ic.Pitch,
		Roll:     ic.Roll,
		EngineOn: ic.EngineOn,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debugw("session started", "config", cfg.String(), "scheduled", schedule.Len(), "autopilot", autopilot.Enabled())

	return &Session{sim: s, cfg: cfg, schedule: schedule, autopilot: autopilot}, nil
}

// Step applies the schedule and autopilot, then advances one external step.
func (ss *Session) Step() (Record, error) {
	v := ss.sim.vehicle
	t := v.Time()
	ss.schedule.Apply(ss.sim.inputs, t)
	if !ss.manual && ss.autopilot.Enabled() {
		if err := ss.autopilot.Apply(v.State(), t); err != nil {
			return Record{}, err
		}
	}
	if err := v.Advance(ss.cfg.Dt, ss.cfg.Substeps); err != nil {
		return Record{}, err
	}
	return ss.Record(), nil
}

func (ss *Session) Time() float64 { return ss.sim.vehicle.Time() }

func (ss *Session) Autopilot() *control.Autopilot { return ss.autopilot }

// SetManual disengages the autopilot so inputs written elsewhere stick.
// Re-engaging resets the autopilot loops.
func (ss *Session) SetManual(on bool) {
	if ss.manual && !on {
		ss.autopilot.Reset()
	}
	ss.manual = on
}

func (ss *Session) Manual() bool { return ss.manual }

func (ss *Session) Vehicle() Vehicle { return ss.sim.vehicle }

func (ss *Session) Inputs() *input.Registry { return ss.sim.inputs }

func (ss *Session) Config() *config.Config { return ss.cfg }

// Record samples the vehicle and the control channels.
func (ss *Session) Record() Record {
	v := ss.sim.vehicle
	st := v.State()
	roll, pitch, yaw := st.Euler()
	reg := ss.sim.inputs

	rec := Record{
		Time:     v.Time(),
		North:    st.Position.X,
		East:     st.Position.Y,
		Altitude: st.Altitude(),
		Roll:     roll,
		Pitch:    pitch,
		Yaw:      yaw,
		U:        st.Velocity.X,
		V:        st.Velocity.Y,
		W:        st.Velocity.Z,
		P:        st.Omega.X,
		Q:        st.Omega.Y,
		R:        st.Omega.Z,
		Mass:     v.Mass().Mass(),
	}
	rec.Collective, _ = reg.Get(input.Collective)
	rec.CyclicLat, _ = reg.Get(input.CyclicLat)
	rec.CyclicLon, _ = reg.Get(input.CyclicLon)
	rec.Pedals, _ = reg.Get(input.Pedals)

	if c, err := v.Contributor(aircraft.RolePropulsion); err == nil {
		if r, ok := c.(Rotors); ok {
			rec.MainPsi, rec.MainOmega = r.MainRotorPsi(), r.MainRotorOmega()
			rec.TailPsi, rec.TailOmega = r.TailRotorPsi(), r.TailRotorOmega()
		}
	}
	return rec
}
