// Package experiment turns a run config into a ready simulator: it looks up
// the aircraft type and integrator by name, builds the environment and
// attaches the default metrics.
package experiment

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/fdmsim/internal/aircraft"
	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/env"
	"github.com/san-kum/fdmsim/internal/input"
	"github.com/san-kum/fdmsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	logger    *zap.SugaredLogger
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry, logger *zap.SugaredLogger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Experiment{cfg: cfg, registry: registry, logger: logger}
}

// Setup builds the aircraft and simulator. Extra metrics are added after
// the defaults.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	if e.cfg == nil {
		return errors.Wrap(config.ErrMissingField, "run config")
	}
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	s, err := e.registry.Build(e.cfg, e.logger)
	if err != nil {
		return err
	}
	for _, m := range extra {
		s.AddMetric(m)
	}
	e.simulator = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, errors.Wrap(dynamo.ErrNotInitialized, "experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg)
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Build creates a simulator for cfg with a fresh input registry.
func (r *Registry) Build(cfg *config.Config, logger *zap.SugaredLogger) (*sim.Simulator, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	typ, err := r.GetAircraft(cfg.Aircraft)
	if err != nil {
		return nil, err
	}
	integrator, err := r.GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, err
	}

	var data *config.Node
	if cfg.DataFile != "" {
		if data, err = config.LoadNode(cfg.DataFile); err != nil {
			return nil, err
		}
	}

	environment := &env.Environment{Gravity: cfg.Environment.Gravity}
	environment.FromSpeedAndDir(cfg.Environment.WindSpeed, cfg.Environment.WindDirection)

	reg := input.NewRegistry()
	v, err := typ.Build(reg, data,
		aircraft.WithIntegrator(integrator),
		aircraft.WithEnvironment(environment),
		aircraft.WithLogger(logger.Named(typ.Name)),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "build %s", typ.Name)
	}

	s := sim.New(v, reg, logger)
	for _, m := range r.DefaultMetrics(cfg, v) {
		s.AddMetric(m)
	}
	return s, nil
}
