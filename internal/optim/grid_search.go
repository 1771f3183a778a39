// Package optim searches autopilot gains by running every grid point as an
// independent simulation.
package optim

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
	"github.com/san-kum/fdmsim/internal/experiment"
	"github.com/san-kum/fdmsim/internal/sim"
)

// Apply writes one parameter value into a run config.
type Apply func(cfg *config.Config, v float64)

// Parameters known to the grid search.
var Parameters = map[string]Apply{
	"kp":   func(c *config.Config, v float64) { c.Autopilot.Kp = v },
	"ki":   func(c *config.Config, v float64) { c.Autopilot.Ki = v },
	"kd":   func(c *config.Config, v float64) { c.Autopilot.Kd = v },
	"trim": func(c *config.Config, v float64) { c.Autopilot.Trim = v },
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, errors.Wrapf(dynamo.ErrConfiguration, "%d parameters but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Parameters[name]; !ok {
			return nil, errors.Wrapf(dynamo.ErrNotFound, "parameter %q", name)
		}
		if len(ranges[i]) == 0 {
			return nil, errors.Wrapf(dynamo.ErrConfiguration, "empty range for %q", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Points enumerates the grid, last parameter varying fastest.
func (g *GridSearch) Points() []map[string]float64 {
	points := []map[string]float64{{}}
	for i, name := range g.paramNames {
		next := make([]map[string]float64, 0, len(points)*len(g.ranges[i]))
		for _, p := range points {
			for _, v := range g.ranges[i] {
				q := make(map[string]float64, len(p)+1)
				for k, x := range p {
					q[k] = x
				}
				q[name] = v
				next = append(next, q)
			}
		}
		points = next
	}
	return points
}

// Outcome is the metric reached at one grid point. Failed runs score +Inf.
type Outcome struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Search runs base at every grid point in parallel and returns the point
// minimising metric, with every outcome in grid order.
func (g *GridSearch) Search(
	ctx context.Context,
	registry *experiment.Registry,
	base *config.Config,
	metric string,
	logger *zap.SugaredLogger,
) (Outcome, []Outcome, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	points := g.Points()

	factory := func(i int) (*sim.Simulator, *config.Config, error) {
		cfg := *base
		for name, v := range points[i] {
			Parameters[name](&cfg, v)
		}
		s, err := registry.Build(&cfg, logger)
		return s, &cfg, err
	}
	results, errs := sim.NewEnsemble(factory, len(points)).RunEach(ctx)

	outcomes := make([]Outcome, len(points))
	best := Outcome{Value: math.Inf(1)}
	for i, p := range points {
		o := Outcome{Params: p, Value: math.Inf(1)}
		r := results[i]
		if errs[i] != nil {
			o.Err = errs[i]
		} else if r == nil {
			o.Err = errors.Wrap(dynamo.ErrInvalidState, "no result")
		} else if v, ok := r.Metrics[metric]; !ok {
			return Outcome{}, nil, errors.Wrapf(dynamo.ErrNotFound, "metric %q", metric)
		} else if completed(r, base) {
			o.Value = v
		} else {
			o.Err = errors.Wrap(dynamo.ErrInvalidated, "run stopped early")
		}
		outcomes[i] = o
		if o.Value < best.Value {
			best = o
		}
		logger.Debugw("grid point", "params", p, metric, o.Value)
	}

	if ctx.Err() != nil {
		return best, outcomes, ctx.Err()
	}
	if best.Params == nil {
		return best, outcomes, errors.Wrap(dynamo.ErrInvalidState, "no grid point completed")
	}
	return best, outcomes, nil
}

func completed(r *sim.Result, cfg *config.Config) bool {
	return r.StepsTaken == int(math.Round(cfg.Duration/cfg.Dt))
}
