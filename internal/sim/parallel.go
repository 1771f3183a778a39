package sim

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/san-kum/fdmsim/internal/config"
	"github.com/san-kum/fdmsim/internal/dynamo"
)

// Factory builds an independent simulator and run config for member i.
// Members must not share a vehicle or an input registry.
type Factory func(i int) (*Simulator, *config.Config, error)

// Ensemble runs independent aircraft in parallel.
type Ensemble struct {
	factory Factory
	numRuns int
}

func NewEnsemble(factory Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

// Run returns one result per member. Failed members leave whatever partial
// result they produced and their errors are combined.
func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	results, errs := e.RunEach(ctx)
	return results, multierr.Combine(errs...)
}

// RunEach is Run with the error of each member kept at its index.
func (e *Ensemble) RunEach(ctx context.Context) ([]*Result, []error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	dynamo.ParallelFor(e.numRuns, 1, func(start, end int) {
		for i := start; i < end; i++ {
			s, cfg, err := e.factory(i)
			if err != nil {
				errs[i] = errors.Wrapf(err, "member %d", i)
				continue
			}
			results[i], err = s.Run(ctx, cfg)
			if err != nil {
				errs[i] = errors.Wrapf(err, "member %d", i)
			}
		}
	})

	return results, errs
}
