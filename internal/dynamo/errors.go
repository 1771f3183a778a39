package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrConfiguration indicates malformed or physically invalid configuration.
	// It is fatal at load time.
	ErrConfiguration = errors.New("dynamo: invalid configuration")

	// ErrNumericalDegeneracy indicates a runtime condition that would produce
	// non-finite results. The simulation instance must be reset.
	ErrNumericalDegeneracy = errors.New("dynamo: numerical degeneracy")

	// ErrDivisionByZero indicates a zero or negative divisor such as total mass.
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrNumericalDegeneracy)

	// ErrSingularInertia indicates a mass matrix that cannot be inverted.
	ErrSingularInertia = fmt.Errorf("%w: singular inertia", ErrNumericalDegeneracy)

	// ErrInvalidState indicates a state vector with NaN or Inf values.
	ErrInvalidState = fmt.Errorf("%w: invalid state (NaN or Inf detected)", ErrNumericalDegeneracy)

	// ErrNotFound indicates a failed lookup of a named entry. Recoverable.
	ErrNotFound = errors.New("dynamo: not found")

	// ErrNotInitialized indicates a lifecycle call made before Initialize.
	ErrNotInitialized = errors.New("dynamo: not initialized")

	// ErrInvalidated indicates a step on an instance that already failed.
	ErrInvalidated = errors.New("dynamo: simulation instance invalidated, reset required")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
