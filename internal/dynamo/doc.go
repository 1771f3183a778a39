// Package dynamo provides core simulation primitives shared by the flight
// dynamics packages.
//
// The package defines the numerical building blocks for integrating
// ordinary differential equations with a fixed step:
//
//   - [State]: flat vector representing integrated state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//
// It also owns the error taxonomy used across the repository. Errors are
// matched with errors.Is against the sentinels declared in errors.go:
// configuration problems wrap [ErrConfiguration], runtime degeneracies wrap
// [ErrNumericalDegeneracy], failed name lookups wrap [ErrNotFound].
//
// # Thread Safety
//
// Nothing in this package holds shared mutable state except
// [DefaultTrigTable], which is read-only after initialization.
package dynamo
