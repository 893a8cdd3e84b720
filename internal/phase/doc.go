// Package phase provides core phase-space primitives for trajectory
// integration.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical integration of ordinary differential equations (ODEs):
//
//   - [State]: vector representing a point in phase space
//   - [System]: interface for autonomous ODE systems (dX/dt = f(X))
//   - [Stepper]: fixed-step numerical integrator interface
//   - [Trajectory]: ordered (state, time) samples of a single run
//
// # Example
//
//	sys := lorenz.New(lorenz.Classic())
//	r := sim.NewRunner(sys, integrators.NewEuler())
//	result, _ := r.Run(ctx, lorenz.DefaultState(), sim.DefaultConfig())
//
// # Thread Safety
//
// Steppers carry scratch state and are NOT safe for concurrent use. For
// parallel runs use the sim package's Ensemble, which gives every
// goroutine its own stepper.
package phase
