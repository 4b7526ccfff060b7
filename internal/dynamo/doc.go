// Package dynamo provides the numerical primitives shared by the simulation
// packages.
//
// The package defines the fundamental interfaces and types for fixed-step
// integration of ordinary differential equations (ODEs):
//
//   - [State]: flat vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: fixed-step numerical integrator interface
//   - [Config]: step size and horizon of a run
//
// # Example
//
//	sys := seir.NewSystem(params, stimulus, nil, nil)
//	integ := integrators.NewRK4()
//	next := integ.Step(sys, x, t, cfg.Dt)
//
// # Thread Safety
//
// Integrators and systems keep scratch buffers and are NOT thread-safe.
// Parallel work such as parameter sweeps builds one instance per unit of
// work and fans out with [ParallelFor].
package dynamo
