// Package solver advances a grid.Field in time with a finite-volume method.
//
// The solver never inspects which conservation law it runs. Per step it:
//
//   - fills ghost cells from the left and right [Boundary]
//   - converts every cell to primitive variables
//   - evaluates the numerical flux at every interface
//   - picks a CFL-limited time step from the law's wave speeds
//   - advances the field with an [Integrator]
//
// # Invalid states
//
// A cell that leaves the admissible set aborts the step with a [*StepError]
// wrapping conservation.ErrInvalidState. [PolicyAbort] ends the run there;
// [PolicyRetry] repeats the step with half the time step a bounded number of
// times. States are never clamped.
//
// # Thread Safety
//
// Residual evaluation runs in parallel chunks, but a Solver reuses internal
// buffers and must not be shared between concurrent runs. Gas, species and
// conservation-law values are read-only and may be shared freely.
package solver
