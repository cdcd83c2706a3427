// Package conservation defines the conservation-law systems a finite-volume
// solver can advance.
//
// A [System] decides which physical unknowns are evolved and which are held
// constant:
//
//   - [ContinuityOnly]: density only; velocity and temperature are fixed
//   - [IsothermalEuler]: density and momentum; temperature is fixed
//   - [EulerEquations]: density, momentum and total energy
//
// The solver loop never switches on the concrete type. It asks the system for
// the number of conserved variables, converts between [Primitive] and
// [Conserved] states per cell, and uses [System.WaveSpeeds] and [System.Flux]
// to build numerical fluxes.
//
// # Example
//
//	law, _ := conservation.NewIsothermalEuler(500)
//	xe := gas.MustSpecies(gas.Xenon, 0)
//	u, _ := law.ConservedFromPrimitive(conservation.Primitive{Density: 1e-6, Velocity: 300}, xe)
//	lo, hi, _ := law.WaveSpeeds(conservation.Primitive{Density: 1e-6, Velocity: 300}, xe)
//
// # Thread Safety
//
// Systems are immutable after construction and safe for concurrent use.
package conservation
