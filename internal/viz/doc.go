// Package viz renders thruster profiles in the terminal.
//
// [PlotProfile] and [PlotSpecies] draw static charts with asciigraph. The
// [LiveModel] is a Bubble Tea program that follows a running solver.
//
// # Key Bindings
//
//	Space - Pause/Resume the solver
//	Tab   - Cycle density, velocity and temperature
//	T     - Cycle color themes
//	?     - Show help overlay
//	Q     - Stop the run and quit
package viz
