package config

import "sort"

// Presets groups ready-made runs by conservation law.
var Presets = map[string]map[string]*Config{
	"euler": {
		"sod": {
			Law: "euler", Flux: "hlle", Integrator: "ssprk2",
			Propellants: []PropellantConfig{{Element: "Xe", Charges: []int{0}}},
			Grid:        GridConfig{Cells: 200, Left: 0, Right: 1},
			Initial: InitialConfig{
				Split: 0.5,
				Left:  StateConfig{Density: 1, Temperature: 300},
				Right: StateConfig{Density: 0.125, Temperature: 240},
			},
			Boundaries: BoundaryConfig{Left: "outflow", Right: "outflow"},
			Solver:     SolverConfig{CFL: 0.8, Duration: 1e-3, SnapshotEvery: 20},
		},
		"krypton-sod": {
			Law: "euler", Flux: "rusanov", Integrator: "ssprk2",
			Propellants: []PropellantConfig{{Element: "Kr", Charges: []int{0}}},
			Grid:        GridConfig{Cells: 200, Left: 0, Right: 1},
			Initial: InitialConfig{
				Split: 0.5,
				Left:  StateConfig{Density: 1, Temperature: 300},
				Right: StateConfig{Density: 0.125, Temperature: 240},
			},
			Boundaries: BoundaryConfig{Left: "outflow", Right: "outflow"},
			Solver:     SolverConfig{CFL: 0.8, Duration: 8e-4, SnapshotEvery: 20},
		},
	},
	"continuity": {
		"advection": {
			Law: "continuity", Flux: "upwind", Integrator: "euler",
			Velocity: 300, Temperature: 500,
			Propellants: []PropellantConfig{{Element: "Xe", Charges: []int{0}}},
			Grid:        GridConfig{Cells: 200, Left: 0, Right: DefaultLength},
			Initial: InitialConfig{
				Split: DefaultLength / 4,
				Left:  StateConfig{Density: 2e-5},
				Right: StateConfig{Density: 1e-6},
			},
			Boundaries: BoundaryConfig{Left: "fixed", Right: "outflow"},
			Solver:     SolverConfig{CFL: 0.9, Duration: 5e-5, SnapshotEvery: 50},
		},
	},
	"isothermal": {
		"isothermal": {
			Law: "isothermal", Flux: "hlle", Integrator: "ssprk2",
			Temperature: 1000,
			Propellants: []PropellantConfig{{Element: "Xe", Charges: []int{0}}},
			Grid:        GridConfig{Cells: 200, Left: 0, Right: DefaultLength},
			Initial: InitialConfig{
				Split: DefaultLength / 2,
				Left:  StateConfig{Density: 1e-4},
				Right: StateConfig{Density: 1e-5},
			},
			Boundaries: BoundaryConfig{Left: "outflow", Right: "outflow"},
			Solver:     SolverConfig{CFL: 0.8, Duration: 5e-5, SnapshotEvery: 20},
		},
		"ion-plume": {
			Law: "isothermal", Flux: "rusanov", Integrator: "ssprk2",
			Temperature: 2000,
			Propellants: []PropellantConfig{{Element: "Xe", Charges: []int{0, 1}}},
			Grid:        GridConfig{Cells: 200, Left: 0, Right: DefaultLength},
			Initial: InitialConfig{
				Split: DefaultLength / 5,
				Left:  StateConfig{Density: 1e-5, Velocity: 200},
				Right: StateConfig{Density: 1e-7, Velocity: 200},
			},
			Boundaries: BoundaryConfig{Left: "fixed", Right: "outflow"},
			Solver:     SolverConfig{CFL: 0.8, Duration: 4e-5, SnapshotEvery: 20},
		},
	},
}

// GetPreset returns a copy of the preset, or nil.
func GetPreset(law, preset string) *Config {
	lawPresets, ok := Presets[law]
	if !ok {
		return nil
	}
	cfg, ok := lawPresets[preset]
	if !ok {
		return nil
	}
	return cfg.clone()
}

// FindPreset looks a preset up by name across all laws.
func FindPreset(preset string) *Config {
	for _, law := range ListLaws() {
		if cfg := GetPreset(law, preset); cfg != nil {
			return cfg
		}
	}
	return nil
}

func ListPresets(law string) []string {
	lawPresets, ok := Presets[law]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(lawPresets))
	for name := range lawPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListLaws returns the laws that have presets.
func ListLaws() []string {
	laws := make([]string, 0, len(Presets))
	for law := range Presets {
		laws = append(laws, law)
	}
	sort.Strings(laws)
	return laws
}
