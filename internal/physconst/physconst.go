// Package physconst holds the physical constants shared by the gas and
// conservation-law packages.
//
// All molar quantities use a kilomole basis: molar masses are in kg/kmol
// (numerically equal to g/mol), so the per-particle mass of a gas with molar
// mass M is M/NA kg and its specific gas constant is R0/M J/(kg K).
package physconst

import "gonum.org/v1/gonum/unit"

const (
	KB           = 1.380649e-23     // Boltzmann constant (J/K)
	E            = 1.602176634e-19  // Elementary charge (C)
	NA           = 6.02214076e26    // Particles per kilomole (1/kmol)
	R0           = 8314.46261815324 // Universal gas constant (J/(kmol K))
	ElectronMass = 9.1093837015e-31 // Electron rest mass (kg)
)

var energyDims = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2}

// Boltzmann returns KB with its SI dimensions.
func Boltzmann() *unit.Unit {
	return unit.New(KB, merge(energyDims, unit.Dimensions{unit.TemperatureDim: -1}))
}

// ElementaryCharge returns E in coulombs.
func ElementaryCharge() *unit.Unit {
	return unit.New(E, unit.Dimensions{unit.CurrentDim: 1, unit.TimeDim: 1})
}

// Avogadro returns NA. The amount dimension is in kilomoles.
func Avogadro() *unit.Unit {
	return unit.New(NA, unit.Dimensions{unit.MoleDim: -1})
}

// UniversalGasConstant returns R0 in J/(kmol K).
func UniversalGasConstant() *unit.Unit {
	return unit.New(R0, merge(energyDims, unit.Dimensions{unit.TemperatureDim: -1, unit.MoleDim: -1}))
}

func merge(a, b unit.Dimensions) unit.Dimensions {
	d := make(unit.Dimensions, len(a)+len(b))
	for k, v := range a {
		d[k] += v
	}
	for k, v := range b {
		d[k] += v
	}
	return d
}
