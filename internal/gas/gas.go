// Package gas describes the propellants of a simulation: chemical elements in
// the gaseous state ([Gas]) and their ionization states ([Species]).
//
// Both types are immutable values. They carry no per-cell state and are shared
// by every grid cell and time step of a run.
package gas

import (
	"fmt"
	"math"

	"github.com/san-kum/hallsim/internal/physconst"
	"gonum.org/v1/gonum/unit"
)

// Properties are the thermodynamic quantities derived from the adiabatic
// index and the molar mass.
type Properties struct {
	Mass float64 // particle mass (kg)
	R    float64 // specific gas constant (J/(kg K))
	Cp   float64 // specific heat at constant pressure (J/(kg K))
	Cv   float64 // specific heat at constant volume (J/(kg K))
}

// Derive computes the derived properties of a gas with adiabatic index gamma
// and molar mass M (kg/kmol). It does not validate its inputs.
func Derive(gamma, M float64) Properties {
	r := physconst.R0 / M
	cv := r / (gamma - 1)
	return Properties{
		Mass: M / physconst.NA,
		R:    r,
		Cp:   gamma * cv,
		Cv:   cv,
	}
}

// Gas is a chemical element in the gaseous state.
type Gas struct {
	name      string
	shortName string
	gamma     float64
	molarMass float64
	props     Properties
}

// NewGas validates gamma and the molar mass M (kg/kmol, numerically g/mol)
// and derives the remaining properties.
func NewGas(name, shortName string, gamma, M float64) (Gas, error) {
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) || gamma <= 1 {
		return Gas{}, fmt.Errorf("%w: %s adiabatic index must be > 1, got %g", ErrInvalidPhysicalParameter, name, gamma)
	}
	if math.IsNaN(M) || math.IsInf(M, 0) || M <= 0 {
		return Gas{}, fmt.Errorf("%w: %s molar mass must be > 0, got %g", ErrInvalidPhysicalParameter, name, M)
	}
	return Gas{
		name:      name,
		shortName: shortName,
		gamma:     gamma,
		molarMass: M,
		props:     Derive(gamma, M),
	}, nil
}

// MustGas is like NewGas but panics on invalid parameters. It is meant for
// package-level catalog entries.
func MustGas(name, shortName string, gamma, M float64) Gas {
	g, err := NewGas(name, shortName, gamma, M)
	if err != nil {
		panic(err)
	}
	return g
}

func (g Gas) Name() string       { return g.name }
func (g Gas) ShortName() string  { return g.shortName }
func (g Gas) Gamma() float64     { return g.gamma }
func (g Gas) MolarMass() float64 { return g.molarMass }
func (g Gas) Mass() float64      { return g.props.Mass }
func (g Gas) R() float64         { return g.props.R }
func (g Gas) Cp() float64        { return g.props.Cp }
func (g Gas) Cv() float64        { return g.props.Cv }

// Derived returns all derived properties at once.
func (g Gas) Derived() Properties { return g.props }

// IsZero reports whether g is the zero Gas, which no constructor returns.
func (g Gas) IsZero() bool { return g.molarMass == 0 }

func (g Gas) String() string { return g.name }

// SoundSpeed returns the adiabatic sound speed sqrt(gamma R T) in m/s.
func (g Gas) SoundSpeed(T float64) float64 {
	return math.Sqrt(g.gamma * g.props.R * T)
}

// DimensionedProperties returns the derived properties tagged with SI
// dimensions, keyed by short property name.
func (g Gas) DimensionedProperties() map[string]*unit.Unit {
	specific := unit.Dimensions{unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}
	return map[string]*unit.Unit{
		"m":  unit.New(g.props.Mass, unit.Dimensions{unit.MassDim: 1}),
		"R":  unit.New(g.props.R, specific),
		"cp": unit.New(g.props.Cp, specific),
		"cv": unit.New(g.props.Cv, specific),
	}
}
