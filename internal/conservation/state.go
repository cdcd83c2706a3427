package conservation

import (
	"math"

	"github.com/san-kum/hallsim/internal/gas"
)

// Primitive is the physically intuitive state of one species in one cell.
type Primitive struct {
	Density     float64 // mass density (kg/m^3)
	Velocity    float64 // bulk velocity (m/s)
	Temperature float64 // temperature (K)
}

// Pressure returns the ideal-gas pressure rho R T in Pa.
func (p Primitive) Pressure(sp gas.Species) float64 {
	return p.Density * sp.Gas().R() * p.Temperature
}

// Conserved holds the conserved variables of one species in one cell, in the
// order density, momentum density, total energy density. Its length is the
// NumConserved of the system that produced it.
type Conserved []float64

func (u Conserved) Clone() Conserved {
	c := make(Conserved, len(u))
	copy(c, u)
	return c
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkDensity(sp gas.Species, rho float64) error {
	if !finite(rho) {
		return &StateError{Species: sp.String(), Quantity: "density", Value: rho, Reason: "not finite"}
	}
	if rho < 0 {
		return &StateError{Species: sp.String(), Quantity: "density", Value: rho, Reason: "negative"}
	}
	return nil
}

func checkVelocity(sp gas.Species, u float64) error {
	if !finite(u) {
		return &StateError{Species: sp.String(), Quantity: "velocity", Value: u, Reason: "not finite"}
	}
	return nil
}

func checkTemperature(sp gas.Species, T float64) error {
	if !finite(T) || T <= 0 {
		return &StateError{Species: sp.String(), Quantity: "temperature", Value: T, Reason: "not positive"}
	}
	return nil
}

func checkLength(sp gas.Species, u Conserved, n int) error {
	if len(u) != n {
		return &StateError{Species: sp.String(), Quantity: "conserved length", Value: float64(len(u)), Reason: "wrong size"}
	}
	for _, v := range u {
		if !finite(v) {
			return &StateError{Species: sp.String(), Quantity: "conserved", Value: v, Reason: "not finite"}
		}
	}
	return nil
}
