package conservation

import (
	"fmt"
	"math"

	"github.com/san-kum/hallsim/internal/gas"
)

// IsothermalEuler solves continuity and inviscid momentum at a fixed
// temperature (K). Pressure is rho R T.
type IsothermalEuler struct {
	t float64
}

func NewIsothermalEuler(T float64) (IsothermalEuler, error) {
	if err := heldTemperature(T); err != nil {
		return IsothermalEuler{}, err
	}
	return IsothermalEuler{t: T}, nil
}

func (e IsothermalEuler) T() float64      { return e.t }
func (IsothermalEuler) Kind() Kind        { return KindIsothermal }
func (IsothermalEuler) NumConserved() int { return 2 }
func (IsothermalEuler) sealed()           {}
func (e IsothermalEuler) String() string  { return fmt.Sprintf("IsothermalEuler(T=%g)", e.t) }

func (e IsothermalEuler) Constrain(p Primitive) Primitive {
	return Primitive{Density: p.Density, Velocity: p.Velocity, Temperature: e.t}
}

// SoundSpeed is the isothermal sound speed sqrt(R T).
func (e IsothermalEuler) SoundSpeed(sp gas.Species) float64 {
	return math.Sqrt(sp.Gas().R() * e.t)
}

func (e IsothermalEuler) ConservedFromPrimitive(p Primitive, sp gas.Species) (Conserved, error) {
	if err := checkMovingDensity(sp, p.Density); err != nil {
		return nil, err
	}
	if err := checkVelocity(sp, p.Velocity); err != nil {
		return nil, err
	}
	return Conserved{p.Density, p.Density * p.Velocity}, nil
}

func (e IsothermalEuler) PrimitiveFromConserved(u Conserved, sp gas.Species) (Primitive, error) {
	if err := checkLength(sp, u, 2); err != nil {
		return Primitive{}, err
	}
	if err := checkMovingDensity(sp, u[0]); err != nil {
		return Primitive{}, err
	}
	return Primitive{Density: u[0], Velocity: u[1] / u[0], Temperature: e.t}, nil
}

func (e IsothermalEuler) WaveSpeeds(p Primitive, sp gas.Species) (float64, float64, error) {
	if err := checkMovingDensity(sp, p.Density); err != nil {
		return 0, 0, err
	}
	if err := checkVelocity(sp, p.Velocity); err != nil {
		return 0, 0, err
	}
	a := e.SoundSpeed(sp)
	return p.Velocity - a, p.Velocity + a, nil
}

func (e IsothermalEuler) Flux(u Conserved, sp gas.Species) (Conserved, error) {
	p, err := e.PrimitiveFromConserved(u, sp)
	if err != nil {
		return nil, err
	}
	return Conserved{
		u[1],
		u[1]*p.Velocity + p.Pressure(sp),
	}, nil
}

// checkMovingDensity rejects vacuum cells in systems that recover velocity
// from momentum.
func checkMovingDensity(sp gas.Species, rho float64) error {
	if err := checkDensity(sp, rho); err != nil {
		return err
	}
	if rho == 0 {
		return &StateError{Species: sp.String(), Quantity: "density", Value: rho, Reason: "vacuum, velocity undefined"}
	}
	return nil
}
