package conservation

import (
	"fmt"

	"github.com/san-kum/hallsim/internal/gas"
)

// ContinuityOnly solves mass conservation only. Velocity (m/s) and
// temperature (K) are fixed for the whole run.
type ContinuityOnly struct {
	u float64
	t float64
}

func NewContinuityOnly(u, T float64) (ContinuityOnly, error) {
	if err := heldVelocity(u); err != nil {
		return ContinuityOnly{}, err
	}
	if err := heldTemperature(T); err != nil {
		return ContinuityOnly{}, err
	}
	return ContinuityOnly{u: u, t: T}, nil
}

func (c ContinuityOnly) U() float64      { return c.u }
func (c ContinuityOnly) T() float64      { return c.t }
func (ContinuityOnly) Kind() Kind        { return KindContinuity }
func (ContinuityOnly) NumConserved() int { return 1 }
func (ContinuityOnly) sealed()           {}
func (c ContinuityOnly) String() string  { return fmt.Sprintf("ContinuityOnly(u=%g, T=%g)", c.u, c.t) }

func (c ContinuityOnly) Constrain(p Primitive) Primitive {
	return Primitive{Density: p.Density, Velocity: c.u, Temperature: c.t}
}

func (c ContinuityOnly) ConservedFromPrimitive(p Primitive, sp gas.Species) (Conserved, error) {
	if err := checkDensity(sp, p.Density); err != nil {
		return nil, err
	}
	return Conserved{p.Density}, nil
}

func (c ContinuityOnly) PrimitiveFromConserved(u Conserved, sp gas.Species) (Primitive, error) {
	if err := checkLength(sp, u, 1); err != nil {
		return Primitive{}, err
	}
	if err := checkDensity(sp, u[0]); err != nil {
		return Primitive{}, err
	}
	return Primitive{Density: u[0], Velocity: c.u, Temperature: c.t}, nil
}

// WaveSpeeds collapses to the held velocity: density is advected without
// acoustic waves.
func (c ContinuityOnly) WaveSpeeds(p Primitive, sp gas.Species) (float64, float64, error) {
	if err := checkDensity(sp, p.Density); err != nil {
		return 0, 0, err
	}
	return c.u, c.u, nil
}

func (c ContinuityOnly) Flux(u Conserved, sp gas.Species) (Conserved, error) {
	if err := checkLength(sp, u, 1); err != nil {
		return nil, err
	}
	if err := checkDensity(sp, u[0]); err != nil {
		return nil, err
	}
	return Conserved{u[0] * c.u}, nil
}
