package conservation

import (
	"github.com/san-kum/hallsim/internal/gas"
)

// EulerEquations is the inviscid Navier-Stokes system: continuity, momentum
// and total energy. Nothing is held constant.
type EulerEquations struct{}

func (EulerEquations) Kind() Kind                      { return KindEuler }
func (EulerEquations) NumConserved() int               { return 3 }
func (EulerEquations) sealed()                         {}
func (EulerEquations) String() string                  { return "EulerEquations()" }
func (EulerEquations) Constrain(p Primitive) Primitive { return p }

func (EulerEquations) ConservedFromPrimitive(p Primitive, sp gas.Species) (Conserved, error) {
	if err := checkMovingDensity(sp, p.Density); err != nil {
		return nil, err
	}
	if err := checkVelocity(sp, p.Velocity); err != nil {
		return nil, err
	}
	if err := checkTemperature(sp, p.Temperature); err != nil {
		return nil, err
	}
	cv := sp.Gas().Cv()
	return Conserved{
		p.Density,
		p.Density * p.Velocity,
		p.Density * (cv*p.Temperature + 0.5*p.Velocity*p.Velocity),
	}, nil
}

func (EulerEquations) PrimitiveFromConserved(u Conserved, sp gas.Species) (Primitive, error) {
	if err := checkLength(sp, u, 3); err != nil {
		return Primitive{}, err
	}
	rho := u[0]
	if err := checkMovingDensity(sp, rho); err != nil {
		return Primitive{}, err
	}
	vel := u[1] / rho
	e := u[2]/rho - 0.5*vel*vel
	if e <= 0 {
		return Primitive{}, &StateError{Species: sp.String(), Quantity: "internal energy", Value: e, Reason: "not positive"}
	}
	return Primitive{Density: rho, Velocity: vel, Temperature: e / sp.Gas().Cv()}, nil
}

func (EulerEquations) WaveSpeeds(p Primitive, sp gas.Species) (float64, float64, error) {
	if err := checkMovingDensity(sp, p.Density); err != nil {
		return 0, 0, err
	}
	if err := checkVelocity(sp, p.Velocity); err != nil {
		return 0, 0, err
	}
	if err := checkTemperature(sp, p.Temperature); err != nil {
		return 0, 0, err
	}
	a := sp.Gas().SoundSpeed(p.Temperature)
	return p.Velocity - a, p.Velocity + a, nil
}

func (eq EulerEquations) Flux(u Conserved, sp gas.Species) (Conserved, error) {
	p, err := eq.PrimitiveFromConserved(u, sp)
	if err != nil {
		return nil, err
	}
	pressure := p.Pressure(sp)
	return Conserved{
		u[1],
		u[1]*p.Velocity + pressure,
		p.Velocity * (u[2] + pressure),
	}, nil
}
