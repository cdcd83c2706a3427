package solver

import (
	"context"
	"fmt"

	"github.com/san-kum/hallsim/internal/grid"
)

// RHS evaluates du/dt for the field u into dudt. It may rewrite the ghost
// cells of u.
type RHS func(ctx context.Context, u, dudt *grid.Field) error

// Integrator advances a field by one time step.
type Integrator interface {
	Name() string
	Step(ctx context.Context, rhs RHS, u *grid.Field, dt float64) (*grid.Field, error)
}

// ForwardEuler is the first-order explicit Euler method.
type ForwardEuler struct {
	k *grid.Field
}

func NewForwardEuler() *ForwardEuler {
	return &ForwardEuler{}
}

func (e *ForwardEuler) Name() string { return "euler" }

func (e *ForwardEuler) Step(ctx context.Context, rhs RHS, u *grid.Field, dt float64) (*grid.Field, error) {
	e.k = ensureScratch(e.k, u)
	if err := rhs(ctx, u, e.k); err != nil {
		return nil, err
	}
	out := u.Clone()
	out.AddScaled(dt, e.k)
	return out, nil
}

// SSPRK2 is the two-stage strong-stability-preserving Runge-Kutta method
// (Heun's method). It keeps the TVD property of the spatial scheme.
type SSPRK2 struct {
	k, stage *grid.Field
}

func NewSSPRK2() *SSPRK2 {
	return &SSPRK2{}
}

func (r *SSPRK2) Name() string { return "ssprk2" }

func (r *SSPRK2) Step(ctx context.Context, rhs RHS, u *grid.Field, dt float64) (*grid.Field, error) {
	r.k = ensureScratch(r.k, u)
	r.stage = ensureScratch(r.stage, u)

	if err := rhs(ctx, u, r.k); err != nil {
		return nil, err
	}
	r.stage.CopyFrom(u)
	r.stage.AddScaled(dt, r.k)

	if err := rhs(ctx, r.stage, r.k); err != nil {
		return nil, err
	}
	r.stage.AddScaled(dt, r.k)

	out := u.Clone()
	out.Scale(0.5)
	out.AddScaled(0.5, r.stage)
	return out, nil
}

func ensureScratch(f, like *grid.Field) *grid.Field {
	if f == nil || len(f.Data()) != len(like.Data()) || f.Layout() != like.Layout() {
		return grid.NewField(like.Grid(), like.Layout())
	}
	return f
}

// IntegratorNames lists the canonical integrator names. IntegratorByName
// also accepts "rk2" for SSPRK2.
func IntegratorNames() []string { return []string{"euler", "ssprk2"} }

// IntegratorByName returns a fresh integrator.
func IntegratorByName(name string) (Integrator, error) {
	switch name {
	case "euler":
		return NewForwardEuler(), nil
	case "ssprk2", "rk2":
		return NewSSPRK2(), nil
	}
	return nil, fmt.Errorf("unknown integrator: %s", name)
}
