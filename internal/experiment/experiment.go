package experiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/flux"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/grid"
	"github.com/san-kum/hallsim/internal/solver"
	"github.com/sirupsen/logrus"
)

// InitialState gives the primitive state of species sp at position x.
type InitialState func(x float64, sp gas.Species) conservation.Primitive

type Config struct {
	Law         string
	Velocity    float64 // held velocity (m/s), continuity only
	Temperature float64 // held temperature (K), continuity and isothermal
	Flux        string
	Integrator  string
	Species     []gas.Species
	Cells       int
	Left, Right float64 // domain bounds (m)
	Initial     InitialState
	LeftBC      solver.Boundary
	RightBC     solver.Boundary
	Solver      solver.Config
}

type Experiment struct {
	cfg     Config
	log     logrus.FieldLogger
	solver  *solver.Solver
	initial *grid.Field
}

func New(cfg Config, log logrus.FieldLogger) *Experiment {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Experiment{cfg: cfg, log: log}
}

// Setup builds the grid, the species layout and the initial field for law
// and attaches the numerical pieces to a new solver.
func (e *Experiment) Setup(law conservation.System, fn flux.Func, integrator solver.Integrator, metrics []solver.Metric) error {
	if e.cfg.Initial == nil {
		return errors.New("experiment: no initial state")
	}
	g, err := grid.NewUniform(e.cfg.Cells, e.cfg.Left, e.cfg.Right)
	if err != nil {
		return err
	}
	layout, err := grid.NewLayout(law, e.cfg.Species)
	if err != nil {
		return err
	}
	left, right := e.cfg.LeftBC, e.cfg.RightBC
	if left == nil {
		left = solver.Outflow{}
	}
	if right == nil {
		right = solver.Outflow{}
	}
	if err := validateBoundary("left", left, law); err != nil {
		return err
	}
	if err := validateBoundary("right", right, law); err != nil {
		return err
	}
	u0 := grid.NewField(g, layout)
	if err := u0.Initialize(e.cfg.Initial); err != nil {
		return err
	}

	s := solver.New(g, layout, fn, integrator)
	s.SetLogger(e.log)
	s.SetBoundaries(left, right)
	for _, m := range metrics {
		s.AddMetric(m)
	}

	e.solver, e.initial = s, u0
	return nil
}

func validateBoundary(side string, bc solver.Boundary, law conservation.System) error {
	fixed, ok := bc.(solver.Fixed)
	if !ok {
		return nil
	}
	if err := fixed.Validate(law); err != nil {
		return fmt.Errorf("experiment: %s boundary: %w", side, err)
	}
	return nil
}

// SetupFromRegistry resolves the law, flux and integrator names in the
// config and calls Setup with the registry's default metrics.
func (e *Experiment) SetupFromRegistry(reg *Registry) error {
	law, err := reg.GetLaw(e.cfg.Law, e.cfg.Velocity, e.cfg.Temperature)
	if err != nil {
		return err
	}
	fn, err := reg.GetFlux(e.cfg.Flux)
	if err != nil {
		return err
	}
	integ, err := reg.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}
	return e.Setup(law, fn, integ, reg.DefaultMetrics(law))
}

func (e *Experiment) Run(ctx context.Context) (*solver.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.solver.Run(ctx, e.initial, e.cfg.Solver)
}

// RunWithCallback runs the experiment, handing every accepted step to fn.
func (e *Experiment) RunWithCallback(ctx context.Context, fn func(step int, t float64, u *grid.Field) bool) error {
	if e.solver == nil {
		return fmt.Errorf("experiment not setup")
	}
	return e.solver.RunWithCallback(ctx, e.initial, e.cfg.Solver, fn)
}

func (e *Experiment) Config() Config         { return e.cfg }
func (e *Experiment) Solver() *solver.Solver { return e.solver }
func (e *Experiment) Initial() *grid.Field   { return e.initial }
