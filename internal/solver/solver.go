package solver

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/flux"
	"github.com/san-kum/hallsim/internal/grid"
	"github.com/sirupsen/logrus"
)

type Solver struct {
	grid       *grid.Grid
	layout     *grid.Layout
	flux       flux.Func
	integrator Integrator
	left       Boundary
	right      Boundary
	log        logrus.FieldLogger
	metrics    []Metric
	observers  []Observer

	workers  int
	minChunk int
	prims    []conservation.Primitive
	fluxes   []float64
}

func New(g *grid.Grid, l *grid.Layout, fn flux.Func, integrator Integrator) *Solver {
	return &Solver{
		grid:       g,
		layout:     l,
		flux:       fn,
		integrator: integrator,
		left:       Outflow{},
		right:      Outflow{},
		log:        logrus.StandardLogger(),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
		workers:    1,
		minChunk:   1,
	}
}

func (s *Solver) SetBoundaries(left, right Boundary) { s.left, s.right = left, right }
func (s *Solver) SetLogger(log logrus.FieldLogger)   { s.log = log }
func (s *Solver) AddMetric(m Metric)                 { s.metrics = append(s.metrics, m) }
func (s *Solver) AddObserver(o Observer)             { s.observers = append(s.observers, o) }

func (s *Solver) Layout() *grid.Layout { return s.layout }
func (s *Solver) Grid() *grid.Grid     { return s.grid }

// Run advances u0 for cfg.Duration. u0 is not modified. On a step error the
// partial result is returned alongside the error.
func (s *Solver) Run(ctx context.Context, u0 *grid.Field, cfg Config) (*Result, error) {
	result := &Result{Metrics: make(map[string]float64)}
	for _, m := range s.metrics {
		m.Reset()
	}

	keep := func(t float64, u *grid.Field) {
		result.Times = append(result.Times, t)
		result.Snapshots = append(result.Snapshots, u.Clone())
	}

	var final *grid.Field
	err := s.loop(ctx, u0, cfg, func(step int, t float64, u *grid.Field, last bool) bool {
		if step == 0 || last || (cfg.SnapshotEvery > 0 && step%cfg.SnapshotEvery == 0) {
			keep(t, u)
		}
		for _, m := range s.metrics {
			m.Observe(t, u)
		}
		if step > 0 {
			result.Steps = step
			for _, obs := range s.observers {
				obs.OnStep(step, t, u)
			}
		}
		final = u
		return true
	}, &result.Rejected)

	if final != nil {
		result.Final = final.Clone()
	}
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	return result, err
}

// RunWithCallback advances u0 and calls callback after every accepted step
// (and once for the initial state with step 0). Returning false stops the
// run without error.
func (s *Solver) RunWithCallback(ctx context.Context, u0 *grid.Field, cfg Config, callback func(step int, t float64, u *grid.Field) bool) error {
	var rejected int
	return s.loop(ctx, u0, cfg, func(step int, t float64, u *grid.Field, _ bool) bool {
		return callback(step, t, u)
	}, &rejected)
}

func (s *Solver) loop(ctx context.Context, u0 *grid.Field, cfg Config, visit func(step int, t float64, u *grid.Field, last bool) bool, rejected *int) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if u0.Layout() != s.layout || u0.Grid() != s.grid {
		return fmt.Errorf("%w: field does not match solver grid and layout", ErrInvalidConfig)
	}
	s.workers, s.minChunk = cfg.Workers, cfg.MinChunk

	log := s.log.WithFields(logrus.Fields{
		"law":        s.layout.Law().String(),
		"species":    len(s.layout.Species()),
		"cells":      s.grid.Cells(),
		"integrator": s.integrator.Name(),
	})

	u := u0.Clone()
	t := 0.0
	smax, err := s.MaxWaveSpeed(ctx, u)
	if err != nil {
		return &StepError{Step: 0, Time: t, Wrapped: err}
	}
	if !visit(0, t, u, false) {
		return nil
	}

	for step := 1; t < cfg.Duration; step++ {
		if step > cfg.MaxSteps {
			return &StepError{Step: step, Time: t, Wrapped: ErrStepLimit}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		dt := s.timeStep(smax, cfg)
		remaining := cfg.Duration - t
		last := dt >= remaining || remaining-dt <= 1e-12*cfg.Duration
		if last {
			dt = remaining
		}

		next, nextMax, err := s.advance(ctx, u, dt)
		for retries := 0; err != nil && errors.Is(err, conservation.ErrInvalidState) && cfg.Policy == PolicyRetry && retries < cfg.MaxRetries; retries++ {
			*rejected++
			log.WithFields(logrus.Fields{"step": step, "dt": dt, "error": err}).Warn("rejecting step, halving dt")
			dt /= 2
			last = false
			if dt < cfg.MinDt {
				return &StepError{Step: step, Time: t, Dt: dt, Wrapped: ErrStepTooSmall}
			}
			next, nextMax, err = s.advance(ctx, u, dt)
		}
		if err != nil {
			log.WithFields(logrus.Fields{"step": step, "t": t, "dt": dt}).WithError(err).Error("step failed")
			return &StepError{Step: step, Time: t, Dt: dt, Wrapped: err}
		}

		u, smax = next, nextMax
		t += dt
		if last {
			t = cfg.Duration
		}
		if !visit(step, t, u, last) {
			return nil
		}
		log.WithFields(logrus.Fields{"step": step, "t": t, "dt": dt}).Debug("step accepted")
	}

	log.WithField("t", t).Info("run complete")
	return nil
}

// advance takes one integrator step and checks every cell of the result,
// returning the new field and its largest wave speed.
func (s *Solver) advance(ctx context.Context, u *grid.Field, dt float64) (*grid.Field, float64, error) {
	next, err := s.integrator.Step(ctx, s.residual, u, dt)
	if err != nil {
		return nil, 0, err
	}
	smax, err := s.MaxWaveSpeed(ctx, next)
	if err != nil {
		return nil, 0, err
	}
	return next, smax, nil
}

// timeStep returns the fixed step or the CFL step for the wave speed smax.
func (s *Solver) timeStep(smax float64, cfg Config) float64 {
	if cfg.Dt > 0 {
		return cfg.Dt
	}
	if smax == 0 {
		return cfg.Duration
	}
	return cfg.CFL * s.grid.Dx() / smax
}

// MaxWaveSpeed is the largest signal speed magnitude over all interior
// cells and species.
func (s *Solver) MaxWaveSpeed(ctx context.Context, u *grid.Field) (float64, error) {
	law := s.layout.Law()
	ns := s.layout.NumSpecies()
	n := s.grid.Cells()
	smax := make([]float64, n)

	err := parallelFor(ctx, n, s.minChunk, s.workers, func(start, end int) error {
		for i := start; i < end; i++ {
			for k := 0; k < ns; k++ {
				sp := s.layout.SpeciesAt(k)
				p, err := u.Primitive(i+1, k)
				if err != nil {
					return &CellError{Cell: i, Species: sp.String(), Wrapped: err}
				}
				lo, hi, err := law.WaveSpeeds(p, sp)
				if err != nil {
					return &CellError{Cell: i, Species: sp.String(), Wrapped: err}
				}
				smax[i] = math.Max(smax[i], math.Max(math.Abs(lo), math.Abs(hi)))
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	out := 0.0
	for _, v := range smax {
		out = math.Max(out, v)
	}
	return out, nil
}

// residual computes du/dt = -(F[i+1/2] - F[i-1/2]) / dx for every interior
// cell.
func (s *Solver) residual(ctx context.Context, u, dudt *grid.Field) error {
	law := s.layout.Law()
	ns := s.layout.NumSpecies()
	nv := s.layout.Vars()
	n := s.grid.Cells()
	width := s.layout.Width()

	if err := s.fillGhosts(u); err != nil {
		return err
	}

	rows := n + 2
	if len(s.prims) != rows*ns {
		s.prims = make([]conservation.Primitive, rows*ns)
	}
	if len(s.fluxes) != (n+1)*width {
		s.fluxes = make([]float64, (n+1)*width)
	}

	err := parallelFor(ctx, rows, s.minChunk, s.workers, func(start, end int) error {
		for i := start; i < end; i++ {
			for k := 0; k < ns; k++ {
				p, err := u.Primitive(i, k)
				if err != nil {
					return &CellError{Cell: i - 1, Species: s.layout.SpeciesAt(k).String(), Wrapped: err}
				}
				s.prims[i*ns+k] = p
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	// Interface j sits between rows j and j+1.
	err = parallelFor(ctx, n+1, s.minChunk, s.workers, func(start, end int) error {
		for j := start; j < end; j++ {
			for k := 0; k < ns; k++ {
				sp := s.layout.SpeciesAt(k)
				f, err := s.flux(law, sp, s.prims[j*ns+k], s.prims[(j+1)*ns+k])
				if err != nil {
					return &CellError{Cell: j, Species: sp.String(), Wrapped: err}
				}
				copy(s.fluxes[j*width+k*nv:j*width+(k+1)*nv], f)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	inv := 1 / s.grid.Dx()
	out := dudt.Data()
	for i := 0; i < width; i++ {
		out[i] = 0
		out[(n+1)*width+i] = 0
	}
	return parallelFor(ctx, n, s.minChunk, s.workers, func(start, end int) error {
		for i := start; i < end; i++ {
			row := dudt.Row(i + 1)
			west := s.fluxes[i*width : (i+1)*width]
			east := s.fluxes[(i+1)*width : (i+2)*width]
			for j := range row {
				row[j] = -(east[j] - west[j]) * inv
			}
		}
		return nil
	})
}

func (s *Solver) fillGhosts(u *grid.Field) error {
	law := s.layout.Law()
	n := s.grid.Cells()
	for k, sp := range s.layout.Species() {
		if err := s.left.Fill(law, sp, u.Cell(1, k), u.Cell(0, k)); err != nil {
			return &CellError{Cell: -1, Species: sp.String(), Wrapped: err}
		}
		if err := s.right.Fill(law, sp, u.Cell(n, k), u.Cell(n+1, k)); err != nil {
			return &CellError{Cell: n, Species: sp.String(), Wrapped: err}
		}
	}
	return nil
}
