package solver

import (
	"errors"
	"fmt"
	"math"
	"runtime"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/grid"
)

// Policy decides what happens when a step produces an invalid state.
type Policy int

const (
	PolicyAbort Policy = iota
	PolicyRetry
)

func (p Policy) String() string {
	switch p {
	case PolicyAbort:
		return "abort"
	case PolicyRetry:
		return "retry"
	}
	return "unknown"
}

// ParsePolicy resolves a policy from its String form.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "abort":
		return PolicyAbort, nil
	case "retry":
		return PolicyRetry, nil
	}
	return 0, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfig, name)
}

// Metric accumulates a scalar over the steps of a run.
type Metric interface {
	Name() string
	Observe(t float64, u *grid.Field)
	Value() float64
	Reset()
}

// Observer is notified after every accepted step.
type Observer interface {
	OnStep(step int, t float64, u *grid.Field)
}

type Config struct {
	CFL           float64 // Courant number, (0, 1]
	Duration      float64 // simulated time (s)
	Dt            float64 // fixed step (s); 0 selects the CFL step
	MinDt         float64 // smallest step a retry may use (s)
	MaxSteps      int
	Workers       int // parallel residual chunks
	MinChunk      int // interfaces per chunk before splitting
	SnapshotEvery int // keep every n-th accepted step; 0 keeps initial and final only
	MaxRetries    int
	Policy        Policy
}

func DefaultConfig() Config {
	return Config{
		CFL:        0.8,
		Duration:   1e-4,
		MinDt:      1e-15,
		MaxSteps:   1_000_000,
		Workers:    runtime.GOMAXPROCS(0),
		MinChunk:   64,
		MaxRetries: 4,
		Policy:     PolicyAbort,
	}
}

func (c Config) Validate() error {
	switch {
	case !(c.CFL > 0 && c.CFL <= 1):
		return fmt.Errorf("%w: cfl must be in (0, 1], got %g", ErrInvalidConfig, c.CFL)
	case !(c.Duration > 0) || math.IsInf(c.Duration, 0):
		return fmt.Errorf("%w: duration must be positive, got %g", ErrInvalidConfig, c.Duration)
	case c.Dt < 0 || math.IsNaN(c.Dt):
		return fmt.Errorf("%w: dt must be >= 0, got %g", ErrInvalidConfig, c.Dt)
	case c.MinDt < 0:
		return fmt.Errorf("%w: min dt must be >= 0, got %g", ErrInvalidConfig, c.MinDt)
	case c.MaxSteps < 1:
		return fmt.Errorf("%w: max steps must be positive, got %d", ErrInvalidConfig, c.MaxSteps)
	case c.Workers < 1:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidConfig, c.Workers)
	case c.MinChunk < 1:
		return fmt.Errorf("%w: min chunk must be positive, got %d", ErrInvalidConfig, c.MinChunk)
	case c.SnapshotEvery < 0:
		return fmt.Errorf("%w: snapshot interval must be >= 0, got %d", ErrInvalidConfig, c.SnapshotEvery)
	case c.MaxRetries < 0:
		return fmt.Errorf("%w: max retries must be >= 0, got %d", ErrInvalidConfig, c.MaxRetries)
	}
	return nil
}

type Result struct {
	Times     []float64
	Snapshots []*grid.Field
	Final     *grid.Field
	Steps     int
	Rejected  int
	Metrics   map[string]float64
}

// FinalTime is the simulated time reached.
func (r *Result) FinalTime() float64 {
	if len(r.Times) == 0 {
		return 0
	}
	return r.Times[len(r.Times)-1]
}

// Profiles converts the final field into primitive profiles per species.
func (r *Result) Profiles() (map[gas.Species][]conservation.Primitive, error) {
	if r.Final == nil {
		return nil, errors.New("solver: result has no final state")
	}
	out := make(map[gas.Species][]conservation.Primitive)
	for k, sp := range r.Final.Layout().Species() {
		prof, err := r.Final.Profile(k)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sp, err)
		}
		out[sp] = prof
	}
	return out, nil
}
