package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates solver settings outside their valid range.
	ErrInvalidConfig = errors.New("solver: invalid config")

	// ErrStepLimit indicates the run hit MaxSteps before reaching Duration.
	ErrStepLimit = errors.New("solver: step limit reached")

	// ErrStepTooSmall indicates retries shrank the time step to nothing.
	ErrStepTooSmall = errors.New("solver: time step below minimum")
)

// CellError locates a failure within the grid. Cell is the interior cell
// index, -1 for the left ghost and Cells() for the right ghost.
type CellError struct {
	Cell    int
	Species string
	Wrapped error
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell %d, species %s: %v", e.Cell, e.Species, e.Wrapped)
}

func (e *CellError) Unwrap() error {
	return e.Wrapped
}

// StepError wraps an error with the step it occurred in.
type StepError struct {
	Step    int
	Time    float64
	Dt      float64
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4e, dt=%.3e): %v", e.Step, e.Time, e.Dt, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
