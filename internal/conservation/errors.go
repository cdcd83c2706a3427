package conservation

import (
	"errors"
	"fmt"
)

// ErrInvalidState indicates a primitive or conserved state that is not
// physically admissible. States are reported, never repaired.
var ErrInvalidState = errors.New("conservation: invalid state")

// StateError describes which quantity of a state was rejected.
type StateError struct {
	Species  string
	Quantity string
	Value    float64
	Reason   string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("conservation: invalid state for %s: %s = %g (%s)", e.Species, e.Quantity, e.Value, e.Reason)
}

func (e *StateError) Unwrap() error {
	return ErrInvalidState
}
