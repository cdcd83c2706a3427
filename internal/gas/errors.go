package gas

import "errors"

// Construction errors. Both are fatal for setup; callers match them with
// errors.Is.
var (
	// ErrInvalidPhysicalParameter indicates a non-physical gas or held-constant
	// parameter (gamma <= 1, molar mass <= 0, non-positive temperature, NaN).
	ErrInvalidPhysicalParameter = errors.New("gas: invalid physical parameter")

	// ErrInvalidChargeState indicates a species with a negative charge.
	ErrInvalidChargeState = errors.New("gas: invalid charge state")
)
