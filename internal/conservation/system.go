package conservation

import (
	"fmt"
	"math"

	"github.com/san-kum/hallsim/internal/gas"
)

// Kind tags the concrete conservation-law system.
type Kind int

const (
	KindContinuity Kind = iota
	KindIsothermal
	KindEuler
)

func (k Kind) String() string {
	switch k {
	case KindContinuity:
		return "continuity"
	case KindIsothermal:
		return "isothermal"
	case KindEuler:
		return "euler"
	}
	return "unknown"
}

// System is a conservation-law system. The set of implementations is closed:
// ContinuityOnly, IsothermalEuler and EulerEquations.
type System interface {
	Kind() Kind

	// NumConserved is the number of conserved variables per species.
	NumConserved() int

	// ConservedFromPrimitive maps p to conserved variables. Held-constant
	// quantities replace the values supplied in p.
	ConservedFromPrimitive(p Primitive, sp gas.Species) (Conserved, error)

	// PrimitiveFromConserved is the inverse of ConservedFromPrimitive.
	PrimitiveFromConserved(u Conserved, sp gas.Species) (Primitive, error)

	// WaveSpeeds bounds the local signal speeds.
	WaveSpeeds(p Primitive, sp gas.Species) (lo, hi float64, err error)

	// Flux is the physical flux of the conserved variables.
	Flux(u Conserved, sp gas.Species) (Conserved, error)

	// Constrain returns p with the held-constant quantities substituted.
	Constrain(p Primitive) Primitive

	String() string

	sealed()
}

// New builds a system from its kind and held constants. Constants the kind
// does not hold are ignored.
func New(kind Kind, u, T float64) (System, error) {
	switch kind {
	case KindContinuity:
		return NewContinuityOnly(u, T)
	case KindIsothermal:
		return NewIsothermalEuler(T)
	case KindEuler:
		return EulerEquations{}, nil
	}
	return nil, fmt.Errorf("unknown conservation law kind: %d", int(kind))
}

// Kinds lists every conservation-law kind.
func Kinds() []Kind { return []Kind{KindContinuity, KindIsothermal, KindEuler} }

// ParseKind resolves a kind from its String form.
func ParseKind(name string) (Kind, error) {
	for _, k := range Kinds() {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown conservation law: %s", name)
}

func heldTemperature(T float64) error {
	if math.IsNaN(T) || math.IsInf(T, 0) || T <= 0 {
		return fmt.Errorf("%w: held temperature must be finite and > 0, got %g", gas.ErrInvalidPhysicalParameter, T)
	}
	return nil
}

func heldVelocity(u float64) error {
	if math.IsNaN(u) || math.IsInf(u, 0) {
		return fmt.Errorf("%w: held velocity must be finite, got %g", gas.ErrInvalidPhysicalParameter, u)
	}
	return nil
}
