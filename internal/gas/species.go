package gas

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/san-kum/hallsim/internal/physconst"
)

// Species is a gas at a specific charge state. In a plasma several ionization
// states of the same gas coexist and have to be told apart. Species values are
// comparable and may be used as map keys.
type Species struct {
	gas    Gas
	charge int
}

// NewSpecies returns the species of g with the given charge, which must be
// non-negative.
func NewSpecies(g Gas, charge int) (Species, error) {
	if g.IsZero() {
		return Species{}, fmt.Errorf("%w: species of the zero gas", ErrInvalidPhysicalParameter)
	}
	if charge < 0 {
		return Species{}, fmt.Errorf("%w: %s with charge %d", ErrInvalidChargeState, g.shortName, charge)
	}
	return Species{gas: g, charge: charge}, nil
}

// Ions returns the neutral and every ionization state of g up to maxCharge.
func Ions(g Gas, maxCharge int) ([]Species, error) {
	if g.IsZero() {
		return nil, fmt.Errorf("%w: ions of the zero gas", ErrInvalidPhysicalParameter)
	}
	if maxCharge < 0 {
		return nil, fmt.Errorf("%w: %s with max charge %d", ErrInvalidChargeState, g.shortName, maxCharge)
	}
	out := make([]Species, 0, maxCharge+1)
	for z := 0; z <= maxCharge; z++ {
		out = append(out, Species{gas: g, charge: z})
	}
	return out, nil
}

func (s Species) Gas() Gas    { return s.gas }
func (s Species) Charge() int { return s.charge }

// String renders the species in chemical notation: Xe, Xe+, Xe3+, e-.
func (s Species) String() string {
	switch {
	case s.charge == 0:
		return s.gas.shortName
	case s.charge == 1:
		return s.gas.shortName + "+"
	case s.charge == -1:
		return s.gas.shortName + "-"
	case s.charge < 0:
		return s.gas.shortName + strconv.Itoa(-s.charge) + "-"
	default:
		return s.gas.shortName + strconv.Itoa(s.charge) + "+"
	}
}

// Mass is the particle mass in kg. Electrons lost by ionization are
// neglected.
func (s Species) Mass() float64 { return s.gas.props.Mass }

// SpecificCharge returns Z e / m in C/kg.
func (s Species) SpecificCharge() float64 {
	return float64(s.charge) * physconst.E / s.gas.props.Mass
}

// Compare orders species by gas short name, then full name, then charge.
// Gases that share both names are told apart by adiabatic index and molar
// mass, so Compare returns 0 exactly when a == b.
func Compare(a, b Species) int {
	if c := strings.Compare(a.gas.shortName, b.gas.shortName); c != 0 {
		return c
	}
	if c := strings.Compare(a.gas.name, b.gas.name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.charge, b.charge); c != 0 {
		return c
	}
	if c := cmp.Compare(a.gas.gamma, b.gas.gamma); c != 0 {
		return c
	}
	return cmp.Compare(a.gas.molarMass, b.gas.molarMass)
}

// Sorted returns a sorted copy of list with duplicates removed.
func Sorted(list []Species) []Species {
	out := slices.Clone(list)
	slices.SortStableFunc(out, Compare)
	return slices.Compact(out)
}

// MustSpecies is like NewSpecies but panics on a negative charge.
func MustSpecies(g Gas, charge int) Species {
	s, err := NewSpecies(g, charge)
	if err != nil {
		panic(err)
	}
	return s
}
