package grid

import (
	"errors"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
)

// Layout assigns each species a slot within a cell row. Slots follow the
// species ordering of gas.Compare, so the same species set always produces
// the same layout regardless of input order.
type Layout struct {
	law     conservation.System
	species []gas.Species
	index   map[gas.Species]int
}

func NewLayout(law conservation.System, species []gas.Species) (*Layout, error) {
	if law == nil {
		return nil, errors.New("grid: nil conservation law")
	}
	sorted := gas.Sorted(species)
	if len(sorted) == 0 {
		return nil, errors.New("grid: no species")
	}
	index := make(map[gas.Species]int, len(sorted))
	for k, sp := range sorted {
		index[sp] = k
	}
	return &Layout{law: law, species: sorted, index: index}, nil
}

func (l *Layout) Law() conservation.System { return l.law }

// Vars is the number of conserved variables per species.
func (l *Layout) Vars() int { return l.law.NumConserved() }

// Width is the number of values in one cell row.
func (l *Layout) Width() int { return len(l.species) * l.law.NumConserved() }

func (l *Layout) NumSpecies() int { return len(l.species) }

// Species returns the species in slot order.
func (l *Layout) Species() []gas.Species {
	out := make([]gas.Species, len(l.species))
	copy(out, l.species)
	return out
}

// SpeciesAt returns the species in slot k.
func (l *Layout) SpeciesAt(k int) gas.Species { return l.species[k] }

// Index returns the slot of sp.
func (l *Layout) Index(sp gas.Species) (int, bool) {
	k, ok := l.index[sp]
	return k, ok
}

// Offset returns the position of sp's first conserved variable in a row.
func (l *Layout) Offset(sp gas.Species) (int, bool) {
	k, ok := l.Index(sp)
	return k * l.law.NumConserved(), ok
}
