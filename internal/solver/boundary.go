package solver

import (
	"fmt"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
)

// Boundary fills the ghost cell of one species next to a domain edge.
type Boundary interface {
	Fill(law conservation.System, sp gas.Species, inner, ghost conservation.Conserved) error
}

// Outflow copies the adjacent interior cell (zero-gradient).
type Outflow struct{}

func (Outflow) Fill(_ conservation.System, _ gas.Species, inner, ghost conservation.Conserved) error {
	copy(ghost, inner)
	return nil
}

// Fixed holds the ghost cell at a prescribed primitive state, per species.
// Species missing from States copy the interior cell.
type Fixed struct {
	States map[gas.Species]conservation.Primitive
}

func (b Fixed) Fill(law conservation.System, sp gas.Species, inner, ghost conservation.Conserved) error {
	p, ok := b.States[sp]
	if !ok {
		copy(ghost, inner)
		return nil
	}
	u, err := law.ConservedFromPrimitive(p, sp)
	if err != nil {
		return err
	}
	copy(ghost, u)
	return nil
}

// Validate checks every prescribed state against law, so an inadmissible
// inflow is reported before the first step.
func (b Fixed) Validate(law conservation.System) error {
	for sp, p := range b.States {
		if _, err := law.ConservedFromPrimitive(p, sp); err != nil {
			return fmt.Errorf("fixed state for %s: %w", sp, err)
		}
	}
	return nil
}
