// Package flux provides numerical fluxes at cell interfaces. Every function
// works for any conservation.System: it only needs the physical flux and the
// wave-speed bounds of the two neighbouring states.
package flux

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
)

// Func computes the numerical flux of species sp between a left and a right
// state.
type Func func(law conservation.System, sp gas.Species, left, right conservation.Primitive) (conservation.Conserved, error)

// side holds the quantities of one interface neighbour.
type side struct {
	u      conservation.Conserved
	f      conservation.Conserved
	lo, hi float64
}

func evaluate(law conservation.System, sp gas.Species, p conservation.Primitive) (side, error) {
	u, err := law.ConservedFromPrimitive(p, sp)
	if err != nil {
		return side{}, err
	}
	f, err := law.Flux(u, sp)
	if err != nil {
		return side{}, err
	}
	lo, hi, err := law.WaveSpeeds(p, sp)
	if err != nil {
		return side{}, err
	}
	return side{u: u, f: f, lo: lo, hi: hi}, nil
}

func evaluatePair(law conservation.System, sp gas.Species, left, right conservation.Primitive) (side, side, error) {
	l, err := evaluate(law, sp, left)
	if err != nil {
		return side{}, side{}, err
	}
	r, err := evaluate(law, sp, right)
	if err != nil {
		return side{}, side{}, err
	}
	return l, r, nil
}

// Rusanov is the local Lax-Friedrichs flux.
func Rusanov(law conservation.System, sp gas.Species, left, right conservation.Primitive) (conservation.Conserved, error) {
	l, r, err := evaluatePair(law, sp, left, right)
	if err != nil {
		return nil, err
	}
	return rusanov(l, r), nil
}

func rusanov(l, r side) conservation.Conserved {
	s := math.Max(math.Max(math.Abs(l.lo), math.Abs(l.hi)), math.Max(math.Abs(r.lo), math.Abs(r.hi)))
	out := make(conservation.Conserved, len(l.u))
	for j := range out {
		out[j] = 0.5*(l.f[j]+r.f[j]) - 0.5*s*(r.u[j]-l.u[j])
	}
	return out
}

// Upwind takes the flux of the upstream side when every wave travels the
// same way and falls back to Rusanov otherwise. For ContinuityOnly it is the
// classic first-order upwind scheme.
func Upwind(law conservation.System, sp gas.Species, left, right conservation.Primitive) (conservation.Conserved, error) {
	l, r, err := evaluatePair(law, sp, left, right)
	if err != nil {
		return nil, err
	}
	switch {
	case math.Min(l.lo, r.lo) >= 0:
		return l.f, nil
	case math.Max(l.hi, r.hi) <= 0:
		return r.f, nil
	}
	return rusanov(l, r), nil
}

// HLLE is the Harten-Lax-van Leer flux with Davis wave-speed estimates.
func HLLE(law conservation.System, sp gas.Species, left, right conservation.Primitive) (conservation.Conserved, error) {
	l, r, err := evaluatePair(law, sp, left, right)
	if err != nil {
		return nil, err
	}
	sl := math.Min(l.lo, r.lo)
	sr := math.Max(l.hi, r.hi)
	switch {
	case sl >= 0:
		return l.f, nil
	case sr <= 0:
		return r.f, nil
	}
	out := make(conservation.Conserved, len(l.u))
	for j := range out {
		out[j] = (sr*l.f[j] - sl*r.f[j] + sl*sr*(r.u[j]-l.u[j])) / (sr - sl)
	}
	return out, nil
}

var registry = map[string]Func{
	"upwind":  Upwind,
	"rusanov": Rusanov,
	"hlle":    HLLE,
}

// ByName returns a registered flux function.
func ByName(name string) (Func, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown flux: %s", name)
	}
	return fn, nil
}

// Names lists the registered flux functions.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
