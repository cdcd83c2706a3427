package metrics

import (
	"math"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/grid"
)

// MassDrift tracks the largest relative change in the total mass of any
// species since the first observation.
type MassDrift struct {
	name     string
	initial  []float64
	maxDrift float64
	samples  int
}

func NewMassDrift() *MassDrift {
	return &MassDrift{name: "mass_drift"}
}

func (m *MassDrift) Name() string { return m.name }

func (m *MassDrift) Observe(t float64, u *grid.Field) {
	ns := u.Layout().NumSpecies()
	if m.samples == 0 {
		m.initial = make([]float64, ns)
		for k := range m.initial {
			m.initial[k] = u.TotalMass(k)
		}
	}
	m.samples++

	for k := 0; k < ns && k < len(m.initial); k++ {
		if m.initial[k] == 0 {
			continue
		}
		drift := math.Abs(u.TotalMass(k)-m.initial[k]) / math.Abs(m.initial[k])
		m.maxDrift = math.Max(m.maxDrift, drift)
	}
}

func (m *MassDrift) Value() float64 {
	return m.maxDrift
}

func (m *MassDrift) Reset() {
	m.initial = nil
	m.maxDrift = 0
	m.samples = 0
}

// EnergyDrift is the energy analogue of MassDrift. It only observes fields
// whose law carries total energy.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(t float64, u *grid.Field) {
	if u.Layout().Law().Kind() != conservation.KindEuler {
		return
	}

	energy := totalEnergy(u)
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs(energy-e.initial) / math.Abs(e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

func totalEnergy(u *grid.Field) float64 {
	var sum float64
	for i := 1; i <= u.Grid().Cells(); i++ {
		for k := 0; k < u.Layout().NumSpecies(); k++ {
			sum += u.Cell(i, k)[2]
		}
	}
	return sum * u.Grid().Dx()
}
