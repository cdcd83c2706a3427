package metrics

import (
	"github.com/san-kum/hallsim/internal/grid"
)

// Stability is the fraction of observations in which every cell converts
// to a valid state and no wave speed exceeds the threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(t float64, u *grid.Field) {
	s.samples++
	for i := 1; i <= u.Grid().Cells(); i++ {
		for k := 0; k < u.Layout().NumSpecies(); k++ {
			if _, err := u.Primitive(i, k); err != nil {
				s.violations++
				return
			}
		}
	}
	if maxWaveSpeed(u) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

