package metrics

import (
	"math"

	"github.com/san-kum/hallsim/internal/grid"
)

// PeakWaveSpeed is the largest signal speed seen during the run. Cells that
// fail to convert are skipped; the solver reports those itself.
type PeakWaveSpeed struct {
	name string
	peak float64
}

func NewPeakWaveSpeed() *PeakWaveSpeed {
	return &PeakWaveSpeed{name: "peak_wave_speed"}
}

func (p *PeakWaveSpeed) Name() string { return p.name }

func (p *PeakWaveSpeed) Observe(t float64, u *grid.Field) {
	p.peak = math.Max(p.peak, maxWaveSpeed(u))
}

func (p *PeakWaveSpeed) Value() float64 { return p.peak }
func (p *PeakWaveSpeed) Reset()         { p.peak = 0 }

// MeanSpeed averages the mass-weighted mean |u| over all observations.
type MeanSpeed struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSpeed() *MeanSpeed {
	return &MeanSpeed{name: "mean_speed"}
}

func (m *MeanSpeed) Name() string {
	return m.name
}

func (m *MeanSpeed) Observe(t float64, u *grid.Field) {
	var mass, momentum float64
	for i := 1; i <= u.Grid().Cells(); i++ {
		for k := 0; k < u.Layout().NumSpecies(); k++ {
			p, err := u.Primitive(i, k)
			if err != nil {
				continue
			}
			mass += p.Density
			momentum += p.Density * math.Abs(p.Velocity)
		}
	}
	if mass > 0 {
		m.sum += momentum / mass
	}
	m.samples++
}

func (m *MeanSpeed) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSpeed) Reset() {
	m.sum = 0
	m.samples = 0
}

func maxWaveSpeed(u *grid.Field) float64 {
	law := u.Layout().Law()
	var smax float64
	for i := 1; i <= u.Grid().Cells(); i++ {
		for k, sp := range u.Layout().Species() {
			p, err := u.Primitive(i, k)
			if err != nil {
				continue
			}
			lo, hi, err := law.WaveSpeeds(p, sp)
			if err != nil {
				continue
			}
			smax = math.Max(smax, math.Max(math.Abs(lo), math.Abs(hi)))
		}
	}
	return smax
}
