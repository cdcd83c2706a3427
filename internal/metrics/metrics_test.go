package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/grid"
)

var xe = gas.MustSpecies(gas.Xenon, 0)

func uniformField(t *testing.T, law conservation.System, p conservation.Primitive) *grid.Field {
	t.Helper()
	g, err := grid.NewUniform(10, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	l, err := grid.NewLayout(law, []gas.Species{xe})
	if err != nil {
		t.Fatal(err)
	}
	f := grid.NewField(g, l)
	if err := f.Initialize(func(float64, gas.Species) conservation.Primitive { return p }); err != nil {
		t.Fatal(err)
	}
	return f
}

func TestMassDrift(t *testing.T) {
	f := uniformField(t, conservation.EulerEquations{}, conservation.Primitive{Density: 1, Temperature: 300})
	m := NewMassDrift()

	m.Observe(0, f)
	if m.Value() != 0 {
		t.Errorf("expected zero drift, got %v", m.Value())
	}

	g := f.Clone()
	g.Cell(3, 0)[0] += 1 // total mass 1.0 -> 1.1
	m.Observe(1, g)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("drift = %v, want 0.1", m.Value())
	}

	// drift is a running maximum
	m.Observe(2, f)
	if math.Abs(m.Value()-0.1) > 1e-12 {
		t.Errorf("drift = %v after recovery, want 0.1", m.Value())
	}

	m.Reset()
	m.Observe(0, g)
	if m.Value() != 0 {
		t.Errorf("expected zero drift after reset, got %v", m.Value())
	}
}

func TestEnergyDrift_SkipsReducedLaws(t *testing.T) {
	law, _ := conservation.NewIsothermalEuler(300)
	f := uniformField(t, law, conservation.Primitive{Density: 1, Velocity: 10})
	e := NewEnergyDrift()
	e.Observe(0, f)
	f.Cell(1, 0)[0] = 5
	e.Observe(1, f)
	if e.Value() != 0 {
		t.Errorf("expected no energy drift for isothermal law, got %v", e.Value())
	}
}

func TestEnergyDrift(t *testing.T) {
	f := uniformField(t, conservation.EulerEquations{}, conservation.Primitive{Density: 1, Temperature: 300})
	e := NewEnergyDrift()
	e.Observe(0, f)

	g := f.Clone()
	for i := 1; i <= 10; i++ {
		g.Cell(i, 0)[2] *= 1.05
	}
	e.Observe(1, g)
	if math.Abs(e.Value()-0.05) > 1e-12 {
		t.Errorf("drift = %v, want 0.05", e.Value())
	}
}

func TestPeakWaveSpeed(t *testing.T) {
	f := uniformField(t, conservation.EulerEquations{}, conservation.Primitive{Density: 1, Velocity: -100, Temperature: 300})
	p := NewPeakWaveSpeed()
	p.Observe(0, f)

	want := 100 + gas.Xenon.SoundSpeed(300)
	if math.Abs(p.Value()-want) > 1e-9 {
		t.Errorf("peak = %v, want %v", p.Value(), want)
	}

	p.Reset()
	if p.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestMeanSpeed(t *testing.T) {
	law, _ := conservation.NewContinuityOnly(-250, 300)
	f := uniformField(t, law, conservation.Primitive{Density: 2})
	m := NewMeanSpeed()
	m.Observe(0, f)
	m.Observe(1, f)
	if math.Abs(m.Value()-250) > 1e-9 {
		t.Errorf("mean speed = %v, want 250", m.Value())
	}
}

func TestStability(t *testing.T) {
	f := uniformField(t, conservation.EulerEquations{}, conservation.Primitive{Density: 1, Temperature: 300})
	s := NewStability(1e4)

	if s.Value() != 1 {
		t.Errorf("expected 1 with no samples, got %v", s.Value())
	}

	s.Observe(0, f)
	bad := f.Clone()
	bad.Cell(2, 0)[0] = -1
	s.Observe(1, bad)

	if math.Abs(s.Value()-0.5) > 1e-12 {
		t.Errorf("stability = %v, want 0.5", s.Value())
	}

	fast := uniformField(t, conservation.EulerEquations{}, conservation.Primitive{Density: 1, Velocity: 2e4, Temperature: 300})
	s.Reset()
	s.Observe(0, fast)
	if s.Value() != 0 {
		t.Errorf("stability = %v, want 0 above threshold", s.Value())
	}
}
