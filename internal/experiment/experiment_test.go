package experiment

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/solver"
	"github.com/sirupsen/logrus/hooks/test"
)

func sodConfig() Config {
	cfg := Config{
		Law:        "euler",
		Flux:       "hlle",
		Integrator: "ssprk2",
		Species:    []gas.Species{gas.MustSpecies(gas.Xenon, 0)},
		Cells:      100,
		Left:       0,
		Right:      1,
		Initial: func(x float64, _ gas.Species) conservation.Primitive {
			if x < 0.5 {
				return conservation.Primitive{Density: 1, Temperature: 300}
			}
			return conservation.Primitive{Density: 0.125, Temperature: 240}
		},
		Solver: solver.DefaultConfig(),
	}
	cfg.Solver.Duration = 3e-4
	return cfg
}

func TestRegistry_Lists(t *testing.T) {
	r := NewRegistry()

	if got := r.ListLaws(); !slices.Equal(got, []string{"continuity", "euler", "isothermal"}) {
		t.Errorf("laws = %v", got)
	}
	if got := r.ListFluxes(); !slices.Equal(got, []string{"hlle", "rusanov", "upwind"}) {
		t.Errorf("fluxes = %v", got)
	}
	if got := r.ListIntegrators(); !slices.Equal(got, []string{"euler", "ssprk2"}) {
		t.Errorf("integrators = %v", got)
	}
}

func TestRegistry_GetLaw(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name string
		kind conservation.Kind
	}{
		{"continuity", conservation.KindContinuity},
		{"isothermal", conservation.KindIsothermal},
		{"euler", conservation.KindEuler},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			law, err := r.GetLaw(tt.name, 100, 500)
			if err != nil {
				t.Fatal(err)
			}
			if law.Kind() != tt.kind {
				t.Errorf("kind = %v, want %v", law.Kind(), tt.kind)
			}
		})
	}

	if _, err := r.GetLaw("mhd", 0, 300); err == nil {
		t.Error("expected error for unknown law")
	}
	if _, err := r.GetLaw("isothermal", 0, -1); err == nil {
		t.Error("expected error for negative held temperature")
	}
}

func TestRegistry_Unknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.GetFlux("roe"); err == nil {
		t.Error("expected error for unknown flux")
	}
	if _, err := r.GetIntegrator("rk4"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestRegistry_IntegratorAlias(t *testing.T) {
	r := NewRegistry()
	integ, err := r.GetIntegrator("rk2")
	if err != nil {
		t.Fatalf("GetIntegrator(rk2): %v", err)
	}
	if integ.Name() != "ssprk2" {
		t.Errorf("rk2 resolved to %s, want ssprk2", integ.Name())
	}
	for _, name := range r.ListIntegrators() {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("listed integrator %s does not resolve: %v", name, err)
		}
	}
}

func TestRegistry_DefaultMetrics(t *testing.T) {
	r := NewRegistry()
	iso, _ := r.GetLaw("isothermal", 0, 300)

	names := func(ms []solver.Metric) []string {
		out := make([]string, len(ms))
		for i, m := range ms {
			out[i] = m.Name()
		}
		return out
	}

	if got := names(r.DefaultMetrics(iso)); slices.Contains(got, "energy_drift") {
		t.Errorf("isothermal metrics include energy drift: %v", got)
	}
	if got := names(r.DefaultMetrics(conservation.EulerEquations{})); !slices.Contains(got, "energy_drift") {
		t.Errorf("euler metrics lack energy drift: %v", got)
	}
}

func TestExperiment_RunNotSetup(t *testing.T) {
	e := New(sodConfig(), nil)
	if _, err := e.Run(context.Background()); err == nil {
		t.Error("expected error before setup")
	}
}

func TestExperiment_Sod(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := New(sodConfig(), log)
	if err := e.SetupFromRegistry(NewRegistry()); err != nil {
		t.Fatal(err)
	}

	result, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if drift := result.Metrics["mass_drift"]; drift > 1e-12 {
		t.Errorf("mass drift %v", drift)
	}
	if drift := result.Metrics["energy_drift"]; drift > 1e-12 {
		t.Errorf("energy drift %v", drift)
	}
	if result.Metrics["stability"] != 1 {
		t.Errorf("stability = %v", result.Metrics["stability"])
	}
	want := gas.Xenon.SoundSpeed(300)
	if peak := result.Metrics["peak_wave_speed"]; peak < want*(1-1e-9) || math.IsInf(peak, 0) {
		t.Errorf("peak wave speed %v below initial sound speed %v", peak, want)
	}
}

func TestExperiment_RejectsInadmissibleFixedBoundary(t *testing.T) {
	cfg := sodConfig()
	sp := cfg.Species[0]
	cfg.RightBC = solver.Fixed{States: map[gas.Species]conservation.Primitive{
		sp: {Density: 0, Temperature: 300},
	}}

	err := New(cfg, nil).SetupFromRegistry(NewRegistry())
	if !errors.Is(err, conservation.ErrInvalidState) {
		t.Fatalf("setup error = %v, want ErrInvalidState", err)
	}

	cfg.RightBC = solver.Fixed{States: map[gas.Species]conservation.Primitive{
		sp: {Density: 0.125, Temperature: 240},
	}}
	if err := New(cfg, nil).SetupFromRegistry(NewRegistry()); err != nil {
		t.Errorf("admissible fixed state rejected: %v", err)
	}
}

func TestExperiment_SetupErrors(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"unknown law", func(c *Config) { c.Law = "mhd" }},
		{"unknown flux", func(c *Config) { c.Flux = "roe" }},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk4" }},
		{"no species", func(c *Config) { c.Species = nil }},
		{"bad grid", func(c *Config) { c.Cells = 1 }},
		{"no initial state", func(c *Config) { c.Initial = nil }},
		{"vacuum euler", func(c *Config) {
			c.Initial = func(float64, gas.Species) conservation.Primitive {
				return conservation.Primitive{Temperature: 300}
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := sodConfig()
			tt.modify(&cfg)
			if err := New(cfg, nil).SetupFromRegistry(r); err == nil {
				t.Error("expected setup error")
			}
		})
	}
}
