package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/experiment"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/solver"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Law != "euler" {
		t.Errorf("expected law euler, got %s", cfg.Law)
	}
	if cfg.Solver.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if _, err := cfg.Build(); err != nil {
		t.Errorf("default config does not build: %v", err)
	}
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := []byte(`
law: isothermal
temperature: 800
propellants:
  - element: krypton
    charges: [0, 1, 2]
solver:
  cfl: 0.5
  policy: retry
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Law != "isothermal" || cfg.Temperature != 800 {
		t.Errorf("loaded %s at %v K", cfg.Law, cfg.Temperature)
	}
	if cfg.Grid.Cells != DefaultCells {
		t.Errorf("cells = %d, want default %d", cfg.Grid.Cells, DefaultCells)
	}

	ec, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if len(ec.Species) != 3 || ec.Species[2].String() != "Kr2+" {
		t.Errorf("species = %v", ec.Species)
	}
	if ec.Solver.CFL != 0.5 || ec.Solver.Policy != solver.PolicyRetry {
		t.Errorf("solver config = %+v", ec.Solver)
	}
	if ec.Solver.Duration != DefaultDuration {
		t.Errorf("duration = %v, want default", ec.Solver.Duration)
	}
}

func TestLoadOver_KeepsBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tweak.yaml")
	data := []byte(`
solver:
  cfl: 0.5
  min_dt: 0
  min_chunk: 16
  max_retries: 0
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	base := GetPreset("euler", "sod")
	cfg, err := LoadOver(path, base)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Initial.Right.Density != 0.125 || cfg.Solver.Duration != base.Solver.Duration {
		t.Errorf("preset values lost: right density %v, duration %v", cfg.Initial.Right.Density, cfg.Solver.Duration)
	}
	if base.Solver.CFL == 0.5 || base.Solver.MaxRetries != nil {
		t.Error("LoadOver modified its base")
	}

	ec, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if ec.Solver.CFL != 0.5 {
		t.Errorf("cfl = %v, want 0.5", ec.Solver.CFL)
	}
	if ec.Solver.MaxRetries != 0 {
		t.Errorf("max retries = %d, want 0", ec.Solver.MaxRetries)
	}
	if ec.Solver.MinDt != 0 || ec.Solver.MinChunk != 16 {
		t.Errorf("min dt %v, min chunk %d", ec.Solver.MinDt, ec.Solver.MinChunk)
	}
}

func TestSolverConfig_Defaults(t *testing.T) {
	sc, err := DefaultConfig().Solver.build()
	if err != nil {
		t.Fatal(err)
	}
	def := solver.DefaultConfig()
	if sc.MaxRetries != DefaultMaxRetries || sc.MinDt != def.MinDt || sc.MinChunk != def.MinChunk {
		t.Errorf("solver config = %+v", sc)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sod.yaml")
	want := GetPreset("euler", "sod")
	if err := Save(path, want); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Initial != want.Initial || got.Grid != want.Grid || got.Solver != want.Solver {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
	if !slices.Equal(got.Propellants[0].Charges, want.Propellants[0].Charges) {
		t.Errorf("charges = %v", got.Propellants[0].Charges)
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		target error
	}{
		{"unknown gas", func(c *Config) { c.Propellants[0].Element = "unobtainium" }, nil},
		{"negative charge", func(c *Config) { c.Propellants[0].Charges = []int{-1} }, gas.ErrInvalidChargeState},
		{"bad policy", func(c *Config) { c.Solver.Policy = "ignore" }, solver.ErrInvalidConfig},
		{"bad cfl", func(c *Config) { c.Solver.CFL = 2 }, solver.ErrInvalidConfig},
		{"no propellants", func(c *Config) { c.Propellants = nil }, nil},
		{"bad boundary", func(c *Config) { c.Boundaries.Left = "periodic" }, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			_, err := cfg.Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestBuild_InitialAndBoundaries(t *testing.T) {
	cfg := GetPreset("continuity", "advection")
	ec, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	sp := ec.Species[0]
	if got := ec.Initial(0, sp); got.Density != 2e-5 {
		t.Errorf("left state density %v", got.Density)
	}
	if got := ec.Initial(DefaultLength, sp); got.Density != 1e-6 {
		t.Errorf("right state density %v", got.Density)
	}

	fixed, ok := ec.LeftBC.(solver.Fixed)
	if !ok {
		t.Fatalf("left boundary is %T, want solver.Fixed", ec.LeftBC)
	}
	if fixed.States[sp] != (conservation.Primitive{Density: 2e-5}) {
		t.Errorf("fixed state %+v", fixed.States[sp])
	}
	if _, ok := ec.RightBC.(solver.Outflow); !ok {
		t.Errorf("right boundary is %T, want solver.Outflow", ec.RightBC)
	}
}

func TestPresetsBuild(t *testing.T) {
	reg := experiment.NewRegistry()
	for _, law := range ListLaws() {
		for _, name := range ListPresets(law) {
			t.Run(law+"/"+name, func(t *testing.T) {
				cfg := GetPreset(law, name)
				if cfg.Law != law {
					t.Errorf("preset law %s listed under %s", cfg.Law, law)
				}
				ec, err := cfg.Build()
				if err != nil {
					t.Fatal(err)
				}
				if err := experiment.New(ec, nil).SetupFromRegistry(reg); err != nil {
					t.Errorf("setup: %v", err)
				}
			})
		}
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("euler", "sod")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Initial.Right.Density != 0.125 {
		t.Errorf("expected right density 0.125, got %v", cfg.Initial.Right.Density)
	}

	// presets are copies
	cfg.Propellants[0].Charges[0] = 3
	if Presets["euler"]["sod"].Propellants[0].Charges[0] != 0 {
		t.Error("modifying a preset copy changed the preset")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("euler", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "sod") != nil {
		t.Error("expected nil for nonexistent law")
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil list for nonexistent law")
	}
}

func TestFindPreset(t *testing.T) {
	for _, name := range []string{"sod", "advection", "isothermal"} {
		if FindPreset(name) == nil {
			t.Errorf("preset %s not found", name)
		}
	}
	if FindPreset("nonexistent") != nil {
		t.Error("expected nil")
	}
}
