package config

import (
	"fmt"
	"os"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/experiment"
	"github.com/san-kum/hallsim/internal/gas"
	"github.com/san-kum/hallsim/internal/solver"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCells       = 200
	DefaultLength      = 0.05 // channel length (m)
	DefaultDuration    = 1e-4
	DefaultCFL         = 0.8
	DefaultTemperature = 500.0
	DefaultMaxSteps    = 1_000_000
	DefaultMaxRetries  = 4
)

type Config struct {
	Law         string             `yaml:"law"`
	Flux        string             `yaml:"flux"`
	Integrator  string             `yaml:"integrator"`
	Velocity    float64            `yaml:"velocity"`
	Temperature float64            `yaml:"temperature"`
	Propellants []PropellantConfig `yaml:"propellants"`
	Grid        GridConfig         `yaml:"grid"`
	Initial     InitialConfig      `yaml:"initial"`
	Boundaries  BoundaryConfig     `yaml:"boundaries"`
	Solver      SolverConfig       `yaml:"solver"`
}

// PropellantConfig names a gas and the charge states carried for it.
type PropellantConfig struct {
	Element string `yaml:"element"`
	Charges []int  `yaml:"charges"`
}

type GridConfig struct {
	Cells int     `yaml:"cells"`
	Left  float64 `yaml:"left"`
	Right float64 `yaml:"right"`
}

type StateConfig struct {
	Density     float64 `yaml:"density"`
	Velocity    float64 `yaml:"velocity"`
	Temperature float64 `yaml:"temperature"`
}

// InitialConfig is a Riemann problem: Left holds for x < Split, Right
// elsewhere. Every species starts from the same state.
type InitialConfig struct {
	Split float64     `yaml:"split"`
	Left  StateConfig `yaml:"left"`
	Right StateConfig `yaml:"right"`
}

type BoundaryConfig struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// SolverConfig mirrors solver.Config. Zero numbers take the solver
// defaults; MaxRetries and MinDt are pointers because zero is a meaningful
// value for both (no retries, no step floor).
type SolverConfig struct {
	CFL           float64  `yaml:"cfl"`
	Duration      float64  `yaml:"duration"`
	Dt            float64  `yaml:"dt"`
	MinDt         *float64 `yaml:"min_dt,omitempty"`
	MaxSteps      int      `yaml:"max_steps"`
	Workers       int      `yaml:"workers"`
	MinChunk      int      `yaml:"min_chunk,omitempty"`
	SnapshotEvery int      `yaml:"snapshot_every"`
	MaxRetries    *int     `yaml:"max_retries,omitempty"`
	Policy        string   `yaml:"policy"`
}

func DefaultConfig() *Config {
	return &Config{
		Law:         "euler",
		Flux:        "hlle",
		Integrator:  "ssprk2",
		Temperature: DefaultTemperature,
		Propellants: []PropellantConfig{{Element: "Xe", Charges: []int{0}}},
		Grid: GridConfig{
			Cells: DefaultCells,
			Right: DefaultLength,
		},
		Initial: InitialConfig{
			Split: DefaultLength / 2,
			Left:  StateConfig{Density: 1e-4, Temperature: DefaultTemperature},
			Right: StateConfig{Density: 1e-5, Temperature: DefaultTemperature},
		},
		Boundaries: BoundaryConfig{Left: "outflow", Right: "outflow"},
		Solver: SolverConfig{
			CFL:      DefaultCFL,
			Duration: DefaultDuration,
			MaxSteps: DefaultMaxSteps,
			Policy:   "abort",
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads the file at path on top of a copy of base. Keys missing
// from the file keep the values of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Species expands the propellants into the species list, neutrals and
// ions alike.
func (c *Config) Species() ([]gas.Species, error) {
	if len(c.Propellants) == 0 {
		return nil, fmt.Errorf("config: no propellants")
	}
	var out []gas.Species
	for _, p := range c.Propellants {
		g, err := gas.Lookup(p.Element)
		if err != nil {
			return nil, err
		}
		charges := p.Charges
		if len(charges) == 0 {
			charges = []int{0}
		}
		for _, z := range charges {
			sp, err := gas.NewSpecies(g, z)
			if err != nil {
				return nil, fmt.Errorf("config: propellant %s: %w", p.Element, err)
			}
			out = append(out, sp)
		}
	}
	return gas.Sorted(out), nil
}

// Build resolves the config into an experiment. Names of the law, flux
// and integrator are checked when the experiment is set up.
func (c *Config) Build() (experiment.Config, error) {
	species, err := c.Species()
	if err != nil {
		return experiment.Config{}, err
	}

	left, right := c.Initial.Left.primitive(), c.Initial.Right.primitive()
	split := c.Initial.Split

	lbc, err := boundary(c.Boundaries.Left, species, left)
	if err != nil {
		return experiment.Config{}, err
	}
	rbc, err := boundary(c.Boundaries.Right, species, right)
	if err != nil {
		return experiment.Config{}, err
	}

	sc, err := c.Solver.build()
	if err != nil {
		return experiment.Config{}, err
	}

	return experiment.Config{
		Law:         c.Law,
		Velocity:    c.Velocity,
		Temperature: c.Temperature,
		Flux:        c.Flux,
		Integrator:  c.Integrator,
		Species:     species,
		Cells:       c.Grid.Cells,
		Left:        c.Grid.Left,
		Right:       c.Grid.Right,
		Initial: func(x float64, _ gas.Species) conservation.Primitive {
			if x < split {
				return left
			}
			return right
		},
		LeftBC:  lbc,
		RightBC: rbc,
		Solver:  sc,
	}, nil
}

func (s StateConfig) primitive() conservation.Primitive {
	return conservation.Primitive{Density: s.Density, Velocity: s.Velocity, Temperature: s.Temperature}
}

func boundary(name string, species []gas.Species, state conservation.Primitive) (solver.Boundary, error) {
	switch name {
	case "", "outflow":
		return solver.Outflow{}, nil
	case "fixed":
		states := make(map[gas.Species]conservation.Primitive, len(species))
		for _, sp := range species {
			states[sp] = state
		}
		return solver.Fixed{States: states}, nil
	}
	return nil, fmt.Errorf("config: unknown boundary %q", name)
}

// build overlays the non-zero fields on the solver defaults.
func (s SolverConfig) build() (solver.Config, error) {
	cfg := solver.DefaultConfig()
	if s.CFL != 0 {
		cfg.CFL = s.CFL
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	cfg.Dt = s.Dt
	if s.MaxSteps != 0 {
		cfg.MaxSteps = s.MaxSteps
	}
	if s.Workers != 0 {
		cfg.Workers = s.Workers
	}
	if s.MinChunk != 0 {
		cfg.MinChunk = s.MinChunk
	}
	if s.MinDt != nil {
		cfg.MinDt = *s.MinDt
	}
	cfg.SnapshotEvery = s.SnapshotEvery
	cfg.MaxRetries = DefaultMaxRetries
	if s.MaxRetries != nil {
		cfg.MaxRetries = *s.MaxRetries
	}
	policy, err := solver.ParsePolicy(s.Policy)
	if err != nil {
		return solver.Config{}, err
	}
	cfg.Policy = policy
	return cfg, cfg.Validate()
}

func (c *Config) clone() *Config {
	out := *c
	out.Propellants = make([]PropellantConfig, len(c.Propellants))
	for i, p := range c.Propellants {
		out.Propellants[i] = PropellantConfig{Element: p.Element, Charges: append([]int(nil), p.Charges...)}
	}
	if c.Solver.MinDt != nil {
		v := *c.Solver.MinDt
		out.Solver.MinDt = &v
	}
	if c.Solver.MaxRetries != nil {
		v := *c.Solver.MaxRetries
		out.Solver.MaxRetries = &v
	}
	return &out
}
