package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/hallsim/internal/conservation"
	"github.com/san-kum/hallsim/internal/flux"
	"github.com/san-kum/hallsim/internal/metrics"
	"github.com/san-kum/hallsim/internal/solver"
)

// DefaultStabilityLimit is the wave speed (m/s) above which a sample counts
// as unstable. Hall thruster ion beams stay well below it.
const DefaultStabilityLimit = 1e5

type Registry struct {
	laws        map[string]struct{}
	fluxes      map[string]flux.Func
	integrators map[string]struct{}
}

func NewRegistry() *Registry {
	r := &Registry{
		laws:        make(map[string]struct{}),
		fluxes:      make(map[string]flux.Func),
		integrators: make(map[string]struct{}),
	}

	for _, k := range conservation.Kinds() {
		r.laws[k.String()] = struct{}{}
	}

	for _, name := range flux.Names() {
		fn, _ := flux.ByName(name)
		r.fluxes[name] = fn
	}

	for _, name := range solver.IntegratorNames() {
		r.integrators[name] = struct{}{}
	}

	return r
}

// GetLaw builds the named conservation law. u and T are the held velocity
// and temperature; laws that evolve them ignore the values.
func (r *Registry) GetLaw(name string, u, T float64) (conservation.System, error) {
	kind, err := conservation.ParseKind(name)
	if err != nil {
		return nil, err
	}
	return conservation.New(kind, u, T)
}

func (r *Registry) GetFlux(name string) (flux.Func, error) {
	fn, ok := r.fluxes[name]
	if !ok {
		return nil, fmt.Errorf("unknown flux: %s", name)
	}
	return fn, nil
}

// GetIntegrator returns a fresh integrator. Aliases accepted by
// solver.IntegratorByName resolve too.
func (r *Registry) GetIntegrator(name string) (solver.Integrator, error) {
	return solver.IntegratorByName(name)
}

func (r *Registry) ListLaws() []string        { return sortedKeys(r.laws) }
func (r *Registry) ListFluxes() []string      { return sortedKeys(r.fluxes) }
func (r *Registry) ListIntegrators() []string { return sortedKeys(r.integrators) }

func (r *Registry) DefaultMetrics(law conservation.System) []solver.Metric {
	ms := []solver.Metric{
		metrics.NewMassDrift(),
		metrics.NewPeakWaveSpeed(),
		metrics.NewMeanSpeed(),
		metrics.NewStability(DefaultStabilityLimit),
	}
	if law.Kind() == conservation.KindEuler {
		ms = append(ms, metrics.NewEnergyDrift())
	}
	return ms
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
