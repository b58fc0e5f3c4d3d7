package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/tensim/internal/integrators"
	"github.com/san-kum/tensim/internal/metrics"
	"github.com/san-kum/tensim/internal/models"
	"github.com/san-kum/tensim/internal/sim"
)

type Registry struct {
	structures  map[string]func() models.Structure
	integrators map[string]func() sim.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		structures:  make(map[string]func() models.Structure),
		integrators: make(map[string]func() sim.Integrator),
	}

	r.structures["prism"] = func() models.Structure { return models.NewPrism() }
	r.structures["prism_soft"] = func() models.Structure { return models.NewSoftPrism() }
	r.structures["spring"] = func() models.Structure { return models.NewSpring() }
	r.structures["pendulum"] = func() models.Structure { return models.NewPendulum() }
	r.structures["kite"] = func() models.Structure { return models.NewKite() }

	r.integrators["verlet"] = func() sim.Integrator { return integrators.NewVelocityVerlet() }
	r.integrators["euler"] = func() sim.Integrator { return integrators.NewEuler() }
	r.integrators["symplectic-euler"] = func() sim.Integrator { return integrators.NewSymplecticEuler() }

	return r
}

// GetStructure returns a fresh builder with default parameters.
func (r *Registry) GetStructure(name string) (models.Structure, error) {
	fn, ok := r.structures[name]
	if !ok {
		return nil, fmt.Errorf("unknown structure: %s", name)
	}
	return fn(), nil
}

func (r *Registry) GetIntegrator(name string) (sim.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListStructures() []string {
	return sortedKeys(r.structures)
}

func (r *Registry) ListIntegrators() []string {
	return sortedKeys(r.integrators)
}

// DefaultMetrics returns the metrics recorded for every run. The speed limit
// feeds the stability ratio.
func (r *Registry) DefaultMetrics(speedLimit float64) []sim.Metric {
	return metrics.Defaults(speedLimit)
}

func sortedKeys[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
