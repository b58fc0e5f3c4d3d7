package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/san-kum/tensim/internal/config"
	"github.com/san-kum/tensim/internal/constraints"
	"github.com/san-kum/tensim/internal/models"
	"github.com/san-kum/tensim/internal/sim"
	"github.com/san-kum/tensim/internal/tensegrity"
)

// Experiment turns a run configuration into a ready simulator.
type Experiment struct {
	cfg        *config.Config
	structure  models.Structure
	simulator  *sim.Simulator
	enforcer   *constraints.Enforcer
	randSource *rand.Rand
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{
		cfg:        cfg,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Setup builds the structure, applies parameter overrides and jitter, and
// wires the integrator, the optional constraint enforcer and the metrics.
func (e *Experiment) Setup(r *Registry, metrics []sim.Metric) error {
	structure, err := e.resolveStructure(r)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(e.cfg.Params))
	for name := range e.cfg.Params {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := structure.SetParam(name, e.cfg.Params[name]); err != nil {
			return fmt.Errorf("structure %s: %w", structure.Name(), err)
		}
	}

	sys, err := structure.Build()
	if err != nil {
		return fmt.Errorf("build %s: %w", structure.Name(), err)
	}
	e.jitter(sys)

	integ, err := r.GetIntegrator(e.cfg.Integrator)
	if err != nil {
		return err
	}

	s, err := sim.New(sys, e.cfg.Dt, sim.WithIntegrator(integ))
	if err != nil {
		return err
	}

	if e.cfg.Constraints.Enabled {
		e.enforcer = constraints.New(sys, e.cfg.ConstraintOptions()...)
		s.SetEnforcer(e.enforcer)
	}

	for _, m := range metrics {
		s.AddMetric(m)
	}

	e.structure = structure
	e.simulator = s
	return nil
}

func (e *Experiment) resolveStructure(r *Registry) (models.Structure, error) {
	if e.cfg.Definition != nil {
		return e.cfg.Definition, nil
	}
	return r.GetStructure(e.cfg.Structure)
}

// jitter kicks every free node by a uniform random velocity in
// [-Jitter, Jitter] per axis.
func (e *Experiment) jitter(sys *tensegrity.System) {
	if e.cfg.Jitter == 0 {
		return
	}
	for _, n := range sys.Nodes() {
		if n.Fixed {
			continue
		}
		for i := range n.Velocity {
			n.Velocity[i] += (e.randSource.Float64()*2 - 1) * e.cfg.Jitter
		}
	}
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	simCfg := sim.Config{
		Duration:      e.cfg.Duration,
		SampleEvery:   e.cfg.SampleEvery,
		ValidateState: true,
	}

	return e.simulator.Run(ctx, simCfg)
}

// GetSimulator returns the underlying simulator for adding observers.
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Structure() models.Structure {
	return e.structure
}

// Enforcer is nil unless constraints are enabled.
func (e *Experiment) Enforcer() *constraints.Enforcer {
	return e.enforcer
}

func (e *Experiment) Config() *config.Config {
	return e.cfg
}
