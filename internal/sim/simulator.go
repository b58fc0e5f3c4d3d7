package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/integrators"
	"github.com/san-kum/tensim/internal/tensegrity"
)

// Simulator steps one System forward in time. It is not safe for concurrent
// use and Step must not be called reentrantly.
type Simulator struct {
	system     *tensegrity.System
	dt         float64
	time       float64
	integrator Integrator
	enforcer   Enforcer
	external   map[int]ForceFunc
	metrics    []Metric
	observers  []Observer
}

type Option func(*Simulator)

// WithIntegrator replaces the default velocity-Verlet rule.
func WithIntegrator(i Integrator) Option {
	return func(s *Simulator) { s.integrator = i }
}

// WithEnforcer runs e after every step.
func WithEnforcer(e Enforcer) Option {
	return func(s *Simulator) { s.enforcer = e }
}

func New(system *tensegrity.System, dt float64, opts ...Option) (*Simulator, error) {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidTimestep, dt)
	}
	s := &Simulator{
		system:     system,
		dt:         dt,
		integrator: integrators.NewVelocityVerlet(),
		external:   make(map[int]ForceFunc),
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Simulator) System() *tensegrity.System { return s.system }
func (s *Simulator) Dt() float64                { return s.dt }
func (s *Simulator) Time() float64              { return s.time }
func (s *Simulator) Integrator() Integrator     { return s.integrator }

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// SetEnforcer switches constraint enforcement on (e != nil) or off.
func (s *Simulator) SetEnforcer(e Enforcer) { s.enforcer = e }

// AddExternalForce registers f for node id, replacing any earlier callback.
// Ids with no matching node are ignored at step time.
func (s *Simulator) AddExternalForce(id int, f ForceFunc) {
	s.external[id] = f
}

func (s *Simulator) RemoveExternalForce(id int) {
	delete(s.external, id)
}

// Step gathers forces once, advances every free node and then advances time
// by dt.
func (s *Simulator) Step() {
	forces := s.system.Forces()

	for id, f := range s.external {
		if total, ok := forces[id]; ok {
			total.AddInPlace(f(s.time))
		}
	}

	for _, n := range s.system.Nodes() {
		if n.Fixed {
			continue
		}
		s.integrator.Advance(n, forces[n.ID], s.dt)
	}

	if s.enforcer != nil {
		s.enforcer.Enforce()
	}

	s.time += s.dt
}

// Reset zeroes every velocity and acceleration and the clock. Positions,
// masses and topology are untouched.
func (s *Simulator) Reset() {
	for _, n := range s.system.Nodes() {
		for i := range n.Velocity {
			n.Velocity[i] = 0
			n.Acceleration[i] = 0
		}
	}
	s.time = 0
}

// Run steps for cfg.Duration of simulated time starting from the current
// state, sampling a frame every cfg.SampleEvery steps plus the final one.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(math.Round(cfg.Duration / s.dt))
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Frames:  make([]Frame, 0, steps/every+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	analyzer := energy.New(s.system)
	first := s.frame(0, analyzer)
	result.Frames = append(result.Frames, first)
	result.InitialEnergy = first.Energy.Total

	last := 0
	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			s.finish(result, analyzer, last)
			return result, ctx.Err()
		default:
		}

		s.Step()
		result.StepsTaken++

		if cfg.ValidateState {
			if id, ok := s.invalidNode(); ok {
				err := SimError{Time: s.time, Step: i, Message: fmt.Sprintf("node %d: invalid state (NaN/Inf)", id)}
				result.Errors = append(result.Errors, err)
				break
			}
		}

		for _, m := range s.metrics {
			m.Observe(s.system, s.time)
		}
		for _, obs := range s.observers {
			obs.OnStep(s.system, s.time)
		}

		if i%every == 0 {
			result.Frames = append(result.Frames, s.frame(i, analyzer))
			last = i
		}
	}

	s.finish(result, analyzer, last)
	return result, nil
}

func (s *Simulator) finish(result *Result, analyzer *energy.Analyzer, lastSampled int) {
	if result.StepsTaken != lastSampled {
		result.Frames = append(result.Frames, s.frame(result.StepsTaken, analyzer))
	}

	result.FinalEnergy = analyzer.Total()
	if result.InitialEnergy != 0 {
		result.EnergyDrift = math.Abs(result.FinalEnergy-result.InitialEnergy) / math.Abs(result.InitialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func (s *Simulator) frame(step int, analyzer *energy.Analyzer) Frame {
	nodes := s.system.Nodes()
	pos := make([]float64, 0, len(nodes)*s.system.Dimension())
	for _, n := range nodes {
		pos = append(pos, n.Position...)
	}
	return Frame{
		Step:      step,
		Time:      s.time,
		Positions: pos,
		Energy:    analyzer.Distribution(),
	}
}

func (s *Simulator) invalidNode() (int, bool) {
	for _, n := range s.system.Nodes() {
		if !n.Position.IsValid() || !n.Velocity.IsValid() {
			return n.ID, true
		}
	}
	return 0, false
}

func (s *Simulator) validateConfig(cfg Config) error {
	if !(cfg.Duration > 0) {
		return fmt.Errorf("%w: got %f", ErrInvalidDuration, cfg.Duration)
	}
	if cfg.SampleEvery < 0 {
		return fmt.Errorf("sample interval must be non-negative, got %d", cfg.SampleEvery)
	}
	return nil
}
