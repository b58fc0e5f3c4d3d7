package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/tensegrity"
)

var (
	ErrInvalidTimestep = errors.New("sim: timestep must be positive and finite")
	ErrInvalidDuration = errors.New("sim: duration must be positive")
)

// Integrator advances one free node by dt given the total force on it.
type Integrator interface {
	Name() string
	Advance(n *tensegrity.Node, force tensegrity.Vector, dt float64)
}

// Enforcer is applied after every integration step when set.
type Enforcer interface {
	Enforce()
}

// ForceFunc returns an external force for the current simulation time.
type ForceFunc func(t float64) tensegrity.Vector

type Metric interface {
	Name() string
	Observe(sys *tensegrity.System, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(sys *tensegrity.System, t float64)
}

type Config struct {
	Duration      float64
	SampleEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Duration:      10.0,
		SampleEvery:   10,
		ValidateState: true,
	}
}

// Frame is one sampled state of a run. Positions are flattened node by node.
type Frame struct {
	Step      int                 `json:"step"`
	Time      float64             `json:"time"`
	Positions []float64           `json:"positions"`
	Energy    energy.Distribution `json:"energy"`
}

type Result struct {
	Frames        []Frame
	Metrics       map[string]float64
	InitialEnergy float64
	FinalEnergy   float64
	EnergyDrift   float64
	StepsTaken    int
	Errors        []error
}

type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
