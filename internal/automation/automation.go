package automation

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tensim/internal/config"
	"github.com/san-kum/tensim/internal/experiment"
	"github.com/san-kum/tensim/internal/sim"
)

// Scenario is a scripted sequence of runs read from YAML.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the defaults) and applies overrides.
type ScenarioStep struct {
	Structure  string             `yaml:"structure"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a validated run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Structure != "" {
		cfg.Structure = s.Structure
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Structure, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s/%s", cfg.Structure, s.Preset)
		}
		cfg = p
	}
	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if len(s.Params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(s.Params))
		}
		for k, v := range s.Params {
			cfg.Params[k] = v
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runner executes scenarios and sweeps. Log may be nil.
type Runner struct {
	Registry *experiment.Registry
	Log      *slog.Logger
}

func NewRunner(registry *experiment.Registry, log *slog.Logger) *Runner {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Runner{Registry: registry, Log: log}
}

// StepResult pairs a scenario step's configuration with its result.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *sim.Result
}

// RunScenario executes the steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		r.Log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "structure", cfg.Structure)

		exp := experiment.New(cfg)
		if err := exp.Setup(r.Registry, r.Registry.DefaultMetrics(cfg.Constraints.MaxVelocity)); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep varies one structure parameter linearly over NumSteps
// values between ParamMin and ParamMax.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

// Values returns the swept parameter values.
func (p *ParameterSweep) Values() []float64 {
	if p.NumSteps <= 1 {
		return []float64{p.ParamMin}
	}
	step := (p.ParamMax - p.ParamMin) / float64(p.NumSteps-1)
	vals := make([]float64, p.NumSteps)
	for i := range vals {
		vals[i] = p.ParamMin + float64(i)*step
	}
	return vals
}

type SweepResult struct {
	ParamValue  float64
	EnergyDrift float64
	MaxEnergy   float64
	MinEnergy   float64
	Stable      bool
	Metrics     map[string]float64
}

// RunSweep runs every parameter value concurrently, one System per run.
func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base configuration")
	}
	values := sweep.Values()

	factory := func(run int) (*sim.Simulator, error) {
		cfg := sweep.Base.Clone()
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, 1)
		}
		cfg.Params[sweep.ParamName] = values[run]

		exp := experiment.New(cfg)
		if err := exp.Setup(r.Registry, r.Registry.DefaultMetrics(cfg.Constraints.MaxVelocity)); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, values[run], err)
		}
		return exp.GetSimulator(), nil
	}

	r.Log.Info("sweep started", "structure", sweep.Base.Structure, "param", sweep.ParamName, "runs", len(values))

	simCfg := sim.Config{
		Duration:      sweep.Base.Duration,
		SampleEvery:   sweep.Base.SampleEvery,
		ValidateState: true,
	}
	runs, err := sim.NewEnsemble(factory, len(values)).Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, res := range runs {
		results[i] = summarize(values[i], res)
		r.Log.Debug("sweep run", "run", i+1, sweep.ParamName, values[i], "drift", results[i].EnergyDrift, "stable", results[i].Stable)
	}

	return results, nil
}

func summarize(value float64, res *sim.Result) SweepResult {
	out := SweepResult{
		ParamValue:  value,
		EnergyDrift: res.EnergyDrift,
		Stable:      len(res.Errors) == 0,
		Metrics:     res.Metrics,
		MinEnergy:   math.Inf(1),
		MaxEnergy:   math.Inf(-1),
	}
	for _, f := range res.Frames {
		out.MinEnergy = math.Min(out.MinEnergy, f.Energy.Total)
		out.MaxEnergy = math.Max(out.MaxEnergy, f.Energy.Total)
	}
	if len(res.Frames) == 0 {
		out.MinEnergy, out.MaxEnergy = 0, 0
	}
	return out
}

// MonteCarloConfig repeats a run with seeded random velocity kicks.
type MonteCarloConfig struct {
	Base      *config.Config
	Jitter    float64
	NumTrials int
	Seed      int64
}

type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	EnergyDrift float64
	Stable      bool
}

// RunMonteCarlo gives trial i the seed Seed+i, so results are reproducible.
func (r *Runner) RunMonteCarlo(ctx context.Context, mc *MonteCarloConfig) ([]MonteCarloResult, error) {
	if mc.Base == nil {
		return nil, fmt.Errorf("monte carlo has no base configuration")
	}

	factory := func(run int) (*sim.Simulator, error) {
		cfg := mc.Base.Clone()
		cfg.Seed = mc.Seed + int64(run)
		cfg.Jitter = mc.Jitter

		exp := experiment.New(cfg)
		if err := exp.Setup(r.Registry, nil); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	simCfg := sim.Config{
		Duration:      mc.Base.Duration,
		SampleEvery:   mc.Base.SampleEvery,
		ValidateState: true,
	}
	runs, err := sim.NewEnsemble(factory, mc.NumTrials).Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, res := range runs {
		results[i] = MonteCarloResult{
			TrialID:     i,
			Seed:        mc.Seed + int64(i),
			EnergyDrift: res.EnergyDrift,
			Stable:      len(res.Errors) == 0,
		}
	}
	r.Log.Info("monte carlo finished", "trials", len(results))

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
