package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/tensim/internal/analysis"
	"github.com/san-kum/tensim/internal/automation"
	"github.com/san-kum/tensim/internal/config"
	"github.com/san-kum/tensim/internal/experiment"
	"github.com/san-kum/tensim/internal/metrics"
	"github.com/san-kum/tensim/internal/sim"
	"github.com/san-kum/tensim/internal/storage"
	"github.com/san-kum/tensim/internal/viz"
)

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	structure := cfg.Structure
	if len(args) > 0 {
		structure = args[0]
		cfg.Structure = structure
	}

	if preset != "" {
		p := config.GetPreset(structure, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(structure))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && loaded.Definition == nil {
			loaded.Structure = structure
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("constraints") {
		cfg.Constraints.Enabled = useConstraints
	}
	if flags.Changed("sample") {
		cfg.SampleEvery = sampleEvery
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("jitter") {
		cfg.Jitter = jitter
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64, len(params))
		}
		for name, raw := range params {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("parameter %s: %w", name, err)
			}
			cfg.Params[name] = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, registry.DefaultMetrics(cfg.Constraints.MaxVelocity)); err != nil {
		return err
	}

	var promReg *metrics.Registry
	if metricsAddr != "" {
		promReg = metrics.NewRegistry()
		exp.GetSimulator().AddObserver(promReg)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promReg.Handler())
		srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "addr", metricsAddr, "error", err)
			}
		}()
		defer srv.Close()
		logger.Info("serving metrics", "addr", metricsAddr)
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running simulation", "structure", cfg.Structure, "integrator", cfg.Integrator,
		"dt", cfg.Dt, "duration", cfg.Duration, "constraints", cfg.Constraints.Enabled)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	elapsed := time.Since(start)
	if promReg != nil {
		status := "ok"
		if runErr != nil || len(result.Errors) > 0 {
			status = "error"
		}
		promReg.RecordRun(status, elapsed)
	}
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run interrupted, saving partial result", "error", runErr)
	}
	for _, e := range result.Errors {
		logger.Warn("simulation error", "error", e)
	}

	sys := exp.GetSimulator().System()
	meta := storage.RunMetadata{
		Structure:   exp.Structure().Name(),
		Seed:        cfg.Seed,
		Dt:          cfg.Dt,
		Duration:    cfg.Duration,
		Integrator:  cfg.Integrator,
		Constraints: cfg.Constraints.Enabled,
		Dimension:   sys.Dimension(),
		Nodes:       len(sys.Nodes()),
		Params:      exp.Structure().GetParams(),
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("energy: %.6g -> %.6g (drift %.3e)\n", result.InitialEnergy, result.FinalEnergy, result.EnergyDrift)
	printMetrics(result.Metrics)

	return runErr
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6g\n", name, m[name])
	}
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func() (*sim.Simulator, error) {
		exp := experiment.New(cfg.Clone())
		if err := exp.Setup(registry, nil); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	title := cfg.Structure
	if cfg.Definition != nil {
		title = cfg.Definition.Name()
	}
	m, err := viz.NewModel(title, build, cfg.ConstraintOptions(), cfg.Constraints.Enabled)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(experiment.NewRegistry(), logger)
	results, err := runner.RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tDRIFT\tMIN E\tMAX E\tPEAK SPEED\tSTABLE\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.3e\t%.4g\t%.4g\t%.4g\t%v\n",
			r.ParamValue, r.EnergyDrift, r.MinEnergy, r.MaxEnergy, r.Metrics["peak_speed"], r.Stable)
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	kick := cfg.Jitter
	if kick == 0 {
		kick = 0.01
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(experiment.NewRegistry(), logger)
	results, err := runner.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		Jitter:    kick,
		NumTrials: trials,
		Seed:      cfg.Seed,
	})
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	worst := 0.0
	for _, r := range results {
		worst = max(worst, r.EnergyDrift)
	}
	fmt.Printf("trials: %d (stable %d, unstable %d)\n", len(results), stable, unstable)
	fmt.Printf("worst energy drift: %.3e\n", worst)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := automation.NewRunner(experiment.NewRegistry(), logger)
	results, err := runner.RunScenario(ctx, scenario)
	if err != nil {
		return err
	}

	for i, r := range results {
		if r.Step.SaveAs == "" {
			fmt.Printf("step %d: %s drift %.3e\n", i+1, r.Config.Structure, r.Result.EnergyDrift)
			continue
		}
		dim, nodes := structureShape(r.Config.Structure)
		runID, err := st.Save(storage.RunMetadata{
			Structure:   r.Config.Structure,
			Label:       r.Step.SaveAs,
			Seed:        r.Config.Seed,
			Dt:          r.Config.Dt,
			Duration:    r.Config.Duration,
			Integrator:  r.Config.Integrator,
			Constraints: r.Config.Constraints.Enabled,
			Dimension:   dim,
			Nodes:       nodes,
			Params:      r.Config.Params,
		}, r.Result)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		fmt.Printf("step %d: %s (%s) saved as %s\n", i+1, r.Config.Structure, r.Step.SaveAs, runID)
	}
	return nil
}

// structureShape rebuilds the named structure to recover the dimension and
// node count that scenario results do not carry.
func structureShape(name string) (int, int) {
	s, err := experiment.NewRegistry().GetStructure(name)
	if err != nil {
		return 0, 0
	}
	sys, err := s.Build()
	if err != nil {
		return 0, 0
	}
	return sys.Dimension(), len(sys.Nodes())
}

func runSensitivity(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	build := func() (*sim.Simulator, error) {
		exp := experiment.New(cfg.Clone())
		if err := exp.Setup(registry, nil); err != nil {
			return nil, err
		}
		return exp.GetSimulator(), nil
	}

	rate, err := analysis.Divergence(build, divNode, divAxis, divPert, cfg.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("divergence rate: %.4g 1/s\n", rate)
	if rate > 0 {
		fmt.Printf("e-folding time: %.4g s\n", 1/rate)
	}
	return nil
}
