package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/tensim/internal/config"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	dt             float64
	duration       float64
	integrator     string
	useConstraints bool
	sampleEvery    int
	seed           int64
	jitter         float64
	params         map[string]string
	configFile     string
	preset         string
	metricsAddr    string

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int

	plotNode int
	plotAxis int
	plotPath bool
	outFile  string
	divNode  int
	divAxis  int
	divPert  float64
	trials   int
	svgOut   string

	gridAxes  []string
	optMetric string

	snapOut     string
	snapInitial bool
	snapRotX    float64
	snapRotY    float64
	snapTheme   string
)

var logger *slog.Logger

func main() {
	rootCmd := &cobra.Command{
		Use:           "tensim",
		Short:         "tensegrity structure simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := newLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".tensim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	runCmd := &cobra.Command{
		Use:   "run [structure]",
		Short: "run simulation and save the result",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address during the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy components of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotNode, "node", -1, "also plot this node's coordinate")
	plotCmd.Flags().IntVar(&plotAxis, "axis", 0, "coordinate axis for --node")
	plotCmd.Flags().BoolVar(&plotPath, "path", false, "draw the --node trajectory in the first two axes")
	plotCmd.Flags().StringVar(&svgOut, "svg", "", "also write the --node trajectory to this SVG file")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of kinetic energy",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&plotNode, "node", -1, "also analyse this node's coordinate")
	analyzeCmd.Flags().IntVar(&plotAxis, "axis", 0, "coordinate axis for --node")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run frames to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	liveCmd := &cobra.Command{
		Use:   "live [structure]",
		Short: "run simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [structure]",
		Short: "list available presets for a structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for structure: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	structuresCmd := &cobra.Command{
		Use:   "structures",
		Short: "list structures and their parameters",
		RunE:  listStructures,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [structure]",
		Short: "sweep one structure parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	_ = sweepCmd.MarkFlagRequired("param")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [structure]",
		Short: "repeat a run with seeded velocity kicks",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addRunFlags(monteCarloCmd)
	monteCarloCmd.Flags().IntVar(&trials, "trials", 10, "number of trials")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario and save each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sensitivityCmd := &cobra.Command{
		Use:   "sensitivity [structure]",
		Short: "estimate divergence of a perturbed node",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSensitivity,
	}
	addRunFlags(sensitivityCmd)
	sensitivityCmd.Flags().IntVar(&divNode, "node", 0, "node to perturb")
	sensitivityCmd.Flags().IntVar(&divAxis, "axis", 0, "axis to perturb")
	sensitivityCmd.Flags().Float64Var(&divPert, "perturbation", 1e-8, "initial offset")

	optimizeCmd := &cobra.Command{
		Use:   "optimize [structure]",
		Short: "grid search structure parameters for the smallest metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOptimize,
	}
	addRunFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridAxes, "grid", nil, "parameter range as name=min:max:n (repeatable)")
	optimizeCmd.Flags().StringVar(&optMetric, "metric", "energy_drift", "metric to minimise")
	_ = optimizeCmd.MarkFlagRequired("grid")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [structure]",
		Short: "render the structure to SVG after a run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSnapshot,
	}
	addRunFlags(snapshotCmd)
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "structure.svg", "output file")
	snapshotCmd.Flags().BoolVar(&snapInitial, "initial", false, "render the initial state without running")
	snapshotCmd.Flags().Float64Var(&snapRotX, "rot-x", 0.5, "camera rotation about x (radians)")
	snapshotCmd.Flags().Float64Var(&snapRotY, "rot-y", 0.3, "camera rotation about y (radians)")
	snapshotCmd.Flags().StringVar(&snapTheme, "theme", "cyberpunk", "colour theme")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, liveCmd,
		presetsCmd, structuresCmd, sweepCmd, monteCarloCmd, scenarioCmd, sensitivityCmd,
		optimizeCmd, snapshotCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (verlet, euler, symplectic-euler)")
	cmd.Flags().BoolVar(&useConstraints, "constraints", false, "enable the constraint enforcer")
	cmd.Flags().IntVar(&sampleEvery, "sample", config.DefaultSampleEvery, "record a frame every n steps")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed for --jitter")
	cmd.Flags().Float64Var(&jitter, "jitter", 0, "random velocity kick on free nodes")
	cmd.Flags().StringToStringVar(&params, "set", nil, "structure parameters, e.g. --set height=2,perturbation=0.1")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func newLogger(level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}
	opts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
