package main

import (
	"fmt"
	"maps"
	"os"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/tensim/internal/automation"
	"github.com/san-kum/tensim/internal/experiment"
	"github.com/san-kum/tensim/internal/export"
	"github.com/san-kum/tensim/internal/optim"
	"github.com/san-kum/tensim/internal/viz"
)

// parseAxis reads name=min:max:n.
func parseAxis(raw string) (optim.Axis, error) {
	name, rng, ok := strings.Cut(raw, "=")
	if !ok || name == "" {
		return optim.Axis{}, fmt.Errorf("grid %q: want name=min:max:n", raw)
	}
	parts := strings.Split(rng, ":")
	if len(parts) != 3 {
		return optim.Axis{}, fmt.Errorf("grid %q: want name=min:max:n", raw)
	}
	lo, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid %s min: %w", name, err)
	}
	hi, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return optim.Axis{}, fmt.Errorf("grid %s max: %w", name, err)
	}
	n, err := strconv.Atoi(parts[2])
	if err != nil || n < 1 {
		return optim.Axis{}, fmt.Errorf("grid %s: count must be a positive integer", name)
	}

	sweep := automation.ParameterSweep{ParamMin: lo, ParamMax: hi, NumSteps: n}
	return optim.Axis{Name: name, Values: sweep.Values()}, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	axes := make([]optim.Axis, 0, len(gridAxes))
	for _, raw := range gridAxes {
		a, err := parseAxis(raw)
		if err != nil {
			return err
		}
		axes = append(axes, a)
	}

	registry := experiment.NewRegistry()
	build := func(p map[string]float64) (*experiment.Experiment, error) {
		c := cfg.Clone()
		if c.Params == nil {
			c.Params = make(map[string]float64, len(p))
		}
		maps.Copy(c.Params, p)
		exp := experiment.New(c)
		if err := exp.Setup(registry, registry.DefaultMetrics(c.Constraints.MaxVelocity)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := optim.NewGridSearch(axes...)
	logger.Info("grid search started", "structure", cfg.Structure, "points", g.Size(), "metric", optMetric)
	best, trials, err := g.Search(ctx, build, optMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "PARAMS\t%s\n", strings.ToUpper(optMetric))
	for _, t := range trials {
		if t.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", formatParams(t.Params), t.Err)
			continue
		}
		fmt.Fprintf(w, "%s\t%.6g\n", formatParams(t.Params), t.Value)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest: %s (%s = %.6g)\n", formatParams(best.Params), optMetric, best.Value)
	return nil
}

func formatParams(p map[string]float64) string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%.4g", name, p[name])
	}
	return strings.Join(parts, ",")
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	exp := experiment.New(cfg)
	if err := exp.Setup(registry, nil); err != nil {
		return err
	}

	sys := exp.GetSimulator().System()
	cam := viz.NewCamera()
	cam.Fit(sys)
	cam.RotX, cam.RotY = snapRotX, snapRotY

	if !snapInitial {
		ctx, cancel := signalContext()
		defer cancel()
		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}
		for _, e := range result.Errors {
			logger.Warn("simulation error", "error", e)
		}
	}

	f, err := os.Create(snapOut)
	if err != nil {
		return err
	}
	if err := export.StructureSVG(f, sys, cam, 800, 600, viz.GetTheme(snapTheme)); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %s (t=%.3fs)\n", snapOut, exp.GetSimulator().Time())
	return nil
}
