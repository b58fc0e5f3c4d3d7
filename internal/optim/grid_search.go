// Package optim searches structure parameters for the run that minimises a
// metric.
package optim

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"

	"github.com/san-kum/tensim/internal/experiment"
)

var ErrNoTrials = errors.New("optim: no trial completed")

// Axis is one searched parameter and the values it takes.
type Axis struct {
	Name   string
	Values []float64
}

// Trial is the outcome of one grid point. Err is set when the run could not
// be built, failed or did not report the metric.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// Build creates a ready-to-run experiment for one set of parameters.
type Build func(params map[string]float64) (*experiment.Experiment, error)

type GridSearch struct {
	axes []Axis
}

func NewGridSearch(axes ...Axis) *GridSearch {
	return &GridSearch{axes: axes}
}

// Size is the number of grid points.
func (g *GridSearch) Size() int {
	if len(g.axes) == 0 {
		return 0
	}
	n := 1
	for _, a := range g.axes {
		n *= len(a.Values)
	}
	return n
}

// Search runs every grid point in order and returns the trial with the
// smallest metric value together with all trials. Runs that hit a numerical
// error are recorded but never chosen.
func (g *GridSearch) Search(ctx context.Context, build Build, metric string) (Trial, []Trial, error) {
	trials := make([]Trial, 0, g.Size())
	if g.Size() == 0 {
		return Trial{}, trials, ErrNoTrials
	}

	err := g.searchRecursive(ctx, 0, make(map[string]float64, len(g.axes)), func(params map[string]float64) {
		trials = append(trials, runTrial(ctx, build, params, metric))
	})
	if err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	found := false
	for _, t := range trials {
		if t.Err == nil && t.Value < best.Value {
			best = t
			found = true
		}
	}
	if !found {
		return Trial{}, trials, ErrNoTrials
	}
	return best, trials, nil
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.axes) {
		visit(maps.Clone(current))
		return nil
	}

	axis := g.axes[depth]
	for _, v := range axis.Values {
		current[axis.Name] = v
		if err := g.searchRecursive(ctx, depth+1, current, visit); err != nil {
			return err
		}
	}
	return nil
}

func runTrial(ctx context.Context, build Build, params map[string]float64, metric string) Trial {
	t := Trial{Params: params}

	exp, err := build(params)
	if err != nil {
		t.Err = err
		return t
	}

	result, err := exp.Run(ctx)
	switch {
	case err != nil:
		t.Err = err
	case len(result.Errors) > 0:
		t.Err = result.Errors[0]
	default:
		v, ok := result.Metrics[metric]
		if !ok {
			t.Err = fmt.Errorf("metric %s not reported", metric)
		}
		t.Value = v
	}
	return t
}
