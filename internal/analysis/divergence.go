package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/tensim/internal/sim"
)

// Builder returns a fresh simulator over its own System. Two calls must
// produce identical initial states.
type Builder func() (*sim.Simulator, error)

// Divergence estimates the largest growth rate of a perturbation of one
// node coordinate. Two copies are stepped side by side; after each step the
// separation in position and velocity space is measured and the perturbed
// copy is pulled back to the initial distance.
func Divergence(build Builder, node, axis int, perturbation, duration float64) (float64, error) {
	if !(perturbation > 0) {
		return 0, fmt.Errorf("perturbation must be positive, got %g", perturbation)
	}

	ref, err := build()
	if err != nil {
		return 0, err
	}
	pert, err := build()
	if err != nil {
		return 0, err
	}

	n := pert.System().Node(node)
	if n == nil {
		return 0, fmt.Errorf("no node %d", node)
	}
	if axis < 0 || axis >= n.Dimension() {
		return 0, fmt.Errorf("axis %d out of range for %dD", axis, n.Dimension())
	}
	if len(ref.System().Nodes()) != len(pert.System().Nodes()) {
		return 0, fmt.Errorf("builder produced different systems")
	}
	n.Position[axis] += perturbation

	dt := ref.Dt()
	steps := int(math.Round(duration / dt))
	if steps <= 0 {
		return 0, fmt.Errorf("duration %g shorter than one step", duration)
	}

	sumLog := 0.0
	for i := 0; i < steps; i++ {
		ref.Step()
		pert.Step()

		sep := separation(ref, pert)
		if sep == 0 || math.IsNaN(sep) || math.IsInf(sep, 0) {
			continue
		}
		sumLog += math.Log(sep / perturbation)
		renormalize(ref, pert, perturbation/sep)
	}

	return sumLog / (float64(steps) * dt), nil
}

func separation(a, b *sim.Simulator) float64 {
	sum := 0.0
	bn := b.System().Nodes()
	for i, na := range a.System().Nodes() {
		for d := range na.Position {
			dp := bn[i].Position[d] - na.Position[d]
			dv := bn[i].Velocity[d] - na.Velocity[d]
			sum += dp*dp + dv*dv
		}
	}
	return math.Sqrt(sum)
}

func renormalize(a, b *sim.Simulator, scale float64) {
	bn := b.System().Nodes()
	for i, na := range a.System().Nodes() {
		for d := range na.Position {
			bn[i].Position[d] = na.Position[d] + (bn[i].Position[d]-na.Position[d])*scale
			bn[i].Velocity[d] = na.Velocity[d] + (bn[i].Velocity[d]-na.Velocity[d])*scale
		}
	}
}
