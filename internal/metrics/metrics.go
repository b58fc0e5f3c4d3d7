// Package metrics provides per-run scalar metrics that implement sim.Metric
// and a Prometheus registry that exports live simulation state.
package metrics

import "github.com/san-kum/tensim/internal/sim"

// Defaults returns a fresh set of the metrics recorded for every run.
// speedLimit is the threshold used by the stability ratio.
func Defaults(speedLimit float64) []sim.Metric {
	return []sim.Metric{
		NewEnergyDrift(),
		NewMeanEnergy(),
		NewStability(speedLimit),
		NewPeakSpeed(),
		NewPeakTension(),
		NewPeakCompression(),
	}
}
