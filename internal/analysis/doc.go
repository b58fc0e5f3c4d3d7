// Package analysis post-processes recorded runs.
//
//   - [PowerSpectrum] and [DominantFrequency]: oscillation content of a sampled signal
//   - [EnergySeries] and [NodeSeries]: columns extracted from run frames
//   - [TracePath] and [PathToASCII]: a node's trajectory projected onto two axes
//   - [UpCrossings]: threshold crossings of a series, for period estimates
//   - [Divergence]: growth rate of a small position perturbation
//
// # Sensitivity
//
// A positive divergence rate means nearby initial states separate
// exponentially:
//
//	rate, err := analysis.Divergence(build, 4, 0, 1e-8, 2.0)
//	if rate > 0 {
//	    // structure is sensitive to its initial state
//	}
package analysis
