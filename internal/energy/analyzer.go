// Package energy computes kinetic, gravitational and elastic energy of a
// tensegrity system.
//
// An Analyzer holds no state of its own; every query reads the current
// positions and velocities of the system it was built with.
package energy

import (
	"math"

	"github.com/san-kum/tensim/internal/tensegrity"
)

// Threshold below which an energy contribution is reported as exactly zero.
const Threshold = 1e-10

// Distribution is a labeled snapshot of the energy components.
type Distribution struct {
	Kinetic       float64 `json:"kinetic"`
	Gravitational float64 `json:"gravitational"`
	Elastic       float64 `json:"elastic"`
	Total         float64 `json:"total"`
}

type Analyzer struct {
	sys *tensegrity.System
}

func New(sys *tensegrity.System) *Analyzer {
	return &Analyzer{sys: sys}
}

// Kinetic sums ½mv² over free nodes. Per-node contributions below Threshold
// are dropped.
func (a *Analyzer) Kinetic() float64 {
	ke := 0.0
	for _, n := range a.sys.Nodes() {
		if n.Fixed {
			continue
		}
		v2 := n.Velocity.Dot(n.Velocity)
		if e := 0.5 * n.Mass * v2; e >= Threshold {
			ke += e
		}
	}
	return ke
}

// Gravitational sums m·|g|·h over free nodes, where h is the position
// projected on -ĝ.
func (a *Analyzer) Gravitational() float64 {
	if a.sys.Dimension() == 0 {
		return 0
	}
	g := a.sys.Gravity()
	mag := g.Norm()
	if mag < Threshold {
		return 0
	}
	up := g.Scale(-1 / mag)

	pe := 0.0
	for _, n := range a.sys.Nodes() {
		if !n.Fixed {
			pe += n.Mass * mag * n.Position.Dot(up)
		}
	}
	return pe
}

// Elastic sums the one-sided strain energy of all cables and struts.
func (a *Analyzer) Elastic() float64 {
	pe := 0.0
	for _, e := range a.sys.Elements() {
		pe += e.ElasticEnergy()
	}
	return pe
}

func (a *Analyzer) Potential() float64 {
	return a.Gravitational() + a.Elastic()
}

func (a *Analyzer) Total() float64 {
	return a.Distribution().Total
}

func (a *Analyzer) Distribution() Distribution {
	d := Distribution{
		Kinetic:       a.Kinetic(),
		Gravitational: a.Gravitational(),
		Elastic:       a.Elastic(),
	}
	d.Total = snap(d.Kinetic) + snap(d.Gravitational) + snap(d.Elastic)
	return d
}

func snap(x float64) float64 {
	if math.Abs(x) < Threshold {
		return 0
	}
	return x
}
