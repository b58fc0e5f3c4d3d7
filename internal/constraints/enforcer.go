// Package constraints projects a tensegrity system back toward physically
// admissible states after integration.
//
// The passes are heuristics: they bound element forces and node speeds and
// bleed off force imbalance, but they do not guarantee convergence for
// extreme parameter choices. Fixed nodes are never moved.
package constraints

import "github.com/san-kum/tensim/internal/tensegrity"

const (
	DefaultMaxTension           = 1000.0
	DefaultMaxCompression       = 1000.0
	DefaultMaxVelocity          = 1.0
	DefaultEquilibriumTolerance = 1e-6
	DefaultBalanceDamping       = 0.1
)

type Enforcer struct {
	sys            *tensegrity.System
	maxTension     float64
	maxCompression float64
	maxVelocity    float64
	tolerance      float64
	balanceDamping float64
}

type Option func(*Enforcer)

func WithMaxTension(f float64) Option {
	return func(e *Enforcer) { e.maxTension = f }
}

func WithMaxCompression(f float64) Option {
	return func(e *Enforcer) { e.maxCompression = f }
}

func WithMaxVelocity(v float64) Option {
	return func(e *Enforcer) { e.maxVelocity = v }
}

// WithEquilibriumTolerance sets the net force below which a node counts as
// balanced.
func WithEquilibriumTolerance(tol float64) Option {
	return func(e *Enforcer) { e.tolerance = tol }
}

func WithBalanceDamping(d float64) Option {
	return func(e *Enforcer) { e.balanceDamping = d }
}

func New(sys *tensegrity.System, opts ...Option) *Enforcer {
	e := &Enforcer{
		sys:            sys,
		maxTension:     DefaultMaxTension,
		maxCompression: DefaultMaxCompression,
		maxVelocity:    DefaultMaxVelocity,
		tolerance:      DefaultEquilibriumTolerance,
		balanceDamping: DefaultBalanceDamping,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Enforce runs every pass in order: cable repair and tension cap, strut
// repair and compression cap, velocity clamp, force-balance relaxation.
func (e *Enforcer) Enforce() {
	e.enforceCables()
	e.enforceStruts()
	e.limitVelocities()
	e.relaxForces()
}

func (e *Enforcer) enforceCables() {
	for _, c := range e.sys.Cables() {
		if l := c.Length(); l < c.RestLength {
			separate(c, c.RestLength-l)
		}
		if f := c.Force(); f > e.maxTension {
			separate(c, -(f-e.maxTension)/c.Stiffness)
		}
	}
}

func (e *Enforcer) enforceStruts() {
	for _, s := range e.sys.Struts() {
		if l := s.Length(); l > s.RestLength {
			separate(s, -(l - s.RestLength))
		}
		if f := -s.Force(); f > e.maxCompression {
			separate(s, (f-e.maxCompression)/s.Stiffness)
		}
	}
}

// separate moves the endpoints of el apart by d along its direction (together
// when d < 0). Two free endpoints split the correction, a single free
// endpoint takes all of it.
func separate(el *tensegrity.Element, d float64) {
	n1, n2 := el.Endpoints()
	if n1.Fixed && n2.Fixed {
		return
	}
	delta := el.Direction().Scale(d)
	if !n1.Fixed && !n2.Fixed {
		delta = delta.Scale(0.5)
	}
	if !n1.Fixed {
		n1.Position.SubInPlace(delta)
	}
	if !n2.Fixed {
		n2.Position.AddInPlace(delta)
	}
}

func (e *Enforcer) limitVelocities() {
	for _, n := range e.sys.Nodes() {
		if n.Fixed {
			continue
		}
		if speed := n.Velocity.Norm(); speed > e.maxVelocity {
			copy(n.Velocity, n.Velocity.Scale(e.maxVelocity/speed))
		}
	}
}

func (e *Enforcer) relaxForces() {
	forces := e.sys.Forces()
	for _, n := range e.sys.Nodes() {
		if n.Fixed {
			continue
		}
		f := forces[n.ID]
		if f.Norm() > e.tolerance {
			n.Velocity.SubInPlace(f.Scale(e.balanceDamping / n.Mass))
		}
	}
}

// IsStable reports whether every free node's net force is within the
// equilibrium tolerance.
func (e *Enforcer) IsStable() bool {
	forces := e.sys.Forces()
	for _, n := range e.sys.Nodes() {
		if !n.Fixed && forces[n.ID].Norm() > e.tolerance {
			return false
		}
	}
	return true
}

// StrainDistribution lists the strain energy of every stretched cable and
// every compressed strut, in element order.
type StrainDistribution struct {
	Cables []float64 `json:"cables"`
	Struts []float64 `json:"struts"`
}

func (e *Enforcer) StrainEnergyDistribution() StrainDistribution {
	d := StrainDistribution{
		Cables: make([]float64, 0, len(e.sys.Cables())),
		Struts: make([]float64, 0, len(e.sys.Struts())),
	}
	for _, c := range e.sys.Cables() {
		if c.Deformation() > 0 {
			d.Cables = append(d.Cables, c.ElasticEnergy())
		}
	}
	for _, s := range e.sys.Struts() {
		if s.Deformation() < 0 {
			d.Struts = append(d.Struts, s.ElasticEnergy())
		}
	}
	return d
}
