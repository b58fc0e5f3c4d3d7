package integrators

import "github.com/san-kum/tensim/internal/tensegrity"

// Euler is the explicit Euler rule: position uses the old velocity.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (Euler) Name() string { return "euler" }

func (Euler) Advance(n *tensegrity.Node, force tensegrity.Vector, dt float64) {
	inv := 1 / n.Mass
	for i := range n.Position {
		a := force[i] * inv
		n.Position[i] += n.Velocity[i] * dt
		n.Velocity[i] += a * dt
		n.Acceleration[i] = a
	}
}

// SymplecticEuler updates velocity first and moves with the new velocity.
type SymplecticEuler struct{}

func NewSymplecticEuler() *SymplecticEuler {
	return &SymplecticEuler{}
}

func (SymplecticEuler) Name() string { return "symplectic-euler" }

func (SymplecticEuler) Advance(n *tensegrity.Node, force tensegrity.Vector, dt float64) {
	inv := 1 / n.Mass
	for i := range n.Position {
		a := force[i] * inv
		n.Velocity[i] += a * dt
		n.Position[i] += n.Velocity[i] * dt
		n.Acceleration[i] = a
	}
}
