package integrators

import "github.com/san-kum/tensim/internal/tensegrity"

// VelocityVerlet advances a node with the stored acceleration from the
// previous step:
//
//	x += v·dt + ½a·dt²
//	a' = F/m
//	v += ½(a + a')·dt
//
// The force passed in is evaluated at the start of the step, so this is the
// single-evaluation form used by the simulator.
type VelocityVerlet struct{}

func NewVelocityVerlet() *VelocityVerlet {
	return &VelocityVerlet{}
}

func (VelocityVerlet) Name() string { return "verlet" }

func (VelocityVerlet) Advance(n *tensegrity.Node, force tensegrity.Vector, dt float64) {
	dt2 := dt * dt
	for i := range n.Position {
		n.Position[i] += n.Velocity[i]*dt + 0.5*n.Acceleration[i]*dt2
	}

	halfDt := 0.5 * dt
	inv := 1 / n.Mass
	for i := range n.Velocity {
		aNew := force[i] * inv
		n.Velocity[i] += (n.Acceleration[i] + aNew) * halfDt
		n.Acceleration[i] = aNew
	}
}
