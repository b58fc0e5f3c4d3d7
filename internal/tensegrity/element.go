package tensegrity

import "math"

// Epsilon floors element lengths to keep directions finite.
const Epsilon = 1e-10

// dampingClip bounds the damping magnitude relative to the axial force.
const dampingClip = 10.0

// Kind distinguishes the one-sided force rule of an element.
type Kind int

const (
	// Cable carries tension only.
	Cable Kind = iota
	// Strut carries compression only.
	Strut
)

func (k Kind) String() string {
	switch k {
	case Cable:
		return "cable"
	case Strut:
		return "strut"
	default:
		return "unknown"
	}
}

// Element is a cable or strut between two nodes of the same System.
// Node1 and Node2 are indices into the system's node arena.
type Element struct {
	ID         int
	Kind       Kind
	Node1      int
	Node2      int
	RestLength float64
	Stiffness  float64
	Damping    float64

	sys *System
}

// Endpoints resolves the element's nodes.
func (e *Element) Endpoints() (*Node, *Node) {
	return e.sys.nodes[e.Node1], e.sys.nodes[e.Node2]
}

func (e *Element) delta() Vector {
	n1, n2 := e.Endpoints()
	return n2.Position.Sub(n1.Position)
}

// Length is the current distance between the endpoints, floored at Epsilon.
func (e *Element) Length() float64 {
	return math.Max(e.delta().Norm(), Epsilon)
}

// Direction is the unit vector from Node1 to Node2. Coincident endpoints
// fall back to the first basis vector.
func (e *Element) Direction() Vector {
	d := e.delta()
	l := d.Norm()
	if l < Epsilon {
		return Basis(len(d), 0)
	}
	return d.Scale(1 / l)
}

// Deformation is Length - RestLength: positive when stretched.
func (e *Element) Deformation() float64 {
	return e.Length() - e.RestLength
}

// Force is the axial force, positive for tension and negative for
// compression. Cables clamp to >= 0, struts to <= 0.
func (e *Element) Force() float64 {
	f := e.Stiffness * e.Deformation()
	switch e.Kind {
	case Cable:
		return math.Max(0, f)
	case Strut:
		return math.Min(0, f)
	}
	return f
}

// ForceVector is Direction scaled by Force. It is the force the element
// exerts on Node1; Node2 receives the negation, so tension pulls the ends
// together and compression pushes them apart.
func (e *Element) ForceVector() Vector {
	return e.Direction().Scale(e.Force())
}

// DampingForce is the axial damping force on Node1 (Node2 receives the
// negation). Its magnitude is clipped to dampingClip times the clamped axial
// force.
func (e *Element) DampingForce() Vector {
	n1, n2 := e.Endpoints()
	dir := e.Direction()
	rel := n2.Velocity.Sub(n1.Velocity)

	mag := e.Damping * rel.Dot(dir)
	limit := math.Abs(e.Force()) * dampingClip
	mag = math.Max(-limit, math.Min(limit, mag))

	return dir.Scale(mag)
}

// ElasticEnergy is ½kΔ² for the deformation sign that produces force and
// zero otherwise.
func (e *Element) ElasticEnergy() float64 {
	d := e.Deformation()
	if (e.Kind == Cable && d > 0) || (e.Kind == Strut && d < 0) {
		return 0.5 * e.Stiffness * d * d
	}
	return 0
}
