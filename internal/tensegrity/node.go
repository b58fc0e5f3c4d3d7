package tensegrity

// Node is a point mass. Fixed nodes are never moved by the engine.
type Node struct {
	ID           int
	Position     Vector
	Velocity     Vector
	Acceleration Vector
	Mass         float64
	Fixed        bool
}

func newNode(id int, position Vector, mass float64, fixed bool) *Node {
	dim := len(position)
	return &Node{
		ID:           id,
		Position:     position.Clone(),
		Velocity:     Zero(dim),
		Acceleration: Zero(dim),
		Mass:         mass,
		Fixed:        fixed,
	}
}

// Dimension returns 2 or 3.
func (n *Node) Dimension() int {
	return len(n.Position)
}

func (n *Node) clone() *Node {
	return &Node{
		ID:           n.ID,
		Position:     n.Position.Clone(),
		Velocity:     n.Velocity.Clone(),
		Acceleration: n.Acceleration.Clone(),
		Mass:         n.Mass,
		Fixed:        n.Fixed,
	}
}
