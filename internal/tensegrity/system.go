package tensegrity

import (
	"fmt"
	"math"
)

const (
	DefaultMass      = 1.0
	DefaultStiffness = 1.0
	DefaultDamping   = 0.1
	StandardGravity  = 9.81
)

// System owns the nodes and elements of one structure. Its dimension is set
// by the first node added.
type System struct {
	nodes     []*Node
	cables    []*Element
	struts    []*Element
	dimension int
	gravity   Vector
}

// Option configures a System.
type Option func(*System)

// WithGravity overrides the default gravity of 9.81 downward along the last
// axis.
func WithGravity(g Vector) Option {
	return func(s *System) {
		s.gravity = g.Clone()
	}
}

func New(opts ...Option) *System {
	s := &System{
		nodes:  make([]*Node, 0),
		cables: make([]*Element, 0),
		struts: make([]*Element, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type nodeConfig struct {
	mass  float64
	fixed bool
}

// NodeOption configures a node added with AddNode.
type NodeOption func(*nodeConfig)

func WithMass(m float64) NodeOption {
	return func(c *nodeConfig) { c.mass = m }
}

// Fixed pins the node in space.
func Fixed() NodeOption {
	return func(c *nodeConfig) { c.fixed = true }
}

// AddNode appends a node at position. The first node fixes the system's
// dimension; later nodes of another dimension are rejected.
func (s *System) AddNode(position Vector, opts ...NodeOption) (*Node, error) {
	cfg := nodeConfig{mass: DefaultMass}
	for _, opt := range opts {
		opt(&cfg)
	}

	dim := len(position)
	if s.dimension == 0 {
		if dim != 2 && dim != 3 {
			return nil, fmt.Errorf("%w: got %dD", ErrInvalidDimension, dim)
		}
	} else if dim != s.dimension {
		return nil, &DimensionError{Want: s.dimension, Got: dim}
	}
	if !(cfg.mass > 0) || math.IsInf(cfg.mass, 0) {
		return nil, fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParameter, cfg.mass)
	}
	if !position.IsValid() {
		return nil, fmt.Errorf("%w: position %v", ErrInvalidParameter, position)
	}

	s.dimension = dim
	n := newNode(len(s.nodes), position, cfg.mass, cfg.fixed)
	s.nodes = append(s.nodes, n)
	return n, nil
}

type elementConfig struct {
	restLength *float64
	stiffness  float64
	damping    float64
}

// ElementOption configures a cable or strut.
type ElementOption func(*elementConfig)

// WithRestLength sets the length of zero axial force. Without it the rest
// length is the current endpoint distance.
func WithRestLength(l float64) ElementOption {
	return func(c *elementConfig) { c.restLength = &l }
}

func WithStiffness(k float64) ElementOption {
	return func(c *elementConfig) { c.stiffness = k }
}

func WithDamping(d float64) ElementOption {
	return func(c *elementConfig) { c.damping = d }
}

// AddCable connects n1 and n2 with a tension-only element.
func (s *System) AddCable(n1, n2 *Node, opts ...ElementOption) (*Element, error) {
	e, err := s.newElement(Cable, len(s.cables), n1, n2, opts)
	if err != nil {
		return nil, err
	}
	s.cables = append(s.cables, e)
	return e, nil
}

// AddStrut connects n1 and n2 with a compression-only element.
func (s *System) AddStrut(n1, n2 *Node, opts ...ElementOption) (*Element, error) {
	e, err := s.newElement(Strut, len(s.struts), n1, n2, opts)
	if err != nil {
		return nil, err
	}
	s.struts = append(s.struts, e)
	return e, nil
}

func (s *System) newElement(kind Kind, id int, n1, n2 *Node, opts []ElementOption) (*Element, error) {
	if !s.owns(n1) || !s.owns(n2) {
		return nil, ErrUnknownNode
	}
	if n1.ID == n2.ID {
		return nil, fmt.Errorf("%w: node %d", ErrDegenerateElement, n1.ID)
	}

	cfg := elementConfig{stiffness: DefaultStiffness, damping: DefaultDamping}
	for _, opt := range opts {
		opt(&cfg)
	}

	rest := Distance(n1.Position, n2.Position)
	if cfg.restLength != nil {
		rest = *cfg.restLength
	}
	switch {
	case rest < 0 || math.IsNaN(rest):
		return nil, fmt.Errorf("%w: rest length %g", ErrInvalidParameter, rest)
	case !(cfg.stiffness > 0):
		return nil, fmt.Errorf("%w: stiffness %g", ErrInvalidParameter, cfg.stiffness)
	case cfg.damping < 0 || math.IsNaN(cfg.damping):
		return nil, fmt.Errorf("%w: damping %g", ErrInvalidParameter, cfg.damping)
	}

	return &Element{
		ID:         id,
		Kind:       kind,
		Node1:      n1.ID,
		Node2:      n2.ID,
		RestLength: rest,
		Stiffness:  cfg.stiffness,
		Damping:    cfg.damping,
		sys:        s,
	}, nil
}

func (s *System) owns(n *Node) bool {
	return n != nil && n.ID >= 0 && n.ID < len(s.nodes) && s.nodes[n.ID] == n
}

// Dimension returns 2 or 3, or 0 for an empty system.
func (s *System) Dimension() int { return s.dimension }

// Gravity returns the gravity vector restricted to the system's dimension.
// An empty system reports the 3D form.
func (s *System) Gravity() Vector {
	dim := s.dimension
	if dim == 0 {
		dim = 3
	}
	if s.gravity == nil {
		g := Zero(dim)
		g[dim-1] = -StandardGravity
		return g
	}
	return s.gravity.Truncate(dim)
}

func (s *System) Nodes() []*Node     { return s.nodes }
func (s *System) Cables() []*Element { return s.cables }
func (s *System) Struts() []*Element { return s.struts }

// Elements returns cables followed by struts.
func (s *System) Elements() []*Element {
	all := make([]*Element, 0, len(s.cables)+len(s.struts))
	all = append(all, s.cables...)
	return append(all, s.struts...)
}

// Node returns the node with the given id, or nil.
func (s *System) Node(id int) *Node {
	if id < 0 || id >= len(s.nodes) {
		return nil
	}
	return s.nodes[id]
}

// Forces returns the total force on every node: gravity on free nodes plus
// the axial and damping forces of every element. Fixed nodes are present in
// the map but callers must not integrate them.
func (s *System) Forces() map[int]Vector {
	forces := make(map[int]Vector, len(s.nodes))
	for _, n := range s.nodes {
		forces[n.ID] = Zero(n.Dimension())
	}
	if s.dimension == 0 {
		return forces
	}

	g := s.Gravity()
	for _, n := range s.nodes {
		if !n.Fixed {
			forces[n.ID].AddInPlace(g.Scale(n.Mass))
		}
	}

	for _, e := range s.Elements() {
		f := e.ForceVector()
		f.AddInPlace(e.DampingForce())
		forces[e.Node1].AddInPlace(f)
		forces[e.Node2].SubInPlace(f)
	}

	return forces
}

// Clone deep-copies the system. Elements of the copy reference the copy's
// nodes.
func (s *System) Clone() *System {
	c := &System{
		nodes:     make([]*Node, len(s.nodes)),
		cables:    make([]*Element, len(s.cables)),
		struts:    make([]*Element, len(s.struts)),
		dimension: s.dimension,
	}
	if s.gravity != nil {
		c.gravity = s.gravity.Clone()
	}
	for i, n := range s.nodes {
		c.nodes[i] = n.clone()
	}
	for i, e := range s.cables {
		ce := *e
		ce.sys = c
		c.cables[i] = &ce
	}
	for i, e := range s.struts {
		ce := *e
		ce.sys = c
		c.struts[i] = &ce
	}
	return c
}
