package models

import (
	"fmt"

	"github.com/san-kum/tensim/internal/tensegrity"
)

// Definition describes a structure node by node, as read from a config
// file. Elements reference nodes by their index in Nodes.
type Definition struct {
	Title   string       `yaml:"name,omitempty" json:"name,omitempty"`
	Gravity []float64    `yaml:"gravity,omitempty" json:"gravity,omitempty" validate:"omitempty,min=2,max=3"`
	Nodes   []NodeDef    `yaml:"nodes" json:"nodes" validate:"required,min=2,dive"`
	Cables  []ElementDef `yaml:"cables,omitempty" json:"cables,omitempty" validate:"dive"`
	Struts  []ElementDef `yaml:"struts,omitempty" json:"struts,omitempty" validate:"dive"`
}

type NodeDef struct {
	Position []float64 `yaml:"position" json:"position" validate:"required,min=2,max=3"`
	Velocity []float64 `yaml:"velocity,omitempty" json:"velocity,omitempty"`
	Mass     float64   `yaml:"mass,omitempty" json:"mass,omitempty" validate:"gte=0"`
	Fixed    bool      `yaml:"fixed,omitempty" json:"fixed,omitempty"`
}

// ElementDef omits rest length or damping to take the element defaults.
type ElementDef struct {
	From       int      `yaml:"from" json:"from" validate:"gte=0"`
	To         int      `yaml:"to" json:"to" validate:"gte=0,nefield=From"`
	RestLength *float64 `yaml:"rest_length,omitempty" json:"rest_length,omitempty" validate:"omitempty,gte=0"`
	Stiffness  float64  `yaml:"stiffness,omitempty" json:"stiffness,omitempty" validate:"gte=0"`
	Damping    *float64 `yaml:"damping,omitempty" json:"damping,omitempty" validate:"omitempty,gte=0"`
}

func (d *Definition) Name() string {
	if d.Title != "" {
		return d.Title
	}
	return "custom"
}

func (d *Definition) Description() string {
	return fmt.Sprintf("%d nodes, %d cables, %d struts from config", len(d.Nodes), len(d.Cables), len(d.Struts))
}

func (d *Definition) Build() (*tensegrity.System, error) {
	var opts []tensegrity.Option
	if d.Gravity != nil {
		opts = append(opts, tensegrity.WithGravity(d.Gravity))
	}
	sys := tensegrity.New(opts...)

	nodes := make([]*tensegrity.Node, len(d.Nodes))
	for i, nd := range d.Nodes {
		var nodeOpts []tensegrity.NodeOption
		if nd.Mass > 0 {
			nodeOpts = append(nodeOpts, tensegrity.WithMass(nd.Mass))
		}
		if nd.Fixed {
			nodeOpts = append(nodeOpts, tensegrity.Fixed())
		}
		n, err := sys.AddNode(nd.Position, nodeOpts...)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		if nd.Velocity != nil {
			if len(nd.Velocity) != n.Dimension() {
				return nil, fmt.Errorf("node %d: %w", i, &tensegrity.DimensionError{Want: n.Dimension(), Got: len(nd.Velocity)})
			}
			copy(n.Velocity, nd.Velocity)
		}
		nodes[i] = n
	}

	add := func(kind string, defs []ElementDef, fn func(a, b *tensegrity.Node, opts ...tensegrity.ElementOption) (*tensegrity.Element, error)) error {
		for i, ed := range defs {
			if ed.From < 0 || ed.From >= len(nodes) || ed.To < 0 || ed.To >= len(nodes) {
				return fmt.Errorf("%s %d: %w: %d-%d", kind, i, tensegrity.ErrUnknownNode, ed.From, ed.To)
			}
			var elOpts []tensegrity.ElementOption
			if ed.RestLength != nil {
				elOpts = append(elOpts, tensegrity.WithRestLength(*ed.RestLength))
			}
			if ed.Stiffness > 0 {
				elOpts = append(elOpts, tensegrity.WithStiffness(ed.Stiffness))
			}
			if ed.Damping != nil {
				elOpts = append(elOpts, tensegrity.WithDamping(*ed.Damping))
			}
			if _, err := fn(nodes[ed.From], nodes[ed.To], elOpts...); err != nil {
				return fmt.Errorf("%s %d: %w", kind, i, err)
			}
		}
		return nil
	}

	if err := add("cable", d.Cables, sys.AddCable); err != nil {
		return nil, err
	}
	if err := add("strut", d.Struts, sys.AddStrut); err != nil {
		return nil, err
	}
	return sys, nil
}

// GetParams is empty: a Definition is tuned by editing the file.
func (d *Definition) GetParams() map[string]float64 {
	return map[string]float64{}
}

func (d *Definition) SetParam(name string, value float64) error {
	return unknownParam(d.Name(), name)
}

// Describe converts a built system back into a Definition.
func Describe(name string, sys *tensegrity.System) *Definition {
	d := &Definition{
		Title:   name,
		Gravity: sys.Gravity(),
		Nodes:   make([]NodeDef, 0, len(sys.Nodes())),
	}
	for _, n := range sys.Nodes() {
		d.Nodes = append(d.Nodes, NodeDef{
			Position: n.Position.Clone(),
			Velocity: n.Velocity.Clone(),
			Mass:     n.Mass,
			Fixed:    n.Fixed,
		})
	}
	for _, e := range sys.Elements() {
		rest, damping := e.RestLength, e.Damping
		ed := ElementDef{From: e.Node1, To: e.Node2, RestLength: &rest, Stiffness: e.Stiffness, Damping: &damping}
		if e.Kind == tensegrity.Cable {
			d.Cables = append(d.Cables, ed)
		} else {
			d.Struts = append(d.Struts, ed)
		}
	}
	return d
}
