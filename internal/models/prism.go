package models

import (
	"fmt"
	"math"

	"github.com/san-kum/tensim/internal/tensegrity"
)

var sin60 = math.Sqrt(3) / 2

// Prism is a three-strut tensegrity prism. The bottom triangle is fixed and
// rotated 30° against the top one; every cable is pre-tensioned by giving it
// a rest length of TensionFactor times its built length.
type Prism struct {
	Height         float64
	Radius         float64
	TopMass        float64
	StrutStiffness float64
	StrutDamping   float64
	CableStiffness float64
	CableDamping   float64
	TensionFactor  float64
	// Perturbation is the initial x and y velocity of each top node.
	Perturbation float64

	name string
}

func NewPrism() *Prism {
	return &Prism{
		Height:         1.0,
		Radius:         1.0,
		TopMass:        1.0,
		StrutStiffness: 1000.0,
		StrutDamping:   1.0,
		CableStiffness: 500.0,
		CableDamping:   0.5,
		TensionFactor:  0.95,
		Perturbation:   0.05,
		name:           "prism",
	}
}

// NewSoftPrism has very light top nodes, soft elements and heavy damping.
// It is meant for small time steps.
func NewSoftPrism() *Prism {
	return &Prism{
		Height:         1.0,
		Radius:         1.0,
		TopMass:        0.01,
		StrutStiffness: 50.0,
		StrutDamping:   2.0,
		CableStiffness: 25.0,
		CableDamping:   2.0,
		TensionFactor:  0.99,
		Perturbation:   1e-4,
		name:           "prism_soft",
	}
}

func (p *Prism) Name() string { return p.name }

func (p *Prism) Description() string {
	return "3-strut tensegrity prism on a fixed base"
}

func (p *Prism) Build() (*tensegrity.System, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	r, h := p.Radius, p.Height
	sys := tensegrity.New()

	top := []tensegrity.Vector{
		{r, 0, h},
		{-r / 2, r * sin60, h},
		{-r / 2, -r * sin60, h},
	}
	bottom := []tensegrity.Vector{
		{r * sin60, r / 2, 0},
		{-r, 0, 0},
		{r * (1 - sin60), -r / 2, 0},
	}

	n := make([]*tensegrity.Node, 0, 6)
	for _, pos := range top {
		node, err := sys.AddNode(pos, tensegrity.WithMass(p.TopMass))
		if err != nil {
			return nil, err
		}
		n = append(n, node)
	}
	for _, pos := range bottom {
		node, err := sys.AddNode(pos, tensegrity.Fixed())
		if err != nil {
			return nil, err
		}
		n = append(n, node)
	}

	for _, s := range [][2]int{{0, 4}, {1, 5}, {2, 3}} {
		_, err := sys.AddStrut(n[s[0]], n[s[1]],
			tensegrity.WithStiffness(p.StrutStiffness),
			tensegrity.WithDamping(p.StrutDamping))
		if err != nil {
			return nil, err
		}
	}

	cables := [][2]*tensegrity.Node{
		{n[0], n[1]}, {n[1], n[2]}, {n[2], n[0]},
		{n[3], n[4]}, {n[4], n[5]}, {n[5], n[3]},
		{n[0], n[3]}, {n[1], n[4]}, {n[2], n[5]},
	}
	if err := ring(sys, cables, p.TensionFactor, p.CableStiffness, p.CableDamping); err != nil {
		return nil, err
	}

	for _, node := range n[:3] {
		node.Velocity = tensegrity.Vector{p.Perturbation, p.Perturbation, 0}
	}

	return sys, nil
}

func (p *Prism) validate() error {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"height", p.Height},
		{"radius", p.Radius},
		{"top_mass", p.TopMass},
		{"strut_stiffness", p.StrutStiffness},
		{"cable_stiffness", p.CableStiffness},
		{"tension_factor", p.TensionFactor},
	} {
		if err := positive(c.name, c.v); err != nil {
			return err
		}
	}
	if err := nonNegative("strut_damping", p.StrutDamping); err != nil {
		return err
	}
	if err := nonNegative("cable_damping", p.CableDamping); err != nil {
		return err
	}
	if p.TensionFactor > 1 {
		return fmt.Errorf("%w: tension_factor must be at most 1, got %g", tensegrity.ErrInvalidParameter, p.TensionFactor)
	}
	return nil
}

// GetParams implements Structure
func (p *Prism) GetParams() map[string]float64 {
	return map[string]float64{
		"height":          p.Height,
		"radius":          p.Radius,
		"top_mass":        p.TopMass,
		"strut_stiffness": p.StrutStiffness,
		"strut_damping":   p.StrutDamping,
		"cable_stiffness": p.CableStiffness,
		"cable_damping":   p.CableDamping,
		"tension_factor":  p.TensionFactor,
		"perturbation":    p.Perturbation,
	}
}

// SetParam implements Structure
func (p *Prism) SetParam(name string, value float64) error {
	switch name {
	case "height":
		p.Height = value
	case "radius":
		p.Radius = value
	case "top_mass":
		p.TopMass = value
	case "strut_stiffness":
		p.StrutStiffness = value
	case "strut_damping":
		p.StrutDamping = value
	case "cable_stiffness":
		p.CableStiffness = value
	case "cable_damping":
		p.CableDamping = value
	case "tension_factor":
		p.TensionFactor = value
	case "perturbation":
		p.Perturbation = value
	default:
		return unknownParam(p.name, name)
	}
	return nil
}
