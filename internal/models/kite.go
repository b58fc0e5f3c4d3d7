package models

import "github.com/san-kum/tensim/internal/tensegrity"

// Kite is a planar structure: a vertical and a horizontal strut held in a
// diamond of four cables, pinned at the bottom tip.
type Kite struct {
	Span           float64
	Height         float64
	Mass           float64
	StrutStiffness float64
	CableStiffness float64
	Damping        float64
	TensionFactor  float64
}

func NewKite() *Kite {
	return &Kite{
		Span:           1.0,
		Height:         1.5,
		Mass:           0.1,
		StrutStiffness: 800.0,
		CableStiffness: 200.0,
		Damping:        0.5,
		TensionFactor:  0.97,
	}
}

func (k *Kite) Name() string        { return "kite" }
func (k *Kite) Description() string { return "2D strut cross in a cable diamond, pinned at the tail" }

func (k *Kite) Build() (*tensegrity.System, error) {
	for _, c := range []struct {
		name string
		v    float64
	}{
		{"span", k.Span},
		{"height", k.Height},
		{"mass", k.Mass},
		{"strut_stiffness", k.StrutStiffness},
		{"cable_stiffness", k.CableStiffness},
		{"tension_factor", k.TensionFactor},
	} {
		if err := positive(c.name, c.v); err != nil {
			return nil, err
		}
	}

	sys := tensegrity.New()
	tail, err := sys.AddNode(tensegrity.Vector{0, 0}, tensegrity.Fixed())
	if err != nil {
		return nil, err
	}
	mass := tensegrity.WithMass(k.Mass)
	left, _ := sys.AddNode(tensegrity.Vector{-k.Span / 2, k.Height / 3}, mass)
	right, _ := sys.AddNode(tensegrity.Vector{k.Span / 2, k.Height / 3}, mass)
	nose, _ := sys.AddNode(tensegrity.Vector{0, k.Height}, mass)

	struts := [][2]*tensegrity.Node{{tail, nose}, {left, right}}
	for _, s := range struts {
		_, err := sys.AddStrut(s[0], s[1],
			tensegrity.WithStiffness(k.StrutStiffness),
			tensegrity.WithDamping(k.Damping))
		if err != nil {
			return nil, err
		}
	}

	cables := [][2]*tensegrity.Node{{tail, left}, {left, nose}, {nose, right}, {right, tail}}
	if err := ring(sys, cables, k.TensionFactor, k.CableStiffness, k.Damping); err != nil {
		return nil, err
	}
	return sys, nil
}

func (k *Kite) GetParams() map[string]float64 {
	return map[string]float64{
		"span":            k.Span,
		"height":          k.Height,
		"mass":            k.Mass,
		"strut_stiffness": k.StrutStiffness,
		"cable_stiffness": k.CableStiffness,
		"damping":         k.Damping,
		"tension_factor":  k.TensionFactor,
	}
}

func (k *Kite) SetParam(name string, value float64) error {
	switch name {
	case "span":
		k.Span = value
	case "height":
		k.Height = value
	case "mass":
		k.Mass = value
	case "strut_stiffness":
		k.StrutStiffness = value
	case "cable_stiffness":
		k.CableStiffness = value
	case "damping":
		k.Damping = value
	case "tension_factor":
		k.TensionFactor = value
	default:
		return unknownParam(k.Name(), name)
	}
	return nil
}
