package models

import "github.com/san-kum/tensim/internal/tensegrity"

// Spring is one free mass held by a pre-tensioned cable to a fixed anchor,
// without gravity.
type Spring struct {
	Stiffness  float64
	RestLength float64
	Separation float64
	Mass       float64
	Damping    float64
}

func NewSpring() *Spring {
	return &Spring{
		Stiffness:  100.0,
		RestLength: 0.8,
		Separation: 1.0,
		Mass:       1.0,
		Damping:    0.0,
	}
}

func (s *Spring) Name() string        { return "spring" }
func (s *Spring) Description() string { return "pre-tensioned cable on a fixed anchor, no gravity" }

func (s *Spring) Build() (*tensegrity.System, error) {
	if err := positive("stiffness", s.Stiffness); err != nil {
		return nil, err
	}
	if err := nonNegative("rest_length", s.RestLength); err != nil {
		return nil, err
	}

	sys := tensegrity.New(tensegrity.WithGravity(tensegrity.Vector{0, 0, 0}))
	anchor, err := sys.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.Fixed())
	if err != nil {
		return nil, err
	}
	bob, err := sys.AddNode(tensegrity.Vector{s.Separation, 0, 0}, tensegrity.WithMass(s.Mass))
	if err != nil {
		return nil, err
	}
	_, err = sys.AddCable(anchor, bob,
		tensegrity.WithRestLength(s.RestLength),
		tensegrity.WithStiffness(s.Stiffness),
		tensegrity.WithDamping(s.Damping))
	if err != nil {
		return nil, err
	}
	return sys, nil
}

func (s *Spring) GetParams() map[string]float64 {
	return map[string]float64{
		"stiffness":   s.Stiffness,
		"rest_length": s.RestLength,
		"separation":  s.Separation,
		"mass":        s.Mass,
		"damping":     s.Damping,
	}
}

func (s *Spring) SetParam(name string, value float64) error {
	switch name {
	case "stiffness":
		s.Stiffness = value
	case "rest_length":
		s.RestLength = value
	case "separation":
		s.Separation = value
	case "mass":
		s.Mass = value
	case "damping":
		s.Damping = value
	default:
		return unknownParam(s.Name(), name)
	}
	return nil
}
