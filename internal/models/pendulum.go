package models

import "github.com/san-kum/tensim/internal/tensegrity"

// Pendulum hangs a mass Length below a fixed pivot on a stiff, undamped
// strut and kicks it sideways with Speed.
type Pendulum struct {
	Length    float64
	Mass      float64
	Stiffness float64
	Damping   float64
	Speed     float64
}

func NewPendulum() *Pendulum {
	return &Pendulum{
		Length:    1.0,
		Mass:      1.0,
		Stiffness: 1000.0,
		Damping:   0.0,
		Speed:     0.1,
	}
}

func (p *Pendulum) Name() string        { return "pendulum" }
func (p *Pendulum) Description() string { return "mass on a stiff strut below a fixed pivot" }

func (p *Pendulum) Build() (*tensegrity.System, error) {
	if err := positive("length", p.Length); err != nil {
		return nil, err
	}
	if err := positive("stiffness", p.Stiffness); err != nil {
		return nil, err
	}

	sys := tensegrity.New()
	pivot, err := sys.AddNode(tensegrity.Vector{0, 0, p.Length}, tensegrity.Fixed())
	if err != nil {
		return nil, err
	}
	bob, err := sys.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.WithMass(p.Mass))
	if err != nil {
		return nil, err
	}
	_, err = sys.AddStrut(pivot, bob,
		tensegrity.WithStiffness(p.Stiffness),
		tensegrity.WithDamping(p.Damping))
	if err != nil {
		return nil, err
	}
	bob.Velocity = tensegrity.Vector{p.Speed, 0, 0}
	return sys, nil
}

func (p *Pendulum) GetParams() map[string]float64 {
	return map[string]float64{
		"length":    p.Length,
		"mass":      p.Mass,
		"stiffness": p.Stiffness,
		"damping":   p.Damping,
		"speed":     p.Speed,
	}
}

func (p *Pendulum) SetParam(name string, value float64) error {
	switch name {
	case "length":
		p.Length = value
	case "mass":
		p.Mass = value
	case "stiffness":
		p.Stiffness = value
	case "damping":
		p.Damping = value
	case "speed":
		p.Speed = value
	default:
		return unknownParam(p.Name(), name)
	}
	return nil
}
