package constraints_test

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/san-kum/tensim/internal/constraints"
	"github.com/san-kum/tensim/internal/tensegrity"
)

func TestEnforceNeverMovesFixedNodes(t *testing.T) {
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	coord := gen.Float64Range(-2, 2)
	rest := gen.Float64Range(0.1, 3)

	properties.Property("fixed endpoints keep position and velocity", prop.ForAll(
		func(x, y, z, l1, l2 float64) bool {
			sys := tensegrity.New()
			anchor, _ := sys.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.Fixed())
			free, _ := sys.AddNode(tensegrity.Vector{x, y, z})
			other, _ := sys.AddNode(tensegrity.Vector{z, x, y})
			anchor.Velocity = tensegrity.Vector{2, 0, 0}
			free.Velocity = tensegrity.Vector{y, z, x}

			_, _ = sys.AddCable(anchor, free, tensegrity.WithRestLength(l1), tensegrity.WithStiffness(2000))
			_, _ = sys.AddStrut(anchor, other, tensegrity.WithRestLength(l2), tensegrity.WithStiffness(2000))
			_, _ = sys.AddCable(free, other, tensegrity.WithRestLength(l2))

			e := constraints.New(sys, constraints.WithMaxTension(5), constraints.WithMaxCompression(5))
			for i := 0; i < 3; i++ {
				e.Enforce()
			}

			return anchor.Position[0] == 0 && anchor.Position[1] == 0 && anchor.Position[2] == 0 &&
				anchor.Velocity[0] == 2 && anchor.Velocity[1] == 0 && anchor.Velocity[2] == 0
		},
		coord, coord, coord, rest, rest,
	))

	properties.TestingRun(t)
}
