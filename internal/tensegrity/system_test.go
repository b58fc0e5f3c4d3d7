package tensegrity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSystemDimensionEnforcement(t *testing.T) {
	sys := New()
	_, err := sys.AddNode(Vector{0, 0, 0})
	require.NoError(t, err)
	require.Equal(t, 3, sys.Dimension())

	_, err = sys.AddNode(Vector{1, 1})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrDimensionMismatch))

	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	require.Equal(t, 3, dimErr.Want)
	require.Equal(t, 2, dimErr.Got)

	require.Len(t, sys.Nodes(), 1)
}

func TestSystemRejectsInvalidFirstDimension(t *testing.T) {
	sys := New()
	_, err := sys.AddNode(Vector{1})
	require.ErrorIs(t, err, ErrInvalidDimension)
	require.Equal(t, 0, sys.Dimension())
	require.Empty(t, sys.Nodes())
}

func TestSystemNodeDefaults(t *testing.T) {
	sys := New()
	n, err := sys.AddNode(Vector{1, 2, 3})
	require.NoError(t, err)

	require.Equal(t, 0, n.ID)
	require.Equal(t, DefaultMass, n.Mass)
	require.False(t, n.Fixed)
	require.Equal(t, Vector{0, 0, 0}, n.Velocity)
	require.Equal(t, Vector{0, 0, 0}, n.Acceleration)
	require.Equal(t, 3, n.Dimension())
}

func TestSystemNodeCopiesPosition(t *testing.T) {
	sys := New()
	pos := Vector{1, 2, 3}
	n, err := sys.AddNode(pos)
	require.NoError(t, err)

	pos[0] = 99
	require.Equal(t, 1.0, n.Position[0])
}

func TestSystemRejectsBadMass(t *testing.T) {
	sys := New()
	_, err := sys.AddNode(Vector{0, 0}, WithMass(0))
	require.ErrorIs(t, err, ErrInvalidParameter)
	_, err = sys.AddNode(Vector{0, 0}, WithMass(-1))
	require.ErrorIs(t, err, ErrInvalidParameter)
	require.Empty(t, sys.Nodes())
	require.Equal(t, 0, sys.Dimension())
}

func TestSystemElementDefaults(t *testing.T) {
	sys := New()
	a, _ := sys.AddNode(Vector{0, 0, 0})
	b, _ := sys.AddNode(Vector{3, 4, 0})

	c, err := sys.AddCable(a, b)
	require.NoError(t, err)
	require.InDelta(t, 5.0, c.RestLength, 1e-12)
	require.Equal(t, DefaultStiffness, c.Stiffness)
	require.Equal(t, DefaultDamping, c.Damping)
	require.Equal(t, Cable, c.Kind)

	s, err := sys.AddStrut(a, b, WithStiffness(50), WithDamping(2), WithRestLength(4))
	require.NoError(t, err)
	require.Equal(t, 4.0, s.RestLength)
	require.Equal(t, 50.0, s.Stiffness)
	require.Equal(t, 2.0, s.Damping)
	require.Equal(t, Strut, s.Kind)
}

func TestSystemDenseIDsPerCollection(t *testing.T) {
	sys := New()
	nodes := make([]*Node, 4)
	for i := range nodes {
		n, err := sys.AddNode(Vector{float64(i), 0})
		require.NoError(t, err)
		require.Equal(t, i, n.ID)
		nodes[i] = n
	}

	c0, _ := sys.AddCable(nodes[0], nodes[1])
	s0, _ := sys.AddStrut(nodes[1], nodes[2])
	c1, _ := sys.AddCable(nodes[2], nodes[3])
	s1, _ := sys.AddStrut(nodes[3], nodes[0])

	require.Equal(t, 0, c0.ID)
	require.Equal(t, 1, c1.ID)
	require.Equal(t, 0, s0.ID)
	require.Equal(t, 1, s1.ID)
	require.Equal(t, []*Element{c0, c1, s0, s1}, sys.Elements())
}

func TestSystemElementValidation(t *testing.T) {
	sys := New()
	a, _ := sys.AddNode(Vector{0, 0})
	b, _ := sys.AddNode(Vector{1, 0})

	other := New()
	foreign, _ := other.AddNode(Vector{0, 0})

	_, err := sys.AddCable(a, foreign)
	require.ErrorIs(t, err, ErrUnknownNode)

	_, err = sys.AddCable(a, a)
	require.ErrorIs(t, err, ErrDegenerateElement)

	_, err = sys.AddStrut(a, b, WithStiffness(0))
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = sys.AddStrut(a, b, WithDamping(-1))
	require.ErrorIs(t, err, ErrInvalidParameter)

	_, err = sys.AddCable(a, b, WithRestLength(-0.5))
	require.ErrorIs(t, err, ErrInvalidParameter)

	require.Empty(t, sys.Cables())
	require.Empty(t, sys.Struts())
}

func TestSystemElementSeesNodeMutation(t *testing.T) {
	sys := New()
	a, _ := sys.AddNode(Vector{0, 0, 0})
	b, _ := sys.AddNode(Vector{1, 0, 0})
	c, _ := sys.AddCable(a, b)

	sys.Node(1).Position[0] = 2
	require.InDelta(t, 2.0, c.Length(), 1e-12)
}

func TestSystemDefaultGravity(t *testing.T) {
	require.Equal(t, Vector{0, 0, -StandardGravity}, New().Gravity())

	planar := New()
	_, _ = planar.AddNode(Vector{0, 0})
	require.Equal(t, Vector{0, -StandardGravity}, planar.Gravity())

	custom := New(WithGravity(Vector{1, 2, 3}))
	_, _ = custom.AddNode(Vector{0, 0})
	require.Equal(t, Vector{1, 2}, custom.Gravity())
}

func TestSystemForcesGravityOnFreeNodesOnly(t *testing.T) {
	sys := New()
	fixed, _ := sys.AddNode(Vector{0, 0, 1}, Fixed(), WithMass(3))
	free, _ := sys.AddNode(Vector{0, 0, 0}, WithMass(2))

	forces := sys.Forces()
	require.Len(t, forces, 2)
	require.Equal(t, Vector{0, 0, 0}, forces[fixed.ID])
	require.InDeltaSlice(t, []float64{0, 0, -2 * StandardGravity}, []float64(forces[free.ID]), 1e-12)
}

func TestSystemForcesNewtonThirdLaw(t *testing.T) {
	sys := New(WithGravity(Vector{0, 0, 0}))
	a, _ := sys.AddNode(Vector{0, 0, 0})
	b, _ := sys.AddNode(Vector{1.3, 0.2, 0})
	c, _ := sys.AddNode(Vector{0.1, 0.9, 0.4})
	_, _ = sys.AddCable(a, b, WithRestLength(1), WithStiffness(40))
	_, _ = sys.AddCable(b, c, WithRestLength(0.5), WithStiffness(25))
	_, _ = sys.AddStrut(a, c, WithRestLength(1.5), WithStiffness(60))
	b.Velocity = Vector{0.3, -0.1, 0.2}

	total := Zero(3)
	for _, f := range sys.Forces() {
		total.AddInPlace(f)
	}
	require.InDeltaSlice(t, []float64{0, 0, 0}, []float64(total), 1e-9)
}

func TestSystemForcesEmpty(t *testing.T) {
	require.Empty(t, New().Forces())
}

func TestSystemClone(t *testing.T) {
	sys := New()
	a, _ := sys.AddNode(Vector{0, 0, 0}, Fixed())
	b, _ := sys.AddNode(Vector{1, 0, 0})
	_, _ = sys.AddCable(a, b, WithRestLength(0.5))

	c := sys.Clone()
	c.Node(1).Position[0] = 3

	require.Equal(t, 1.0, b.Position[0])
	require.InDelta(t, 1.0, sys.Cables()[0].Length(), 1e-12)
	require.InDelta(t, 3.0, c.Cables()[0].Length(), 1e-12)
	require.Equal(t, sys.Gravity(), c.Gravity())
	require.True(t, c.Node(0).Fixed)
}
