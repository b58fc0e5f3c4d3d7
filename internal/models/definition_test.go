package models

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tensim/internal/tensegrity"
)

const triangleYAML = `
name: triangle
gravity: [0, -9.81]
nodes:
  - position: [0, 0]
    fixed: true
  - position: [1, 0]
    fixed: true
  - position: [0.5, 1]
    mass: 0.5
    velocity: [0.1, 0]
cables:
  - from: 0
    to: 2
    rest_length: 1.0
    stiffness: 200
  - from: 1
    to: 2
    damping: 0
struts:
  - from: 0
    to: 1
`

func TestDefinitionFromYAML(t *testing.T) {
	var d Definition
	require.NoError(t, yaml.Unmarshal([]byte(triangleYAML), &d))

	sys, err := d.Build()
	require.NoError(t, err)
	require.Equal(t, "triangle", d.Name())
	require.Equal(t, 2, sys.Dimension())
	require.Equal(t, tensegrity.Vector{0, -9.81}, sys.Gravity())
	require.Len(t, sys.Nodes(), 3)
	require.Equal(t, 0.5, sys.Node(2).Mass)
	require.Equal(t, tensegrity.Vector{0.1, 0}, sys.Node(2).Velocity)

	c0, c1 := sys.Cables()[0], sys.Cables()[1]
	require.Equal(t, 1.0, c0.RestLength)
	require.Equal(t, 200.0, c0.Stiffness)
	require.Equal(t, tensegrity.DefaultDamping, c0.Damping)
	require.InDelta(t, c1.Length(), c1.RestLength, 1e-12)
	require.Equal(t, 0.0, c1.Damping)
	require.Len(t, sys.Struts(), 1)
}

func TestDefinitionErrors(t *testing.T) {
	base := func() *Definition {
		return &Definition{Nodes: []NodeDef{{Position: []float64{0, 0, 0}}, {Position: []float64{1, 0, 0}}}}
	}

	d := base()
	d.Cables = []ElementDef{{From: 0, To: 5}}
	_, err := d.Build()
	require.ErrorIs(t, err, tensegrity.ErrUnknownNode)

	d = base()
	d.Nodes[1].Position = []float64{1, 0}
	_, err = d.Build()
	require.ErrorIs(t, err, tensegrity.ErrDimensionMismatch)

	d = base()
	d.Nodes[0].Velocity = []float64{1, 0}
	_, err = d.Build()
	require.ErrorIs(t, err, tensegrity.ErrDimensionMismatch)

	d = base()
	d.Struts = []ElementDef{{From: 1, To: 1}}
	_, err = d.Build()
	require.ErrorIs(t, err, tensegrity.ErrDegenerateElement)
}

func TestDescribeRoundTrip(t *testing.T) {
	sys, err := NewKite().Build()
	require.NoError(t, err)

	d := Describe("kite", sys)
	rebuilt, err := d.Build()
	require.NoError(t, err)

	require.Equal(t, sys.Gravity(), rebuilt.Gravity())
	require.Len(t, rebuilt.Nodes(), len(sys.Nodes()))
	for i, e := range sys.Elements() {
		r := rebuilt.Elements()[i]
		require.Equal(t, e.Kind, r.Kind)
		require.Equal(t, e.RestLength, r.RestLength)
		require.Equal(t, e.Stiffness, r.Stiffness)
		require.Equal(t, e.Damping, r.Damping)
	}
}
