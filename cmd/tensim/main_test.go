package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func parseRunFlags(t *testing.T, argv ...string) *cobra.Command {
	t.Helper()
	params = nil
	configFile = ""
	preset = ""
	cmd := &cobra.Command{Use: "run"}
	addRunFlags(cmd)
	require.NoError(t, cmd.ParseFlags(argv))
	return cmd
}

func TestResolveConfigDefaults(t *testing.T) {
	cmd := parseRunFlags(t)
	cfg, err := resolveConfig(cmd, nil)
	require.NoError(t, err)
	require.Equal(t, "prism", cfg.Structure)
	require.Equal(t, "verlet", cfg.Integrator)
}

func TestResolveConfigPresetThenFlags(t *testing.T) {
	cmd := parseRunFlags(t, "--preset", "stiff", "--time", "0.5", "--set", "mass=2")
	cfg, err := resolveConfig(cmd, []string{"spring"})
	require.NoError(t, err)
	require.Equal(t, "spring", cfg.Structure)
	require.Equal(t, 1000.0, cfg.Params["stiffness"])
	require.Equal(t, 2.0, cfg.Params["mass"])
	require.Equal(t, 0.5, cfg.Duration)
	require.Equal(t, 1e-4, cfg.Dt)
}

func TestResolveConfigErrors(t *testing.T) {
	cmd := parseRunFlags(t, "--preset", "nope")
	_, err := resolveConfig(cmd, []string{"spring"})
	require.ErrorContains(t, err, "unknown preset")

	cmd = parseRunFlags(t, "--set", "mass=heavy")
	_, err = resolveConfig(cmd, nil)
	require.ErrorContains(t, err, "mass")

	cmd = parseRunFlags(t, "--dt=-1")
	_, err = resolveConfig(cmd, nil)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("debug", "json")
	require.NoError(t, err)
	require.NotNil(t, l)

	_, err = newLogger("loud", "text")
	require.Error(t, err)

	_, err = newLogger("info", "xml")
	require.Error(t, err)
}

func TestParseAxis(t *testing.T) {
	a, err := parseAxis("stiffness=100:400:4")
	require.NoError(t, err)
	require.Equal(t, "stiffness", a.Name)
	require.Equal(t, []float64{100, 200, 300, 400}, a.Values)

	for _, bad := range []string{"stiffness", "=1:2:3", "k=1:2", "k=a:2:3", "k=1:b:3", "k=1:2:0"} {
		_, err := parseAxis(bad)
		require.Error(t, err, bad)
	}
}

func TestFormatParams(t *testing.T) {
	require.Equal(t, "damping=0.5,stiffness=100", formatParams(map[string]float64{"stiffness": 100, "damping": 0.5}))
	require.Empty(t, formatParams(nil))
}
