package config

import "sort"

var Presets = map[string]map[string]*Config{
	"prism": {
		"default": {
			Structure: "prism", Integrator: "verlet", Dt: 0.001, Duration: 10.0, SampleEvery: 10,
			Constraints: DefaultConstraints(),
		},
		"constrained": {
			Structure: "prism", Integrator: "verlet", Dt: 0.001, Duration: 10.0, SampleEvery: 10,
			Constraints: ConstraintConfig{
				Enabled: true, MaxTension: 1000, MaxCompression: 1000,
				MaxVelocity: 1.0, EquilibriumTolerance: 1e-6, BalanceDamping: 0.1,
			},
		},
		"tall": {
			Structure: "prism", Integrator: "verlet", Dt: 0.0005, Duration: 10.0, SampleEvery: 20,
			Params:      map[string]float64{"height": 2.0, "perturbation": 0.1},
			Constraints: DefaultConstraints(),
		},
	},
	"prism_soft": {
		"default": {
			Structure: "prism_soft", Integrator: "verlet", Dt: 1e-5, Duration: 0.5, SampleEvery: 100,
			Constraints: DefaultConstraints(),
		},
		"fine": {
			Structure: "prism_soft", Integrator: "verlet", Dt: 1e-6, Duration: 0.005, SampleEvery: 10,
			Constraints: DefaultConstraints(),
		},
	},
	"spring": {
		"default": {
			Structure: "spring", Integrator: "verlet", Dt: 0.001, Duration: 5.0, SampleEvery: 5,
			Constraints: DefaultConstraints(),
		},
		"stiff": {
			Structure: "spring", Integrator: "verlet", Dt: 0.0001, Duration: 2.0, SampleEvery: 20,
			Params:      map[string]float64{"stiffness": 1000},
			Constraints: DefaultConstraints(),
		},
		"damped": {
			Structure: "spring", Integrator: "verlet", Dt: 0.001, Duration: 10.0, SampleEvery: 10,
			Params:      map[string]float64{"damping": 0.5},
			Constraints: DefaultConstraints(),
		},
		"euler": {
			Structure: "spring", Integrator: "euler", Dt: 0.001, Duration: 5.0, SampleEvery: 5,
			Constraints: DefaultConstraints(),
		},
	},
	"pendulum": {
		"default": {
			Structure: "pendulum", Integrator: "verlet", Dt: 0.0001, Duration: 5.0, SampleEvery: 50,
			Constraints: DefaultConstraints(),
		},
		"kick": {
			Structure: "pendulum", Integrator: "verlet", Dt: 0.0001, Duration: 5.0, SampleEvery: 50,
			Params:      map[string]float64{"speed": 2.0},
			Constraints: DefaultConstraints(),
		},
	},
	"kite": {
		"default": {
			Structure: "kite", Integrator: "verlet", Dt: 0.0001, Duration: 5.0, SampleEvery: 50,
			Constraints: DefaultConstraints(),
		},
		"constrained": {
			Structure: "kite", Integrator: "verlet", Dt: 0.0001, Duration: 5.0, SampleEvery: 50,
			Constraints: ConstraintConfig{
				Enabled: true, MaxTension: 200, MaxCompression: 400,
				MaxVelocity: 2.0, EquilibriumTolerance: 1e-6, BalanceDamping: 0.01,
			},
		},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(structure, preset string) *Config {
	structurePresets, ok := Presets[structure]
	if !ok {
		return nil
	}
	cfg, ok := structurePresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(structure string) []string {
	structurePresets, ok := Presets[structure]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(structurePresets))
	for name := range structurePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
