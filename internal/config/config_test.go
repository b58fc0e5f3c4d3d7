package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Structure != "prism" {
		t.Errorf("expected structure prism, got %s", cfg.Structure)
	}
	if cfg.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if cfg.Duration <= 0 {
		t.Error("duration should be positive")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero dt", func(c *Config) { c.Dt = 0 }, "Dt"},
		{"negative duration", func(c *Config) { c.Duration = -1 }, "Duration"},
		{"duration below dt", func(c *Config) { c.Dt = 1; c.Duration = 0.5 }, "Duration"},
		{"unknown integrator", func(c *Config) { c.Integrator = "rk4" }, "Integrator"},
		{"empty structure", func(c *Config) { c.Structure = "" }, "Structure"},
		{"negative sampling", func(c *Config) { c.SampleEvery = -1 }, "SampleEvery"},
		{"zero max velocity", func(c *Config) { c.Constraints.MaxVelocity = 0 }, "MaxVelocity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}

func TestLoadWithDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	data := `
dt: 0.0005
duration: 2
constraints:
  enabled: true
  max_velocity: 3
definition:
  name: bar
  nodes:
    - position: [0, 0, 0]
      fixed: true
    - position: [0, 0, 1]
  struts:
    - from: 0
      to: 1
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Structure != "bar" {
		t.Errorf("structure = %s, want bar", cfg.Structure)
	}
	if cfg.Integrator != DefaultIntegrator {
		t.Errorf("integrator default lost: %s", cfg.Integrator)
	}
	if !cfg.Constraints.Enabled || cfg.Constraints.MaxVelocity != 3 || cfg.Constraints.MaxTension != 1000 {
		t.Errorf("constraints = %+v", cfg.Constraints)
	}
	if len(cfg.ConstraintOptions()) != 5 {
		t.Error("expected one option per limit")
	}
}

func TestLoadRejectsInvalidDefinition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	data := `
definition:
  nodes:
    - position: [0, 0, 0]
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "Nodes") {
		t.Errorf("expected Nodes error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.yaml")
	cfg := GetPreset("spring", "stiff")

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Params["stiffness"] != 1000 || loaded.Dt != cfg.Dt {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("spring", "stiff")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.Params["stiffness"] != 1000 {
		t.Errorf("expected stiffness 1000, got %f", cfg.Params["stiffness"])
	}

	cfg.Params["stiffness"] = 1
	cfg.Dt = 5
	again := GetPreset("spring", "stiff")
	if again.Params["stiffness"] != 1000 || again.Dt == 5 {
		t.Error("preset was mutated through a returned copy")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetPreset("spring", "nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if GetPreset("nonexistent", "default") != nil {
		t.Error("expected nil for nonexistent structure")
	}
}

func TestPresetsAreValid(t *testing.T) {
	for structure, presets := range Presets {
		for name, cfg := range presets {
			if cfg.Structure != structure {
				t.Errorf("%s/%s: structure %s", structure, name, cfg.Structure)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("%s/%s: %v", structure, name, err)
			}
		}
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets("prism")
	if len(presets) != 3 || presets[0] != "constrained" {
		t.Errorf("unexpected presets %v", presets)
	}
	if ListPresets("nonexistent") != nil {
		t.Error("expected nil for nonexistent structure")
	}
}
