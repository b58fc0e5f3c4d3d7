package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/tensim/internal/constraints"
	"github.com/san-kum/tensim/internal/models"
)

const (
	DefaultStructure   = "prism"
	DefaultIntegrator  = "verlet"
	DefaultDt          = 0.001
	DefaultDuration    = 10.0
	DefaultSampleEvery = 10
)

var validate = validator.New()

type Config struct {
	Structure   string             `yaml:"structure" validate:"required"`
	Integrator  string             `yaml:"integrator" validate:"required,oneof=verlet euler symplectic-euler"`
	Dt          float64            `yaml:"dt" validate:"gt=0"`
	Duration    float64            `yaml:"duration" validate:"gt=0,gtefield=Dt"`
	SampleEvery int                `yaml:"sample_every" validate:"gte=0"`
	Seed        int64              `yaml:"seed"`
	Jitter      float64            `yaml:"jitter" validate:"gte=0"`
	Params      map[string]float64 `yaml:"params,omitempty"`
	Constraints ConstraintConfig   `yaml:"constraints"`
	// Definition replaces the named structure when set.
	Definition *models.Definition `yaml:"definition,omitempty" validate:"omitempty"`
}

type ConstraintConfig struct {
	Enabled              bool    `yaml:"enabled"`
	MaxTension           float64 `yaml:"max_tension" validate:"gt=0"`
	MaxCompression       float64 `yaml:"max_compression" validate:"gt=0"`
	MaxVelocity          float64 `yaml:"max_velocity" validate:"gt=0"`
	EquilibriumTolerance float64 `yaml:"equilibrium_tolerance" validate:"gt=0"`
	BalanceDamping       float64 `yaml:"balance_damping" validate:"gte=0"`
}

func DefaultConstraints() ConstraintConfig {
	return ConstraintConfig{
		MaxTension:           constraints.DefaultMaxTension,
		MaxCompression:       constraints.DefaultMaxCompression,
		MaxVelocity:          constraints.DefaultMaxVelocity,
		EquilibriumTolerance: constraints.DefaultEquilibriumTolerance,
		BalanceDamping:       constraints.DefaultBalanceDamping,
	}
}

func DefaultConfig() *Config {
	return &Config{
		Structure:   DefaultStructure,
		Integrator:  DefaultIntegrator,
		Dt:          DefaultDt,
		Duration:    DefaultDuration,
		SampleEvery: DefaultSampleEvery,
		Constraints: DefaultConstraints(),
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Definition != nil && cfg.Structure == DefaultStructure {
		cfg.Structure = cfg.Definition.Name()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks struct constraints and reports the first violation.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// ConstraintOptions converts the limits into enforcer options.
func (c *Config) ConstraintOptions() []constraints.Option {
	return []constraints.Option{
		constraints.WithMaxTension(c.Constraints.MaxTension),
		constraints.WithMaxCompression(c.Constraints.MaxCompression),
		constraints.WithMaxVelocity(c.Constraints.MaxVelocity),
		constraints.WithEquilibriumTolerance(c.Constraints.EquilibriumTolerance),
		constraints.WithBalanceDamping(c.Constraints.BalanceDamping),
	}
}

// Clone returns a deep copy; presets are shared and must not be mutated.
func (c *Config) Clone() *Config {
	cp := *c
	if c.Params != nil {
		cp.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			cp.Params[k] = v
		}
	}
	return &cp
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "gt":
			return fmt.Errorf("%s: must be greater than %s", field, param)
		case "gte":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "gtefield":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "nefield":
			return fmt.Errorf("%s: must differ from %s", field, param)
		case "min":
			return fmt.Errorf("%s: must have at least %s entries", field, param)
		case "max":
			return fmt.Errorf("%s: must have at most %s entries", field, param)
		case "oneof":
			return fmt.Errorf("%s: must be one of [%s]", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
		}
	}
	return err
}
