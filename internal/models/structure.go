package models

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/tensim/internal/tensegrity"
)

var ErrUnknownParam = errors.New("models: unknown parameter")

// Structure builds a fresh System on every call to Build.
type Structure interface {
	Name() string
	Description() string
	Build() (*tensegrity.System, error)
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// ParamNames returns the sorted parameter names of s.
func ParamNames(s Structure) []string {
	params := s.GetParams()
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func unknownParam(structure, name string) error {
	return fmt.Errorf("%w: %s has no parameter %q", ErrUnknownParam, structure, name)
}

func positive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be positive, got %g", tensegrity.ErrInvalidParameter, name, v)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if !(v >= 0) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be non-negative, got %g", tensegrity.ErrInvalidParameter, name, v)
	}
	return nil
}

// ring connects consecutive pairs with cables whose rest length is factor
// times the current distance.
func ring(sys *tensegrity.System, pairs [][2]*tensegrity.Node, factor, k, c float64) error {
	for _, p := range pairs {
		rest := tensegrity.Distance(p[0].Position, p[1].Position) * factor
		_, err := sys.AddCable(p[0], p[1],
			tensegrity.WithRestLength(rest),
			tensegrity.WithStiffness(k),
			tensegrity.WithDamping(c))
		if err != nil {
			return err
		}
	}
	return nil
}
