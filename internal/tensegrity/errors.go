package tensegrity

import (
	"errors"
	"fmt"
)

// Construction errors. None of them leave a System partially modified.
var (
	// ErrDimensionMismatch indicates a node whose dimension differs from the system's.
	ErrDimensionMismatch = errors.New("tensegrity: dimension mismatch between node and system")

	// ErrInvalidDimension indicates a first node that is neither 2D nor 3D.
	ErrInvalidDimension = errors.New("tensegrity: position must be 2D or 3D")

	// ErrUnknownNode indicates an element endpoint that does not belong to the system.
	ErrUnknownNode = errors.New("tensegrity: node does not belong to system")

	// ErrDegenerateElement indicates an element whose endpoints are the same node.
	ErrDegenerateElement = errors.New("tensegrity: element endpoints must be distinct")

	// ErrInvalidParameter indicates a mass, stiffness, damping or rest length out of range.
	ErrInvalidParameter = errors.New("tensegrity: parameter out of valid bounds")
)

// DimensionError reports the dimension a system expected and the one it got.
type DimensionError struct {
	Want int
	Got  int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("tensegrity: node position must be %dD, got %dD", e.Want, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}
