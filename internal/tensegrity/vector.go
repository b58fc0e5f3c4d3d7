package tensegrity

import "math"

// Vector is a position, velocity or force in 2D or 3D.
type Vector []float64

// Zero returns a zero vector of the given dimension.
func Zero(dim int) Vector {
	return make(Vector, dim)
}

// Basis returns the i-th unit vector of the given dimension.
func Basis(dim, i int) Vector {
	v := make(Vector, dim)
	if i >= 0 && i < dim {
		v[i] = 1
	}
	return v
}

func (v Vector) Clone() Vector {
	c := make(Vector, len(v))
	copy(c, v)
	return c
}

func (v Vector) IsValid() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

func (v Vector) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Dot(other Vector) float64 {
	sum := 0.0
	for i := range v {
		if i < len(other) {
			sum += v[i] * other[i]
		}
	}
	return sum
}

func (v Vector) Add(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] + other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Sub(other Vector) Vector {
	result := make(Vector, len(v))
	for i := range v {
		if i < len(other) {
			result[i] = v[i] - other[i]
		} else {
			result[i] = v[i]
		}
	}
	return result
}

func (v Vector) Scale(factor float64) Vector {
	result := make(Vector, len(v))
	for i := range v {
		result[i] = v[i] * factor
	}
	return result
}

// AddInPlace adds other into v without allocating.
func (v Vector) AddInPlace(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] += other[i]
		}
	}
}

// SubInPlace subtracts other from v without allocating.
func (v Vector) SubInPlace(other Vector) {
	for i := range v {
		if i < len(other) {
			v[i] -= other[i]
		}
	}
}

// Truncate returns the first dim components of v, zero padded if v is
// shorter.
func (v Vector) Truncate(dim int) Vector {
	result := make(Vector, dim)
	copy(result, v)
	return result
}

// Distance returns |b - a|.
func Distance(a, b Vector) float64 {
	return b.Sub(a).Norm()
}
