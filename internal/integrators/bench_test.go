package integrators

import (
	"testing"

	"github.com/san-kum/tensim/internal/tensegrity"
)

func benchNode(b *testing.B) *tensegrity.Node {
	sys := tensegrity.New()
	n, err := sys.AddNode(tensegrity.Vector{1, 0, 0})
	if err != nil {
		b.Fatal(err)
	}
	return n
}

func BenchmarkVelocityVerlet(b *testing.B) {
	integ := NewVelocityVerlet()
	n := benchNode(b)
	f := tensegrity.Vector{0, 0, -9.81}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(n, f, 0.001)
	}
}

func BenchmarkSymplecticEuler(b *testing.B) {
	integ := NewSymplecticEuler()
	n := benchNode(b)
	f := tensegrity.Vector{0, 0, -9.81}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(n, f, 0.001)
	}
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler()
	n := benchNode(b)
	f := tensegrity.Vector{0, 0, -9.81}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Advance(n, f, 0.001)
	}
}
