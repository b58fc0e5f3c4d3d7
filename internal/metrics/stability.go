package metrics

import "github.com/san-kum/tensim/internal/tensegrity"

// Stability is the fraction of observed steps in which no free node moved
// faster than threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sys *tensegrity.System, t float64) {
	s.samples++
	for _, n := range sys.Nodes() {
		if !n.Fixed && n.Velocity.Norm() > s.threshold {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
