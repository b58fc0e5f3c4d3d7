package metrics

import (
	"math"

	"github.com/san-kum/tensim/internal/tensegrity"
)

type PeakSpeed struct {
	name string
	max  float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(sys *tensegrity.System, t float64) {
	for _, n := range sys.Nodes() {
		if !n.Fixed {
			p.max = math.Max(p.max, n.Velocity.Norm())
		}
	}
}

func (p *PeakSpeed) Value() float64 { return p.max }
func (p *PeakSpeed) Reset()         { p.max = 0 }

// PeakTension is the largest cable force seen.
type PeakTension struct {
	name string
	max  float64
}

func NewPeakTension() *PeakTension {
	return &PeakTension{name: "peak_tension"}
}

func (p *PeakTension) Name() string { return p.name }

func (p *PeakTension) Observe(sys *tensegrity.System, t float64) {
	for _, c := range sys.Cables() {
		p.max = math.Max(p.max, c.Force())
	}
}

func (p *PeakTension) Value() float64 { return p.max }
func (p *PeakTension) Reset()         { p.max = 0 }

// PeakCompression is the largest strut compression seen, as a positive value.
type PeakCompression struct {
	name string
	max  float64
}

func NewPeakCompression() *PeakCompression {
	return &PeakCompression{name: "peak_compression"}
}

func (p *PeakCompression) Name() string { return p.name }

func (p *PeakCompression) Observe(sys *tensegrity.System, t float64) {
	for _, s := range sys.Struts() {
		p.max = math.Max(p.max, -s.Force())
	}
}

func (p *PeakCompression) Value() float64 { return p.max }
func (p *PeakCompression) Reset()         { p.max = 0 }
