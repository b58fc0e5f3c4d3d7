package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/sim"
	"github.com/san-kum/tensim/internal/tensegrity"
)

func TestFFTImpulse(t *testing.T) {
	out := FFT([]float64{1, 0, 0, 0})
	for i, c := range out {
		if math.Abs(real(c)-1) > 1e-12 || math.Abs(imag(c)) > 1e-12 {
			t.Errorf("bin %d = %v, want 1", i, c)
		}
	}
}

func TestPowerSpectrumRemovesMean(t *testing.T) {
	ps := PowerSpectrum([]float64{3, 3, 3, 3, 3})
	if len(ps) != 4 {
		t.Fatalf("expected 4 bins after padding to 8, got %d", len(ps))
	}
	for i, v := range ps {
		if v > 1e-12 {
			t.Errorf("bin %d = %g, want 0 for constant signal", i, v)
		}
	}
}

func TestDominantFrequencySine(t *testing.T) {
	tests := []struct {
		freq float64
		dt   float64
		n    int
	}{
		{5, 0.01, 256},
		{1.5, 0.02, 300},
		{20, 0.001, 1000},
	}

	for _, tt := range tests {
		signal := make([]float64, tt.n)
		for i := range signal {
			signal[i] = math.Sin(2*math.Pi*tt.freq*float64(i)*tt.dt) + 0.5
		}

		got, power, err := DominantFrequency(signal, tt.dt)
		if err != nil {
			t.Fatal(err)
		}
		resolution := 1 / (float64(nextPow2(tt.n)) * tt.dt)
		if math.Abs(got-tt.freq) > resolution {
			t.Errorf("freq %g: got %g (resolution %g)", tt.freq, got, resolution)
		}
		if power <= 0 {
			t.Errorf("freq %g: expected positive power", tt.freq)
		}
	}
}

func TestDominantFrequencyErrors(t *testing.T) {
	if _, _, err := DominantFrequency([]float64{1, 2}, 0.1); err != ErrShortSignal {
		t.Errorf("expected ErrShortSignal, got %v", err)
	}
	if _, _, err := DominantFrequency([]float64{1, 2, 3, 4}, 0); err == nil {
		t.Error("expected error for zero sample interval")
	}
}

func testFrames() []sim.Frame {
	return []sim.Frame{
		{Step: 0, Time: 0, Positions: []float64{0, 0, 1, -1}, Energy: energy.Distribution{Kinetic: 0, Elastic: 2, Total: 2}},
		{Step: 1, Time: 0.1, Positions: []float64{0, 0, 1, 1}, Energy: energy.Distribution{Kinetic: 1, Elastic: 1, Total: 2}},
		{Step: 2, Time: 0.2, Positions: []float64{0, 0, 0, 1}, Energy: energy.Distribution{Kinetic: 2, Total: 2}},
	}
}

func TestSeriesExtraction(t *testing.T) {
	frames := testFrames()

	ke, err := EnergySeries(frames, "kinetic")
	if err != nil {
		t.Fatal(err)
	}
	if ke[2] != 2 {
		t.Errorf("kinetic series = %v", ke)
	}
	if _, err := EnergySeries(frames, "thermal"); err == nil {
		t.Error("expected error for unknown component")
	}

	ys, err := NodeSeries(frames, 2, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if ys[0] != -1 || ys[1] != 1 {
		t.Errorf("node series = %v", ys)
	}
	if _, err := NodeSeries(frames, 2, 2, 0); err == nil {
		t.Error("expected error for missing node")
	}
	if _, err := NodeSeries(frames, 2, 0, 2); err == nil {
		t.Error("expected error for bad axis")
	}

	times := Times(frames)
	if times[2] != 0.2 {
		t.Errorf("times = %v", times)
	}
}

func TestPathToASCII(t *testing.T) {
	path, err := TracePath(testFrames(), 2, 1, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(path.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(path.Points))
	}

	out := PathToASCII(path, 20, 10)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(out, "•") {
		t.Error("no points plotted")
	}
	if PathToASCII(nil, 20, 10) != "" {
		t.Error("nil path should render empty")
	}
}

func TestUpCrossingsPeriod(t *testing.T) {
	dt := 0.01
	n := 1000
	times := make([]float64, n)
	series := make([]float64, n)
	for i := range series {
		times[i] = float64(i) * dt
		series[i] = math.Sin(2 * math.Pi * 2 * times[i])
	}

	crossings := UpCrossings(times, series, 0)
	if len(crossings) < 15 {
		t.Fatalf("expected ~20 crossings, got %d", len(crossings))
	}
	if p := MeanPeriod(crossings); math.Abs(p-0.5) > 1e-3 {
		t.Errorf("period = %g, want 0.5", p)
	}
	if MeanPeriod(crossings[:1]) != 0 {
		t.Error("single crossing should give zero period")
	}
}

func freeParticle() (*sim.Simulator, error) {
	sys := tensegrity.New(tensegrity.WithGravity(tensegrity.Vector{0, 0, 0}))
	n, err := sys.AddNode(tensegrity.Vector{0, 0, 0})
	if err != nil {
		return nil, err
	}
	n.Velocity = tensegrity.Vector{1, 0, 0}
	return sim.New(sys, 0.01)
}

func TestDivergenceFreeParticle(t *testing.T) {
	rate, err := Divergence(freeParticle, 0, 1, 1e-6, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(rate) > 1e-6 {
		t.Errorf("free particle should not diverge, got rate %g", rate)
	}
}

func TestDivergenceErrors(t *testing.T) {
	if _, err := Divergence(freeParticle, 3, 0, 1e-6, 1.0); err == nil {
		t.Error("expected error for missing node")
	}
	if _, err := Divergence(freeParticle, 0, 5, 1e-6, 1.0); err == nil {
		t.Error("expected error for bad axis")
	}
	if _, err := Divergence(freeParticle, 0, 0, 0, 1.0); err == nil {
		t.Error("expected error for zero perturbation")
	}
	if _, err := Divergence(freeParticle, 0, 0, 1e-6, 0.001); err == nil {
		t.Error("expected error for sub-step duration")
	}
}
