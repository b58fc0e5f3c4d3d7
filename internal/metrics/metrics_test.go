package metrics

import (
	"context"
	"io"
	"math"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/san-kum/tensim/internal/sim"
	"github.com/san-kum/tensim/internal/tensegrity"
)

func cableSystem(t *testing.T) *tensegrity.System {
	t.Helper()
	sys := tensegrity.New(tensegrity.WithGravity(tensegrity.Vector{0, 0, 0}))
	a, _ := sys.AddNode(tensegrity.Vector{0, 0, 0}, tensegrity.Fixed())
	b, _ := sys.AddNode(tensegrity.Vector{1.5, 0, 0})
	c, _ := sys.AddNode(tensegrity.Vector{0, 0.5, 0})
	if _, err := sys.AddCable(a, b, tensegrity.WithRestLength(1), tensegrity.WithStiffness(10)); err != nil {
		t.Fatal(err)
	}
	if _, err := sys.AddStrut(a, c, tensegrity.WithRestLength(1), tensegrity.WithStiffness(4)); err != nil {
		t.Fatal(err)
	}
	return sys
}

func TestEnergyDrift(t *testing.T) {
	sys := cableSystem(t)
	m := NewEnergyDrift()

	m.Observe(sys, 0)
	if m.Value() != 0 {
		t.Errorf("drift after first sample = %v", m.Value())
	}

	// elastic energy 1.25 + 0.5, add 0.35 of kinetic
	sys.Node(1).Velocity = tensegrity.Vector{math.Sqrt(0.7), 0, 0}
	m.Observe(sys, 0.1)
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Errorf("drift = %v, want 0.2", m.Value())
	}

	sys.Node(1).Velocity = tensegrity.Vector{0, 0, 0}
	m.Observe(sys, 0.2)
	if math.Abs(m.Value()-0.2) > 1e-9 {
		t.Errorf("drift should keep its maximum, got %v", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("reset did not clear drift")
	}
}

func TestMeanEnergy(t *testing.T) {
	sys := cableSystem(t)
	m := NewMeanEnergy()
	if m.Value() != 0 {
		t.Error("empty mean should be 0")
	}
	m.Observe(sys, 0)
	m.Observe(sys, 0)
	if math.Abs(m.Value()-1.75) > 1e-9 {
		t.Errorf("mean energy = %v, want 1.75", m.Value())
	}
}

func TestStability(t *testing.T) {
	sys := cableSystem(t)
	m := NewStability(1.0)
	if m.Value() != 1.0 {
		t.Errorf("empty stability = %v", m.Value())
	}

	m.Observe(sys, 0)
	sys.Node(2).Velocity = tensegrity.Vector{0, 2, 0}
	m.Observe(sys, 0.1)
	sys.Node(0).Velocity = tensegrity.Vector{5, 0, 0}
	sys.Node(2).Velocity = tensegrity.Vector{0, 0, 0}
	m.Observe(sys, 0.2)
	m.Observe(sys, 0.3)

	if math.Abs(m.Value()-0.75) > 1e-12 {
		t.Errorf("stability = %v, want 0.75", m.Value())
	}
}

func TestPeaks(t *testing.T) {
	sys := cableSystem(t)
	speed, tension, compression := NewPeakSpeed(), NewPeakTension(), NewPeakCompression()

	sys.Node(1).Velocity = tensegrity.Vector{0, 3, 4}
	for _, m := range []sim.Metric{speed, tension, compression} {
		m.Observe(sys, 0)
	}

	if speed.Value() != 5 {
		t.Errorf("peak speed = %v", speed.Value())
	}
	if math.Abs(tension.Value()-5) > 1e-12 {
		t.Errorf("peak tension = %v", tension.Value())
	}
	if math.Abs(compression.Value()-2) > 1e-12 {
		t.Errorf("peak compression = %v", compression.Value())
	}
}

func TestDefaultsAreFresh(t *testing.T) {
	a, b := Defaults(1), Defaults(1)
	if len(a) != 6 {
		t.Fatalf("got %d default metrics", len(a))
	}
	names := make(map[string]bool)
	for i := range a {
		if a[i] == b[i] {
			t.Errorf("metric %s shared between calls", a[i].Name())
		}
		names[a[i].Name()] = true
	}
	if len(names) != len(a) {
		t.Error("duplicate metric names")
	}
}

func TestRegistryObservesRun(t *testing.T) {
	sys := cableSystem(t)
	r := NewRegistry()

	s, err := sim.New(sys, 0.01)
	if err != nil {
		t.Fatal(err)
	}
	s.AddObserver(r)
	if _, err := s.Run(context.Background(), sim.Config{Duration: 0.1}); err != nil {
		t.Fatalf("run failed: %v", err)
	}
	r.RecordRun("completed", 20*time.Millisecond)

	if got := testutil.ToFloat64(r.StepsTotal); got != 10 {
		t.Errorf("steps = %v, want 10", got)
	}
	if got := testutil.ToFloat64(r.SimTimeSeconds); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("sim time = %v", got)
	}
	if got := testutil.ToFloat64(r.Elements.WithLabelValues("cable")); got != 1 {
		t.Errorf("cables = %v", got)
	}
	if got := testutil.ToFloat64(r.Nodes); got != 3 {
		t.Errorf("nodes = %v", got)
	}
	if got := testutil.ToFloat64(r.RunsTotal.WithLabelValues("completed")); got != 1 {
		t.Errorf("runs = %v", got)
	}
	if got := testutil.ToFloat64(r.Energy.WithLabelValues("total")); got <= 0 {
		t.Errorf("total energy gauge = %v", got)
	}
}

func TestRegistryHandler(t *testing.T) {
	r := NewRegistry()
	r.OnStep(cableSystem(t), 0.5)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, name := range []string{"tensim_steps_total 1", "tensim_sim_time_seconds 0.5", "tensim_energy_joules"} {
		if !strings.Contains(string(body), name) {
			t.Errorf("metrics output missing %q", name)
		}
	}
}
