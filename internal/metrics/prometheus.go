package metrics

import (
	"math"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/san-kum/tensim/internal/energy"
	"github.com/san-kum/tensim/internal/tensegrity"
)

// Registry exports live simulation state. It implements sim.Observer.
type Registry struct {
	StepsTotal     prometheus.Counter
	SimTimeSeconds prometheus.Gauge
	Energy         *prometheus.GaugeVec
	Elements       *prometheus.GaugeVec
	Nodes          prometheus.Gauge
	MaxTension     prometheus.Gauge
	MaxCompression prometheus.Gauge
	MaxSpeed       prometheus.Gauge
	RunsTotal      *prometheus.CounterVec
	RunDuration    prometheus.Histogram

	registry *prometheus.Registry
}

func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		StepsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "tensim_steps_total",
			Help: "Integration steps taken",
		}),
		SimTimeSeconds: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tensim_sim_time_seconds",
			Help: "Current simulation time",
		}),
		Energy: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tensim_energy_joules",
			Help: "Energy by component",
		}, []string{"component"}),
		Elements: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "tensim_elements",
			Help: "Elements in the simulated structure by kind",
		}, []string{"kind"}),
		Nodes: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tensim_nodes",
			Help: "Nodes in the simulated structure",
		}),
		MaxTension: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tensim_max_cable_tension",
			Help: "Largest cable force at the last step",
		}),
		MaxCompression: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tensim_max_strut_compression",
			Help: "Largest strut compression at the last step",
		}),
		MaxSpeed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "tensim_max_node_speed",
			Help: "Fastest free node at the last step",
		}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tensim_runs_total",
			Help: "Completed runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tensim_run_duration_seconds",
			Help:    "Wall-clock duration of runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		registry: reg,
	}
}

func (r *Registry) OnStep(sys *tensegrity.System, t float64) {
	r.StepsTotal.Inc()
	r.SimTimeSeconds.Set(t)

	d := energy.New(sys).Distribution()
	r.Energy.WithLabelValues("kinetic").Set(d.Kinetic)
	r.Energy.WithLabelValues("gravitational").Set(d.Gravitational)
	r.Energy.WithLabelValues("elastic").Set(d.Elastic)
	r.Energy.WithLabelValues("total").Set(d.Total)

	r.Nodes.Set(float64(len(sys.Nodes())))
	r.Elements.WithLabelValues("cable").Set(float64(len(sys.Cables())))
	r.Elements.WithLabelValues("strut").Set(float64(len(sys.Struts())))

	tension, compression, speed := 0.0, 0.0, 0.0
	for _, c := range sys.Cables() {
		tension = math.Max(tension, c.Force())
	}
	for _, s := range sys.Struts() {
		compression = math.Max(compression, -s.Force())
	}
	for _, n := range sys.Nodes() {
		if !n.Fixed {
			speed = math.Max(speed, n.Velocity.Norm())
		}
	}
	r.MaxTension.Set(tension)
	r.MaxCompression.Set(compression)
	r.MaxSpeed.Set(speed)
}

// RecordRun counts a finished run and its wall-clock duration.
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
