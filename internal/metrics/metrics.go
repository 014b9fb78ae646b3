// Package metrics records lifecycle and resolution metrics in a private
// prometheus registry. A CLI run exports them once, in the node_exporter
// textfile format, instead of serving them.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/ipcrecipe/internal/lifecycle"
	"github.com/specialistvlad/ipcrecipe/internal/resolver"
)

// Recorder implements lifecycle.Observer.
type Recorder struct {
	registry *prometheus.Registry

	hookTotal          *prometheus.CounterVec
	hookErrorTotal     *prometheus.CounterVec
	hookDuration       *prometheus.HistogramVec
	resolutionTotal    prometheus.Counter
	resolutionDuration prometheus.Histogram
	resolvedItems      *prometheus.GaugeVec
}

var _ lifecycle.Observer = (*Recorder)(nil)

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		hookTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipcrecipe_lifecycle_hook_total",
				Help: "Number of lifecycle hook invocations by hook.",
			},
			[]string{"hook"},
		),
		hookErrorTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ipcrecipe_lifecycle_hook_error_total",
				Help: "Number of failed lifecycle hook invocations by hook.",
			},
			[]string{"hook"},
		),
		hookDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ipcrecipe_lifecycle_hook_duration_seconds",
				Help:    "Time spent in each lifecycle hook.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"hook"},
		),
		resolutionTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "ipcrecipe_resolution_total",
				Help: "Number of configuration resolutions.",
			},
		),
		resolutionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ipcrecipe_resolution_duration_seconds",
				Help:    "Time taken to resolve a configuration.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 8),
			},
		),
		resolvedItems: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ipcrecipe_resolved_items",
				Help: "Size of each list in the last resolved configuration.",
			},
			[]string{"kind"},
		),
	}

	r.registry.MustRegister(
		r.hookTotal,
		r.hookErrorTotal,
		r.hookDuration,
		r.resolutionTotal,
		r.resolutionDuration,
		r.resolvedItems,
	)
	return r
}

// Registry exposes the underlying registry as a Gatherer.
func (r *Recorder) Registry() prometheus.Gatherer {
	return r.registry
}

func (r *Recorder) ObserveHook(hook lifecycle.Hook, elapsed time.Duration, err error) {
	h := string(hook)
	r.hookTotal.WithLabelValues(h).Inc()
	r.hookDuration.WithLabelValues(h).Observe(elapsed.Seconds())
	if err != nil {
		r.hookErrorTotal.WithLabelValues(h).Inc()
	}
}

func (r *Recorder) ObserveResolution(c resolver.ResolvedConfiguration, elapsed time.Duration) {
	r.resolutionTotal.Inc()
	r.resolutionDuration.Observe(elapsed.Seconds())
	r.resolvedItems.WithLabelValues("dependencies").Set(float64(len(c.Dependencies)))
	r.resolvedItems.WithLabelValues("tool_requirements").Set(float64(len(c.ToolRequirements)))
	r.resolvedItems.WithLabelValues("toolchain_variables").Set(float64(len(c.ToolchainVariables)))
	r.resolvedItems.WithLabelValues("activated_generator_contexts").Set(float64(len(c.ActivatedGeneratorContexts)))
}

// WriteTextfile writes every metric to path in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}
