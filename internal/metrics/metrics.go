// Package metrics counts pipeline outcomes with Prometheus collectors and
// dumps them in the node_exporter textfile format at the end of a run.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "stockmeta"

// Recorder owns a private registry so repeated runs in one process do not
// collide. A nil *Recorder ignores every call.
type Recorder struct {
	registry  *prometheus.Registry
	processed prometheus.Counter
	skipped   *prometheus.CounterVec
	failed    prometheus.Counter
	linked    prometheus.Counter
	exported  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
}

// New registers the pipeline collectors on a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Recorder{
		registry: reg,
		processed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "processed_total",
			Help:      "Media files described by the model and recorded",
		}),
		skipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_total",
			Help:      "Media files skipped before any model call",
		}, []string{"reason"}),
		failed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_total",
			Help:      "Media files skipped after a preprocessing or provider error",
		}),
		linked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "linked_total",
			Help:      "Vector companions linked to a raster row",
		}),
		exported: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exported_files_total",
			Help:      "Agency CSV files written",
		}, []string{"exporter"}),
		latency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_request_seconds",
			Help:      "Latency of provider generate calls",
			Buckets:   prometheus.ExponentialBuckets(0.25, 2, 10),
		}, []string{"provider", "result"}),
	}
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

func (r *Recorder) Processed() {
	if r != nil {
		r.processed.Inc()
	}
}

func (r *Recorder) Skipped(reason string) {
	if r != nil {
		r.skipped.WithLabelValues(reason).Inc()
	}
}

func (r *Recorder) Failed() {
	if r != nil {
		r.failed.Inc()
	}
}

func (r *Recorder) Linked(n int) {
	if r != nil && n > 0 {
		r.linked.Add(float64(n))
	}
}

func (r *Recorder) Exported(exporter string) {
	if r != nil {
		r.exported.WithLabelValues(exporter).Inc()
	}
}

// ObserveProvider records one generate call.
func (r *Recorder) ObserveProvider(provider string, elapsed time.Duration, err error) {
	if r == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	r.latency.WithLabelValues(provider, result).Observe(elapsed.Seconds())
}

// WriteTextfile atomically writes the current values to path.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
