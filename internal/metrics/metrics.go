// Package metrics records capability invocations as Prometheus metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "candidate_mcp"

// Outcome labels.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// Recorder owns a private registry so that several servers can live in one
// process (tests do this) without colliding on registration.
type Recorder struct {
	registry    *prometheus.Registry
	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// New constructs a recorder with its own registry. constLabels are attached
// to every series; the server name and version are typical.
func New(constLabels prometheus.Labels) *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		invocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "invocations_total",
			Help:        "Capability invocations by kind, name and outcome.",
			ConstLabels: constLabels,
		}, []string{"kind", "name", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "invocation_duration_seconds",
			Help:        "Capability invocation latency.",
			ConstLabels: constLabels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"kind", "name"}),
	}
	r.registry.MustRegister(
		r.invocations,
		r.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Observe records one finished invocation.
func (r *Recorder) Observe(kind, name, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.invocations.WithLabelValues(kind, name, outcome).Inc()
	r.duration.WithLabelValues(kind, name).Observe(d.Seconds())
}

// Count returns the counter for one label set. It exists for tests and
// diagnostics.
func (r *Recorder) Count(kind, name, outcome string) prometheus.Counter {
	return r.invocations.WithLabelValues(kind, name, outcome)
}

// Invocations returns the invocation counter, for inspecting series.
func (r *Recorder) Invocations() prometheus.Collector { return r.invocations }

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
