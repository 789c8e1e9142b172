// Package telemetry exposes Prometheus metrics for view computation and
// catalog loading.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Metrics holds the collectors on a dedicated registry, so tests and
// multiple servers in one process do not collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	views          *prometheus.CounterVec
	memoLookups    *prometheus.CounterVec
	computeSeconds prometheus.Histogram
	reloads        *prometheus.CounterVec
	modelEdits     prometheus.Counter
}

// New creates the collectors and registers them.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_total",
			Help:      "Views served, by section and label strategy.",
		}, []string{"section", "strategy"}),
		memoLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_memo_lookups_total",
			Help:      "View memo lookups, by result.",
		}, []string{"result"}),
		computeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "view_compute_seconds",
			Help:      "Time spent computing views that missed the memo.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Catalog reloads, by outcome.",
		}, []string{"outcome"}),
		modelEdits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "model_edits_total",
			Help:      "Model arrays replaced through edit mode.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.views,
		m.memoLookups,
		m.computeSeconds,
		m.reloads,
		m.modelEdits,
	)
	return m
}

// Registry returns the registry holding the collectors.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveView records one served view. elapsed is only recorded for memo
// misses.
func (m *Metrics) ObserveView(section, strategy string, memoHit bool, elapsed time.Duration) {
	m.views.WithLabelValues(section, strategy).Inc()
	if memoHit {
		m.memoLookups.WithLabelValues("hit").Inc()
		return
	}
	m.memoLookups.WithLabelValues("miss").Inc()
	m.computeSeconds.Observe(elapsed.Seconds())
}

// ObserveReload records a catalog reload attempt.
func (m *Metrics) ObserveReload(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.reloads.WithLabelValues(outcome).Inc()
}

// ObserveModelEdit records a successful edit-mode model replacement.
func (m *Metrics) ObserveModelEdit() {
	m.modelEdits.Inc()
}
