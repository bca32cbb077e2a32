// Package metrics exposes revision engine metrics in Prometheus format.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/uttaparsa/notes-api/internal/version"
)

const (
	namespace    = "noterev"
	outcomeLabel = "outcome"
)

// Metrics holds the engine's collectors on a private registry. A nil
// *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	buildInfo          *prometheus.GaugeVec
	recordsTotal       *prometheus.CounterVec
	recordSeconds      prometheus.Histogram
	prunedTotal        prometheus.Counter
	pruneFailuresTotal prometheus.Counter
	replayFailures     prometheus.Counter
}

// New creates a Metrics with its own registry.
func New() (*Metrics, error) {
	reg := prometheus.NewRegistry()

	if err := reg.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		return nil, fmt.Errorf("register process collector: %w", err)
	}
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	m := &Metrics{
		registry: reg,
		buildInfo: promauto.With(reg).NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "build_info",
			Help:      "Which version is running. 1 for the 'version' label with the current version.",
		}, []string{"version"}),
		recordsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revisions",
			Name:      "records_total",
			Help:      "Recorded edits by outcome (created, appended, amended, unchanged).",
		}, []string{outcomeLabel}),
		recordSeconds: promauto.With(reg).NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "revisions",
			Name:      "record_seconds",
			Help:      "Time to record an edit including pruning.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		prunedTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revisions",
			Name:      "pruned_total",
			Help:      "Revisions removed by retention pruning.",
		}),
		pruneFailuresTotal: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "revisions",
			Name:      "prune_failures_total",
			Help:      "Pruning cycles that failed and were rolled back.",
		}),
		replayFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "diff",
			Name:      "replay_failures_total",
			Help:      "Cached diffs that did not replay against their predecessor.",
		}),
	}
	m.buildInfo.WithLabelValues(version.Version).Set(1)
	return m, nil
}

// Registry returns the registry for exposition.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// AddRecord counts one recorded edit and its duration.
func (m *Metrics) AddRecord(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.recordsTotal.With(prometheus.Labels{outcomeLabel: outcome}).Inc()
	m.recordSeconds.Observe(seconds)
}

// AddPruned counts removed revisions.
func (m *Metrics) AddPruned(n int) {
	if m == nil || n == 0 {
		return
	}
	m.prunedTotal.Add(float64(n))
}

// AddPruneFailure counts a failed pruning cycle.
func (m *Metrics) AddPruneFailure() {
	if m == nil {
		return
	}
	m.pruneFailuresTotal.Inc()
}

// AddReplayFailure counts a diff that did not line up with its base.
func (m *Metrics) AddReplayFailure() {
	if m == nil {
		return
	}
	m.replayFailures.Inc()
}
