package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/fsmview/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by viewer lifecycle events.
type Metrics struct {
	registry      *prometheus.Registry
	Ingested      *prometheus.CounterVec
	Removed       prometheus.Counter
	BuildDuration prometheus.Histogram
	GraphSize     *prometheus.GaugeVec
	Diagnostics   *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Ingested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsmview_snapshots_ingested_total",
				Help: "Snapshots stored, by machine.",
			},
			[]string{"machine"},
		),
		Removed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fsmview_machines_removed_total",
			Help: "Remove and clear operations on the registry.",
		}),
		BuildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fsmview_graph_build_duration_seconds",
			Help:    "Time spent turning a snapshot into a graph.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}),
		GraphSize: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fsmview_graph_elements",
				Help: "Nodes and edges of the last graph built per machine.",
			},
			[]string{"machine", "element"},
		),
		Diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fsmview_diagnostics_total",
				Help: "Snapshot findings, by code.",
			},
			[]string{"code"},
		),
	}
	m.registry.MustRegister(m.Ingested, m.Removed, m.BuildDuration, m.GraphSize, m.Diagnostics)
	return m
}

// Hooks returns lifecycle hooks that update the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuild: func(_ context.Context, e *domain.BuildEvent) {
			m.BuildDuration.Observe(e.Duration.Seconds())
			m.GraphSize.WithLabelValues(e.Machine, "nodes").Set(float64(e.Nodes))
			m.GraphSize.WithLabelValues(e.Machine, "edges").Set(float64(e.Edges))
			for _, d := range e.Diagnostics {
				m.Diagnostics.WithLabelValues(d.Code()).Inc()
			}
		},
		OnIngest: func(_ context.Context, e *domain.MachineEvent) {
			m.Ingested.WithLabelValues(e.Machine).Inc()
		},
		OnRemove: func(_ context.Context, e *domain.MachineEvent) {
			m.Removed.Inc()
			if e.Machine == domain.AllMachines {
				m.GraphSize.Reset()
				return
			}
			m.GraphSize.DeleteLabelValues(e.Machine, "nodes")
			m.GraphSize.DeleteLabelValues(e.Machine, "edges")
		},
	}
}

// Handler exposes the collectors in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
