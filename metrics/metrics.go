// Package metrics owns the Prometheus registry of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bracket_engine"

type Metrics struct {
	Registry *prometheus.Registry

	BracketsCreated   *prometheus.CounterVec
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	BracketsConcluded prometheus.Counter
	Disqualifications prometheus.Counter
	Archived          *prometheus.CounterVec
}

// New creates a private registry so tests can build as many instances as
// they need without colliding on the default one.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		BracketsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_created_total",
			Help:      "Brackets created, by format.",
		}, []string{"format"}),
		Operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Bracket mutations, by operation and result.",
		}, []string{"operation", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Time spent applying a bracket mutation, storage included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		BracketsConcluded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "brackets_concluded_total",
			Help:      "Brackets that reached a terminal state.",
		}),
		Disqualifications: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "disqualifications_total",
			Help:      "Participants disqualified.",
		}),
		Archived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "standings_archived_total",
			Help:      "Standings archive uploads, by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.BracketsCreated,
		m.Operations,
		m.OperationDuration,
		m.BracketsConcluded,
		m.Disqualifications,
		m.Archived,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
