// Package metrics holds the application's Prometheus registry and
// counters. Counters are incremented where the event happens; the
// transport mounts the handler at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// SessionsStartedTotal counts session leases granted.
	SessionsStartedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "melodiq_sessions_started_total",
		Help: "Total number of play sessions started",
	})

	// TasksServedTotal counts puzzles served, split by served mode.
	TasksServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "melodiq_tasks_served_total",
		Help: "Total number of puzzles served",
	}, []string{"mode"}) // "generated" or "resumed"

	// SubmissionsTotal counts answer submissions by outcome.
	SubmissionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "melodiq_submissions_total",
		Help: "Total number of answer submissions",
	}, []string{"result"}) // "correct", "wrong", "exhausted"

	// LevelUpsTotal counts level advancements.
	LevelUpsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "melodiq_level_ups_total",
		Help: "Total number of level advancements",
	})
)

// Registry is the application registry with runtime collectors and the
// game counters registered.
var Registry = newRegistry()

func newRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		SessionsStartedTotal,
		TasksServedTotal,
		SubmissionsTotal,
		LevelUpsTotal,
	)
	return registry
}

// Handler returns the HTTP handler serving the registry.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
