// Package metrics exposes Prometheus metrics for scraping, caching,
// calendar building and moderation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "olympiad"

type Manager struct {
	registry *prometheus.Registry

	fetches          *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	cacheRequests    *prometheus.CounterVec
	calendarRecords  *prometheus.CounterVec
	submissionEvents *prometheus.CounterVec
}

//nolint:gochecknoglobals //singleton metrics manager
var globalManager = NewManager(prometheus.NewRegistry())

func NewManager(registry *prometheus.Registry) *Manager {
	auto := promauto.With(registry)

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), //nolint:exhaustruct //defaults
	)

	//nolint:exhaustruct //other fields are optional
	return &Manager{
		registry: registry,
		fetches: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scraper",
			Name:      "fetches_total",
			Help:      "Number of source page fetches by result",
		}, []string{"source", "result"}),
		fetchDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scraper",
			Name:      "fetch_duration_seconds",
			Help:      "Duration of source page fetches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"source"}),
		cacheRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "requests_total",
			Help:      "Cache lookups by cache name and outcome (hit, stale, miss)",
		}, []string{"cache", "outcome"}),
		calendarRecords: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calendar",
			Name:      "records_total",
			Help:      "Calendar records by placement (bucketed, undated)",
		}, []string{"placement"}),
		submissionEvents: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "submissions",
			Name:      "events_total",
			Help:      "Submission lifecycle events",
		}, []string{"action"}),
	}
}

func (m *Manager) RecordFetch(source string, duration time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}

	m.fetches.WithLabelValues(source, result).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(duration.Seconds())
}

func (m *Manager) RecordCache(cache string, outcome string) {
	m.cacheRequests.WithLabelValues(cache, outcome).Inc()
}

func (m *Manager) RecordCalendar(bucketed int, undated int) {
	m.calendarRecords.WithLabelValues("bucketed").Add(float64(bucketed))
	m.calendarRecords.WithLabelValues("undated").Add(float64(undated))
}

func (m *Manager) RecordSubmission(action string) {
	m.submissionEvents.WithLabelValues(action).Inc()
}

func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}) //nolint:exhaustruct //defaults
}

func (m *Manager) Registry() *prometheus.Registry {
	return m.registry
}

// RecordFetch records a source fetch on the global manager.
func RecordFetch(source string, duration time.Duration, err error) {
	globalManager.RecordFetch(source, duration, err)
}

func RecordCache(cache string, outcome string) {
	globalManager.RecordCache(cache, outcome)
}

func RecordCalendar(bucketed int, undated int) {
	globalManager.RecordCalendar(bucketed, undated)
}

func RecordSubmission(action string) {
	globalManager.RecordSubmission(action)
}

func Handler() http.Handler {
	return globalManager.Handler()
}
