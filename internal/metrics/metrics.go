// Package metrics holds the prometheus collectors of the API server.
// A nil *Metrics is valid and records nothing, so components can be
// built without a registry in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics contains the HTTP, upstream and storage metrics
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration prometheus.Histogram
	CharactersSaved  prometheus.Counter
	StorageErrors    *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animeshow",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled",
			},
			[]string{"route", "method", "status"},
		),

		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "animeshow",
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),

		UpstreamRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animeshow",
				Subsystem: "anilist",
				Name:      "requests_total",
				Help:      "Total number of AniList GraphQL requests by outcome",
			},
			[]string{"outcome"},
		),

		UpstreamDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "animeshow",
				Subsystem: "anilist",
				Name:      "request_duration_seconds",
				Help:      "AniList GraphQL request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		CharactersSaved: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "animeshow",
				Subsystem: "characters",
				Name:      "saved_total",
				Help:      "Total number of successful character upserts",
			},
		),

		StorageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "animeshow",
				Subsystem: "storage",
				Name:      "errors_total",
				Help:      "Total number of failed storage operations",
			},
			[]string{"op"},
		),
	}

	m.registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.CharactersSaved,
		m.StorageErrors,
		collectors.NewGoCollector(),
	)
	return m
}

// Handler exposes the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveUpstream(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamRequests.WithLabelValues(outcome).Inc()
	m.UpstreamDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) IncSaved() {
	if m == nil {
		return
	}
	m.CharactersSaved.Inc()
}

func (m *Metrics) IncStorageError(op string) {
	if m == nil {
		return
	}
	m.StorageErrors.WithLabelValues(op).Inc()
}
