// Package metrics records Prometheus metrics for glossary loading, searches
// and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the service metrics. A nil *Recorder is valid and records
// nothing.
type Recorder struct {
	registry *prometheus.Registry

	loadsTotal      *prometheus.CounterVec
	termsLoaded     prometheus.Gauge
	duplicates      prometheus.Gauge
	searchesTotal   *prometheus.CounterVec
	searchResults   *prometheus.HistogramVec
	liveSessions    prometheus.Gauge
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRecorder creates a Recorder on its own registry, including the Go
// runtime and process collectors.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		loadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossa_glossary_loads_total",
				Help: "Glossary loads by source and outcome",
			},
			[]string{"source", "status"},
		),
		termsLoaded: factory.NewGauge(prometheus.GaugeOpts{
			Name: "glossa_glossary_terms",
			Help: "Terms in the active collection after deduplication",
		}),
		duplicates: factory.NewGauge(prometheus.GaugeOpts{
			Name: "glossa_glossary_duplicates",
			Help: "Source records dropped as case-insensitive duplicates in the last load",
		}),
		searchesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossa_searches_total",
				Help: "Searches by surface (directory, suggest, live, mcp)",
			},
			[]string{"surface", "searched"},
		),
		searchResults: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glossa_search_results",
				Help:    "Number of results returned per search",
				Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
			},
			[]string{"surface"},
		),
		liveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "glossa_live_sessions",
			Help: "Open live search connections",
		}),
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "glossa_http_requests_total",
				Help: "HTTP requests by method, route and status code",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "glossa_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Registry exposes the underlying registry for tests and extra collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveLoad records a glossary load attempt.
func (r *Recorder) ObserveLoad(source string, terms, duplicates int, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.loadsTotal.WithLabelValues(source, "error").Inc()
		return
	}
	r.loadsTotal.WithLabelValues(source, "success").Inc()
	r.termsLoaded.Set(float64(terms))
	r.duplicates.Set(float64(duplicates))
}

// ObserveSearch records one search on a surface.
func (r *Recorder) ObserveSearch(surface string, searched bool, results int) {
	if r == nil {
		return
	}
	r.searchesTotal.WithLabelValues(surface, strconv.FormatBool(searched)).Inc()
	r.searchResults.WithLabelValues(surface).Observe(float64(results))
}

// LiveSessionOpened and LiveSessionClosed track open live connections.
func (r *Recorder) LiveSessionOpened() {
	if r != nil {
		r.liveSessions.Inc()
	}
}

func (r *Recorder) LiveSessionClosed() {
	if r != nil {
		r.liveSessions.Dec()
	}
}

// ObserveRequest records a completed HTTP request.
func (r *Recorder) ObserveRequest(method, route string, status int, duration time.Duration) {
	if r == nil {
		return
	}
	r.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
