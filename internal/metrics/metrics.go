// Package metrics exposes Prometheus collectors for the page analyzer.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesRegisteredTotal prometheus.Counter
	checksTotal          *prometheus.CounterVec
	checkFetchSeconds    prometheus.Histogram
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestSeconds   *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		pagesRegisteredTotal = promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "pageanalyzer_pages_registered_total",
				Help: "Total number of pages registered.",
			},
		)

		checksTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pageanalyzer_checks_total",
				Help: "Total number of page checks, labeled by outcome.",
			},
			[]string{"outcome"},
		)

		checkFetchSeconds = promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pageanalyzer_check_fetch_duration_seconds",
				Help:    "Histogram of outbound fetch latencies during checks.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObservePageRegistered increments the page registration counter.
func ObservePageRegistered() {
	pagesRegisteredTotal.Inc()
}

// ObserveCheck records one check invocation outcome, e.g. "ok",
// "fetch_failed", "not_found".
func ObserveCheck(outcome string, fetchDuration time.Duration) {
	checksTotal.WithLabelValues(outcome).Inc()
	if fetchDuration > 0 {
		checkFetchSeconds.Observe(fetchDuration.Seconds())
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}
