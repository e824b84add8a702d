// Package metrics exposes Prometheus collectors for the schedule service.
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
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	scrapesInFlight            prometheus.Gauge
	extractionSkippedTotal     *prometheus.CounterVec

	once sync.Once
)

// Init initializes the collectors. It is safe to call multiple times, and the
// observe helpers call it lazily.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
			[]string{"method", "route"},
		)

		scrapesInFlight = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tvschedule_scrapes_in_flight",
				Help: "Channel fetch+extract tasks currently running.",
			},
		)

		extractionSkippedTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tvschedule_extraction_skipped_total",
				Help: "Show containers skipped during extraction, labeled by reason.",
			},
			[]string{"reason"},
		)
	})
}

// Handler returns an http.Handler exposing the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one served request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// IncScrapesInFlight marks a channel task as started.
func IncScrapesInFlight() {
	Init()
	scrapesInFlight.Inc()
}

// DecScrapesInFlight marks a channel task as finished.
func DecScrapesInFlight() {
	Init()
	scrapesInFlight.Dec()
}

// ObserveExtractionSkip counts one skipped show container.
func ObserveExtractionSkip(reason string) {
	Init()
	extractionSkippedTotal.WithLabelValues(reason).Inc()
}
