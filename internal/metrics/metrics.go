package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are registered with the default registry via promauto and
// exposed on GET /metrics.

var (
	// HTTPRequestDuration tracks the duration of HTTP requests.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint", "status"},
	)

	// HTTPRequestsTotal counts total HTTP requests.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// MappingsCreatedTotal counts newly created URL mappings. Idempotent
	// repeats of an already-shortened URL are not counted.
	MappingsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mappings_created_total",
			Help: "Total number of URL mappings created",
		},
	)

	// RedirectsTotal counts successful redirects.
	RedirectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "redirects_total",
			Help: "Total number of successful redirects",
		},
	)
)

// RecordMappingCreated increments the mapping creation counter.
func RecordMappingCreated() {
	MappingsCreatedTotal.Inc()
}

// RecordRedirect increments the redirect counter.
func RecordRedirect() {
	RedirectsTotal.Inc()
}
