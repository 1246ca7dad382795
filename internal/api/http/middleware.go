package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"urlmapper/internal/metrics"
)

// requestMetrics records a duration observation and a request count for
// every handled request, labeled by method, route pattern and status.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		endpoint := chi.RouteContext(r.Context()).RoutePattern()
		if endpoint == "" {
			endpoint = r.URL.Path
		}
		status := strconv.Itoa(ww.Status())

		metrics.HTTPRequestDuration.
			WithLabelValues(r.Method, endpoint, status).
			Observe(time.Since(start).Seconds())
		metrics.HTTPRequestsTotal.
			WithLabelValues(r.Method, endpoint, status).
			Inc()
	})
}
