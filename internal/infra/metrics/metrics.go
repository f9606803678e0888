package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	followUpsDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "followups_dispatched_total",
			Help: "Total number of follow-ups dispatched successfully",
		},
		[]string{"channel"},
	)

	followUpsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "followups_cancelled_total",
			Help: "Total number of follow-ups cancelled by the dispatch worker",
		},
	)

	dispatchErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dispatch_errors_total",
			Help: "Total number of per-job dispatch failures",
		},
	)

	suggestionsGenerated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "suggestions_generated_total",
			Help: "Total number of suggestions returned to callers",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request counts and latency per route.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordDispatch(channel string) {
	followUpsDispatched.WithLabelValues(channel).Inc()
}

func RecordFollowUpCancelled() {
	followUpsCancelled.Inc()
}

func RecordDispatchError() {
	dispatchErrors.Inc()
}

func RecordSuggestions(n int) {
	suggestionsGenerated.Add(float64(n))
}
