package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memfinder",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memfinder",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	httpInflight = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "memfinder",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "In-flight HTTP requests",
		},
		[]string{"method"},
	)

	estimatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memfinder",
			Subsystem: "estimator",
			Name:      "estimates_total",
			Help:      "Total successful estimates by entry point and quantization",
		},
		[]string{"kind", "quantization"},
	)

	estimateFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memfinder",
			Subsystem: "estimator",
			Name:      "failures_total",
			Help:      "Total failed estimates by entry point and reason",
		},
		[]string{"kind", "reason"},
	)

	estimatedGB = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memfinder",
			Subsystem: "estimator",
			Name:      "estimated_gb",
			Help:      "Distribution of returned memory estimates in GB",
			Buckets:   []float64{1, 2, 4, 8, 16, 24, 32, 48, 64, 80, 128, 256, 512},
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal, httpRequestDuration, httpInflight, estimatesTotal, estimateFailuresTotal, estimatedGB)
}

// statusRecorder wraps http.ResponseWriter to capture status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// MetricsMiddleware instruments requests for Prometheus. The path label is read
// after routing so chi has filled in the route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInflight.WithLabelValues(r.Method).Inc()
		defer httpInflight.WithLabelValues(r.Method).Dec()

		sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(sr, r)
		path := routePatternOrPath(r)
		status := strconv.Itoa(sr.status)
		httpRequestsTotal.WithLabelValues(path, r.Method, status).Inc()
		httpRequestDuration.WithLabelValues(path, r.Method, status).Observe(time.Since(start).Seconds())
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// observeEstimate records a successful estimate.
func observeEstimate(kind, quant string, gb float64) {
	estimatesTotal.WithLabelValues(kind, quant).Inc()
	estimatedGB.WithLabelValues(kind).Observe(gb)
}

// observeFailure records a failed estimate.
func observeFailure(kind string, err error) {
	estimateFailuresTotal.WithLabelValues(kind, failureReason(err)).Inc()
}
