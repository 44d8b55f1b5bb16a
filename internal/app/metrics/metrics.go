package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genesummary",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genesummary",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "genesummary",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	cacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genesummary",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Total number of cache operations by tier and outcome.",
		},
		[]string{"tier", "operation", "outcome"},
	)

	cacheDegraded = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "genesummary",
			Subsystem: "cache",
			Name:      "degraded",
			Help:      "1 when the cache serves from the in-memory fallback, 0 when Redis is in use.",
		},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "genesummary",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Total number of upstream requests by service and outcome.",
		},
		[]string{"service", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "genesummary",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream requests.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 11), // 10ms to ~10s
		},
		[]string{"service"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		cacheOperations,
		cacheDegraded,
		upstreamRequests,
		upstreamDuration,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// InstrumentHandler wraps the provided handler with HTTP metrics collection.
func InstrumentHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		httpInFlight.Inc()
		defer httpInFlight.Dec()

		next.ServeHTTP(rec, r)

		duration := time.Since(start)
		path := canonicalPath(r.URL.Path)
		method := strings.ToUpper(r.Method)

		httpRequests.WithLabelValues(method, path, strconv.Itoa(rec.status)).Inc()
		httpDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	})
}

// RecordCacheOperation counts one cache operation. Tier is "redis" or
// "memory"; outcome is "hit", "miss", "ok" or "error".
func RecordCacheOperation(tier, operation, outcome string) {
	cacheOperations.WithLabelValues(tier, operation, outcome).Inc()
}

// SetCacheDegraded records which tier the cache is serving from.
func SetCacheDegraded(degraded bool) {
	if degraded {
		cacheDegraded.Set(1)
		return
	}
	cacheDegraded.Set(0)
}

// RecordUpstreamRequest records one completed upstream call.
func RecordUpstreamRequest(service, outcome string, duration time.Duration) {
	if duration <= 0 {
		duration = time.Millisecond
	}
	upstreamRequests.WithLabelValues(service, outcome).Inc()
	upstreamDuration.WithLabelValues(service).Observe(duration.Seconds())
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

func canonicalPath(raw string) string {
	if raw == "" || raw == "/" {
		return "/"
	}
	trimmed := strings.Trim(raw, "/")
	if trimmed == "" {
		return "/"
	}
	parts := strings.Split(trimmed, "/")
	if len(parts) < 3 || parts[0] != "api" || parts[1] != "v1" || parts[2] != "gene" {
		return "/" + parts[0]
	}
	if len(parts) == 3 {
		return "/api/v1/gene"
	}
	if len(parts) == 4 {
		return "/api/v1/gene/:symbol"
	}
	return "/api/v1/gene/:symbol/" + parts[4]
}
