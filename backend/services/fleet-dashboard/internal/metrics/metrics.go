package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics records request counts and latencies per route pattern.
type HTTPMetrics struct {
	registry    *prometheus.Registry
	requests    *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	liveClients prometheus.Gauge
	logins      *prometheus.CounterVec
}

// New registers the dashboard collectors on a private registry.
func New() *HTTPMetrics {
	m := &HTTPMetrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_http_requests_total",
				Help: "HTTP requests by route pattern, method and status code.",
			},
			[]string{"route", "method", "code"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fleet_http_request_duration_seconds",
				Help:    "HTTP request latency by route pattern.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_live_clients",
			Help: "Open live telemetry websocket connections.",
		}),
		logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fleet_logins_total",
				Help: "Login attempts by result (success, fallback, failure).",
			},
			[]string{"result"},
		),
	}
	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.liveClients,
		m.logins,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the exposition format.
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// LiveConnected tracks a websocket client; call the returned func on close.
func (m *HTTPMetrics) LiveConnected() func() {
	m.liveClients.Inc()
	return m.liveClients.Dec
}

// Login counts one login attempt.
func (m *HTTPMetrics) Login(result string) {
	m.logins.WithLabelValues(result).Inc()
}

// Middleware observes every request. It must run inside the chi router so the
// matched route pattern is known; unmatched requests are labelled "unmatched".
func (m *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(route, r.Method, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}
