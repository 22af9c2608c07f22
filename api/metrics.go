package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// =============================================================================
// METRICS
// =============================================================================

// Metrics owns a private registry so tests can build several routers
// without duplicate registration panics.
type Metrics struct {
	Registry *prometheus.Registry

	requests        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	invoiceEvents   *prometheus.CounterVec
	overdueSweeps   prometheus.Counter
	projectedTaxDue prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daybook",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "daybook",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		invoiceEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "daybook",
			Name:      "invoice_events_total",
			Help:      "Invoice lifecycle transitions by resulting status.",
		}, []string{"status"}),
		overdueSweeps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "daybook",
			Name:      "overdue_sweeps_total",
			Help:      "Completed overdue sweeps.",
		}),
		projectedTaxDue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "daybook",
			Name:      "projected_tax_due",
			Help:      "Tax due from the most recent projection, home currency.",
		}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.invoiceEvents,
		m.overdueSweeps,
		m.projectedTaxDue,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// Middleware records count and latency per chi route pattern, so
// /api/invoices/{id} is one series no matter the ID.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) invoiceEvent(status string, n int) {
	if n > 0 {
		m.invoiceEvents.WithLabelValues(status).Add(float64(n))
	}
}
