package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	Reservations        *prometheus.CounterVec
	ReservationDuration *prometheus.HistogramVec
	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	OutboxDispatches    *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Reservations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bookit_reservations_total",
			Help: "Reservation attempts by outcome",
		}, []string{"outcome"}),

		ReservationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookit_reservation_duration_seconds",
			Help:    "Time spent in Reserve, including the slot lock wait",
			Buckets: prometheus.DefBuckets,
		}, []string{"outcome"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bookit_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bookit_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		OutboxDispatches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "bookit_outbox_dispatches_total",
			Help: "Outbox events published to Kafka by type and result",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) ObserveReservation(outcome string, d time.Duration) {
	m.Reservations.WithLabelValues(outcome).Inc()
	m.ReservationDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

func (m *Metrics) ObserveOutboxDispatch(eventType string, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	m.OutboxDispatches.WithLabelValues(eventType, result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records every request under its chi route pattern so ids in
// paths do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
