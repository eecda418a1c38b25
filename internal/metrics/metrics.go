// Package metrics exposes the portal's Prometheus counters on a private
// registry served at /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	SubmissionsTotal     *prometheus.CounterVec
	ValidationFailures   *prometheus.CounterVec
	StatusTransitions    *prometheus.CounterVec
	LoginAttempts        *prometheus.CounterVec
	ExportsTotal         prometheus.Counter
	RequestDuration      *prometheus.HistogramVec
	WebsocketConnections prometheus.Gauge
	NotificationsSent    *prometheus.CounterVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_submissions_total",
			Help: "Accepted submissions by record kind",
		}, []string{"kind"}),
		ValidationFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_validation_failures_total",
			Help: "Rejected submissions by record kind",
		}, []string{"kind"}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_status_transitions_total",
			Help: "Applied status changes by record kind and target status",
		}, []string{"kind", "status"}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_login_attempts_total",
			Help: "Admin login attempts by outcome",
		}, []string{"outcome"}),
		ExportsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "portal_exports_total",
			Help: "CSV exports generated",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "portal_http_request_duration_seconds",
			Help:    "HTTP request duration by method, route and status code",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "code"}),
		WebsocketConnections: factory.NewGauge(prometheus.GaugeOpts{
			Name: "portal_websocket_connections",
			Help: "Open admin live-feed connections",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "portal_notifications_total",
			Help: "Applicant emails by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) IncrementSubmission(kind string) {
	m.SubmissionsTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementValidationFailure(kind string) {
	m.ValidationFailures.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncrementTransition(kind, status string) {
	m.StatusTransitions.WithLabelValues(kind, status).Inc()
}

func (m *Metrics) IncrementLogin(success bool) {
	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementExport() {
	m.ExportsTotal.Inc()
}

func (m *Metrics) IncrementNotification(err error) {
	outcome := "sent"
	if err != nil {
		outcome = "failed"
	}
	m.NotificationsSent.WithLabelValues(outcome).Inc()
}

// ObserveRequest records a request's duration. Call with time.Now() taken
// before the handler ran.
func (m *Metrics) ObserveRequest(method, route string, code int, start time.Time) {
	m.RequestDuration.WithLabelValues(method, route, strconv.Itoa(code)).Observe(time.Since(start).Seconds())
}
