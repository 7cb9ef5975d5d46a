package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
	httpErrors   *prometheus.CounterVec

	notificationsCreated prometheus.Counter
	statusChanges        *prometheus.CounterVec
	complaintsSubmitted  *prometheus.CounterVec
}

// NewMetrics initializes and registers all collectors on a private
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: registry,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status.",
		}, []string{"path", "method", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		httpErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "Request failures by domain error code.",
		}, []string{"path", "method", "code"}),
		notificationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_created_total",
			Help: "Stored notifications derived from status changes.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_status_changes_total",
			Help: "Complaint status transitions by old and new status.",
		}, []string{"old_status", "new_status"}),
		complaintsSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaints_submitted_total",
			Help: "Complaints filed, by category.",
		}, []string{"category"}),
	}

	registry.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.httpErrors,
		m.notificationsCreated,
		m.statusChanges,
		m.complaintsSubmitted,
	)
	return m
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.httpErrors.WithLabelValues(path, method, code).Inc()
}

// RecordNotificationCreated counts a derived notification.
func (m *Metrics) RecordNotificationCreated() {
	if m == nil {
		return
	}
	m.notificationsCreated.Inc()
}

// RecordStatusChange counts a lifecycle transition.
func (m *Metrics) RecordStatusChange(oldStatus, newStatus string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(oldStatus, newStatus).Inc()
}

// RecordComplaintSubmitted counts a filed complaint.
func (m *Metrics) RecordComplaintSubmitted(category string) {
	if m == nil {
		return
	}
	m.complaintsSubmitted.WithLabelValues(category).Inc()
}

// Handler serves the /metrics scrape endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
