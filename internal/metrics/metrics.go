// Package metrics exposes the Prometheus collectors of the API. A nil
// *Metrics is valid and records nothing.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Contact submission outcomes
const (
	OutcomeSent          = "sent"
	OutcomeDevMode       = "dev_mode"
	OutcomeSpam          = "spam"
	OutcomeInvalid       = "invalid"
	OutcomeRateLimited   = "rate_limited"
	OutcomeNotConfigured = "not_configured"
	OutcomeFailed        = "failed"
)

type Metrics struct {
	gatherer prometheus.Gatherer

	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	contactSubmissionsTotal    *prometheus.CounterVec
	contactRateLimitedTotal    prometheus.Counter
	contactSendDuration        *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	m := &Metrics{
		gatherer: gatherer,
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"route", "method"},
		),
		contactSubmissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "contact_submissions_total",
				Help: "Contact form submissions by outcome",
			},
			[]string{"outcome"},
		),
		contactRateLimitedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "contact_rate_limited_total",
				Help: "Contact submissions rejected by the per-client window",
			},
		),
		contactSendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "contact_send_duration_seconds",
				Help:    "Email provider call latency",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16},
			},
			[]string{"provider", "result"},
		),
	}

	reg.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDurationSeconds,
		m.contactSubmissionsTotal,
		m.contactRateLimitedTotal,
		m.contactSendDuration,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDurationSeconds.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ContactOutcome(outcome string) {
	if m == nil {
		return
	}
	m.contactSubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RateLimited() {
	if m == nil {
		return
	}
	m.contactRateLimitedTotal.Inc()
	m.contactSubmissionsTotal.WithLabelValues(OutcomeRateLimited).Inc()
}

func (m *Metrics) ObserveSend(provider string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.contactSendDuration.WithLabelValues(provider, result).Observe(elapsed.Seconds())
}
