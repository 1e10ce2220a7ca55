// Package metrics exposes FleetSurvey telemetry via Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	domainsurvey "github.com/harborwise/fleetsurvey/internal/domain/survey"
)

// SurveyMetrics implements the application Metrics port and carries the HTTP
// server metrics.
type SurveyMetrics struct {
	registry *prometheus.Registry

	recalcDuration      prometheus.Histogram
	recalcCertificates  *prometheus.CounterVec
	certificateOutcomes *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

// New builds and registers all collectors on a private registry.
func New() *SurveyMetrics {
	registry := prometheus.NewRegistry()
	m := &SurveyMetrics{
		registry: registry,
		recalcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fleetsurvey",
			Subsystem: "recalc",
			Name:      "duration_seconds",
			Help:      "Duration of ship schedule recalculations.",
			Buckets:   prometheus.DefBuckets,
		}),
		recalcCertificates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetsurvey",
			Subsystem: "recalc",
			Name:      "certificates_total",
			Help:      "Certificates processed by recalculations.",
		}, []string{"result"}),
		certificateOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetsurvey",
			Subsystem: "recalc",
			Name:      "failures_total",
			Help:      "Certificate scheduling failures by code.",
		}, []string{"code"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fleetsurvey",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route, and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fleetsurvey",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	registry.MustRegister(
		m.recalcDuration,
		m.recalcCertificates,
		m.certificateOutcomes,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

// ObserveRecalculation records one completed ship recalculation.
func (m *SurveyMetrics) ObserveRecalculation(duration time.Duration, updated, total int) {
	m.recalcDuration.Observe(duration.Seconds())
	m.recalcCertificates.WithLabelValues("updated").Add(float64(updated))
	m.recalcCertificates.WithLabelValues("unchanged").Add(float64(total - updated))
}

// CountCertificateOutcome records one certificate-level failure.
func (m *SurveyMetrics) CountCertificateOutcome(code domainsurvey.FailureCode) {
	m.certificateOutcomes.WithLabelValues(string(code)).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *SurveyMetrics) ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler serves the /metrics scrape endpoint.
func (m *SurveyMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *SurveyMetrics) Registry() *prometheus.Registry {
	return m.registry
}
