// Package metrics provides Prometheus metrics for wikinsight.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Backend call outcomes.
const (
	OutcomeOK            = "ok"
	OutcomeBackendError  = "backend_error"
	OutcomeRequestFailed = "request_failed"
	OutcomeCancelled     = "cancelled"
)

var (
	// BackendRequestsTotal counts calls to the insights backend.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikinsight",
			Name:      "backend_requests_total",
			Help:      "Total number of insights backend requests",
		},
		[]string{"endpoint", "outcome"},
	)

	// BackendRequestDuration measures backend call latency.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wikinsight",
			Name:      "backend_request_duration_seconds",
			Help:      "Duration of insights backend requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	// PageRendersTotal counts rendered pages by page and result.
	PageRendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikinsight",
			Name:      "page_renders_total",
			Help:      "Total number of rendered pages",
		},
		[]string{"page", "result"},
	)

	// ContactSubmissionsTotal counts contact form submissions.
	ContactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wikinsight",
			Name:      "contact_submissions_total",
			Help:      "Total number of contact form submissions",
		},
		[]string{"status"},
	)
)

// RecordBackendCall records one backend request.
func RecordBackendCall(endpoint, outcome string, elapsed time.Duration) {
	BackendRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	BackendRequestDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordPageRender records a rendered page.
func RecordPageRender(page, result string) {
	PageRendersTotal.WithLabelValues(page, result).Inc()
}

// RecordContactSubmission records a contact form outcome.
func RecordContactSubmission(status string) {
	ContactSubmissionsTotal.WithLabelValues(status).Inc()
}
