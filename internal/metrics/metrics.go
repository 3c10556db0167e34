// Package metrics registers the Prometheus collectors exposed
// on the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by method, route and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhive",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration tracks request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "taskhive",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// RemindersSent counts reminder emails sent by the scheduler,
	// labeled by reminder kind (24h or 1h).
	RemindersSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhive",
		Name:      "reminders_sent_total",
		Help:      "Reminder emails sent by the automated scheduler.",
	}, []string{"kind"})

	// ReminderSendFailures counts failed reminder sends.
	ReminderSendFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "taskhive",
		Name:      "reminder_send_failures_total",
		Help:      "Failed reminder email sends.",
	}, []string{"kind"})
)
