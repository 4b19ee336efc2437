// Package metrics declares the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Contact metrics
var (
	ContactSubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Total number of contact form submissions by result",
		},
		[]string{"result"}, // sent, missing_field, invalid_email, failed
	)

	MailDeliveryAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mail_delivery_attempts_total",
			Help: "Total number of mail provider send attempts",
		},
		[]string{"provider", "result"}, // success, transient, permanent
	)

	MailDeliveryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mail_delivery_duration_seconds",
			Help:    "Duration of a delivery including retries",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider"},
	)

	MailProviderUp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mail_provider_up",
			Help: "1 when the last provider health check left it healthy, 0 otherwise",
		},
		[]string{"provider"},
	)
)

// IP lookup metrics
var (
	IPLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ip_lookups_total",
			Help: "Total number of upstream IP lookups by result",
		},
		[]string{"result"}, // success, upstream_error, failure
	)

	RateLimitRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_rejections_total",
			Help: "Total number of requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)
)

// API metrics
var (
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIAuthFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "api_auth_failures_total",
			Help: "Total number of requests rejected for a missing or wrong API key",
		},
	)
)
