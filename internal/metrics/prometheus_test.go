package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsRegistered(t *testing.T) {
	tests := []struct {
		name   string
		metric prometheus.Collector
	}{
		{"ContactSubmissionsTotal", ContactSubmissionsTotal},
		{"MailDeliveryAttemptsTotal", MailDeliveryAttemptsTotal},
		{"MailDeliveryDuration", MailDeliveryDuration},
		{"MailProviderUp", MailProviderUp},
		{"IPLookupsTotal", IPLookupsTotal},
		{"RateLimitRejectionsTotal", RateLimitRejectionsTotal},
		{"APIRequestsTotal", APIRequestsTotal},
		{"APIRequestDuration", APIRequestDuration},
		{"APIAuthFailuresTotal", APIAuthFailuresTotal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.metric == nil {
				t.Errorf("%s is nil", tt.name)
			}
		})
	}
}

func TestContactSubmissionsCounter(t *testing.T) {
	before := testutil.ToFloat64(ContactSubmissionsTotal.WithLabelValues("sent"))
	ContactSubmissionsTotal.WithLabelValues("sent").Inc()
	if got := testutil.ToFloat64(ContactSubmissionsTotal.WithLabelValues("sent")); got != before+1 {
		t.Errorf("contact_submissions_total{result=sent} = %v, want %v", got, before+1)
	}
}

func TestMailDeliveryMetrics(t *testing.T) {
	MailDeliveryAttemptsTotal.WithLabelValues("smtp", "success").Inc()
	MailDeliveryAttemptsTotal.WithLabelValues("smtp", "transient").Inc()
	MailDeliveryDuration.WithLabelValues("smtp").Observe(0.4)
}

func TestAPIRequestMetrics(t *testing.T) {
	APIRequestsTotal.WithLabelValues("GET", "/ip", "200").Inc()
	APIRequestDuration.WithLabelValues("POST", "/contact").Observe(0.05)
}
