package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPaymentMetricsCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPaymentMetrics(reg)

	m.IncIntentCreated("success")
	m.IncIntentCreated("success")
	m.IncIntentCreated("")
	m.IncWebhook("settlement")
	m.IncEnrollment()

	if got := testutil.ToFloat64(m.intentsCreated.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful intents, got %v", got)
	}
	if got := testutil.ToFloat64(m.intentsCreated.WithLabelValues("unknown")); got != 1 {
		t.Fatalf("expected empty outcome to normalize to unknown, got %v", got)
	}
	if got := testutil.ToFloat64(m.webhooks.WithLabelValues("settlement")); got != 1 {
		t.Fatalf("expected 1 settlement webhook, got %v", got)
	}
	if got := testutil.ToFloat64(m.enrollments); got != 1 {
		t.Fatalf("expected 1 enrollment, got %v", got)
	}
}

func TestPaymentMetricsNilSafe(t *testing.T) {
	var m *PaymentMetrics
	m.IncIntentCreated("success")
	m.IncWebhook("ignored")
	m.IncEnrollment()

	empty := NewPaymentMetrics(nil)
	empty.IncIntentCreated("success")
	empty.IncWebhook("ignored")
	empty.IncEnrollment()
}
