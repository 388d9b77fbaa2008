package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PaymentMetrics records payment lifecycle counters.
type PaymentMetrics struct {
	intentsCreated *prometheus.CounterVec
	webhooks       *prometheus.CounterVec
	enrollments    prometheus.Counter
}

// NewPaymentMetrics registers the payment metrics on the provided registerer.
func NewPaymentMetrics(reg prometheus.Registerer) *PaymentMetrics {
	if reg == nil {
		return &PaymentMetrics{}
	}
	intentsCreated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_intents_created_total",
		Help: "Payment intents created, by outcome.",
	}, []string{"outcome"})
	webhooks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "payment_webhooks_total",
		Help: "Gateway webhook notifications processed, by result.",
	}, []string{"result"})
	enrollments := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_created_total",
		Help: "Enrollments granted by settled payments.",
	})
	reg.MustRegister(intentsCreated, webhooks, enrollments)
	return &PaymentMetrics{
		intentsCreated: intentsCreated,
		webhooks:       webhooks,
		enrollments:    enrollments,
	}
}

// IncIntentCreated increments the intent counter for the given outcome.
func (p *PaymentMetrics) IncIntentCreated(outcome string) {
	if p == nil || p.intentsCreated == nil {
		return
	}
	p.intentsCreated.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// IncWebhook increments the webhook counter for the given result.
func (p *PaymentMetrics) IncWebhook(result string) {
	if p == nil || p.webhooks == nil {
		return
	}
	p.webhooks.WithLabelValues(normalizeLabel(result)).Inc()
}

// IncEnrollment increments the granted-enrollment counter.
func (p *PaymentMetrics) IncEnrollment() {
	if p == nil || p.enrollments == nil {
		return
	}
	p.enrollments.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
