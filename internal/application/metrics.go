package application

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ordersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_payment_orders_total",
		Help: "Payment orders requested, by plan and outcome.",
	}, []string{"plan", "outcome"})

	activationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_subscription_activations_total",
		Help: "Payment verifications, by plan and outcome.",
	}, []string{"plan", "outcome"})

	emailsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_emails_dispatched_total",
		Help: "Transactional emails handed to the mailer, by template and outcome.",
	}, []string{"template", "outcome"})

	sweepWarningsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "signals_expiry_warnings_total",
		Help: "Expiry warnings processed by the daily sweep, by outcome.",
	}, []string{"outcome"})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "signals_expiry_sweep_duration_seconds",
		Help:    "Wall time of one expiry sweep.",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
	})
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
