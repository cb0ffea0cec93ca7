package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		registrationsTotal,
		paymentAttemptsTotal,
		fallbackRecords,
	)
}

var (
	registrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_total",
			Help: "Submissions by outcome (persisted/fallback/failed).",
		},
		[]string{"outcome"},
	)

	paymentAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_attempts_total",
			Help: "Manual payment artifacts produced, by channel and option.",
		},
		[]string{"channel", "option"},
	)

	fallbackRecords = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fallback_records",
			Help: "Registrations waiting in the local fallback store.",
		},
	)
)

func IncRegistration(outcome string) {
	registrationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func IncPaymentAttempt(channel, option string) {
	paymentAttemptsTotal.WithLabelValues(norm(channel), norm(option)).Inc()
}

func SetFallbackRecords(n int) {
	fallbackRecords.Set(float64(n))
}
