package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() { register(notificationsTotal) }

var notificationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_total",
		Help: "Staff notification attempts per transport.",
	},
	[]string{"event", "transport", "result"}, // result: 'delivered', 'failed', 'skipped'
)

func IncNotification(event, transport, result string) {
	notificationsTotal.WithLabelValues(norm(event), norm(transport), norm(result)).Inc()
}
