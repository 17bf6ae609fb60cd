package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookEventsTotal, webhookDuplicatesTotal)
}

var (
	webhookEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_total",
			Help: "Webhook deliveries by terminal handling (processed/failed/absorbed/invalid).",
		},
		[]string{"result"},
	)

	webhookDuplicatesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "webhook_duplicates_total",
			Help: "Deliveries observed for an event id already in the ledger.",
		},
	)
)

func IncWebhookEvent(result string) {
	webhookEventsTotal.WithLabelValues(norm(result)).Inc()
}

func IncWebhookDuplicate() {
	webhookDuplicatesTotal.Inc()
}
