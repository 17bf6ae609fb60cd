package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(checkoutSessionsTotal)
}

var checkoutSessionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "checkout_sessions_total",
		Help: "Checkout requests by result (created/cache_hit/provider_error/rejected).",
	},
	[]string{"result"},
)

func IncCheckout(result string) {
	checkoutSessionsTotal.WithLabelValues(norm(result)).Inc()
}
