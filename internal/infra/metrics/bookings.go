package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		bookingsTotal,
		bookingRevenueTotal,
		bookingCreateSeconds,
	)
}

var (
	bookingsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookings_total",
			Help: "Booking creation attempts by outcome (created/conflict/lock_timeout/error).",
		},
		[]string{"outcome"},
	)

	bookingRevenueTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booking_revenue_total",
			Help: "Total monetary value of materialized bookings, labeled by currency.",
		},
		[]string{"currency"},
	)

	bookingCreateSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booking_create_seconds",
			Help:    "Latency of the locked booking-creation transaction.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
	)
)

func IncBooking(outcome string) {
	bookingsTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddBookingRevenue(currency string, amount int64) {
	bookingRevenueTotal.WithLabelValues(norm(currency)).Add(float64(amount))
}

func ObserveBookingCreate(seconds float64) {
	bookingCreateSeconds.Observe(seconds)
}
