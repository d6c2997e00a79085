package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TurnsTotal counts handled inbound turns by dialog outcome
	TurnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchtix_turns_total",
		Help: "Inbound conversation turns handled, by outcome",
	}, []string{"outcome"})

	// TurnDuration observes end-to-end turn handling time
	TurnDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "matchtix_turn_duration_seconds",
		Help:    "Time to process one inbound turn",
		Buckets: prometheus.DefBuckets,
	})

	// BookingsTotal counts confirmed reservations
	BookingsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchtix_bookings_total",
		Help: "Successful ticket reservations",
	})

	// BookingFailuresTotal counts failed reservations by reason
	BookingFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "matchtix_booking_failures_total",
		Help: "Failed ticket reservations, by reason",
	}, []string{"reason"})

	// SeatsReservedTotal counts seats taken out of inventory
	SeatsReservedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchtix_seats_reserved_total",
		Help: "Seats removed from listing pools",
	})

	// NotificationFailuresTotal counts confirmations that could not be delivered
	NotificationFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "matchtix_notification_failures_total",
		Help: "Booking confirmations that failed to deliver",
	})
)
