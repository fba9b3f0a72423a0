package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "appointment_engine"

// Booking results.
const (
	ResultCreated  = "created"
	ResultConflict = "conflict"
	ResultRejected = "rejected"
	ResultError    = "error"
)

var (
	BookingAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_attempts_total",
		Help:      "Appointment creation attempts by result",
	}, []string{"result"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_transitions_total",
		Help:      "Appointment status transitions by target status and result",
	}, []string{"to", "result"})

	SlotCacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "slot_cache_lookups_total",
		Help:      "Availability cache lookups by outcome",
	}, []string{"outcome"})
)
