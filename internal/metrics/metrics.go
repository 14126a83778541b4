package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BookingTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_transitions_total",
		Help: "Successful booking status transitions.",
	}, []string{"from", "to"})

	Payments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "booking_payments_total",
		Help: "Recorded booking payments by method.",
	}, []string{"method"})

	DepositsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_deposits_approved_total",
		Help: "Deposits credited to account balances.",
	})

	TransitionRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "booking_transition_rejections_total",
		Help: "Transition attempts rejected by the lifecycle table.",
	})
)
