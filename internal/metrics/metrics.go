package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "jamservices"

// Payment outcomes.
const (
	OutcomeSuccess    = "success"
	OutcomeDeclined   = "declined"
	OutcomeInvalid    = "invalid"
	OutcomeLimited    = "rate_limited"
	OutcomeInProgress = "in_progress"
	OutcomeError      = "error"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	stepTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wizard_step_entered_total",
			Help:      "Wizard step entries by step number.",
		},
		[]string{"step"},
	)

	sessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Booking sessions started.",
		},
	)

	payments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_total",
			Help:      "Payment attempts by outcome.",
		},
		[]string{"outcome"},
	)

	bookingsConfirmed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_confirmed_total",
			Help:      "Confirmed bookings by service.",
		},
		[]string{"service"},
	)

	revenue = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_amount_total",
			Help:      "Sum of amounts paid for confirmed bookings.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, stepTransitions, sessionsStarted, payments, bookingsConfirmed, revenue)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncStep(step int) {
	stepTransitions.WithLabelValues(strconv.Itoa(step)).Inc()
}

func IncSessionStarted() {
	sessionsStarted.Inc()
}

func IncPayment(outcome string) {
	payments.WithLabelValues(outcome).Inc()
}

// ObserveBooking counts a confirmed booking and its amount.
func ObserveBooking(service string, amount int64) {
	bookingsConfirmed.WithLabelValues(service).Inc()
	revenue.Add(float64(amount))
}
