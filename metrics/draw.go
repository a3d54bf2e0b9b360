package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels for winner selections
const (
	ResultSuccess        = "success"
	ResultInvalidID      = "invalid_id"
	ResultNotFound       = "not_found"
	ResultTooEarly       = "too_early"
	ResultAlreadyDecided = "already_decided"
	ResultNoTickets      = "no_tickets_sold"
	ResultTransient      = "transient_failure"
	ResultError          = "error"
)

var (
	winnerSelectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Name:      "winner_selections_total",
			Help:      "Winner selection attempts by result",
		},
		[]string{"result"},
	)

	winnerSelectionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luckydraw",
			Name:      "winner_selection_duration_ms",
			Help:      "Winner selection duration in milliseconds, including lock wait",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"result"},
	)

	ticketPoolSize = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "luckydraw",
			Name:      "ticket_pool_size",
			Help:      "Number of eligible tickets resolved for a winner selection",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		},
	)

	duplicateTicketsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "luckydraw",
			Name:      "duplicate_tickets_total",
			Help:      "Ticket numbers claimed by more than one succeeded order",
		},
	)
)

// RecordWinnerSelection records the outcome and duration of one SelectWinner call
func RecordWinnerSelection(result string, started time.Time) {
	winnerSelectionsTotal.WithLabelValues(result).Inc()
	winnerSelectionDuration.WithLabelValues(result).Observe(float64(time.Since(started).Milliseconds()))
}

// RecordPoolSize records the size of a resolved ticket pool
func RecordPoolSize(size int) {
	ticketPoolSize.Observe(float64(size))
}

// RecordDuplicateTicket counts one collapsed duplicate ticket number
func RecordDuplicateTicket() {
	duplicateTicketsTotal.Inc()
}
