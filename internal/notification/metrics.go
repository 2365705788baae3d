package notification

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EmailsSent counts emails handed to a sender successfully.
	EmailsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_sent_total",
			Help: "Total number of notification emails sent",
		},
		[]string{"kind", "sender"},
	)

	// EmailsFailed counts emails that could not be rendered or sent.
	EmailsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_emails_failed_total",
			Help: "Total number of notification emails that failed to render or send",
		},
		[]string{"kind", "sender"},
	)

	mailBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "notification_circuit_breaker_state",
			Help: "Current state of the mail relay circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)
