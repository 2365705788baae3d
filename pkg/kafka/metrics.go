package kafka

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "sellerrating"

// Consumer outcomes recorded in consumerMessages.
const (
	outcomeReceived     = "received"
	outcomeProcessed    = "processed"
	outcomeFailed       = "failed"
	outcomeDuplicate    = "duplicate"
	outcomeDeadLettered = "dead_lettered"
)

// Producer results recorded in producerMessages.
const (
	resultOK    = "ok"
	resultError = "error"
)

var (
	consumerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "kafka_consumer",
			Name:      "messages_total",
			Help:      "Notification events seen by the consumer, by outcome (received, processed, failed, duplicate, dead_lettered)",
		},
		[]string{"topic", "consumer_group", "outcome"},
	)

	consumerHandleDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "kafka_consumer",
			Name:      "handle_duration_seconds",
			Help:      "Time spent delivering one notification event, retries included",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"topic", "consumer_group"},
	)

	producerMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "kafka_producer",
			Name:      "messages_total",
			Help:      "Notification events handed to the broker, by result (ok, error)",
		},
		[]string{"topic", "result"},
	)

	producerPublishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "kafka_producer",
			Name:      "publish_duration_seconds",
			Help:      "Time spent writing one notification event to the broker",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"topic"},
	)
)

func countConsumed(topic, group, outcome string) {
	consumerMessages.WithLabelValues(topic, group, outcome).Inc()
}

func observeHandle(topic, group string, start time.Time) {
	consumerHandleDuration.WithLabelValues(topic, group).Observe(time.Since(start).Seconds())
}

func countPublished(topic string, err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	producerMessages.WithLabelValues(topic, result).Inc()
}
