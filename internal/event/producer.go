// Package event carries notification requests over Kafka.
package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prjrating/sellerrating/internal/notification"
	pkgkafka "github.com/prjrating/sellerrating/pkg/kafka"
	"github.com/prjrating/sellerrating/pkg/logger"
)

// TopicNotificationRequested carries notification.Message payloads.
var TopicNotificationRequested = pkgkafka.Topic("notification", "requested")

// EventTypeNotificationRequested is the event type published on
// TopicNotificationRequested.
const EventTypeNotificationRequested = "notification.requested"

// AggregateTypeNotification is the aggregate type of notification events.
const AggregateTypeNotification = "notification"

// SourceSellerRating identifies events originating from this service.
const SourceSellerRating = "seller-rating"

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// NotificationProducer hands notifications to Kafka instead of sending them
// inline. It satisfies the same Notifier contract as notification.Dispatcher.
type NotificationProducer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewNotificationProducer creates a producer that publishes through p.
func NewNotificationProducer(p *pkgkafka.Producer, logger *slog.Logger) *NotificationProducer {
	return newNotificationProducer(p, logger)
}

func newNotificationProducer(p publisher, logger *slog.Logger) *NotificationProducer {
	return &NotificationProducer{kafka: p, logger: logger}
}

// Notify publishes msg as a notification.requested event keyed by recipient.
func (p *NotificationProducer) Notify(ctx context.Context, msg notification.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	evt, err := pkgkafka.NewEvent(EventTypeNotificationRequested, msg.Recipient, AggregateTypeNotification, SourceSellerRating, msg)
	if err != nil {
		return err
	}
	if id := logger.CorrelationIDFromContext(ctx); id != "" {
		evt.WithCorrelationID(id)
	}
	evt.WithMetadata("kind", string(msg.Kind))

	if err := p.kafka.Publish(ctx, TopicNotificationRequested, evt); err != nil {
		return fmt.Errorf("publish %s: %w", EventTypeNotificationRequested, err)
	}

	p.logger.DebugContext(ctx, "notification requested",
		slog.String("event_id", evt.EventID),
		slog.String("kind", string(msg.Kind)),
	)
	return nil
}
