package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prjrating/sellerrating/internal/notification"
	pkgkafka "github.com/prjrating/sellerrating/pkg/kafka"
	"github.com/prjrating/sellerrating/pkg/logger"
)

// Notifier delivers a notification.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}

// ConsumerConfig selects the brokers and group of the notification consumer.
type ConsumerConfig struct {
	Brokers []string
	GroupID string
}

// NotificationConsumer reads notification.requested events and delivers
// them through a Notifier. Redelivered events are skipped via the
// idempotency store, and events that keep failing go to the DLQ.
type NotificationConsumer struct {
	consumer *pkgkafka.Consumer
}

// NewNotificationConsumer wires a consumer for TopicNotificationRequested.
func NewNotificationConsumer(
	cfg ConsumerConfig,
	notifier Notifier,
	store pkgkafka.IdempotencyStore,
	dlq pkgkafka.DeadLetterer,
	logger *slog.Logger,
) *NotificationConsumer {
	handler := newNotificationHandler(notifier, store, logger)
	c := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
		Brokers: cfg.Brokers,
		GroupID: cfg.GroupID,
		Topic:   TopicNotificationRequested,
	}, handler, logger, pkgkafka.WithDeadLetterer(dlq))
	return &NotificationConsumer{consumer: c}
}

// Start blocks consuming until ctx is canceled.
func (c *NotificationConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

// Close stops the underlying reader.
func (c *NotificationConsumer) Close() error {
	return c.consumer.Close()
}

func newNotificationHandler(notifier Notifier, store pkgkafka.IdempotencyStore, log *slog.Logger) pkgkafka.Handler {
	handle := func(ctx context.Context, evt *pkgkafka.Event) error {
		if evt.EventType != EventTypeNotificationRequested {
			log.WarnContext(ctx, "unknown event type received",
				slog.String("event_type", evt.EventType),
				slog.String("event_id", evt.EventID),
			)
			return nil
		}
		if evt.CorrelationID != "" {
			ctx = logger.WithCorrelationID(ctx, evt.CorrelationID)
		}

		var msg notification.Message
		if err := evt.UnmarshalData(&msg); err != nil {
			return err
		}
		if err := notifier.Notify(ctx, msg); err != nil {
			return fmt.Errorf("deliver notification %s: %w", evt.EventID, err)
		}
		return nil
	}
	return pkgkafka.IdempotentHandler(store, handle, log)
}
