package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// maxHandlerRetries is the number of handler attempts before a message is
// dead-lettered and committed.
const maxHandlerRetries = 3

// Handler is a function that processes a Kafka event.
type Handler func(ctx context.Context, event *Event) error

// DeadLetterer receives messages whose handler kept failing.
type DeadLetterer interface {
	Publish(ctx context.Context, msg kafka.Message, lastErr error, consumerGroup string) error
}

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads one topic as part of a consumer group and commits each
// message after it has been handled, dead-lettered, or found unparseable.
type Consumer struct {
	reader    messageReader
	topic     string
	group     string
	handler   Handler
	dlq       DeadLetterer
	backoff   time.Duration
	logger    *slog.Logger
	closeOnce sync.Once
}

// ConsumerOption customises a Consumer.
type ConsumerOption func(*Consumer)

// WithDeadLetterer routes messages that exhaust their retries to d.
func WithDeadLetterer(d DeadLetterer) ConsumerOption {
	return func(c *Consumer) { c.dlq = d }
}

// WithRetryBackoff sets the base delay between handler attempts.
func WithRetryBackoff(d time.Duration) ConsumerOption {
	return func(c *Consumer) { c.backoff = d }
}

// NewConsumer creates a new Kafka consumer for a specific topic and group.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	if cfg.MinBytes == 0 {
		cfg.MinBytes = 1
	}
	if cfg.MaxBytes == 0 {
		cfg.MaxBytes = 10e6
	}
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, cfg.Topic, cfg.GroupID, handler, logger, opts...)
}

func newConsumer(r messageReader, topic, group string, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:  r,
		topic:   topic,
		group:   group,
		handler: handler,
		backoff: 100 * time.Millisecond,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start consumes messages until ctx is canceled or the reader is closed.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consumer started",
		slog.String("topic", c.topic),
		slog.String("group", c.group),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return nil
			}
			c.logger.ErrorContext(ctx, "failed to fetch message", slog.String("error", err.Error()))
			continue
		}

		if err := c.process(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			c.logger.ErrorContext(ctx, "failed to commit message",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

// process handles one message end to end and commits it. Only the commit
// error is returned; handler failures are retried and then dead-lettered.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	countConsumed(c.topic, c.group, outcomeReceived)

	ctx = ExtractTraceContext(ctx, msg)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "consume "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", c.topic),
			attribute.String("messaging.kafka.consumer.group", c.group),
			attribute.Int64("messaging.kafka.message.offset", msg.Offset),
		),
	)
	defer span.End()
	ctx = withDelivery(ctx, c.topic, c.group)

	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		c.logger.ErrorContext(ctx, "dropping unparseable message",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		span.SetStatus(codes.Error, err.Error())
		c.deadLetter(ctx, msg, err)
		return c.reader.CommitMessages(ctx, msg)
	}

	start := time.Now()
	lastErr := c.handleWithRetry(ctx, msg, event)
	observeHandle(c.topic, c.group, start)

	if lastErr != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		countConsumed(c.topic, c.group, outcomeFailed)
		span.RecordError(lastErr)
		span.SetStatus(codes.Error, lastErr.Error())
		c.logger.ErrorContext(ctx, "handler failed after all retries",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
			slog.Int64("offset", msg.Offset),
			slog.String("error", lastErr.Error()),
		)
		c.deadLetter(ctx, msg, lastErr)
	} else {
		countConsumed(c.topic, c.group, outcomeProcessed)
	}

	return c.reader.CommitMessages(ctx, msg)
}

func (c *Consumer) handleWithRetry(ctx context.Context, msg kafka.Message, event *Event) error {
	var lastErr error
	for attempt := 1; attempt <= maxHandlerRetries; attempt++ {
		if lastErr = c.handler(ctx, event); lastErr == nil {
			return nil
		}
		c.logger.WarnContext(ctx, "handler failed, will retry",
			slog.String("event_type", event.EventType),
			slog.String("event_id", event.EventID),
			slog.Int64("offset", msg.Offset),
			slog.Int("attempt", attempt),
			slog.String("error", lastErr.Error()),
		)
		if attempt == maxHandlerRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}
	return lastErr
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlq == nil {
		return
	}
	// The DLQ producer logs its own failures.
	_ = c.dlq.Publish(ctx, msg, cause, c.group)
}

// Close closes the consumer. It is safe to call multiple times.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}

// TopicPrefix is the prefix for all topics owned by this service.
const TopicPrefix = "ratingsystem"

// Topic constructs a fully-qualified topic name.
func Topic(domain, action string) string {
	return fmt.Sprintf("%s.%s.%s", TopicPrefix, domain, action)
}

type deliveryKey struct{}

type delivery struct {
	topic string
	group string
}

func withDelivery(ctx context.Context, topic, group string) context.Context {
	return context.WithValue(ctx, deliveryKey{}, delivery{topic: topic, group: group})
}

func deliveryFromContext(ctx context.Context) delivery {
	d, _ := ctx.Value(deliveryKey{}).(delivery)
	return d
}
