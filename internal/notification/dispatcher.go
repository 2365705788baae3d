package notification

import (
	"context"
	"fmt"
	"log/slog"
)

// Dispatcher renders messages and hands them to a Sender.
type Dispatcher struct {
	renderer *Renderer
	sender   Sender
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(renderer *Renderer, sender Sender, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		renderer: renderer,
		sender:   sender,
		logger:   logger,
	}
}

// Notify renders and sends msg synchronously. Failures are logged and
// counted before being returned.
func (d *Dispatcher) Notify(ctx context.Context, msg Message) error {
	kind := string(msg.Kind)

	email, err := d.renderer.Render(msg)
	if err != nil {
		EmailsFailed.WithLabelValues(kind, d.sender.Name()).Inc()
		d.logger.ErrorContext(ctx, "failed to render notification",
			slog.String("kind", kind),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("render notification: %w", err)
	}

	if err := d.sender.Send(ctx, email); err != nil {
		EmailsFailed.WithLabelValues(kind, d.sender.Name()).Inc()
		d.logger.ErrorContext(ctx, "sender failed to send notification",
			slog.String("kind", kind),
			slog.String("sender", d.sender.Name()),
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("send notification: %w", err)
	}

	EmailsSent.WithLabelValues(kind, d.sender.Name()).Inc()
	d.logger.InfoContext(ctx, "notification sent",
		slog.String("kind", kind),
		slog.String("sender", d.sender.Name()),
		slog.String("recipient", msg.Recipient),
	)
	return nil
}
