package notification

import (
	"context"
	"log/slog"
)

// Sender delivers a rendered email over one channel.
type Sender interface {
	Name() string
	Send(ctx context.Context, email *Email) error
}

// LogSender writes emails to the log instead of delivering them. It is used
// when no mail relay is configured.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a log-only sender.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Name returns the name of this sender.
func (s *LogSender) Name() string {
	return "log"
}

// Send logs the email and always succeeds.
func (s *LogSender) Send(ctx context.Context, email *Email) error {
	s.logger.InfoContext(ctx, "log sender: email sent",
		slog.String("to", email.To),
		slog.String("subject", email.Subject),
		slog.String("body", email.Body),
	)
	return nil
}
