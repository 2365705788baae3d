package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
)

// SMTPConfig holds the mail relay settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Addr returns host:port.
func (c SMTPConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BreakerConfig tunes the circuit breaker in front of the relay.
type BreakerConfig struct {
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MinRequests is the number of sends before the failure ratio counts.
	MinRequests  uint32
	FailureRatio float64
	Interval     time.Duration
}

// DefaultBreakerConfig returns the breaker settings used in production.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
		Interval:     60 * time.Second,
	}
}

// ErrCircuitOpen is returned while the relay is considered down.
var ErrCircuitOpen = gobreaker.ErrOpenState

type sendMailFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPSender delivers email through an SMTP relay with PLAIN auth. Sends go
// through a circuit breaker so a dead relay fails fast.
type SMTPSender struct {
	cfg      SMTPConfig
	auth     smtp.Auth
	breaker  *gobreaker.CircuitBreaker[struct{}]
	sendMail sendMailFunc
	logger   *slog.Logger
}

// NewSMTPSender creates a sender for the relay described by cfg.
func NewSMTPSender(cfg SMTPConfig, bcfg BreakerConfig, logger *slog.Logger) *SMTPSender {
	return newSMTPSender(cfg, bcfg, smtp.SendMail, logger)
}

func newSMTPSender(cfg SMTPConfig, bcfg BreakerConfig, send sendMailFunc, logger *slog.Logger) *SMTPSender {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	name := "smtp-" + cfg.Host
	settings := gobreaker.Settings{
		Name:     name,
		Interval: bcfg.Interval,
		Timeout:  bcfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bcfg.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bcfg.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
			mailBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}
	mailBreakerState.WithLabelValues(name).Set(0)

	return &SMTPSender{
		cfg:      cfg,
		auth:     auth,
		breaker:  gobreaker.NewCircuitBreaker[struct{}](settings),
		sendMail: send,
		logger:   logger,
	}
}

// Name returns the name of this sender.
func (s *SMTPSender) Name() string {
	return "smtp"
}

// Send delivers email. It returns ErrCircuitOpen without dialing while the
// breaker is open.
func (s *SMTPSender) Send(ctx context.Context, email *Email) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(s.cfg.From, email)
	_, err := s.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, s.sendMail(s.cfg.Addr(), s.auth, s.cfg.From, []string{email.To}, msg)
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			return fmt.Errorf("smtp send: %w", err)
		}
		return fmt.Errorf("smtp send to %s: %w", s.cfg.Addr(), err)
	}
	return nil
}

// State returns the current breaker state.
func (s *SMTPSender) State() gobreaker.State {
	return s.breaker.State()
}

var headerEscaper = strings.NewReplacer("\r", "", "\n", "")

func buildMessage(from string, email *Email) []byte {
	var b strings.Builder
	b.WriteString("From: " + headerEscaper.Replace(from) + "\r\n")
	b.WriteString("To: " + headerEscaper.Replace(email.To) + "\r\n")
	b.WriteString("Subject: " + headerEscaper.Replace(email.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(email.Body, "\n", "\r\n"))
	return []byte(b.String())
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
