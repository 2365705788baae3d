// Package service holds the business logic of the rating system.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/prjrating/sellerrating/internal/notification"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// DefaultBcryptCost is the cost factor for bcrypt password hashing.
const DefaultBcryptCost = 12

// minPasswordLength is the minimum password length required.
const minPasswordLength = 8

// Notifier delivers account notifications. notification.Dispatcher sends
// them inline and event.NotificationProducer queues them on Kafka.
type Notifier interface {
	Notify(ctx context.Context, msg notification.Message) error
}

// notify sends msg and logs a failure instead of returning it.
func notify(ctx context.Context, n Notifier, logger *slog.Logger, msg notification.Message) {
	if err := n.Notify(ctx, msg); err != nil {
		logger.ErrorContext(ctx, "failed to send notification",
			slog.String("kind", string(msg.Kind)),
			slog.String("recipient", msg.Recipient),
			slog.String("error", err.Error()),
		)
	}
}

func hashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return apperrors.InvalidInput(fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	var hasUpper, hasLower, hasDigit bool
	for _, ch := range password {
		switch {
		case unicode.IsUpper(ch):
			hasUpper = true
		case unicode.IsLower(ch):
			hasLower = true
		case unicode.IsDigit(ch):
			hasDigit = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit {
		return apperrors.InvalidInput("password must contain at least one uppercase letter, one lowercase letter, and one digit")
	}

	return nil
}
