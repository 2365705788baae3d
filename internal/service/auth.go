package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prjrating/sellerrating/internal/auth"
	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/notification"
	"github.com/prjrating/sellerrating/internal/repository"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// Confirmation and reset codes live in separate key spaces of the code store.
const (
	confirmationKeyPrefix = "confirm:"
	resetKeyPrefix        = "password_reset:"
)

// resetCodeLength is the length of password reset codes.
const resetCodeLength = 8

// AuthConfig tunes AuthService.
type AuthConfig struct {
	BcryptCost      int
	ConfirmationTTL time.Duration
	ResetTTL        time.Duration
}

// AuthService implements registration, login and password recovery.
type AuthService struct {
	users    repository.UserRepository
	codes    repository.CodeStore
	jwt      *auth.JWTManager
	notifier Notifier
	cfg      AuthConfig
	logger   *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	codes repository.CodeStore,
	jwt *auth.JWTManager,
	notifier Notifier,
	cfg AuthConfig,
	logger *slog.Logger,
) *AuthService {
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = DefaultBcryptCost
	}
	return &AuthService{
		users:    users,
		codes:    codes,
		jwt:      jwt,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
	}
}

// RegisterInput holds the parameters for registering a seller.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// LoginInput holds the parameters for login.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is a successful login.
type LoginResult struct {
	AccessToken string
	ExpiresIn   time.Duration
	User        *domain.User
}

// Register creates an unapproved seller and emails a confirmation link.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.FirstName) == "" {
		return nil, apperrors.InvalidInput("first name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return nil, apperrors.InvalidInput("last name is required")
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("Email already exists")
	}

	hash, err := hashPassword(input.Password, s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         domain.RoleSeller,
		Approved:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	code := uuid.New().String()
	if err := s.codes.Set(ctx, confirmationKeyPrefix+code, user.Email, s.cfg.ConfirmationTTL); err != nil {
		return nil, fmt.Errorf("store confirmation code: %w", err)
	}

	notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:      notification.KindRegistrationConfirmation,
		Recipient: user.Email,
		Code:      code,
	})

	s.logger.InfoContext(ctx, "seller registered",
		slog.String("user_id", user.ID),
		slog.String("email", user.Email),
	)

	return user, nil
}

// Confirm approves the account a confirmation code was issued for. A code
// can be used once.
func (s *AuthService) Confirm(ctx context.Context, code string) error {
	if code == "" {
		return apperrors.NotFoundf("User not found")
	}

	email, err := s.codes.Get(ctx, confirmationKeyPrefix+code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFoundf("User not found")
		}
		return fmt.Errorf("get confirmation code: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFoundf("User not found")
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	if err := s.users.SetApproved(ctx, user.ID, true); err != nil {
		return fmt.Errorf("approve user: %w", err)
	}
	if err := s.codes.Delete(ctx, confirmationKeyPrefix+code); err != nil {
		return fmt.Errorf("delete confirmation code: %w", err)
	}

	notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:      notification.KindSellerApproved,
		Recipient: user.Email,
	})

	s.logger.InfoContext(ctx, "seller confirmed", slog.String("user_id", user.ID))
	return nil
}

// Login checks credentials and issues an access token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	if input.Email == "" || input.Password == "" {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid credentials")
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	if !checkPassword(user.PasswordHash, input.Password) {
		return nil, apperrors.Unauthorized("Invalid credentials")
	}
	if !user.Approved {
		return nil, apperrors.Forbidden("Your account is not approved")
	}

	token, err := s.jwt.GenerateAccessToken(user.ID, user.Email, user.Role.String())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.logger.InfoContext(ctx, "user logged in",
		slog.String("user_id", user.ID),
		slog.String("role", user.Role.String()),
	)

	return &LoginResult{AccessToken: token, ExpiresIn: s.jwt.Expiry(), User: user}, nil
}

// ChangePassword replaces the password after checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("get user: %w", err)
	}

	if !checkPassword(user.PasswordHash, oldPassword) {
		return apperrors.InvalidInput("Incorrect old password")
	}
	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "password changed", slog.String("user_id", user.ID))
	return nil
}

// ForgotPassword emails a short-lived reset code. Unknown emails succeed
// silently so the endpoint does not reveal which addresses are registered.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.logger.InfoContext(ctx, "password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("get user by email: %w", err)
	}

	code := uuid.New().String()[:resetCodeLength]
	if err := s.codes.Set(ctx, resetKeyPrefix+code, user.Email, s.cfg.ResetTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	notify(ctx, s.notifier, s.logger, notification.Message{
		Kind:      notification.KindPasswordReset,
		Recipient: user.Email,
		Code:      code,
	})

	s.logger.InfoContext(ctx, "password reset requested", slog.String("user_id", user.ID))
	return nil
}

// CheckResetCode reports whether code is a live reset code.
func (s *AuthService) CheckResetCode(ctx context.Context, code string) (bool, error) {
	if code == "" {
		return false, nil
	}
	ok, err := s.codes.Exists(ctx, resetKeyPrefix+code)
	if err != nil {
		return false, fmt.Errorf("check reset code: %w", err)
	}
	return ok, nil
}

// ResetPassword sets a new password using a reset code. It returns false
// when the code is unknown or expired.
func (s *AuthService) ResetPassword(ctx context.Context, code, newPassword string) (bool, error) {
	if code == "" || newPassword == "" {
		return false, apperrors.InvalidInput("Code and new password are required")
	}

	email, err := s.codes.Get(ctx, resetKeyPrefix+code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get reset code: %w", err)
	}

	if err := validatePassword(newPassword); err != nil {
		return false, err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("get user by email: %w", err)
	}

	hash, err := hashPassword(newPassword, s.cfg.BcryptCost)
	if err != nil {
		return false, err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return false, fmt.Errorf("update user: %w", err)
	}

	if err := s.codes.Delete(ctx, resetKeyPrefix+code); err != nil {
		s.logger.ErrorContext(ctx, "failed to delete reset code",
			slog.String("user_id", user.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "password reset", slog.String("user_id", user.ID))
	return true, nil
}
