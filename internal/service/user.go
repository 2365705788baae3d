package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/repository"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// UserService implements user queries and profile maintenance.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
	logger     *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, bcryptCost int, logger *slog.Logger) *UserService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &UserService{users: users, bcryptCost: bcryptCost, logger: logger}
}

// UpdateUserInput holds the fields to change. Nil fields are left as is.
type UpdateUserInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Password  *string
	Role      *domain.Role
	Approved  *bool
}

// GetByID returns a user.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// ListByRole returns the users holding role.
func (s *UserService) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	users, err := s.users.ListByRole(ctx, role)
	if err != nil {
		return nil, fmt.Errorf("list users by role: %w", err)
	}
	return users, nil
}

// ExistsByEmail reports whether email is registered.
func (s *UserService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return exists, nil
}

// Update applies a partial update. Role and approval may only be changed by
// an admin.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput, asAdmin bool) (*domain.User, error) {
	if !asAdmin && (input.Role != nil || input.Approved != nil) {
		return nil, apperrors.Forbidden("Only admins can change role or approval")
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Email != nil && *input.Email != user.Email {
		exists, err := s.users.ExistsByEmail(ctx, *input.Email)
		if err != nil {
			return nil, fmt.Errorf("check email: %w", err)
		}
		if exists {
			return nil, apperrors.AlreadyExists("Email is already registered")
		}
		user.Email = *input.Email
	}
	if input.Password != nil {
		if err := validatePassword(*input.Password); err != nil {
			return nil, err
		}
		hash, err := hashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Approved != nil {
		user.Approved = *input.Approved
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", user.ID))
	return user, nil
}

// Delete removes a user together with everything it owns.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id))
	return nil
}
