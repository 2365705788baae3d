package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/repository"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// GameObjectService implements game object listings.
type GameObjectService struct {
	objects repository.GameObjectRepository
	users   repository.UserRepository
	logger  *slog.Logger
}

// NewGameObjectService creates a new game object service.
func NewGameObjectService(objects repository.GameObjectRepository, users repository.UserRepository, logger *slog.Logger) *GameObjectService {
	return &GameObjectService{objects: objects, users: users, logger: logger}
}

// CreateGameObjectInput holds the parameters for a new game object.
type CreateGameObjectInput struct {
	UserID string
	Title  string
	Text   string
}

// UpdateGameObjectInput holds the fields to change. Nil fields are left as is.
type UpdateGameObjectInput struct {
	Title *string
	Text  *string
}

// Create adds a game object owned by input.UserID.
func (s *GameObjectService) Create(ctx context.Context, input CreateGameObjectInput) (*domain.GameObject, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, apperrors.InvalidInput("title is required")
	}
	if err := s.requireUser(ctx, input.UserID); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	obj := &domain.GameObject{
		ID:        uuid.New().String(),
		UserID:    input.UserID,
		Title:     input.Title,
		Text:      input.Text,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.objects.Create(ctx, obj); err != nil {
		return nil, fmt.Errorf("create game object: %w", err)
	}

	s.logger.InfoContext(ctx, "game object created",
		slog.String("game_object_id", obj.ID),
		slog.String("user_id", obj.UserID),
	)
	return obj, nil
}

// GetByID returns a game object.
func (s *GameObjectService) GetByID(ctx context.Context, id string) (*domain.GameObject, error) {
	obj, err := s.objects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get game object: %w", err)
	}
	return obj, nil
}

// List returns every game object.
func (s *GameObjectService) List(ctx context.Context) ([]domain.GameObject, error) {
	objs, err := s.objects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list game objects: %w", err)
	}
	return objs, nil
}

// ListByUser returns the objects owned by userID.
func (s *GameObjectService) ListByUser(ctx context.Context, userID string) ([]domain.GameObject, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	objs, err := s.objects.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list game objects by user: %w", err)
	}
	return objs, nil
}

// Update applies a partial update.
func (s *GameObjectService) Update(ctx context.Context, id string, input UpdateGameObjectInput) (*domain.GameObject, error) {
	obj, err := s.objects.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get game object: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.InvalidInput("title must not be empty")
		}
		obj.Title = *input.Title
	}
	if input.Text != nil {
		obj.Text = *input.Text
	}

	if err := s.objects.Update(ctx, obj); err != nil {
		return nil, fmt.Errorf("update game object: %w", err)
	}
	return obj, nil
}

// Delete removes a game object.
func (s *GameObjectService) Delete(ctx context.Context, id string) error {
	if err := s.objects.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game object: %w", err)
	}
	s.logger.InfoContext(ctx, "game object deleted", slog.String("game_object_id", id))
	return nil
}

func (s *GameObjectService) requireUser(ctx context.Context, userID string) error {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("User", userID)
		}
		return fmt.Errorf("get user: %w", err)
	}
	return nil
}
