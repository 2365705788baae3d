package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/internal/repository"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// RatingService computes seller ratings and records direct ratings.
type RatingService struct {
	ratings  repository.RatingRepository
	comments repository.CommentRepository
	logger   *slog.Logger
}

// NewRatingService creates a new rating service.
func NewRatingService(ratings repository.RatingRepository, comments repository.CommentRepository, logger *slog.Logger) *RatingService {
	return &RatingService{ratings: ratings, comments: comments, logger: logger}
}

// CalculateSellerRating returns the mean of the seller's ratings, 0 when
// there are none.
func (s *RatingService) CalculateSellerRating(ctx context.Context, sellerID string) (float64, error) {
	avg, err := s.ratings.SellerAverage(ctx, sellerID)
	if err != nil {
		return 0, fmt.Errorf("calculate seller rating: %w", err)
	}
	return avg, nil
}

// Create rates an approved comment that has no rating yet.
func (s *RatingService) Create(ctx context.Context, commentID string, value int) (*domain.Rating, error) {
	if !domain.ValidRating(value) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("Rating value must be between %d and %d", domain.MinRating, domain.MaxRating))
	}

	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if !comment.Approved {
		return nil, apperrors.InvalidInput("Comment must be approved before it can be rated")
	}

	exists, err := s.ratings.ExistsForComment(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("check rating: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("Rating already exists for comment")
	}

	rating := &domain.Rating{
		ID:          uuid.New().String(),
		CommentID:   commentID,
		RatingValue: value,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, fmt.Errorf("create rating: %w", err)
	}

	s.logger.InfoContext(ctx, "rating created",
		slog.String("rating_id", rating.ID),
		slog.String("comment_id", commentID),
		slog.Int("value", value),
	)
	return rating, nil
}
