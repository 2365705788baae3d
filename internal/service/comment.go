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

// CommentService implements comment submission and moderation.
type CommentService struct {
	comments   repository.CommentRepository
	users      repository.UserRepository
	bcryptCost int
	logger     *slog.Logger
}

// NewCommentService creates a new comment service.
func NewCommentService(
	comments repository.CommentRepository,
	users repository.UserRepository,
	bcryptCost int,
	logger *slog.Logger,
) *CommentService {
	if bcryptCost == 0 {
		bcryptCost = DefaultBcryptCost
	}
	return &CommentService{
		comments:   comments,
		users:      users,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// SellerRequestInput describes a comment about a seller that has no account
// yet. SellerDescription is accepted but not stored.
type SellerRequestInput struct {
	Message           string
	SellerFirstName   string
	SellerLastName    string
	SellerEmail       string
	SellerDescription string
}

// Create leaves an unapproved comment on an existing seller.
func (s *CommentService) Create(ctx context.Context, sellerID, message string) (*domain.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}
	if _, err := getSeller(ctx, s.users, sellerID); err != nil {
		return nil, err
	}

	comment := newComment(sellerID, message)
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created",
		slog.String("comment_id", comment.ID),
		slog.String("seller_id", sellerID),
	)
	return comment, nil
}

// CreateWithSellerRequest registers a placeholder seller and its first
// comment in one transaction. The seller cannot log in until it resets its
// password and is approved.
func (s *CommentService) CreateWithSellerRequest(ctx context.Context, input SellerRequestInput) (*domain.Comment, error) {
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}
	if strings.TrimSpace(input.SellerEmail) == "" {
		return nil, apperrors.InvalidInput("seller email is required")
	}

	exists, err := s.users.ExistsByEmail(ctx, input.SellerEmail)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.AlreadyExists("User with this email already exists.")
	}

	placeholder, err := hashPassword(uuid.New().String(), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seller := &domain.User{
		ID:           uuid.New().String(),
		FirstName:    input.SellerFirstName,
		LastName:     input.SellerLastName,
		Email:        input.SellerEmail,
		PasswordHash: placeholder,
		Role:         domain.RoleSeller,
		Approved:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	comment := newComment(seller.ID, input.Message)

	if err := s.comments.CreateWithSeller(ctx, seller, comment); err != nil {
		return nil, fmt.Errorf("create comment with seller: %w", err)
	}

	s.logger.InfoContext(ctx, "comment created with new seller",
		slog.String("comment_id", comment.ID),
		slog.String("seller_id", seller.ID),
	)
	return comment, nil
}

// ListBySeller returns a seller's comments, newest first.
func (s *CommentService) ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	if _, err := getSeller(ctx, s.users, sellerID); err != nil {
		return nil, err
	}
	comments, err := s.comments.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}

// GetByID returns a comment.
func (s *CommentService) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

// Update replaces the comment text.
func (s *CommentService) Update(ctx context.Context, id, message string) (*domain.Comment, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	if err := s.comments.UpdateMessage(ctx, id, message); err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	comment.Message = message
	return comment, nil
}

// Delete removes a comment and its rating.
func (s *CommentService) Delete(ctx context.Context, id string) error {
	if err := s.comments.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	s.logger.InfoContext(ctx, "comment deleted", slog.String("comment_id", id))
	return nil
}

// Review approves or declines a comment. Approval requires a rating value,
// which is stored atomically with the approval. Declining drops any existing
// rating. The returned rating is nil when the comment was declined.
func (s *CommentService) Review(ctx context.Context, commentID string, approved bool, ratingValue *int) (*domain.Rating, error) {
	if approved {
		if ratingValue == nil {
			return nil, apperrors.InvalidInput("Rating value must be provided when approving a comment.")
		}
		if !domain.ValidRating(*ratingValue) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("Rating value must be between %d and %d", domain.MinRating, domain.MaxRating))
		}
	}

	if _, err := s.comments.GetByID(ctx, commentID); err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}

	var rating *domain.Rating
	if approved {
		rating = &domain.Rating{
			ID:          uuid.New().String(),
			CommentID:   commentID,
			RatingValue: *ratingValue,
		}
	}

	if err := s.comments.Review(ctx, commentID, approved, rating); err != nil {
		return nil, fmt.Errorf("review comment: %w", err)
	}

	s.logger.InfoContext(ctx, "comment reviewed",
		slog.String("comment_id", commentID),
		slog.Bool("approved", approved),
	)
	return rating, nil
}

// ListPending returns comments awaiting moderation, oldest first.
func (s *CommentService) ListPending(ctx context.Context) ([]domain.Comment, error) {
	comments, err := s.comments.ListPending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pending comments: %w", err)
	}
	return comments, nil
}

// getSeller loads a user and requires it to be a seller.
func getSeller(ctx context.Context, users repository.UserRepository, id string) (*domain.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("Seller", id)
		}
		return nil, fmt.Errorf("get seller: %w", err)
	}
	if !user.IsSeller() {
		return nil, apperrors.NotFound("Seller", id)
	}
	return user, nil
}

func newComment(sellerID, message string) *domain.Comment {
	return &domain.Comment{
		ID:        uuid.New().String(),
		SellerID:  sellerID,
		Message:   message,
		Approved:  false,
		CreatedAt: time.Now().UTC(),
	}
}
