package repository

import (
	"context"
	"time"

	"github.com/prjrating/sellerrating/internal/domain"
)

// UserRepository defines the interface for user persistence operations.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields apperrors.ErrAlreadyExists.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by id.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a user by exact email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// List returns every user ordered by creation time.
	List(ctx context.Context) ([]domain.User, error)

	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)

	// ListByRoleAndApproved returns users of role with the given approval flag.
	ListByRoleAndApproved(ctx context.Context, role domain.Role, approved bool) ([]domain.User, error)

	// ListSellersPage returns one page of sellers ordered by creation time.
	ListSellersPage(ctx context.Context, limit, offset int) ([]domain.User, error)

	// ListSellersByGameTitle returns sellers owning at least one game object
	// whose title contains title, case-insensitively.
	ListSellersByGameTitle(ctx context.Context, title string) ([]domain.User, error)

	// Update overwrites the mutable fields of user.
	Update(ctx context.Context, user *domain.User) error

	// SetApproved flips the approval flag.
	SetApproved(ctx context.Context, id string, approved bool) error

	// Delete removes the user together with its comments, their ratings and
	// its game objects in one transaction.
	Delete(ctx context.Context, id string) error
}

// CommentRepository defines the interface for comment persistence operations.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error

	// CreateWithSeller inserts seller and then comment in one transaction.
	CreateWithSeller(ctx context.Context, seller *domain.User, comment *domain.Comment) error

	GetByID(ctx context.Context, id string) (*domain.Comment, error)

	// ListBySeller returns the seller's comments, newest first.
	ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error)

	// ListPending returns unapproved comments, oldest first.
	ListPending(ctx context.Context) ([]domain.Comment, error)

	// UpdateMessage replaces the comment text.
	UpdateMessage(ctx context.Context, id, message string) error

	Delete(ctx context.Context, id string) error

	// Review sets the approval flag and, when rating is non-nil, inserts it
	// in the same transaction. Declining deletes the comment's rating.
	Review(ctx context.Context, commentID string, approved bool, rating *domain.Rating) error
}

// RatingRepository defines the interface for rating persistence operations.
type RatingRepository interface {
	// Create inserts a rating. A second rating for the same comment yields
	// apperrors.ErrAlreadyExists.
	Create(ctx context.Context, rating *domain.Rating) error

	ExistsForComment(ctx context.Context, commentID string) (bool, error)

	// SellerAverage returns the mean rating over the seller's comments, 0 if none.
	SellerAverage(ctx context.Context, sellerID string) (float64, error)

	// SellerAverages is the batch form of SellerAverage. Sellers without
	// ratings map to 0.
	SellerAverages(ctx context.Context, sellerIDs []string) (map[string]float64, error)
}

// GameObjectRepository defines the interface for game object persistence operations.
type GameObjectRepository interface {
	Create(ctx context.Context, obj *domain.GameObject) error
	GetByID(ctx context.Context, id string) (*domain.GameObject, error)
	List(ctx context.Context) ([]domain.GameObject, error)
	ListByUser(ctx context.Context, userID string) ([]domain.GameObject, error)
	Update(ctx context.Context, obj *domain.GameObject) error
	Delete(ctx context.Context, id string) error
}

// CodeStore keeps short-lived codes such as email confirmation and password
// reset codes.
type CodeStore interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Get returns apperrors.ErrNotFound when key is absent or expired.
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
