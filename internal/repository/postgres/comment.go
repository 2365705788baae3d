package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/pkg/database"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

const commentColumns = `id, seller_id, message, approved, created_at`

// CommentRepository implements repository.CommentRepository using PostgreSQL.
type CommentRepository struct {
	db database.DBTX
}

// NewCommentRepository creates a new PostgreSQL-backed comment repository.
func NewCommentRepository(db database.DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

// Create inserts a new comment.
func (r *CommentRepository) Create(ctx context.Context, c *domain.Comment) error {
	return insertComment(ctx, r.db, c)
}

// CreateWithSeller registers an anonymous seller and its first comment
// atomically.
func (r *CommentRepository) CreateWithSeller(ctx context.Context, seller *domain.User, c *domain.Comment) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertUser(ctx, tx, seller); err != nil {
			return err
		}
		return insertComment(ctx, tx, c)
	})
}

func insertComment(ctx context.Context, db execer, c *domain.Comment) error {
	query := `
		INSERT INTO comments (id, seller_id, message, approved, created_at)
		VALUES ($1, $2, $3, $4, $5)`

	if _, err := db.Exec(ctx, query, c.ID, c.SellerID, c.Message, c.Approved, c.CreatedAt); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

// GetByID retrieves a comment by its ID.
func (r *CommentRepository) GetByID(ctx context.Context, id string) (*domain.Comment, error) {
	query := `SELECT ` + commentColumns + ` FROM comments WHERE id = $1`

	c, err := scanComment(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Comment", id)
		}
		return nil, fmt.Errorf("get comment by id: %w", err)
	}
	return &c, nil
}

// ListBySeller returns every comment about the seller, newest first.
func (r *CommentRepository) ListBySeller(ctx context.Context, sellerID string) ([]domain.Comment, error) {
	return r.query(ctx, "list comments by seller",
		`SELECT `+commentColumns+` FROM comments WHERE seller_id = $1 ORDER BY created_at DESC, id`, sellerID)
}

// ListPending returns comments awaiting moderation, oldest first.
func (r *CommentRepository) ListPending(ctx context.Context) ([]domain.Comment, error) {
	return r.query(ctx, "list pending comments",
		`SELECT `+commentColumns+` FROM comments WHERE approved = FALSE ORDER BY created_at, id`)
}

// UpdateMessage replaces the text of a comment.
func (r *CommentRepository) UpdateMessage(ctx context.Context, id, message string) error {
	ct, err := r.db.Exec(ctx, `UPDATE comments SET message = $1 WHERE id = $2`, message, id)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Comment", id)
	}
	return nil
}

// Delete removes a comment. Its rating goes with it through ON DELETE CASCADE.
func (r *CommentRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Comment", id)
	}
	return nil
}

// Review records the moderation outcome for a comment. When rating is not
// nil it is stored in the same transaction, so an approval never persists
// without its rating. Declining removes any rating the comment carried, so
// only approved comments count towards a seller's average.
func (r *CommentRepository) Review(ctx context.Context, commentID string, approved bool, rating *domain.Rating) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `UPDATE comments SET approved = $1 WHERE id = $2`, approved, commentID)
		if err != nil {
			return fmt.Errorf("review comment: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("Comment", commentID)
		}
		if !approved {
			if _, err := tx.Exec(ctx, `DELETE FROM ratings WHERE comment_id = $1`, commentID); err != nil {
				return fmt.Errorf("delete declined comment rating: %w", err)
			}
			return nil
		}
		if rating == nil {
			return nil
		}
		return insertRating(ctx, tx, rating)
	})
}

func (r *CommentRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.Comment, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	comments, err := collect(rows, scanComment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return comments, nil
}

func scanComment(row rowScanner) (domain.Comment, error) {
	var c domain.Comment
	err := row.Scan(&c.ID, &c.SellerID, &c.Message, &c.Approved, &c.CreatedAt)
	return c, err
}
