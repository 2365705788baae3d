package postgres

import (
	"context"
	"fmt"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/pkg/database"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

// RatingRepository implements repository.RatingRepository using PostgreSQL.
type RatingRepository struct {
	db database.DBTX
}

// NewRatingRepository creates a new PostgreSQL-backed rating repository.
func NewRatingRepository(db database.DBTX) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating for a comment.
func (r *RatingRepository) Create(ctx context.Context, rating *domain.Rating) error {
	return insertRating(ctx, r.db, rating)
}

func insertRating(ctx context.Context, db execer, rating *domain.Rating) error {
	query := `INSERT INTO ratings (id, comment_id, rating_value) VALUES ($1, $2, $3)`

	if _, err := db.Exec(ctx, query, rating.ID, rating.CommentID, rating.RatingValue); err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("Rating already exists for comment")
		}
		return fmt.Errorf("insert rating: %w", err)
	}
	return nil
}

// ExistsForComment reports whether the comment already carries a rating.
func (r *RatingRepository) ExistsForComment(ctx context.Context, commentID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM ratings WHERE comment_id = $1)`, commentID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check rating exists: %w", err)
	}
	return exists, nil
}

const sellerAverageQuery = `
	SELECT COALESCE(AVG(r.rating_value), 0)::float8
	FROM ratings r
	JOIN comments c ON c.id = r.comment_id
	WHERE c.seller_id = $1`

// SellerAverage returns the arithmetic mean of the ratings attached to the
// seller's comments, or 0 when there are none.
func (r *RatingRepository) SellerAverage(ctx context.Context, sellerID string) (avg float64, err error) {
	ctx, end := database.TraceQuery(ctx, "SELECT", sellerAverageQuery)
	defer func() { end(err) }()

	if err = r.db.QueryRow(ctx, sellerAverageQuery, sellerID).Scan(&avg); err != nil {
		return 0, fmt.Errorf("seller average rating: %w", err)
	}
	return avg, nil
}

const sellerAveragesQuery = `
	SELECT c.seller_id, AVG(r.rating_value)::float8
	FROM ratings r
	JOIN comments c ON c.id = r.comment_id
	WHERE c.seller_id = ANY($1)
	GROUP BY c.seller_id`

// SellerAverages computes SellerAverage for many sellers in one round trip.
// Every requested id is present in the result.
func (r *RatingRepository) SellerAverages(ctx context.Context, sellerIDs []string) (_ map[string]float64, err error) {
	out := make(map[string]float64, len(sellerIDs))
	if len(sellerIDs) == 0 {
		return out, nil
	}
	for _, id := range sellerIDs {
		out[id] = 0
	}

	ctx, end := database.TraceQuery(ctx, "SELECT", sellerAveragesQuery)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, sellerAveragesQuery, sellerIDs)
	if err != nil {
		return nil, fmt.Errorf("seller average ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  string
			avg float64
		)
		if err = rows.Scan(&id, &avg); err != nil {
			return nil, fmt.Errorf("scan seller average: %w", err)
		}
		out[id] = avg
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("seller average ratings: %w", err)
	}
	return out, nil
}
