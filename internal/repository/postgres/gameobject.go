package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/prjrating/sellerrating/internal/domain"
	"github.com/prjrating/sellerrating/pkg/database"
	apperrors "github.com/prjrating/sellerrating/pkg/errors"
)

const gameObjectColumns = `id, user_id, title, text, created_at, updated_at`

// GameObjectRepository implements repository.GameObjectRepository using PostgreSQL.
type GameObjectRepository struct {
	db database.DBTX
}

// NewGameObjectRepository creates a new PostgreSQL-backed game object repository.
func NewGameObjectRepository(db database.DBTX) *GameObjectRepository {
	return &GameObjectRepository{db: db}
}

// Create inserts a new game object.
func (r *GameObjectRepository) Create(ctx context.Context, obj *domain.GameObject) error {
	query := `
		INSERT INTO game_objects (id, user_id, title, text, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, obj.ID, obj.UserID, obj.Title, obj.Text, obj.CreatedAt, obj.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert game object: %w", err)
	}
	return nil
}

// GetByID retrieves a game object by its ID.
func (r *GameObjectRepository) GetByID(ctx context.Context, id string) (*domain.GameObject, error) {
	query := `SELECT ` + gameObjectColumns + ` FROM game_objects WHERE id = $1`

	obj, err := scanGameObject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("Game object", id)
		}
		return nil, fmt.Errorf("get game object by id: %w", err)
	}
	return &obj, nil
}

// List returns every game object, newest first.
func (r *GameObjectRepository) List(ctx context.Context) ([]domain.GameObject, error) {
	return r.query(ctx, "list game objects",
		`SELECT `+gameObjectColumns+` FROM game_objects ORDER BY created_at DESC, id`)
}

// ListByUser returns the objects owned by userID, newest first.
func (r *GameObjectRepository) ListByUser(ctx context.Context, userID string) ([]domain.GameObject, error) {
	return r.query(ctx, "list game objects by user",
		`SELECT `+gameObjectColumns+` FROM game_objects WHERE user_id = $1 ORDER BY created_at DESC, id`, userID)
}

// Update replaces title and text and refreshes updated_at.
func (r *GameObjectRepository) Update(ctx context.Context, obj *domain.GameObject) error {
	obj.UpdatedAt = time.Now().UTC()

	ct, err := r.db.Exec(ctx,
		`UPDATE game_objects SET title = $1, text = $2, updated_at = $3 WHERE id = $4`,
		obj.Title, obj.Text, obj.UpdatedAt, obj.ID)
	if err != nil {
		return fmt.Errorf("update game object: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Game object", obj.ID)
	}
	return nil
}

// Delete removes a game object.
func (r *GameObjectRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM game_objects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete game object: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("Game object", id)
	}
	return nil
}

func (r *GameObjectRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.GameObject, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	objs, err := collect(rows, scanGameObject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return objs, nil
}

func scanGameObject(row rowScanner) (domain.GameObject, error) {
	var o domain.GameObject
	err := row.Scan(&o.ID, &o.UserID, &o.Title, &o.Text, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}
