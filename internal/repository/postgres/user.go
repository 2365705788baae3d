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

const userColumns = `id, first_name, last_name, email, password_hash, role, approved, created_at, updated_at`

// UserRepository implements repository.UserRepository using PostgreSQL.
type UserRepository struct {
	db database.DBTX
}

// NewUserRepository creates a new PostgreSQL-backed user repository.
func NewUserRepository(db database.DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user into the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	return insertUser(ctx, r.db, u)
}

func insertUser(ctx context.Context, db execer, u *domain.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, role, approved, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := db.Exec(ctx, query,
		u.ID,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Approved,
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("Email already exists")
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("User", id)
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return &u, nil
}

// GetByEmail retrieves a user by their email address.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundf("User not found with email: %s", email)
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// ExistsByEmail reports whether any user has the given email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check user email: %w", err)
	}
	return exists, nil
}

// List returns all users, oldest first.
func (r *UserRepository) List(ctx context.Context) ([]domain.User, error) {
	return r.query(ctx, "list users", `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
}

// ListByRole returns all users with the given role, oldest first.
func (r *UserRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.query(ctx, "list users by role",
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id`, string(role))
}

// ListByRoleAndApproved returns users with the given role and approval flag.
func (r *UserRepository) ListByRoleAndApproved(ctx context.Context, role domain.Role, approved bool) ([]domain.User, error) {
	return r.query(ctx, "list users by role and approval",
		`SELECT `+userColumns+` FROM users WHERE role = $1 AND approved = $2 ORDER BY created_at, id`,
		string(role), approved)
}

// ListSellersPage returns one page of sellers ordered by creation time.
func (r *UserRepository) ListSellersPage(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return r.query(ctx, "list sellers page",
		`SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY created_at, id LIMIT $2 OFFSET $3`,
		string(domain.RoleSeller), limit, offset)
}

// ListSellersByGameTitle returns sellers that own a game object whose title
// contains title, ignoring case. An empty title matches every seller.
func (r *UserRepository) ListSellersByGameTitle(ctx context.Context, title string) ([]domain.User, error) {
	if title == "" {
		return r.ListByRole(ctx, domain.RoleSeller)
	}

	query := `
		SELECT ` + userColumns + `
		FROM users u
		WHERE u.role = $1
		  AND EXISTS (
		      SELECT 1 FROM game_objects g
		      WHERE g.user_id = u.id AND g.title ILIKE '%' || $2 || '%'
		  )
		ORDER BY u.created_at, u.id`

	return r.query(ctx, "list sellers by game title", query, string(domain.RoleSeller), escapeLike(title))
}

// Update overwrites the mutable fields of the user and refreshes updated_at.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	u.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE users
		SET first_name = $1, last_name = $2, email = $3, password_hash = $4,
		    role = $5, approved = $6, updated_at = $7
		WHERE id = $8`

	ct, err := r.db.Exec(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		string(u.Role),
		u.Approved,
		u.UpdatedAt,
		u.ID,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("Email is already registered")
		}
		return fmt.Errorf("update user: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("User", u.ID)
	}
	return nil
}

// SetApproved sets the approval flag of a user.
func (r *UserRepository) SetApproved(ctx context.Context, id string, approved bool) error {
	ct, err := r.db.Exec(ctx,
		`UPDATE users SET approved = $1, updated_at = NOW() WHERE id = $2`, approved, id)
	if err != nil {
		return fmt.Errorf("set user approval: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("User", id)
	}
	return nil
}

// Delete removes the user and everything that references it in one
// transaction: ratings on its comments, the comments, its game objects.
func (r *UserRepository) Delete(ctx context.Context, id string) error {
	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		steps := []struct {
			name  string
			query string
		}{
			{"delete seller ratings", `DELETE FROM ratings WHERE comment_id IN (SELECT id FROM comments WHERE seller_id = $1)`},
			{"delete seller comments", `DELETE FROM comments WHERE seller_id = $1`},
			{"delete user game objects", `DELETE FROM game_objects WHERE user_id = $1`},
		}
		for _, s := range steps {
			if _, err := tx.Exec(ctx, s.query, id); err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
		}

		ct, err := tx.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if ct.RowsAffected() == 0 {
			return apperrors.NotFound("User", id)
		}
		return nil
	})
}

func (r *UserRepository) query(ctx context.Context, op, query string, args ...any) ([]domain.User, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := collect(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func scanUser(row rowScanner) (domain.User, error) {
	var (
		u    domain.User
		role string
	)
	err := row.Scan(
		&u.ID,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.PasswordHash,
		&role,
		&u.Approved,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	u.Role = domain.Role(role)
	return u, err
}
