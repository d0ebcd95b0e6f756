package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
)

// Repository provides PostgreSQL backed persistence for user_roles.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RoleFor reads the stored role of a principal. A missing row yields access.ErrNoRole.
func (r *Repository) RoleFor(ctx context.Context, principalID string) (access.Role, error) {
	id, err := uuid.Parse(principalID)
	if err != nil {
		return "", fmt.Errorf("roles: principal id: %w", err)
	}
	var raw string
	err = r.pool.QueryRow(ctx, `SELECT role FROM user_roles WHERE user_id = $1`, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", access.ErrNoRole
		}
		return "", err
	}
	return access.ParseRole(raw)
}

// HasRole calls the has_role SQL function.
func (r *Repository) HasRole(ctx context.Context, userID uuid.UUID, role access.Role) (bool, error) {
	var ok bool
	if err := r.pool.QueryRow(ctx, `SELECT has_role($1, $2)`, userID, string(role)).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}

// Get returns the assignment row of a user.
func (r *Repository) Get(ctx context.Context, userID uuid.UUID) (Assignment, error) {
	var a Assignment
	var raw string
	err := r.pool.QueryRow(ctx, `SELECT id, user_id, role, created_at FROM user_roles WHERE user_id = $1`, userID).
		Scan(&a.ID, &a.UserID, &raw, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Assignment{}, shared.ErrNotFound
		}
		return Assignment{}, err
	}
	a.Role, err = access.ParseRole(raw)
	return a, err
}

// Upsert updates the existing row or inserts one.
func (r *Repository) Upsert(ctx context.Context, userID uuid.UUID, role access.Role) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO user_roles (user_id, role) VALUES ($1, $2)
ON CONFLICT (user_id) DO UPDATE SET role = EXCLUDED.role`, userID, string(role))
	return err
}

// Delete removes the role row, reverting the user to customer.
func (r *Repository) Delete(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ access.RoleReader = (*Repository)(nil)
