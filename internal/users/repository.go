package users

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const profileSelect = `SELECT u.id, u.email, u.full_name, u.phone, u.address, u.is_active, u.created_at, r.role
FROM users u
LEFT JOIN user_roles r ON r.user_id = u.id`

func scanProfile(row pgx.Row) (Profile, error) {
	var p Profile
	var role *string
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &p.Phone, &p.Address, &p.IsActive, &p.CreatedAt, &role); err != nil {
		return Profile{}, err
	}
	p.Role = access.RoleCustomer
	if role != nil {
		parsed, err := access.ParseRole(*role)
		if err != nil {
			return Profile{}, err
		}
		p.Role = parsed
		p.Assigned = true
	}
	return p, nil
}

// ListUsers returns one page of users ordered by newest first, plus the total count.
func (r *Repository) ListUsers(ctx context.Context, filters ListFilters) ([]Profile, int, error) {
	where := ""
	args := []any{}
	if s := strings.TrimSpace(filters.Search); s != "" {
		where = ` WHERE u.email ILIKE $1 OR u.full_name ILIKE $1`
		args = append(args, "%"+s+"%")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users u`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	pg := shared.NewPagination(filters.Page, filters.PerPage, total)
	query := profileSelect + where + ` ORDER BY u.created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + ` OFFSET $` + strconv.Itoa(len(args)+2)
	args = append(args, pg.PerPage, pg.Offset())

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// Get returns one profile.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, profileSelect+` WHERE u.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Profile{}, shared.ErrNotFound
	}
	return p, err
}

// CountUsers returns the number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

// UpdateProfile changes the self-service profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET full_name = $2, phone = $3, address = $4, updated_at = NOW() WHERE id = $1`,
		id, in.FullName, in.Phone, in.Address)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
