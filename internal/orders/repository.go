package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Repository reads orders.
type Repository interface {
	List(ctx context.Context, filter lifecycle.Filter) ([]Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error)
	CountByStatus(ctx context.Context, status lifecycle.Status) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const orderSelect = `SELECT o.id, o.user_id, COALESCE(u.full_name, ''), COALESCE(u.email, ''), o.service_name, COALESCE(o.description, ''), o.total_amount, o.status, o.created_at
FROM orders o
LEFT JOIN users u ON u.id = o.user_id`

func scanOrders(rows pgx.Rows) ([]Order, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Order, error) {
		var o Order
		var status string
		err := row.Scan(&o.ID, &o.UserID, &o.CustomerName, &o.CustomerEmail, &o.ServiceName, &o.Description, &o.TotalAmount, &status, &o.CreatedAt)
		o.Status = lifecycle.Status(status)
		return o, err
	})
}

func (r *repository) List(ctx context.Context, filter lifecycle.Filter) ([]Order, error) {
	query := orderSelect
	var args []any
	if filter.Status != nil {
		query += ` WHERE o.status = $1`
		args = append(args, string(*filter.Status))
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY o.created_at DESC`, args...)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Order, error) {
	rows, err := r.pool.Query(ctx, orderSelect+` WHERE o.user_id = $1 ORDER BY o.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanOrders(rows)
}

func (r *repository) CountByStatus(ctx context.Context, status lifecycle.Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}
