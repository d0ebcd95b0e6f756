package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Repository persists bookings.
type Repository interface {
	Create(ctx context.Context, in NewBooking) (Booking, error)
	List(ctx context.Context, filter lifecycle.Filter) ([]Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
	Recent(ctx context.Context, limit int) ([]Booking, error)
	CountOn(ctx context.Context, day time.Time) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const bookingSelect = `SELECT b.id, b.user_id, COALESCE(u.email, ''), b.service_name, b.booking_date, b.booking_time, b.status, COALESCE(b.notes, ''), b.created_at
FROM bookings b
LEFT JOIN users u ON u.id = b.user_id`

func scanBookings(rows pgx.Rows) ([]Booking, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Booking, error) {
		var b Booking
		var status string
		err := row.Scan(&b.ID, &b.UserID, &b.CustomerEmail, &b.ServiceName, &b.BookingDate, &b.BookingTime, &status, &b.Notes, &b.CreatedAt)
		b.Status = lifecycle.Status(status)
		return b, err
	})
}

func (r *repository) Create(ctx context.Context, in NewBooking) (Booking, error) {
	b := Booking{
		UserID:      in.UserID,
		ServiceName: in.ServiceName,
		BookingDate: in.BookingDate,
		BookingTime: in.BookingTime,
		Notes:       in.Notes,
		Status:      lifecycle.StatusPending,
	}
	err := r.pool.QueryRow(ctx, `INSERT INTO bookings (user_id, service_name, booking_date, booking_time, notes, status)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
RETURNING id, created_at`, in.UserID, in.ServiceName, in.BookingDate, in.BookingTime, in.Notes, string(lifecycle.StatusPending)).
		Scan(&b.ID, &b.CreatedAt)
	return b, err
}

// List orders by booking date, newest first.
func (r *repository) List(ctx context.Context, filter lifecycle.Filter) ([]Booking, error) {
	query := bookingSelect
	args := []any{}
	if filter.Status != nil {
		query += ` WHERE b.status = $1`
		args = append(args, string(*filter.Status))
	}
	rows, err := r.pool.Query(ctx, query+` ORDER BY b.booking_date DESC, b.booking_time DESC`, args...)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+` WHERE b.user_id = $1 ORDER BY b.booking_date DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *repository) Recent(ctx context.Context, limit int) ([]Booking, error) {
	rows, err := r.pool.Query(ctx, bookingSelect+` ORDER BY b.created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	return scanBookings(rows)
}

func (r *repository) CountOn(ctx context.Context, day time.Time) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM bookings WHERE booking_date = $1`, day.Format(dateLayout)).Scan(&n)
	return n, err
}
