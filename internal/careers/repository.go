package careers

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

// Repository persists postings and applications.
type Repository interface {
	ListPostings(ctx context.Context, filter lifecycle.Filter) ([]Posting, error)
	ActivePostings(ctx context.Context) ([]Posting, error)
	GetPosting(ctx context.Context, id uuid.UUID) (Posting, error)
	CreatePosting(ctx context.Context, in PostingInput) (Posting, error)
	UpdatePosting(ctx context.Context, id uuid.UUID, in PostingInput) error

	ListApplications(ctx context.Context, filter lifecycle.Filter) ([]Application, error)
	RecentApplications(ctx context.Context, limit int) ([]Application, error)
	GetApplication(ctx context.Context, id uuid.UUID) (Application, error)
	CreateApplication(ctx context.Context, app Application) (Application, error)
	CountApplications(ctx context.Context, status lifecycle.Status) (int, error)
	CountActivePostings(ctx context.Context) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const postingColumns = `id, title, department, location, type, description, requirements, responsibilities, COALESCE(salary_range, ''), is_active, created_at`

func scanPosting(row pgx.Row) (Posting, error) {
	var p Posting
	err := row.Scan(&p.ID, &p.Title, &p.Department, &p.Location, &p.Type, &p.Description, &p.Requirements, &p.Responsibilities, &p.SalaryRange, &p.IsActive, &p.CreatedAt)
	return p, err
}

func collectPostings(rows pgx.Rows, err error) ([]Posting, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Posting, error) {
		return scanPosting(row)
	})
}

func (r *repository) ListPostings(ctx context.Context, filter lifecycle.Filter) ([]Posting, error) {
	query := `SELECT ` + postingColumns + ` FROM job_postings`
	var args []any
	if filter.Status != nil {
		query += ` WHERE is_active = $1`
		args = append(args, *filter.Status == lifecycle.StatusActive)
	}
	return collectPostings(r.pool.Query(ctx, query+` ORDER BY created_at DESC`, args...))
}

func (r *repository) ActivePostings(ctx context.Context) ([]Posting, error) {
	return collectPostings(r.pool.Query(ctx, `SELECT `+postingColumns+` FROM job_postings WHERE is_active ORDER BY created_at DESC`))
}

func (r *repository) GetPosting(ctx context.Context, id uuid.UUID) (Posting, error) {
	p, err := scanPosting(r.pool.QueryRow(ctx, `SELECT `+postingColumns+` FROM job_postings WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Posting{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) CreatePosting(ctx context.Context, in PostingInput) (Posting, error) {
	return scanPosting(r.pool.QueryRow(ctx, `INSERT INTO job_postings (title, department, location, type, description, requirements, responsibilities, salary_range, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
RETURNING `+postingColumns,
		in.Title, in.Department, in.Location, in.Type, in.Description, in.Requirements, in.Responsibilities, in.SalaryRange, in.IsActive))
}

func (r *repository) UpdatePosting(ctx context.Context, id uuid.UUID, in PostingInput) error {
	tag, err := r.pool.Exec(ctx, `UPDATE job_postings
SET title = $2, department = $3, location = $4, type = $5, description = $6, requirements = $7,
    responsibilities = $8, salary_range = NULLIF($9, ''), is_active = $10, updated_at = NOW()
WHERE id = $1`,
		id, in.Title, in.Department, in.Location, in.Type, in.Description, in.Requirements, in.Responsibilities, in.SalaryRange, in.IsActive)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

const applicationSelect = `SELECT a.id, a.job_posting_id, COALESCE(p.title, ''), a.full_name, a.email, a.phone,
       COALESCE(a.portfolio_url, ''), COALESCE(a.cover_letter, ''), a.resume_path, a.status, a.created_at
FROM job_applications a
LEFT JOIN job_postings p ON p.id = a.job_posting_id`

func scanApplication(row pgx.Row) (Application, error) {
	var a Application
	var status string
	err := row.Scan(&a.ID, &a.PostingID, &a.PostingTitle, &a.FullName, &a.Email, &a.Phone, &a.PortfolioURL, &a.CoverLetter, &a.ResumePath, &status, &a.CreatedAt)
	a.Status = lifecycle.Status(status)
	return a, err
}

func collectApplications(rows pgx.Rows, err error) ([]Application, error) {
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Application, error) {
		return scanApplication(row)
	})
}

func (r *repository) ListApplications(ctx context.Context, filter lifecycle.Filter) ([]Application, error) {
	query := applicationSelect
	var args []any
	if filter.Status != nil {
		query += ` WHERE a.status = $1`
		args = append(args, string(*filter.Status))
	}
	return collectApplications(r.pool.Query(ctx, query+` ORDER BY a.created_at DESC`, args...))
}

func (r *repository) RecentApplications(ctx context.Context, limit int) ([]Application, error) {
	return collectApplications(r.pool.Query(ctx, applicationSelect+` ORDER BY a.created_at DESC LIMIT $1`, limit))
}

func (r *repository) GetApplication(ctx context.Context, id uuid.UUID) (Application, error) {
	a, err := scanApplication(r.pool.QueryRow(ctx, applicationSelect+` WHERE a.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, shared.ErrNotFound
	}
	return a, err
}

func (r *repository) CreateApplication(ctx context.Context, app Application) (Application, error) {
	err := r.pool.QueryRow(ctx, `INSERT INTO job_applications (job_posting_id, full_name, email, phone, portfolio_url, cover_letter, resume_path, status)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8)
RETURNING id, created_at`,
		app.PostingID, app.FullName, app.Email, app.Phone, app.PortfolioURL, app.CoverLetter, app.ResumePath, string(app.Status)).
		Scan(&app.ID, &app.CreatedAt)
	return app, err
}

func (r *repository) CountApplications(ctx context.Context, status lifecycle.Status) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_applications WHERE status = $1`, string(status)).Scan(&n)
	return n, err
}

func (r *repository) CountActivePostings(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM job_postings WHERE is_active`).Scan(&n)
	return n, err
}
