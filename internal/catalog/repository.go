package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

// Repository reads catalog rows ordered by display_order.
type Repository interface {
	ListServices(ctx context.Context, filter lifecycle.Filter) ([]Service, error)
	ListPortfolio(ctx context.Context, filter lifecycle.Filter) ([]PortfolioItem, error)
	PortfolioBySlug(ctx context.Context, slug string) (PortfolioItem, error)
	ListTeam(ctx context.Context, filter lifecycle.Filter) ([]TeamMember, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs the PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ActiveOnly filters a listing to active rows.
func ActiveOnly() lifecycle.Filter {
	s := lifecycle.StatusActive
	return lifecycle.Filter{Status: &s}
}

func activeWhere(filter lifecycle.Filter) (string, []any) {
	if filter.Status == nil {
		return "", nil
	}
	return ` WHERE is_active = $1`, []any{*filter.Status == lifecycle.StatusActive}
}

func (r *repository) ListServices(ctx context.Context, filter lifecycle.Filter) ([]Service, error) {
	where, args := activeWhere(filter)
	rows, err := r.pool.Query(ctx, `SELECT id, title, description, COALESCE(icon, ''), COALESCE(features, '{}'), display_order, is_active, created_at
FROM services`+where+` ORDER BY display_order, title`, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (Service, error) {
		var s Service
		err := row.Scan(&s.ID, &s.Title, &s.Description, &s.Icon, &s.Features, &s.DisplayOrder, &s.IsActive, &s.CreatedAt)
		return s, err
	})
}

const portfolioColumns = `id, title, slug, COALESCE(description, ''), COALESCE(full_description, ''), COALESCE(category, ''),
       COALESCE(image_url, ''), COALESCE(technologies, '{}'), COALESCE(client_name, ''), COALESCE(live_url, ''),
       COALESCE(github_url, ''), completion_date, is_featured, is_active, display_order, created_at`

func scanPortfolio(row pgx.Row) (PortfolioItem, error) {
	var p PortfolioItem
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Description, &p.FullDescription, &p.Category, &p.ImageURL, &p.Technologies,
		&p.ClientName, &p.LiveURL, &p.GitHubURL, &p.CompletionDate, &p.IsFeatured, &p.IsActive, &p.DisplayOrder, &p.CreatedAt)
	return p, err
}

func (r *repository) ListPortfolio(ctx context.Context, filter lifecycle.Filter) ([]PortfolioItem, error) {
	where, args := activeWhere(filter)
	rows, err := r.pool.Query(ctx, `SELECT `+portfolioColumns+` FROM portfolio_items`+where+` ORDER BY display_order, title`, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (PortfolioItem, error) {
		return scanPortfolio(row)
	})
}

func (r *repository) PortfolioBySlug(ctx context.Context, slug string) (PortfolioItem, error) {
	p, err := scanPortfolio(r.pool.QueryRow(ctx, `SELECT `+portfolioColumns+` FROM portfolio_items WHERE slug = $1 AND is_active`, slug))
	if errors.Is(err, pgx.ErrNoRows) {
		return PortfolioItem{}, shared.ErrNotFound
	}
	return p, err
}

func (r *repository) ListTeam(ctx context.Context, filter lifecycle.Filter) ([]TeamMember, error) {
	where, args := activeWhere(filter)
	rows, err := r.pool.Query(ctx, `SELECT id, name, role, COALESCE(bio, ''), COALESCE(image_url, ''), COALESCE(linkedin_url, ''),
       COALESCE(twitter_url, ''), COALESCE(email, ''), display_order, is_active, created_at
FROM team_members`+where+` ORDER BY display_order, name`, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (TeamMember, error) {
		var m TeamMember
		err := row.Scan(&m.ID, &m.Name, &m.Role, &m.Bio, &m.ImageURL, &m.LinkedInURL, &m.TwitterURL, &m.Email, &m.DisplayOrder, &m.IsActive, &m.CreatedAt)
		return m, err
	})
}
