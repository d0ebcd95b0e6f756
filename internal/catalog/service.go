package catalog

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// HomeContent is everything the landing page shows.
type HomeContent struct {
	Services  []Service
	Portfolio []PortfolioItem
	Team      []TeamMember
}

// Catalog serves the public, active-only view of the catalog.
type Catalog struct {
	repo Repository
}

// New constructs a Catalog.
func New(repo Repository) *Catalog {
	return &Catalog{repo: repo}
}

// Repository exposes the underlying store for the admin pages.
func (c *Catalog) Repository() Repository { return c.repo }

// Services lists active services.
func (c *Catalog) Services(ctx context.Context) ([]Service, error) {
	return c.repo.ListServices(ctx, ActiveOnly())
}

// Portfolio lists active portfolio items.
func (c *Catalog) Portfolio(ctx context.Context) ([]PortfolioItem, error) {
	return c.repo.ListPortfolio(ctx, ActiveOnly())
}

// Project finds an active portfolio item by slug.
func (c *Catalog) Project(ctx context.Context, slug string) (PortfolioItem, error) {
	return c.repo.PortfolioBySlug(ctx, slug)
}

// Team lists active team members.
func (c *Catalog) Team(ctx context.Context) ([]TeamMember, error) {
	return c.repo.ListTeam(ctx, ActiveOnly())
}

// ActiveServiceNames lists the titles customers can book.
func (c *Catalog) ActiveServiceNames(ctx context.Context) ([]string, error) {
	services, err := c.Services(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(services))
	for _, s := range services {
		names = append(names, s.Title)
	}
	return names, nil
}

// Home loads the landing page sections concurrently. portfolioLimit <= 0 keeps every item.
func (c *Catalog) Home(ctx context.Context, portfolioLimit int) (HomeContent, error) {
	var out HomeContent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.Services, err = c.Services(gctx)
		return err
	})
	g.Go(func() error {
		items, err := c.Portfolio(gctx)
		if portfolioLimit > 0 && len(items) > portfolioLimit {
			items = items[:portfolioLimit]
		}
		out.Portfolio = items
		return err
	})
	g.Go(func() error {
		var err error
		out.Team, err = c.Team(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return HomeContent{}, err
	}
	return out, nil
}
