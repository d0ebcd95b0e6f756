package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

type stubRepo struct {
	services  []Service
	portfolio []PortfolioItem
	team      []TeamMember
	teamErr   error
	filters   []lifecycle.Filter
}

func (s *stubRepo) ListServices(_ context.Context, f lifecycle.Filter) ([]Service, error) {
	s.filters = append(s.filters, f)
	return s.services, nil
}

func (s *stubRepo) ListPortfolio(_ context.Context, f lifecycle.Filter) ([]PortfolioItem, error) {
	return s.portfolio, nil
}

func (s *stubRepo) PortfolioBySlug(_ context.Context, slug string) (PortfolioItem, error) {
	for _, p := range s.portfolio {
		if p.Slug == slug {
			return p, nil
		}
	}
	return PortfolioItem{}, shared.ErrNotFound
}

func (s *stubRepo) ListTeam(context.Context, lifecycle.Filter) ([]TeamMember, error) {
	return s.team, s.teamErr
}

func TestActiveServiceNames(t *testing.T) {
	repo := &stubRepo{services: []Service{{Title: "Web Development"}, {Title: "SEO"}}}
	names, err := New(repo).ActiveServiceNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Web Development", "SEO"}, names)
	require.Len(t, repo.filters, 1)
	require.NotNil(t, repo.filters[0].Status)
	assert.Equal(t, lifecycle.StatusActive, *repo.filters[0].Status)
}

func TestHomeLimitsPortfolio(t *testing.T) {
	repo := &stubRepo{team: []TeamMember{{Name: "Ayesha"}}}
	for i := 0; i < 8; i++ {
		repo.portfolio = append(repo.portfolio, PortfolioItem{ID: uuid.New()})
	}
	content, err := New(repo).Home(context.Background(), HomePortfolioLimit)
	require.NoError(t, err)
	assert.Len(t, content.Portfolio, HomePortfolioLimit)
	assert.Len(t, content.Team, 1)
}

func TestHomeFailsWhenAnySectionFails(t *testing.T) {
	repo := &stubRepo{teamErr: errors.New("timeout")}
	_, err := New(repo).Home(context.Background(), 0)
	assert.Error(t, err)
}

func TestPortfolioRowLinksActiveProjects(t *testing.T) {
	row := portfolioRow(PortfolioItem{ID: uuid.New(), Slug: "bazaar-app", IsActive: true, IsFeatured: true})
	require.Len(t, row.Links, 1)
	assert.Equal(t, "/portfolio/bazaar-app", row.Links[0].Href)
	assert.Equal(t, "Featured", row.Cells[4])
	assert.Equal(t, lifecycle.StatusActive, row.Status)

	assert.Empty(t, portfolioRow(PortfolioItem{}).Links)
}
