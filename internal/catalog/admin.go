package catalog

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yessbangal/agency-web/internal/admin"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/view"
)

// Managers groups the lifecycle managers of the catalog tables.
type Managers struct {
	Services  *lifecycle.Manager[Service]
	Portfolio *lifecycle.Manager[PortfolioItem]
	Team      *lifecycle.Manager[TeamMember]
}

// MutationDeps are the collaborators shared by every catalog manager.
type MutationDeps struct {
	Store   lifecycle.Store
	Auditor lifecycle.Auditor
	Metrics lifecycle.MutationRecorder
	Logger  *slog.Logger
}

// NewManagers wires one lifecycle manager per catalog table.
func NewManagers(repo Repository, deps MutationDeps) Managers {
	return Managers{
		Services: lifecycle.NewManager(lifecycle.Config[Service]{
			Resource: lifecycle.Services, Store: deps.Store, Auditor: deps.Auditor, Metrics: deps.Metrics, Logger: deps.Logger,
			Lister: lifecycle.ListerFunc[Service](repo.ListServices),
		}),
		Portfolio: lifecycle.NewManager(lifecycle.Config[PortfolioItem]{
			Resource: lifecycle.PortfolioItems, Store: deps.Store, Auditor: deps.Auditor, Metrics: deps.Metrics, Logger: deps.Logger,
			Lister: lifecycle.ListerFunc[PortfolioItem](repo.ListPortfolio),
		}),
		Team: lifecycle.NewManager(lifecycle.Config[TeamMember]{
			Resource: lifecycle.TeamMembers, Store: deps.Store, Auditor: deps.Auditor, Metrics: deps.Metrics, Logger: deps.Logger,
			Lister: lifecycle.ListerFunc[TeamMember](repo.ListTeam),
		}),
	}
}

// MountServices registers /admin/services.
func MountServices(r chi.Router, m *lifecycle.Manager[Service], rd *view.Renderer, logger *slog.Logger) {
	admin.Mount(r, admin.Page[Service]{
		Manager: m, Renderer: rd, Logger: logger,
		Title:   "Services",
		Base:    "/admin/services",
		Columns: []string{"Order", "Title", "Description", "Features"},
		RowView: func(s Service) admin.Row {
			return admin.Row{
				ID:     s.ID.String(),
				Cells:  []string{strconv.Itoa(s.DisplayOrder), s.Title, s.Description, strings.Join(s.Features, ", ")},
				Status: s.Status(),
			}
		},
	})
}

// MountPortfolio registers /admin/portfolio.
func MountPortfolio(r chi.Router, m *lifecycle.Manager[PortfolioItem], rd *view.Renderer, logger *slog.Logger) {
	admin.Mount(r, admin.Page[PortfolioItem]{
		Manager: m, Renderer: rd, Logger: logger,
		Title:   "Portfolio",
		Base:    "/admin/portfolio",
		Columns: []string{"Order", "Title", "Category", "Client", "Featured"},
		RowView: portfolioRow,
	})
}

func portfolioRow(p PortfolioItem) admin.Row {
	featured := ""
	if p.IsFeatured {
		featured = "Featured"
	}
	row := admin.Row{
		ID:     p.ID.String(),
		Cells:  []string{strconv.Itoa(p.DisplayOrder), p.Title, p.Category, p.ClientName, featured},
		Status: p.Status(),
	}
	if p.IsActive {
		row.Links = []admin.Link{{Label: "View", Href: "/portfolio/" + p.Slug}}
	}
	return row
}

// MountTeam registers /admin/team.
func MountTeam(r chi.Router, m *lifecycle.Manager[TeamMember], rd *view.Renderer, logger *slog.Logger) {
	admin.Mount(r, admin.Page[TeamMember]{
		Manager: m, Renderer: rd, Logger: logger,
		Title:   "Team",
		Base:    "/admin/team",
		Columns: []string{"Order", "Name", "Role", "Email"},
		RowView: func(t TeamMember) admin.Row {
			return admin.Row{
				ID:     t.ID.String(),
				Cells:  []string{strconv.Itoa(t.DisplayOrder), t.Name, t.Role, t.Email},
				Status: t.Status(),
			}
		},
	})
}
