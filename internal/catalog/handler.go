package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// HomePortfolioLimit caps the projects shown on the landing page.
const HomePortfolioLimit = 6

// Handler renders the public marketing pages.
type Handler struct {
	logger   *slog.Logger
	catalog  *Catalog
	renderer *view.Renderer
}

// NewHandler builds the public catalog handler.
func NewHandler(logger *slog.Logger, catalog *Catalog, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, catalog: catalog, renderer: renderer}
}

// MountRoutes registers the public pages on the site root.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.home)
	r.Get("/services", h.services)
	r.Get("/portfolio", h.portfolio)
	r.Get("/portfolio/{slug}", h.project)
	r.Get("/about", h.about)
	r.Get("/contact", h.contact)
}

type listPage[T any] struct {
	Items []T
	Error string
}

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	content, err := h.catalog.Home(r.Context(), HomePortfolioLimit)
	if err != nil {
		h.logger.Error("load home content", slog.Any("error", err))
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/home.html", "Home", content)
}

func (h *Handler) services(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Services(r.Context())
	renderList(h, w, r, "pages/services.html", "Services", items, err)
}

func (h *Handler) portfolio(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Portfolio(r.Context())
	renderList(h, w, r, "pages/portfolio.html", "Portfolio", items, err)
}

func (h *Handler) about(w http.ResponseWriter, r *http.Request) {
	items, err := h.catalog.Team(r.Context())
	renderList(h, w, r, "pages/about.html", "About Us", items, err)
}

func (h *Handler) contact(w http.ResponseWriter, r *http.Request) {
	h.renderer.Page(w, r, http.StatusOK, "pages/contact.html", "Contact", nil)
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request) {
	item, err := h.catalog.Project(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, shared.ErrNotFound) {
		h.renderer.Page(w, r, http.StatusNotFound, "pages/not_found.html", "Not Found", nil)
		return
	}
	if err != nil {
		h.logger.Error("load project", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/project.html", item.Title, item)
}

func renderList[T any](h *Handler, w http.ResponseWriter, r *http.Request, name, title string, items []T, err error) {
	if err != nil {
		h.logger.Error("load catalog list", slog.String("page", name), slog.Any("error", err))
		h.renderer.Page(w, r, http.StatusInternalServerError, name, title, listPage[T]{Error: "Failed to load " + title})
		return
	}
	h.renderer.Page(w, r, http.StatusOK, name, title, listPage[T]{Items: items})
}
