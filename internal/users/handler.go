package users

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// Handler manages the admin users page.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.listUsers)
}

type listPage struct {
	Users      []Profile
	Roles      []access.Role
	Search     string
	Pagination shared.Pagination
	Error      string
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters := ListFilters{Search: strings.TrimSpace(q.Get("q")), Page: shared.PageFromQuery(q)}
	rows, pg, err := h.service.ListUsers(r.Context(), filters)
	data := listPage{Users: rows, Roles: access.Roles(), Search: filters.Search, Pagination: pg}
	if err != nil {
		h.logger.Error("list users failed", slog.Any("error", err))
		data.Error = "Failed to fetch users"
		h.renderer.Page(w, r, http.StatusInternalServerError, "admin/users.html", "Users", data)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "admin/users.html", "Users", data)
}
