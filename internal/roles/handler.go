package roles

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// UserLookup resolves the account a role change targets.
type UserLookup interface {
	Label(ctx context.Context, id uuid.UUID) (string, error)
}

// Handler manages role assignment endpoints under the admin users page.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
	users    UserLookup
	base     string
}

// NewHandler builds Handler instance. base is the users page the handler redirects back to.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer, users UserLookup, base string) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer, users: users, base: base}
}

// MountRoutes registers role routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{id}/role", h.assign)
	r.Get("/{id}/role/remove", h.confirmRemove)
	r.Post("/{id}/role/remove", h.remove)
}

func (h *Handler) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) assign(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	_, err := h.service.Assign(r.Context(), shared.ActorFromContext(r.Context()), id, r.PostFormValue("role"))
	switch {
	case errors.Is(err, access.ErrUnknownRole):
		h.renderer.RedirectWithFlash(w, r, h.base, shared.FlashError, "Please choose one of the listed roles")
	case err != nil:
		h.logger.Error("assign role", slog.String("user", id.String()), slog.Any("error", err))
		h.renderer.RedirectWithFlash(w, r, h.base, shared.FlashError, "Failed to update role")
	default:
		h.renderer.RedirectWithFlash(w, r, h.base, shared.FlashSuccess, "Role updated")
	}
}

func (h *Handler) confirmRemove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}
	label := id.String()
	if h.users != nil {
		if l, err := h.users.Label(r.Context(), id); err == nil {
			label = l
		} else if errors.Is(err, shared.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
	}
	h.renderer.Page(w, r, http.StatusOK, "admin/confirm_delete.html", "Remove role", view.ConfirmPage{
		Title:   "Remove role",
		Message: "Remove the role of " + label + "? The user will become a customer.",
		Action:  h.base + "/" + id.String() + "/role/remove",
		Cancel:  h.base,
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, ok := h.userID(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	confirm := lifecycle.ParseConfirmation(r.PostFormValue(lifecycle.ConfirmField))
	err := h.service.Remove(r.Context(), shared.ActorFromContext(r.Context()), id, confirm)
	switch {
	case errors.Is(err, lifecycle.ErrConfirmationRequired):
		http.Redirect(w, r, h.base, http.StatusSeeOther)
	case err != nil:
		h.logger.Error("remove role", slog.String("user", id.String()), slog.Any("error", err))
		h.renderer.RedirectWithFlash(w, r, h.base, shared.FlashError, "Failed to delete role")
	default:
		h.renderer.RedirectWithFlash(w, r, h.base, shared.FlashSuccess, "Role removed")
	}
}
