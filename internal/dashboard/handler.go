package dashboard

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/users"
	"github.com/yessbangal/agency-web/internal/view"
)

// Handler serves /dashboard and /admin.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
}

// NewHandler builds the dashboard handler.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer}
}

// MountCustomer registers the account routes. Callers gate them on a signed-in principal.
func (h *Handler) MountCustomer(r chi.Router) {
	r.Get("/", h.account)
	r.Post("/profile", h.updateProfile)
}

// MountAdmin registers the admin overview.
func (h *Handler) MountAdmin(r chi.Router) {
	r.Get("/", h.stats)
}

type accountPage struct {
	Account
	Form   users.ProfileInput
	Errors shared.FormErrors
	Error  string
}

type statsPage struct {
	Stats
	Error string
}

func principalID(r *http.Request) (uuid.UUID, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(sess.User())
	return id, err == nil
}

func (h *Handler) account(w http.ResponseWriter, r *http.Request) {
	id, ok := principalID(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	acc, err := h.service.Account(r.Context(), id)
	if err != nil {
		h.logger.Error("load account", slog.String("user", id.String()), slog.Any("error", err))
		h.renderer.Page(w, r, http.StatusInternalServerError, "pages/dashboard.html", "Dashboard", accountPage{Error: "Failed to load your account"})
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/dashboard.html", "Dashboard", accountPage{Account: acc, Form: formFrom(acc.Profile)})
}

func formFrom(p users.Profile) users.ProfileInput {
	return users.ProfileInput{FullName: p.FullName, Phone: p.Phone, Address: p.Address}
}

func (h *Handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := principalID(r)
	if !ok {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := users.ProfileInput{
		FullName: r.PostFormValue("full_name"),
		Phone:    r.PostFormValue("phone"),
		Address:  r.PostFormValue("address"),
	}
	err := h.service.UpdateProfile(r.Context(), id, in)
	var invalid *shared.InvalidForm
	switch {
	case err == nil:
		h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashSuccess, "Profile updated successfully!")
	case errors.As(err, &invalid):
		acc, aerr := h.service.Account(r.Context(), id)
		if aerr != nil {
			h.logger.Error("load account", slog.Any("error", aerr))
		}
		h.renderer.Page(w, r, http.StatusBadRequest, "pages/dashboard.html", "Dashboard", accountPage{Account: acc, Form: in, Errors: invalid.Errors})
	default:
		h.logger.Error("update profile", slog.String("user", id.String()), slog.Any("error", err))
		h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashError, "Failed to update profile")
	}
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Stats(r.Context())
	if err != nil {
		h.logger.Error("load dashboard stats", slog.Any("error", err))
		h.renderer.Page(w, r, http.StatusInternalServerError, "admin/dashboard.html", "Admin Dashboard", statsPage{Error: "Failed to load dashboard data"})
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "admin/dashboard.html", "Admin Dashboard", statsPage{Stats: st})
}
