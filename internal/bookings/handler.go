package bookings

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/admin"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// ServiceCatalog lists the service names a customer can book.
type ServiceCatalog interface {
	ActiveServiceNames(ctx context.Context) ([]string, error)
}

// Handler serves the customer booking form.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
	catalog  ServiceCatalog
}

// NewHandler builds the customer booking handler.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer, catalog ServiceCatalog) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer, catalog: catalog}
}

// MountRoutes registers /bookings routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/new", h.showForm)
	r.Post("/", h.create)
}

type formPage struct {
	Form     Request
	Errors   shared.FormErrors
	Services []string
	Slots    []string
	Key      string
}

func (h *Handler) principal(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if id, err := uuid.Parse(sess.User()); err == nil {
			return id, true
		}
	}
	h.renderer.RedirectWithFlash(w, r, "/auth/login", shared.FlashInfo, "Please sign in to book an appointment")
	return uuid.Nil, false
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page formPage) {
	if page.Key == "" {
		page.Key = uuid.NewString()
	}
	page.Slots = TimeSlots
	if h.catalog != nil {
		names, err := h.catalog.ActiveServiceNames(r.Context())
		if err != nil {
			h.logger.Warn("list bookable services", slog.Any("error", err))
		}
		page.Services = names
	}
	h.renderer.Page(w, r, status, "pages/booking_form.html", "Book a Service", page)
}

func (h *Handler) showForm(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.principal(w, r); !ok {
		return
	}
	h.render(w, r, http.StatusOK, formPage{Form: Request{ServiceName: r.URL.Query().Get("service")}})
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.principal(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	req := Request{
		ServiceName: r.PostFormValue("service_name"),
		BookingDate: r.PostFormValue("booking_date"),
		BookingTime: r.PostFormValue("booking_time"),
		Notes:       r.PostFormValue("notes"),
	}
	key := r.PostFormValue("idempotency_key")

	_, err := h.service.Book(r.Context(), userID, key, req)
	var invalid *shared.InvalidForm
	switch {
	case err == nil:
		h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashSuccess, "Booking request submitted successfully!")
	case errors.As(err, &invalid):
		h.render(w, r, http.StatusBadRequest, formPage{Form: req, Errors: invalid.Errors, Key: key})
	case errors.Is(err, shared.ErrIdempotencyConflict):
		h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashInfo, shared.UserSafeMessage(err))
	default:
		h.logger.Error("create booking", slog.String("user", userID.String()), slog.Any("error", err))
		h.render(w, r, http.StatusInternalServerError, formPage{
			Form:   req,
			Errors: shared.FormErrors{"general": "Failed to create booking. Please try again."},
		})
	}
}

// AdminPage describes the back-office bookings list.
func AdminPage(mgr *lifecycle.Manager[Booking], renderer *view.Renderer, logger *slog.Logger) admin.Page[Booking] {
	return admin.Page[Booking]{
		Manager:  mgr,
		Renderer: renderer,
		Logger:   logger,
		Title:    "Bookings",
		Base:     "/admin/bookings",
		Columns:  []string{"Customer", "Service", "Date", "Time", "Notes"},
		RowView: func(b Booking) admin.Row {
			return admin.Row{
				ID:     b.ID.String(),
				Cells:  []string{b.CustomerEmail, b.ServiceName, view.FormatDay(b.BookingDate), b.BookingTime, b.Notes},
				Status: b.Status,
			}
		},
	}
}

// NewManager wires the lifecycle manager for bookings.
func NewManager(repo Repository, cfg lifecycle.Config[Booking]) *lifecycle.Manager[Booking] {
	cfg.Resource = lifecycle.Bookings
	cfg.Lister = lifecycle.ListerFunc[Booking](repo.List)
	return lifecycle.NewManager(cfg)
}
