package access

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yessbangal/agency-web/internal/platform/httpx"
)

// Handler exposes the current verdict as JSON.
type Handler struct {
	Guard Guard
}

// NewHandler constructs the access handler.
func NewHandler(guard Guard) *Handler {
	return &Handler{Guard: guard}
}

// MountRoutes registers the verdict endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.current)
}

func (h *Handler) current(w http.ResponseWriter, r *http.Request) {
	v := h.Guard.Resolve(r)
	status := http.StatusOK
	if v.IsLoading {
		w.Header().Set("Retry-After", "1")
		status = http.StatusServiceUnavailable
	}
	httpx.JSON(w, status, v)
}
