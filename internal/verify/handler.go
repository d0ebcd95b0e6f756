package verify

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/platform/httpx"
)

// Error strings of the endpoint contract. Clients match on them.
const (
	MsgNoAuthorization  = "No authorization header"
	MsgNotAuthenticated = "Not authenticated"
	MsgRoleCheckFailed  = "Failed to verify role"
	MsgInternal         = "Internal server error"
)

// Response is the endpoint body.
type Response struct {
	IsAdmin bool   `json:"isAdmin"`
	Error   string `json:"error,omitempty"`
}

// Handler serves the verify-admin endpoint.
type Handler struct {
	verifier access.Verifier
	logger   *slog.Logger
}

// NewHandler constructs the handler.
func NewHandler(verifier access.Verifier, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{verifier: verifier, logger: logger}
}

// MountRoutes registers the endpoint.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Options("/", h.preflight)
	r.Get("/", h.verify)
	r.Post("/", h.verify)
}

func corsHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}

func (h *Handler) preflight(w http.ResponseWriter, _ *http.Request) {
	corsHeaders(w)
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) verify(w http.ResponseWriter, r *http.Request) {
	corsHeaders(w)
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("unexpected error in verify-admin", slog.Any("panic", rec))
			httpx.JSON(w, http.StatusInternalServerError, Response{Error: MsgInternal})
		}
	}()

	header := r.Header.Get("Authorization")
	if header == "" {
		httpx.JSON(w, http.StatusUnauthorized, Response{Error: MsgNoAuthorization})
		return
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	if token == "" || token == header {
		httpx.JSON(w, http.StatusUnauthorized, Response{Error: MsgNotAuthenticated})
		return
	}

	isAdmin, err := h.verifier.VerifyAdmin(r.Context(), token)
	switch {
	case errors.Is(err, access.ErrNoAuthorization):
		httpx.JSON(w, http.StatusUnauthorized, Response{Error: MsgNoAuthorization})
	case errors.Is(err, access.ErrNotAuthenticated):
		httpx.JSON(w, http.StatusUnauthorized, Response{Error: MsgNotAuthenticated})
	case errors.Is(err, ErrRoleCheckFailed):
		h.logger.Error("error checking admin role", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, Response{Error: MsgRoleCheckFailed})
	case err != nil:
		h.logger.Error("unexpected error in verify-admin", slog.Any("error", err))
		httpx.JSON(w, http.StatusInternalServerError, Response{Error: MsgInternal})
	default:
		httpx.JSON(w, http.StatusOK, Response{IsAdmin: isAdmin})
	}
}
