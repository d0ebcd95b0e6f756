package careers

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// Handler serves the public careers pages.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	renderer *view.Renderer
}

// NewHandler builds the public careers handler.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, renderer: renderer}
}

// MountRoutes registers /careers routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.list)
	r.Get("/{slug}", h.detail)
	r.Post("/{id}/apply", h.apply)
}

type listPage struct {
	Postings []Posting
	Error    string
}

type detailPage struct {
	Posting   Posting
	Form      ApplicationInput
	Errors    shared.FormErrors
	Submitted bool
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	postings, err := h.service.ActivePostings(r.Context())
	if err != nil {
		h.logger.Error("list job postings", slog.Any("error", err))
		h.renderer.Page(w, r, http.StatusInternalServerError, "pages/careers.html", "Careers", listPage{Error: "Failed to load open positions"})
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/careers.html", "Careers", listPage{Postings: postings})
}

func (h *Handler) detail(w http.ResponseWriter, r *http.Request) {
	posting, err := h.service.PostingBySlug(r.Context(), chi.URLParam(r, "slug"))
	if errors.Is(err, shared.ErrNotFound) {
		h.renderer.RedirectWithFlash(w, r, "/careers", shared.FlashError, "This position is no longer available")
		return
	}
	if err != nil {
		h.logger.Error("load job posting", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/job_detail.html", posting.Title, detailPage{Posting: posting})
}

func (h *Handler) apply(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, MaxResumeSize+(1<<20))
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		h.renderer.RedirectWithFlash(w, r, "/careers", shared.FlashError, "File size must be less than 5MB")
		return
	}
	defer r.MultipartForm.RemoveAll()

	in := ApplicationInput{
		FullName:     r.PostFormValue("full_name"),
		Email:        r.PostFormValue("email"),
		Phone:        r.PostFormValue("phone"),
		PortfolioURL: r.PostFormValue("portfolio_url"),
		CoverLetter:  r.PostFormValue("cover_letter"),
	}
	var resume *Resume
	file, header, err := r.FormFile("resume")
	if err == nil {
		defer file.Close()
		resume = resumeFrom(file, header)
	}

	app, err := h.service.Apply(r.Context(), id, in, resume)
	var invalid *shared.InvalidForm
	switch {
	case err == nil:
		h.renderer.PageWithFlash(w, r, http.StatusOK, "pages/job_detail.html", app.PostingTitle, detailPage{
			Posting:   Posting{ID: id, Title: app.PostingTitle},
			Submitted: true,
		}, shared.FlashMessage{Kind: shared.FlashSuccess, Message: "Application Submitted! We'll review your application and get back to you soon."})
	case errors.As(err, &invalid):
		posting, perr := h.service.Posting(r.Context(), id)
		if perr != nil {
			h.renderer.RedirectWithFlash(w, r, "/careers", shared.FlashError, "This position is no longer available")
			return
		}
		h.renderer.Page(w, r, http.StatusBadRequest, "pages/job_detail.html", posting.Title, detailPage{Posting: posting, Form: in, Errors: invalid.Errors})
	case errors.Is(err, shared.ErrNotFound):
		h.renderer.RedirectWithFlash(w, r, "/careers", shared.FlashError, "This position is no longer available")
	default:
		h.logger.Error("submit application", slog.String("posting", id.String()), slog.Any("error", err))
		posting, _ := h.service.Posting(r.Context(), id)
		h.renderer.PageWithFlash(w, r, http.StatusInternalServerError, "pages/job_detail.html", posting.Title, detailPage{Posting: posting, Form: in},
			shared.FlashMessage{Kind: shared.FlashError, Message: "Submission Failed. Something went wrong. Please try again."})
	}
}

func resumeFrom(file multipart.File, header *multipart.FileHeader) *Resume {
	return &Resume{Filename: header.Filename, Size: header.Size, File: file}
}
