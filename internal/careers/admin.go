package careers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/admin"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// NewPostingManager wires the lifecycle manager for job postings.
func NewPostingManager(repo Repository, cfg lifecycle.Config[Posting]) *lifecycle.Manager[Posting] {
	cfg.Resource = lifecycle.JobPostings
	cfg.Lister = lifecycle.ListerFunc[Posting](repo.ListPostings)
	return lifecycle.NewManager(cfg)
}

// NewApplicationManager wires the lifecycle manager for job applications.
func NewApplicationManager(repo Repository, cfg lifecycle.Config[Application]) *lifecycle.Manager[Application] {
	cfg.Resource = lifecycle.JobApplications
	cfg.Lister = lifecycle.ListerFunc[Application](repo.ListApplications)
	return lifecycle.NewManager(cfg)
}

// AdminHandler serves the job posting form and resume downloads.
type AdminHandler struct {
	logger       *slog.Logger
	service      *Service
	renderer     *view.Renderer
	postings     *lifecycle.Manager[Posting]
	applications *lifecycle.Manager[Application]
}

// NewAdminHandler builds the back-office careers handler.
func NewAdminHandler(logger *slog.Logger, service *Service, renderer *view.Renderer, postings *lifecycle.Manager[Posting], applications *lifecycle.Manager[Application]) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{logger: logger, service: service, renderer: renderer, postings: postings, applications: applications}
}

// MountJobs registers /admin/jobs routes.
func (h *AdminHandler) MountJobs(r chi.Router) {
	r.Get("/new", h.newPosting)
	r.Post("/", h.createPosting)
	r.Get("/{id}/edit", h.editPosting)
	r.Post("/{id}", h.updatePosting)
	admin.Mount(r, admin.Page[Posting]{
		Manager:  h.postings,
		Renderer: h.renderer,
		Logger:   h.logger,
		Title:    "Job Postings",
		Base:     "/admin/jobs",
		NewLink:  "/admin/jobs/new",
		Columns:  []string{"Title", "Department", "Location", "Type"},
		RowView:  postingRow,
	})
}

// MountApplications registers /admin/applications routes.
func (h *AdminHandler) MountApplications(r chi.Router) {
	r.Get("/{id}/resume", h.resume)
	admin.Mount(r, admin.Page[Application]{
		Manager:  h.applications,
		Renderer: h.renderer,
		Logger:   h.logger,
		Title:    "Applications",
		Base:     "/admin/applications",
		Columns:  []string{"Applicant", "Email", "Phone", "Position", "Applied"},
		RowView:  applicationRow,
	})
}

func postingRow(p Posting) admin.Row {
	return admin.Row{
		ID:     p.ID.String(),
		Cells:  []string{p.Title, p.Department, p.Location, p.Type},
		Status: p.Status(),
		Links:  []admin.Link{{Label: "Edit", Href: "/admin/jobs/" + p.ID.String() + "/edit"}},
	}
}

func applicationRow(a Application) admin.Row {
	links := []admin.Link{{Label: "Resume", Href: "/admin/applications/" + a.ID.String() + "/resume"}}
	if a.PortfolioURL != "" {
		links = append(links, admin.Link{Label: "Portfolio", Href: a.PortfolioURL})
	}
	return admin.Row{
		ID:     a.ID.String(),
		Cells:  []string{a.FullName, a.Email, a.Phone, a.PostingTitle, view.FormatDay(a.CreatedAt)},
		Status: a.Status,
		Links:  links,
	}
}

type postingForm struct {
	Action string
	Form   PostingInput
	Errors shared.FormErrors
	Types  []string
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, title string, data postingForm) {
	data.Types = EmploymentTypes
	h.renderer.Page(w, r, status, "admin/job_form.html", title, data)
}

func (h *AdminHandler) newPosting(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, http.StatusOK, "Create Job Posting", postingForm{
		Action: "/admin/jobs",
		Form:   PostingInput{Type: "Full-time", IsActive: true},
	})
}

func (h *AdminHandler) editPosting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	p, err := h.service.Posting(r.Context(), id)
	if errors.Is(err, shared.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		h.logger.Error("load job posting", slog.Any("error", err))
		h.renderer.RedirectWithFlash(w, r, "/admin/jobs", shared.FlashError, "Failed to fetch job postings")
		return
	}
	h.renderForm(w, r, http.StatusOK, "Edit Job Posting", postingForm{Action: "/admin/jobs/" + id.String(), Form: InputFrom(p)})
}

func postingInputFrom(r *http.Request) PostingInput {
	return PostingInput{
		Title:            r.PostFormValue("title"),
		Department:       r.PostFormValue("department"),
		Location:         r.PostFormValue("location"),
		Type:             r.PostFormValue("type"),
		Description:      strings.TrimSpace(r.PostFormValue("description")),
		Requirements:     strings.TrimSpace(r.PostFormValue("requirements")),
		Responsibilities: strings.TrimSpace(r.PostFormValue("responsibilities")),
		SalaryRange:      r.PostFormValue("salary_range"),
		IsActive:         r.PostFormValue("is_active") != "",
	}
}

func (h *AdminHandler) createPosting(w http.ResponseWriter, r *http.Request) {
	h.savePosting(w, r, nil, "/admin/jobs", "Create Job Posting", "Job posting created")
}

func (h *AdminHandler) updatePosting(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	h.savePosting(w, r, &id, "/admin/jobs/"+id.String(), "Edit Job Posting", "Job posting updated")
}

func (h *AdminHandler) savePosting(w http.ResponseWriter, r *http.Request, id *uuid.UUID, action, title, success string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	in := postingInputFrom(r)
	_, err := h.service.SavePosting(r.Context(), shared.ActorFromContext(r.Context()), id, in)
	var invalid *shared.InvalidForm
	switch {
	case err == nil:
		h.renderer.RedirectWithFlash(w, r, "/admin/jobs", shared.FlashSuccess, success)
	case errors.As(err, &invalid):
		h.renderForm(w, r, http.StatusBadRequest, title, postingForm{Action: action, Form: in, Errors: invalid.Errors})
	default:
		h.logger.Error("save job posting", slog.Any("error", err))
		h.renderForm(w, r, http.StatusInternalServerError, title, postingForm{
			Action: action,
			Form:   in,
			Errors: shared.FormErrors{"general": "Failed to save job posting"},
		})
	}
}

func (h *AdminHandler) resume(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	u, err := h.service.ResumeURL(r.Context(), shared.ActorFromContext(r.Context()), id)
	if err != nil {
		h.logger.Error("presign resume", slog.String("application", id.String()), slog.Any("error", err))
		h.renderer.RedirectWithFlash(w, r, "/admin/applications", shared.FlashError, "Failed to access resume")
		return
	}
	http.Redirect(w, r, u, http.StatusFound)
}
