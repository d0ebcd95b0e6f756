package careers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

// ResumeURLTTL bounds how long an admin resume link stays valid.
const ResumeURLTTL = time.Hour

var acceptedResumeTypes = []string{
	"application/pdf",
	"application/msword",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

var acceptedResumeExts = []string{".pdf", ".doc", ".docx"}

// ObjectStore keeps uploaded resumes.
type ObjectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

// Mailer queues outgoing email.
type Mailer interface {
	EnqueueMail(ctx context.Context, to, subject, body string) error
}

// Service implements the careers use cases.
type Service struct {
	repo      Repository
	store     ObjectStore
	mailer    Mailer
	audit     lifecycle.Auditor
	logger    *slog.Logger
	validator *validator.Validate
}

// NewService wires the careers service. mailer and audit may be nil.
func NewService(repo Repository, store ObjectStore, mailer Mailer, audit lifecycle.Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, store: store, mailer: mailer, audit: audit, logger: logger, validator: validator.New()}
}

// ActivePostings lists positions open to applicants.
func (s *Service) ActivePostings(ctx context.Context) ([]Posting, error) {
	return s.repo.ActivePostings(ctx)
}

// PostingBySlug finds an active posting by its title slug.
func (s *Service) PostingBySlug(ctx context.Context, slug string) (Posting, error) {
	postings, err := s.repo.ActivePostings(ctx)
	if err != nil {
		return Posting{}, err
	}
	for _, p := range postings {
		if p.Slug() == slug {
			return p, nil
		}
	}
	return Posting{}, shared.ErrNotFound
}

// Posting loads one posting regardless of its active flag.
func (s *Service) Posting(ctx context.Context, id uuid.UUID) (Posting, error) {
	return s.repo.GetPosting(ctx, id)
}

// SavePosting creates a posting when id is nil, otherwise updates it.
func (s *Service) SavePosting(ctx context.Context, actor string, id *uuid.UUID, in PostingInput) (uuid.UUID, error) {
	in = trimPosting(in)
	if err := s.validator.Struct(in); err != nil {
		return uuid.Nil, &shared.InvalidForm{Errors: shared.ValidationErrors(err)}
	}
	var target uuid.UUID
	action := "job_postings.update"
	if id == nil {
		p, err := s.repo.CreatePosting(ctx, in)
		if err != nil {
			return uuid.Nil, fmt.Errorf("careers: create posting: %w", err)
		}
		target = p.ID
		action = "job_postings.create"
	} else {
		if err := s.repo.UpdatePosting(ctx, *id, in); err != nil {
			return uuid.Nil, fmt.Errorf("careers: update posting: %w", err)
		}
		target = *id
	}
	s.record(ctx, actor, action, "job_postings", target, map[string]any{"title": in.Title, "is_active": in.IsActive})
	return target, nil
}

func trimPosting(in PostingInput) PostingInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Department = strings.TrimSpace(in.Department)
	in.Location = strings.TrimSpace(in.Location)
	in.SalaryRange = strings.TrimSpace(in.SalaryRange)
	return in
}

// Apply stores the resume and a pending application for an active posting.
// The uploaded object is removed again when the application row cannot be written.
func (s *Service) Apply(ctx context.Context, postingID uuid.UUID, in ApplicationInput, resume *Resume) (Application, error) {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.PortfolioURL = strings.TrimSpace(in.PortfolioURL)
	in.CoverLetter = strings.TrimSpace(in.CoverLetter)

	errs := FormErrors(s.validator.Struct(in))
	contentType, resumeErr := checkResume(resume)
	if resumeErr != "" {
		errs["Resume"] = resumeErr
	}
	if len(errs) > 0 {
		return Application{}, &shared.InvalidForm{Errors: errs}
	}

	posting, err := s.repo.GetPosting(ctx, postingID)
	if err != nil {
		return Application{}, err
	}
	if !posting.IsActive {
		return Application{}, shared.ErrNotFound
	}

	key := "applications/" + uuid.NewString() + strings.ToLower(filepath.Ext(resume.Filename))
	if err := s.store.Upload(ctx, key, resume.File, resume.Size, contentType); err != nil {
		return Application{}, fmt.Errorf("careers: upload resume: %w", err)
	}
	app, err := s.repo.CreateApplication(ctx, Application{
		PostingID:    posting.ID,
		PostingTitle: posting.Title,
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        in.Phone,
		PortfolioURL: in.PortfolioURL,
		CoverLetter:  in.CoverLetter,
		ResumePath:   key,
		Status:       lifecycle.StatusPending,
	})
	if err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			err = errors.Join(err, derr)
		}
		return Application{}, fmt.Errorf("careers: create application: %w", err)
	}
	app.PostingTitle = posting.Title

	if s.mailer != nil {
		body := fmt.Sprintf("Hi %s,\n\nThank you for applying for the %s position. We'll review your application and contact you soon.\n", app.FullName, posting.Title)
		if err := s.mailer.EnqueueMail(ctx, app.Email, "Application received: "+posting.Title, body); err != nil {
			s.logger.Warn("enqueue application acknowledgement", slog.String("application", app.ID.String()), slog.Any("error", err))
		}
	}
	return app, nil
}

// FormErrors maps application validation failures to the messages shown on the form.
func FormErrors(err error) shared.FormErrors {
	errs := shared.ValidationErrors(err)
	overrides := map[string]string{
		"FullName":    "Name must be at least 2 characters",
		"Phone":       "Phone number must be at least 10 digits",
		"CoverLetter": "Cover letter must be less than 2000 characters",
	}
	for field, msg := range overrides {
		if current, ok := errs[field]; ok && current != "This field is required" {
			errs[field] = msg
		}
	}
	return errs
}

func checkResume(resume *Resume) (string, string) {
	if resume == nil || resume.File == nil {
		return "", "Please upload your resume"
	}
	if resume.Size > MaxResumeSize {
		return "", "File size must be less than 5MB"
	}
	if !slices.Contains(acceptedResumeExts, strings.ToLower(filepath.Ext(resume.Filename))) {
		return "", "Please upload a PDF or Word document"
	}
	mt, err := mimetype.DetectReader(resume.File)
	if err != nil {
		return "", "Please upload a PDF or Word document"
	}
	if _, err := resume.File.Seek(0, io.SeekStart); err != nil {
		return "", "Please upload a PDF or Word document"
	}
	for _, accepted := range acceptedResumeTypes {
		if mt.Is(accepted) {
			return accepted, ""
		}
	}
	return "", "Please upload a PDF or Word document"
}

// ResumeURL returns a short-lived download link for an application's resume.
func (s *Service) ResumeURL(ctx context.Context, actor string, applicationID uuid.UUID) (string, error) {
	app, err := s.repo.GetApplication(ctx, applicationID)
	if err != nil {
		return "", err
	}
	u, err := s.store.PresignedURL(ctx, app.ResumePath, ResumeURLTTL)
	if err != nil {
		return "", err
	}
	s.record(ctx, actor, "job_applications.resume", "job_applications", app.ID, nil)
	return u, nil
}

func (s *Service) record(ctx context.Context, actor, action, entity string, id uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actor,
		Action:   action,
		Entity:   entity,
		EntityID: id.String(),
		Meta:     meta,
	}); err != nil {
		s.logger.Warn("audit careers", slog.String("action", action), slog.Any("error", err))
	}
}
