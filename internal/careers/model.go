package careers

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Posting is an open position listed on the careers page.
type Posting struct {
	ID               uuid.UUID
	Title            string
	Department       string
	Location         string
	Type             string
	Description      string
	Requirements     string
	Responsibilities string
	SalaryRange      string
	IsActive         bool
	CreatedAt        time.Time
}

// Slug derives the public URL segment from the title.
func (p Posting) Slug() string {
	return Slugify(p.Title)
}

// Status reports the active flag as a lifecycle status.
func (p Posting) Status() lifecycle.Status {
	return lifecycle.ActiveStatus(p.IsActive)
}

// Slugify lowercases s and joins its words with hyphens.
func Slugify(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}

// PostingInput is the admin job form.
type PostingInput struct {
	Title            string `validate:"required,max=150"`
	Department       string `validate:"required,max=100"`
	Location         string `validate:"required,max=100"`
	Type             string `validate:"required,oneof=Full-time Part-time Contract Internship"`
	Description      string `validate:"required"`
	Requirements     string `validate:"required"`
	Responsibilities string `validate:"required"`
	SalaryRange      string `validate:"max=100"`
	IsActive         bool
}

// EmploymentTypes are the values offered for PostingInput.Type.
var EmploymentTypes = []string{"Full-time", "Part-time", "Contract", "Internship"}

// InputFrom copies an existing posting into the form.
func InputFrom(p Posting) PostingInput {
	return PostingInput{
		Title:            p.Title,
		Department:       p.Department,
		Location:         p.Location,
		Type:             p.Type,
		Description:      p.Description,
		Requirements:     p.Requirements,
		Responsibilities: p.Responsibilities,
		SalaryRange:      p.SalaryRange,
		IsActive:         p.IsActive,
	}
}

// Application is a candidate's submission for a posting.
type Application struct {
	ID           uuid.UUID
	PostingID    uuid.UUID
	PostingTitle string
	FullName     string
	Email        string
	Phone        string
	PortfolioURL string
	CoverLetter  string
	ResumePath   string
	Status       lifecycle.Status
	CreatedAt    time.Time
}

// ApplicationInput is the public application form.
type ApplicationInput struct {
	FullName     string `validate:"required,min=2,max=100"`
	Email        string `validate:"required,email"`
	Phone        string `validate:"required,min=10,max=20"`
	PortfolioURL string `validate:"omitempty,url"`
	CoverLetter  string `validate:"max=2000"`
}

// Resume is the uploaded file accompanying an application.
type Resume struct {
	Filename string
	Size     int64
	File     io.ReadSeeker
}

// MaxResumeSize bounds resume uploads.
const MaxResumeSize = 5 << 20
