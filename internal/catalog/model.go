// Package catalog holds the marketing content managed from the back office: services, portfolio items and team members.
package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Service is an offering shown on the services page and in the booking form.
type Service struct {
	ID           uuid.UUID
	Title        string
	Description  string
	Icon         string
	Features     []string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// Status reports the active flag as a lifecycle status.
func (s Service) Status() lifecycle.Status { return lifecycle.ActiveStatus(s.IsActive) }

// PortfolioItem is a showcased project.
type PortfolioItem struct {
	ID              uuid.UUID
	Title           string
	Slug            string
	Description     string
	FullDescription string
	Category        string
	ImageURL        string
	Technologies    []string
	ClientName      string
	LiveURL         string
	GitHubURL       string
	CompletionDate  *time.Time
	IsFeatured      bool
	IsActive        bool
	DisplayOrder    int
	CreatedAt       time.Time
}

// Status reports the active flag as a lifecycle status.
func (p PortfolioItem) Status() lifecycle.Status { return lifecycle.ActiveStatus(p.IsActive) }

// TeamMember is a person listed on the about page.
type TeamMember struct {
	ID           uuid.UUID
	Name         string
	Role         string
	Bio          string
	ImageURL     string
	LinkedInURL  string
	TwitterURL   string
	Email        string
	DisplayOrder int
	IsActive     bool
	CreatedAt    time.Time
}

// Status reports the active flag as a lifecycle status.
func (m TeamMember) Status() lifecycle.Status { return lifecycle.ActiveStatus(m.IsActive) }
