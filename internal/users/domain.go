package users

import (
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
)

// Profile is a user account with its effective role.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	Phone     string
	Address   string
	IsActive  bool
	CreatedAt time.Time
	Role      access.Role
	// Assigned is false when no role row exists and Role defaults to customer.
	Assigned bool
}

// ListFilters narrows the users page.
type ListFilters struct {
	Search  string
	Page    int
	PerPage int
}

// ProfileInput is the customer's editable profile.
type ProfileInput struct {
	FullName string `validate:"required,min=2,max=100"`
	Phone    string `validate:"omitempty,min=10,max=20"`
	Address  string `validate:"max=255"`
}
