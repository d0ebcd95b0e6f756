package roles

import (
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
)

// Assignment is the single role row of a principal.
type Assignment struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Role      access.Role
	CreatedAt time.Time
}
