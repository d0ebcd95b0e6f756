package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Order is a paid engagement placed by a customer.
type Order struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CustomerName  string
	CustomerEmail string
	ServiceName   string
	Description   string
	TotalAmount   *float64
	Status        lifecycle.Status
	CreatedAt     time.Time
}
