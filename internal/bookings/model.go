package bookings

import (
	"time"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
)

// Booking is an appointment requested by a customer.
type Booking struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	CustomerEmail string
	ServiceName   string
	BookingDate   time.Time
	BookingTime   string
	Status        lifecycle.Status
	Notes         string
	CreatedAt     time.Time
}

// NewBooking carries a validated booking request.
type NewBooking struct {
	UserID      uuid.UUID
	ServiceName string
	BookingDate time.Time
	BookingTime string
	Notes       string
}

// TimeSlots are the appointment times offered on the booking form.
var TimeSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30",
	"12:00", "12:30", "14:00", "14:30", "15:00", "15:30",
	"16:00", "16:30", "17:00", "17:30",
}

const dateLayout = "2006-01-02"
