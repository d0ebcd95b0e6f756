package bookings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/shared"
)

const idempotencyModule = "bookings"

// Idempotency guards against duplicate form submissions.
type Idempotency interface {
	CheckAndInsert(ctx context.Context, key, module string) error
	Delete(ctx context.Context, key string) error
}

// Request is the customer booking form.
type Request struct {
	ServiceName string `validate:"required,max=200"`
	BookingDate string `validate:"required,datetime=2006-01-02"`
	BookingTime string `validate:"required"`
	Notes       string `validate:"max=500"`
}

// Service handles customer booking requests.
type Service struct {
	repo      Repository
	idem      Idempotency
	validator *validator.Validate
	now       func() time.Time
}

// NewService constructs the booking service. idem may be nil.
func NewService(repo Repository, idem Idempotency) *Service {
	return &Service{repo: repo, idem: idem, validator: validator.New(), now: time.Now}
}

// Validate checks the form and returns the normalised booking.
func (s *Service) Validate(userID uuid.UUID, req Request) (NewBooking, error) {
	req.ServiceName = strings.TrimSpace(req.ServiceName)
	req.Notes = strings.TrimSpace(req.Notes)
	if err := s.validator.Struct(req); err != nil {
		errs := shared.ValidationErrors(err)
		if errs.Has("Notes") {
			errs["Notes"] = "Notes must be less than 500 characters"
		}
		return NewBooking{}, &shared.InvalidForm{Errors: errs}
	}
	if !slices.Contains(TimeSlots, req.BookingTime) {
		return NewBooking{}, shared.NewInvalidForm("BookingTime", "Please choose one of the listed options")
	}
	day, _ := time.ParseInLocation(dateLayout, req.BookingDate, time.Local)
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	if day.Before(today) {
		return NewBooking{}, shared.NewInvalidForm("BookingDate", "Please choose a date from today onwards")
	}
	return NewBooking{
		UserID:      userID,
		ServiceName: req.ServiceName,
		BookingDate: day,
		BookingTime: req.BookingTime,
		Notes:       req.Notes,
	}, nil
}

// Book validates and stores a pending booking owned by userID.
// A non-empty key makes resubmission of the same form a no-op reported as shared.ErrIdempotencyConflict.
func (s *Service) Book(ctx context.Context, userID uuid.UUID, key string, req Request) (Booking, error) {
	in, err := s.Validate(userID, req)
	if err != nil {
		return Booking{}, err
	}
	if key != "" && s.idem != nil {
		if err := s.idem.CheckAndInsert(ctx, key, idempotencyModule); err != nil {
			return Booking{}, err
		}
	}
	b, err := s.repo.Create(ctx, in)
	if err != nil {
		if key != "" && s.idem != nil {
			if derr := s.idem.Delete(ctx, key); derr != nil {
				err = errors.Join(err, derr)
			}
		}
		return Booking{}, fmt.Errorf("bookings: create: %w", err)
	}
	return b, nil
}

// ForUser lists the bookings owned by userID.
func (s *Service) ForUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}
