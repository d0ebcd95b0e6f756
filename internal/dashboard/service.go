// Package dashboard assembles the admin overview and the customer account page.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yessbangal/agency-web/internal/bookings"
	"github.com/yessbangal/agency-web/internal/careers"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/orders"
	"github.com/yessbangal/agency-web/internal/users"
)

// RecentLimit is how many recent applications and bookings the overview shows.
const RecentLimit = 3

// UserCounter counts accounts.
type UserCounter interface {
	CountUsers(ctx context.Context) (int, error)
}

// CareerSource provides hiring figures.
type CareerSource interface {
	CountApplications(ctx context.Context, status lifecycle.Status) (int, error)
	CountActivePostings(ctx context.Context) (int, error)
	RecentApplications(ctx context.Context, limit int) ([]careers.Application, error)
}

// BookingSource provides booking figures and the customer's bookings.
type BookingSource interface {
	CountOn(ctx context.Context, day time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]bookings.Booking, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]bookings.Booking, error)
}

// OrderSource provides order figures and the customer's orders.
type OrderSource interface {
	CountByStatus(ctx context.Context, status lifecycle.Status) (int, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]orders.Order, error)
}

// ProfileSource reads and updates the customer's own profile.
type ProfileSource interface {
	Profile(ctx context.Context, id uuid.UUID) (users.Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in users.ProfileInput) error
}

// Stats is the admin overview.
type Stats struct {
	TotalUsers          int
	PendingApplications int
	TodayBookings       int
	PendingOrders       int
	ActiveJobs          int
	RecentApplications  []careers.Application
	RecentBookings      []bookings.Booking
}

// Account is the customer dashboard.
type Account struct {
	Profile  users.Profile
	Orders   []orders.Order
	Bookings []bookings.Booking
}

// Service loads dashboard data.
type Service struct {
	users    UserCounter
	careers  CareerSource
	bookings BookingSource
	orders   OrderSource
	profiles ProfileSource
	now      func() time.Time
}

// Sources wires a Service.
type Sources struct {
	Users    UserCounter
	Careers  CareerSource
	Bookings BookingSource
	Orders   OrderSource
	Profiles ProfileSource
}

// NewService constructs the dashboard service.
func NewService(src Sources) *Service {
	return &Service{
		users:    src.Users,
		careers:  src.Careers,
		bookings: src.Bookings,
		orders:   src.Orders,
		profiles: src.Profiles,
		now:      time.Now,
	}
}

// Stats fetches every overview figure concurrently.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalUsers, err = s.users.CountUsers(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.PendingApplications, err = s.careers.CountApplications(gctx, lifecycle.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		st.TodayBookings, err = s.bookings.CountOn(gctx, s.now())
		return err
	})
	g.Go(func() (err error) {
		st.PendingOrders, err = s.orders.CountByStatus(gctx, lifecycle.StatusPending)
		return err
	})
	g.Go(func() (err error) {
		st.ActiveJobs, err = s.careers.CountActivePostings(gctx)
		return err
	})
	g.Go(func() (err error) {
		st.RecentApplications, err = s.careers.RecentApplications(gctx, RecentLimit)
		return err
	})
	g.Go(func() (err error) {
		st.RecentBookings, err = s.bookings.Recent(gctx, RecentLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		return Stats{}, fmt.Errorf("dashboard: stats: %w", err)
	}
	return st, nil
}

// Account loads the customer's profile, orders and bookings.
func (s *Service) Account(ctx context.Context, userID uuid.UUID) (Account, error) {
	var acc Account
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		acc.Profile, err = s.profiles.Profile(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		acc.Orders, err = s.orders.ListByUser(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		acc.Bookings, err = s.bookings.ListByUser(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return Account{}, fmt.Errorf("dashboard: account: %w", err)
	}
	return acc, nil
}

// UpdateProfile stores the customer's profile form.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in users.ProfileInput) error {
	return s.profiles.UpdateProfile(ctx, userID, in)
}
