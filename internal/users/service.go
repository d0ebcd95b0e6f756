package users

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	ListUsers(ctx context.Context, filters ListFilters) ([]Profile, int, error)
	Get(ctx context.Context, id uuid.UUID) (Profile, error)
	UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) error
}

// Service handles user listing and self-service profiles.
type Service struct {
	repo      RepositoryPort
	validator *validator.Validate
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo, validator: validator.New()}
}

// ListUsers returns one page of profiles with pagination metadata.
func (s *Service) ListUsers(ctx context.Context, filters ListFilters) ([]Profile, shared.Pagination, error) {
	if filters.PerPage <= 0 {
		filters.PerPage = 20
	}
	rows, total, err := s.repo.ListUsers(ctx, filters)
	if err != nil {
		return nil, shared.Pagination{}, fmt.Errorf("list users: %w", err)
	}
	return rows, shared.NewPagination(filters.Page, filters.PerPage, total), nil
}

// Label returns a human-readable name for a user.
func (s *Service) Label(ctx context.Context, id uuid.UUID) (string, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if p.FullName != "" {
		return p.FullName + " (" + p.Email + ")", nil
	}
	return p.Email, nil
}

// Profile loads one account.
func (s *Service) Profile(ctx context.Context, id uuid.UUID) (Profile, error) {
	return s.repo.Get(ctx, id)
}

// UpdateProfile validates and stores the profile fields of id.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, in ProfileInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	if err := s.validator.Struct(in); err != nil {
		return &shared.InvalidForm{Errors: shared.ValidationErrors(err)}
	}
	if err := s.repo.UpdateProfile(ctx, id, in); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
