// Package verify implements the privileged admin-verification endpoint and its client.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/shared"
)

var (
	// ErrRoleCheckFailed is returned when the role store could not answer.
	ErrRoleCheckFailed = errors.New("verify: role check failed")
	// ErrUserLookupFailed is returned when the account store could not answer.
	ErrUserLookupFailed = errors.New("verify: user lookup failed")
)

// TokenParser validates access tokens.
type TokenParser interface {
	Parse(raw string) (*auth.Claims, uuid.UUID, error)
}

// UserFinder loads accounts.
type UserFinder interface {
	FindUser(ctx context.Context, id uuid.UUID) (*auth.User, error)
}

// RoleChecker answers the privileged has_role question.
type RoleChecker interface {
	HasRole(ctx context.Context, userID uuid.UUID, role access.Role) (bool, error)
}

// Service decides admin status from a bearer token.
type Service struct {
	tokens TokenParser
	users  UserFinder
	roles  RoleChecker
}

// NewService constructs the verification service.
func NewService(tokens TokenParser, users UserFinder, roles RoleChecker) *Service {
	return &Service{tokens: tokens, users: users, roles: roles}
}

// VerifyAdmin implements access.Verifier in-process.
func (s *Service) VerifyAdmin(ctx context.Context, token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, access.ErrNoAuthorization
	}
	_, userID, err := s.tokens.Parse(token)
	if err != nil {
		return false, fmt.Errorf("%w: %w", access.ErrNotAuthenticated, err)
	}
	user, err := s.users.FindUser(ctx, userID)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return false, access.ErrNotAuthenticated
	case err != nil:
		return false, fmt.Errorf("%w: %w", ErrUserLookupFailed, err)
	case user == nil || !user.IsActive:
		return false, access.ErrNotAuthenticated
	}
	ok, err := s.roles.HasRole(ctx, userID, access.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrRoleCheckFailed, err)
	}
	return ok, nil
}

var _ access.Verifier = (*Service)(nil)
