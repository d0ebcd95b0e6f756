package roles

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

// RepositoryPort defines data access methods for role assignments.
type RepositoryPort interface {
	Upsert(ctx context.Context, userID uuid.UUID, role access.Role) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// Auditor records role changes.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service handles role assignment rules.
type Service struct {
	repo   RepositoryPort
	audit  Auditor
	logger *slog.Logger
}

// NewService builds Service instance.
func NewService(repo RepositoryPort, audit Auditor, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, audit: audit, logger: logger}
}

// Assign sets the role of a user from submitted text.
func (s *Service) Assign(ctx context.Context, actor string, userID uuid.UUID, raw string) (access.Role, error) {
	role, err := access.ParseRole(raw)
	if err != nil {
		return "", err
	}
	if err := s.repo.Upsert(ctx, userID, role); err != nil {
		return "", err
	}
	s.record(ctx, actor, "role.assign", userID, map[string]any{"role": role.String()})
	return role, nil
}

// Remove deletes the role row once confirmed. A user without a row is already a customer.
func (s *Service) Remove(ctx context.Context, actor string, userID uuid.UUID, confirm lifecycle.Confirmation) error {
	if !confirm.IsConfirmed() {
		return lifecycle.ErrConfirmationRequired
	}
	if err := s.repo.Delete(ctx, userID); err != nil && !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	s.record(ctx, actor, "role.remove", userID, nil)
	return nil
}

func (s *Service) record(ctx context.Context, actor, action string, userID uuid.UUID, meta map[string]any) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, shared.AuditLog{ActorID: actor, Action: action, Entity: "user_roles", EntityID: userID.String(), Meta: meta}); err != nil {
		s.logger.Warn("audit role change", slog.Any("error", err))
	}
}
