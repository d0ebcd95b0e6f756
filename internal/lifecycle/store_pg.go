package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yessbangal/agency-web/internal/shared"
)

// Execer is the subset of pgxpool.Pool the store needs.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PGStore applies lifecycle writes to Postgres.
type PGStore struct {
	db Execer
}

// NewPGStore constructs a PGStore.
func NewPGStore(db Execer) *PGStore {
	return &PGStore{db: db}
}

// UpdateStatus writes the status column of one row.
func (s *PGStore) UpdateStatus(ctx context.Context, res Resource, id uuid.UUID, status Status) error {
	if !res.Statuses.Contains(status) {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	query := fmt.Sprintf(`UPDATE %s SET %s = $1, updated_at = NOW() WHERE id = $2`,
		pgx.Identifier{res.Table}.Sanitize(), pgx.Identifier{res.Column}.Sanitize())
	tag, err := s.db.Exec(ctx, query, res.Value(status), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Delete removes one row.
func (s *PGStore) Delete(ctx context.Context, res Resource, id uuid.UUID) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, pgx.Identifier{res.Table}.Sanitize())
	tag, err := s.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
