package roles

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

type memRepo struct {
	rows    map[uuid.UUID]access.Role
	deletes int
	err     error
}

func (m *memRepo) Upsert(_ context.Context, id uuid.UUID, role access.Role) error {
	if m.err != nil {
		return m.err
	}
	m.rows[id] = role
	return nil
}

func (m *memRepo) Delete(_ context.Context, id uuid.UUID) error {
	m.deletes++
	if _, ok := m.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type auditSpy struct{ actions []string }

func (a *auditSpy) Record(_ context.Context, l shared.AuditLog) error {
	a.actions = append(a.actions, l.Action)
	return nil
}

func TestAssignKeepsOneRowPerUser(t *testing.T) {
	repo := &memRepo{rows: map[uuid.UUID]access.Role{}}
	audit := &auditSpy{}
	svc := NewService(repo, audit, nil)
	id := uuid.New()

	_, err := svc.Assign(context.Background(), "admin", id, "staff")
	require.NoError(t, err)
	role, err := svc.Assign(context.Background(), "admin", id, "Manager")
	require.NoError(t, err)

	assert.Equal(t, access.RoleManager, role)
	assert.Len(t, repo.rows, 1)
	assert.Equal(t, []string{"role.assign", "role.assign"}, audit.actions)
}

func TestAssignRejectsUnknownRole(t *testing.T) {
	repo := &memRepo{rows: map[uuid.UUID]access.Role{}}
	_, err := NewService(repo, nil, nil).Assign(context.Background(), "", uuid.New(), "root")
	assert.ErrorIs(t, err, access.ErrUnknownRole)
	assert.Empty(t, repo.rows)
}

func TestAssignSurfacesStoreFailure(t *testing.T) {
	repo := &memRepo{rows: map[uuid.UUID]access.Role{}, err: errors.New("unique violation")}
	_, err := NewService(repo, nil, nil).Assign(context.Background(), "", uuid.New(), "staff")
	assert.Error(t, err)
}

func TestRemoveRequiresConfirmation(t *testing.T) {
	id := uuid.New()
	repo := &memRepo{rows: map[uuid.UUID]access.Role{id: access.RoleStaff}}
	svc := NewService(repo, nil, nil)

	err := svc.Remove(context.Background(), "", id, lifecycle.Confirmation{})
	assert.ErrorIs(t, err, lifecycle.ErrConfirmationRequired)
	assert.Zero(t, repo.deletes)

	require.NoError(t, svc.Remove(context.Background(), "", id, lifecycle.Confirm()))
	assert.Empty(t, repo.rows)

	require.NoError(t, svc.Remove(context.Background(), "", id, lifecycle.Confirm()), "already customer")
}
