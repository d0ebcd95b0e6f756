package cli

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/jobs"
)

type settingsSpy struct{ got map[string]string }

func (s *settingsSpy) Set(_ context.Context, key, value string) error {
	if s.got == nil {
		s.got = map[string]string{}
	}
	s.got[key] = value
	return nil
}

type accounts map[string]uuid.UUID

func (a accounts) FindByEmail(_ context.Context, email string) (*auth.User, error) {
	id, ok := a[email]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &auth.User{ID: id, Email: email}, nil
}

type assignSpy struct {
	user uuid.UUID
	role string
}

func (s *assignSpy) Assign(_ context.Context, _ string, userID uuid.UUID, raw string) (access.Role, error) {
	s.user, s.role = userID, raw
	return access.ParseRole(raw)
}

func TestSetSettingRejectsUnknownKeys(t *testing.T) {
	spy := &settingsSpy{}
	c := &OpsCLI{Settings: spy}

	require.NoError(t, c.SetSetting(context.Background(), "site_name", "Yess"))
	assert.Equal(t, "Yess", spy.got["site_name"])
	assert.Error(t, c.SetSetting(context.Background(), "favicon", "x"))
}

func TestAssignRole(t *testing.T) {
	id := uuid.New()
	spy := &assignSpy{}
	c := &OpsCLI{Accounts: accounts{"ann@example.com": id}, Roles: spy}

	role, err := c.AssignRole(context.Background(), "ann@example.com", "manager")
	require.NoError(t, err)
	assert.Equal(t, access.RoleManager, role)
	assert.Equal(t, id, spy.user)

	_, err = c.AssignRole(context.Background(), "ann@example.com", "owner")
	assert.ErrorIs(t, err, access.ErrUnknownRole)

	_, err = c.AssignRole(context.Background(), "bob@example.com", "staff")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestMaintenanceTask(t *testing.T) {
	task, err := MaintenanceTask(jobs.TaskSessionsPrune)
	require.NoError(t, err)
	assert.Equal(t, jobs.TaskSessionsPrune, task.Type())

	_, err = MaintenanceTask("mail:send")
	assert.Error(t, err)
}
