package users

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

type stubRepo struct {
	profiles []Profile
	got      ListFilters
}

func (s *stubRepo) ListUsers(_ context.Context, f ListFilters) ([]Profile, int, error) {
	s.got = f
	return s.profiles, len(s.profiles), nil
}

func (s *stubRepo) Get(_ context.Context, id uuid.UUID) (Profile, error) {
	for _, p := range s.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, shared.ErrNotFound
}

func (s *stubRepo) UpdateProfile(_ context.Context, id uuid.UUID, in ProfileInput) error {
	for i, p := range s.profiles {
		if p.ID == id {
			s.profiles[i].FullName = in.FullName
			s.profiles[i].Phone = in.Phone
			s.profiles[i].Address = in.Address
			return nil
		}
	}
	return shared.ErrNotFound
}

func TestUpdateProfile(t *testing.T) {
	id := uuid.New()
	repo := &stubRepo{profiles: []Profile{{ID: id, Email: "a@example.com"}}}
	svc := NewService(repo)

	err := svc.UpdateProfile(context.Background(), id, ProfileInput{FullName: "A"})
	var invalid *shared.InvalidForm
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Must be at least 2 characters", invalid.Errors["FullName"])

	require.NoError(t, svc.UpdateProfile(context.Background(), id, ProfileInput{FullName: " Ann Lee ", Address: "Mirpur"}))
	assert.Equal(t, "Ann Lee", repo.profiles[0].FullName)
	assert.Equal(t, "Mirpur", repo.profiles[0].Address)

	assert.ErrorIs(t, svc.UpdateProfile(context.Background(), uuid.New(), ProfileInput{FullName: "Bob"}), shared.ErrNotFound)
}

func TestListUsersDefaultsPaging(t *testing.T) {
	repo := &stubRepo{profiles: []Profile{{ID: uuid.New(), Email: "a@example.com", Role: access.RoleCustomer}}}
	rows, pg, err := NewService(repo).ListUsers(context.Background(), ListFilters{})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 20, repo.got.PerPage)
	assert.Equal(t, 1, pg.Page)
	assert.Equal(t, 1, pg.TotalPages)
}

func TestLabel(t *testing.T) {
	id := uuid.New()
	svc := NewService(&stubRepo{profiles: []Profile{{ID: id, Email: "a@example.com", FullName: "Ann"}}})

	label, err := svc.Label(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ann (a@example.com)", label)

	_, err = svc.Label(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUsersPageOffersExactlyTheFourRoles(t *testing.T) {
	engine, err := view.NewEngine()
	require.NoError(t, err)
	repo := &stubRepo{profiles: []Profile{
		{ID: uuid.New(), Email: "staff@example.com", Role: access.RoleStaff, Assigned: true},
	}}
	h := NewHandler(nil, NewService(repo), &view.Renderer{Engine: engine})

	rec := httptest.NewRecorder()
	h.listUsers(rec, httptest.NewRequest(http.MethodGet, "/admin/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "staff@example.com")
	for _, role := range access.Roles() {
		assert.Contains(t, body, `<option value="`+role.String()+`"`)
	}
	assert.Equal(t, len(access.Roles()), strings.Count(body, "<option value="))
}

