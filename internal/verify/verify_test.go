package verify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/shared"
)

type userStub struct {
	users map[uuid.UUID]*auth.User
	err   error
}

func (u userStub) FindUser(_ context.Context, id uuid.UUID) (*auth.User, error) {
	if u.err != nil {
		return nil, u.err
	}
	if user, ok := u.users[id]; ok {
		return user, nil
	}
	return nil, shared.ErrNotFound
}

type roleStub struct {
	admins map[uuid.UUID]bool
	err    error
}

func (r roleStub) HasRole(_ context.Context, id uuid.UUID, role access.Role) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	return role == access.RoleAdmin && r.admins[id], nil
}

type fixture struct {
	tokens *auth.TokenManager
	admin  *auth.User
	member *auth.User
	roles  roleStub
}

func newFixture() *fixture {
	admin := &auth.User{ID: uuid.New(), Email: "admin@example.com", IsActive: true}
	member := &auth.User{ID: uuid.New(), Email: "member@example.com", IsActive: true}
	return &fixture{
		tokens: auth.NewTokenManager("test-secret-0123456789", "agency", time.Hour),
		admin:  admin,
		member: member,
		roles:  roleStub{admins: map[uuid.UUID]bool{admin.ID: true}},
	}
}

func (f *fixture) service() *Service {
	users := userStub{users: map[uuid.UUID]*auth.User{f.admin.ID: f.admin, f.member.ID: f.member}}
	return NewService(f.tokens, users, f.roles)
}

func (f *fixture) token(t *testing.T, u *auth.User) string {
	t.Helper()
	tok, _, err := f.tokens.Issue(u)
	require.NoError(t, err)
	return tok
}

func (f *fixture) server() *httptest.Server {
	r := chi.NewRouter()
	r.Route("/functions/verify-admin", NewHandler(f.service(), slog.New(slog.NewTextHandler(io.Discard, nil))).MountRoutes)
	return httptest.NewServer(r)
}

func TestServiceVerifyAdmin(t *testing.T) {
	f := newFixture()
	svc := f.service()

	ok, err := svc.VerifyAdmin(context.Background(), f.token(t, f.admin))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.VerifyAdmin(context.Background(), f.token(t, f.member))
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.VerifyAdmin(context.Background(), "")
	assert.ErrorIs(t, err, access.ErrNoAuthorization)

	_, err = svc.VerifyAdmin(context.Background(), "garbage")
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)

	ghost := &auth.User{ID: uuid.New()}
	_, err = svc.VerifyAdmin(context.Background(), f.token(t, ghost))
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
}

func TestServiceRoleCheckFailure(t *testing.T) {
	f := newFixture()
	f.roles.err = errors.New("function has_role does not exist")

	_, err := f.service().VerifyAdmin(context.Background(), f.token(t, f.admin))
	assert.ErrorIs(t, err, ErrRoleCheckFailed)
}

func TestServiceUserStoreOutageIsNotStale(t *testing.T) {
	f := newFixture()
	users := userStub{err: errors.New("dial tcp 10.0.0.5:5432: connection refused")}
	svc := NewService(f.tokens, users, f.roles)

	_, err := svc.VerifyAdmin(context.Background(), f.token(t, f.admin))
	require.ErrorIs(t, err, ErrUserLookupFailed)
	assert.False(t, access.IsStaleSession(err))

	resolver := access.NewResolver(access.ResolverConfig{
		Verifier: svc,
		Roles:    staticRole(access.RoleStaff),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	v := resolver.Resolve(context.Background(), staticSession{id: f.admin.ID.String(), token: f.token(t, f.admin)})
	assert.Equal(t, access.StateFallbackRole, v.State)
	assert.True(t, v.IsStaff)
}

func TestServiceInactiveUserIsStale(t *testing.T) {
	f := newFixture()
	f.member.IsActive = false

	_, err := f.service().VerifyAdmin(context.Background(), f.token(t, f.member))
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
}

func TestHandlerResponses(t *testing.T) {
	f := newFixture()
	f.member.IsActive = true
	srv := f.server()
	defer srv.Close()

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"admin", "Bearer " + f.token(t, f.admin), http.StatusOK, `{"isAdmin":true}`},
		{"member", "Bearer " + f.token(t, f.member), http.StatusOK, `{"isAdmin":false}`},
		{"missing header", "", http.StatusUnauthorized, `{"isAdmin":false,"error":"No authorization header"}`},
		{"bad token", "Bearer nope", http.StatusUnauthorized, `{"isAdmin":false,"error":"Not authenticated"}`},
		{"not bearer", "Basic abc", http.StatusUnauthorized, `{"isAdmin":false,"error":"Not authenticated"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/functions/verify-admin", nil)
			require.NoError(t, err)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			res, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer res.Body.Close()
			raw, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.status, res.StatusCode)
			assert.JSONEq(t, tc.body, string(raw))
			assert.Equal(t, "*", res.Header.Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestHandlerRoleFailureIs500(t *testing.T) {
	f := newFixture()
	f.roles.err = errors.New("db down")
	srv := f.server()
	defer srv.Close()

	client := NewClient(srv.URL+"/functions/verify-admin", time.Second)
	_, err := client.VerifyAdmin(context.Background(), f.token(t, f.admin))

	require.Error(t, err)
	assert.False(t, access.IsStaleSession(err))
	assert.Contains(t, err.Error(), "Failed to verify role")
}

func TestHandlerPreflight(t *testing.T) {
	f := newFixture()
	srv := f.server()
	defer srv.Close()

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/functions/verify-admin", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "authorization, x-client-info, apikey, content-type", res.Header.Get("Access-Control-Allow-Headers"))
}

func TestClientRoundTrip(t *testing.T) {
	f := newFixture()
	srv := f.server()
	defer srv.Close()
	client := NewClient(srv.URL+"/functions/verify-admin", time.Second)

	ok, err := client.VerifyAdmin(context.Background(), f.token(t, f.admin))
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = client.VerifyAdmin(context.Background(), "")
	assert.ErrorIs(t, err, access.ErrNoAuthorization)

	_, err = client.VerifyAdmin(context.Background(), "expired-or-forged")
	assert.ErrorIs(t, err, access.ErrNotAuthenticated)
}

func TestClientTransportFailureIsNotStale(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).VerifyAdmin(context.Background(), "tok")
	require.Error(t, err)
	assert.False(t, access.IsStaleSession(err))
}

func TestClientFeedsResolverFallbackOn500(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"isAdmin":false,"error":"Internal server error"}`))
	}))
	defer srv.Close()

	resolver := access.NewResolver(access.ResolverConfig{
		Verifier: NewClient(srv.URL, time.Second),
		Roles:    staticRole(access.RoleManager),
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	v := resolver.Resolve(context.Background(), staticSession{id: "u1"})

	assert.Equal(t, access.StateFallbackRole, v.State)
	assert.True(t, v.IsManager)
}

type staticRole access.Role

func (s staticRole) RoleFor(context.Context, string) (access.Role, error) { return access.Role(s), nil }

type staticSession struct{ id, token string }

func (s staticSession) Loading() bool { return false }
func (s staticSession) Principal() (access.Principal, bool) {
	return access.Principal{ID: s.id}, true
}
func (s staticSession) AccessToken(context.Context) (string, error) {
	if s.token == "" {
		return "tok", nil
	}
	return s.token, nil
}
