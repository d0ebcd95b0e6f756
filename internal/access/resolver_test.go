package access

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	loading    bool
	principals []Principal
	calls      int
	token      string
	tokenErr   error
}

func (s *fakeSession) Loading() bool { return s.loading }

// Principal returns the next principal in the sequence, repeating the last one.
func (s *fakeSession) Principal() (Principal, bool) {
	if len(s.principals) == 0 {
		return Principal{}, false
	}
	idx := s.calls
	if idx >= len(s.principals) {
		idx = len(s.principals) - 1
	}
	s.calls++
	return s.principals[idx], true
}

func (s *fakeSession) AccessToken(context.Context) (string, error) {
	return s.token, s.tokenErr
}

type fakeVerifier struct {
	isAdmin bool
	err     error
	panics  bool
	calls   int
}

func (v *fakeVerifier) VerifyAdmin(context.Context, string) (bool, error) {
	v.calls++
	if v.panics {
		panic("verifier exploded")
	}
	return v.isAdmin, v.err
}

type fakeRoles struct {
	role   Role
	err    error
	panics bool
	calls  int
}

func (f *fakeRoles) RoleFor(context.Context, string) (Role, error) {
	f.calls++
	if f.panics {
		panic("roles exploded")
	}
	return f.role, f.err
}

type countingRecorder struct {
	states []string
}

func (c *countingRecorder) RecordVerdict(state string) { c.states = append(c.states, state) }

func signedIn(id string) *fakeSession {
	return &fakeSession{principals: []Principal{{ID: id, Email: id + "@example.com"}}, token: "tok-" + id}
}

func newTestResolver(v Verifier, roles RoleReader, rec Recorder) *Resolver {
	return NewResolver(ResolverConfig{
		Verifier: v,
		Roles:    roles,
		Recorder: rec,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func TestResolveLoadingSession(t *testing.T) {
	verifier := &fakeVerifier{isAdmin: true}
	r := newTestResolver(verifier, &fakeRoles{}, nil)

	v := r.Resolve(context.Background(), &fakeSession{loading: true})

	assert.True(t, v.IsLoading)
	assert.Equal(t, StateLoading, v.State)
	assert.False(t, v.IsAdmin)
	assert.Nil(t, v.Role)
	assert.Zero(t, verifier.calls)
}

func TestResolveWithoutPrincipal(t *testing.T) {
	rec := &countingRecorder{}
	r := newTestResolver(&fakeVerifier{isAdmin: true}, &fakeRoles{role: RoleAdmin}, rec)

	for _, sess := range []Session{nil, &fakeSession{}} {
		v := r.Resolve(context.Background(), sess)
		assert.Equal(t, StateUnauthenticated, v.State)
		assert.False(t, v.IsAdmin || v.IsManager || v.IsStaff)
		assert.Nil(t, v.Role)
		assert.False(t, v.IsLoading)
	}
	assert.Equal(t, []string{"unauthenticated", "unauthenticated"}, rec.states)
}

func TestResolveNoRoleRowIsCustomer(t *testing.T) {
	r := newTestResolver(&fakeVerifier{isAdmin: false}, &fakeRoles{err: ErrNoRole}, nil)

	v := r.Resolve(context.Background(), signedIn("u1"))

	require.NotNil(t, v.Role)
	assert.Equal(t, RoleCustomer, *v.Role)
	assert.False(t, v.IsAdmin)
	assert.Equal(t, StateFallbackRole, v.State)
	assert.Equal(t, "u1", v.PrincipalID)
}

func TestResolveVerifierAdminWins(t *testing.T) {
	roles := &fakeRoles{role: RoleCustomer}
	r := newTestResolver(&fakeVerifier{isAdmin: true}, roles, nil)

	v := r.Resolve(context.Background(), signedIn("u1"))

	assert.True(t, v.IsAdmin)
	assert.Equal(t, RoleAdmin, *v.Role)
	assert.Equal(t, StateAuthoritativeAdmin, v.State)
	assert.Zero(t, roles.calls, "fallback must not be consulted")
}

func TestResolveStaleSessionSuppressesFallback(t *testing.T) {
	for _, staleErr := range []error{ErrNotAuthenticated, ErrNoAuthorization} {
		roles := &fakeRoles{role: RoleAdmin}
		r := newTestResolver(&fakeVerifier{err: staleErr}, roles, nil)

		v := r.Resolve(context.Background(), signedIn("u1"))

		assert.Equal(t, StateUnauthenticated, v.State, staleErr.Error())
		assert.True(t, v.Stale)
		assert.False(t, v.IsAdmin)
		assert.Nil(t, v.Role)
		assert.Zero(t, roles.calls)
	}
}

func TestResolveVerifierFailureFallsBack(t *testing.T) {
	roles := &fakeRoles{role: RoleManager}
	r := newTestResolver(&fakeVerifier{err: errors.New("verify-admin: status 500")}, roles, nil)

	v := r.Resolve(context.Background(), signedIn("u1"))

	assert.Equal(t, StateFallbackRole, v.State)
	assert.True(t, v.IsManager)
	assert.False(t, v.IsAdmin)
	assert.Equal(t, 1, roles.calls)
}

func TestResolveFallbackAdminRow(t *testing.T) {
	r := newTestResolver(&fakeVerifier{isAdmin: false}, &fakeRoles{role: RoleAdmin}, nil)

	v := r.Resolve(context.Background(), signedIn("u1"))

	assert.True(t, v.IsAdmin)
	assert.Equal(t, StateFallbackRole, v.State)
}

func TestResolveFallbackErrorFailsClosed(t *testing.T) {
	cases := map[string]*fakeRoles{
		"read error":   {err: errors.New("connection refused")},
		"unknown role": {role: Role("superuser")},
		"panic":        {panics: true},
	}
	for name, roles := range cases {
		t.Run(name, func(t *testing.T) {
			r := newTestResolver(&fakeVerifier{err: errors.New("timeout")}, roles, nil)

			v := r.Resolve(context.Background(), signedIn("u1"))

			require.NotNil(t, v.Role)
			assert.Equal(t, RoleCustomer, *v.Role)
			assert.False(t, v.IsAdmin || v.IsManager || v.IsStaff)
		})
	}
}

func TestResolveMissingTokenSkipsVerifier(t *testing.T) {
	verifier := &fakeVerifier{isAdmin: true}
	sess := signedIn("u1")
	sess.token = ""
	sess.tokenErr = ErrNoToken
	r := newTestResolver(verifier, &fakeRoles{role: RoleStaff}, nil)

	v := r.Resolve(context.Background(), sess)

	assert.Zero(t, verifier.calls)
	assert.True(t, v.IsStaff)
}

func TestResolveVerifierPanicFallsBack(t *testing.T) {
	r := newTestResolver(&fakeVerifier{panics: true}, &fakeRoles{err: ErrNoRole}, nil)

	v := r.Resolve(context.Background(), signedIn("u1"))

	assert.Equal(t, RoleCustomer, *v.Role)
	assert.False(t, v.IsAdmin)
}

func TestResolveDiscardsVerdictForReplacedPrincipal(t *testing.T) {
	// The first resolution runs for "old"; the session then reports "new" from then on.
	sess := &fakeSession{
		principals: []Principal{{ID: "old"}, {ID: "new"}},
		token:      "tok",
	}
	rec := &countingRecorder{}
	r := newTestResolver(&fakeVerifier{isAdmin: true}, &fakeRoles{}, rec)

	v := r.Resolve(context.Background(), sess)

	assert.Equal(t, "new", v.PrincipalID)
	assert.True(t, v.IsAdmin)
	assert.Equal(t, []string{"authoritative_admin"}, rec.states)
}

type flappingSession struct {
	fakeSession
	n int
}

func (s *flappingSession) Principal() (Principal, bool) {
	s.n++
	return Principal{ID: string(rune('a' + s.n%26))}, true
}

func TestResolveGivesUpWhenPrincipalKeepsChanging(t *testing.T) {
	r := newTestResolver(&fakeVerifier{isAdmin: true}, &fakeRoles{}, nil)

	v := r.Resolve(context.Background(), &flappingSession{})

	assert.Equal(t, StateUnauthenticated, v.State)
	assert.False(t, v.IsAdmin)
}

func TestResolveRecordsVerdictState(t *testing.T) {
	rec := &countingRecorder{}
	r := newTestResolver(&fakeVerifier{}, &fakeRoles{role: RoleStaff}, rec)

	_ = r.Resolve(context.Background(), signedIn("u1"))

	assert.Equal(t, []string{"fallback_role"}, rec.states)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole(" Admin ")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, role)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.True(t, RoleStaff.Elevated())
	assert.False(t, RoleCustomer.Elevated())
}
