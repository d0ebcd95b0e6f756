package app

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/verify"
	"github.com/yessbangal/agency-web/internal/view"
)

type rejectingVerifier struct{}

func (rejectingVerifier) VerifyAdmin(context.Context, string) (bool, error) {
	return false, access.ErrNotAuthenticated
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	router, _ := newRouterWithVerifier(t, nil)
	return router
}

func newRouterWithVerifier(t *testing.T, verifier access.Verifier) (http.Handler, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := shared.NewSessionManager(client, "test_session", time.Hour, false)
	csrf := shared.NewCSRFManager("router-test-secret")
	engine, err := view.NewEngine()
	require.NoError(t, err)
	renderer := &view.Renderer{Engine: engine, CSRF: csrf, Logger: logger}

	guard := access.Guard{
		Resolver: access.NewResolver(access.ResolverConfig{Verifier: verifier, Logger: logger}),
		Sessions: auth.IdentityFromRequest,
		Expire:   auth.ExpireIdentity,
	}
	return NewRouter(RouterParams{
		Logger:         logger,
		Config:         &Config{AppEnv: "test"},
		Renderer:       renderer,
		SessionManager: sessions,
		CSRFManager:    csrf,
		Guard:          guard,
		AuthHandler:    auth.NewHandler(logger, nil, renderer, sessions),
		VerifyHandler:  verify.NewHandler(nil, logger),
		AdminSections: []AdminSection{{Path: "/ping", Mount: func(r chi.Router) {
			r.Get("/", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) })
		}}},
	}), mr
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
}

func TestVerifyEndpointSkipsCSRF(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, VerifyAdminPath, nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestFormPostWithoutTokenIsForbidden(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", strings.NewReader(""))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminRedirectsAnonymousVisitorsToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/ping", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "<html")
}

func TestStaticAssetsAreCached(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "public, max-age=3600", rec.Header().Get("Cache-Control"))
}

func TestExpiredTokenOnLiveSessionLandsOnLoginForm(t *testing.T) {
	router, mr := newRouterWithVerifier(t, rejectingVerifier{})
	require.NoError(t, mr.Set("session:live-sid",
		`{"values":{"email":"ana@example.com","access_token":"expired.jwt.token"},"user_id":"8d1c6f0e-1111-4a5b-9c3d-2e7f5a6b7c8d","flashes":[]}`))
	cookie := &http.Cookie{Name: "test_session", Value: "live-sid"}

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.AddCookie(cookie)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/admin/ping")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login", rec.Header().Get("Location"))

	raw, err := mr.Get("session:live-sid")
	require.NoError(t, err)
	var stored struct {
		UserID string            `json:"user_id"`
		Values map[string]string `json:"values"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	assert.Empty(t, stored.UserID)
	assert.NotContains(t, stored.Values, "access_token")

	rec = get("/auth/login")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/auth/login"`)

	rec = get("/auth/signup")
	assert.Equal(t, http.StatusOK, rec.Code)
}
