package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) (*SessionManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewSessionManager(client, "test_session", time.Hour, false), mr
}

func roundTrip(t *testing.T, sm *SessionManager, sess *Session) *Session {
	t.Helper()
	ctx := context.Background()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, sm.Commit(ctx, rec, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	loaded, err := sm.Load(ctx, next)
	require.NoError(t, err)
	return loaded
}

func TestSessionFlashSurvivesRedirect(t *testing.T) {
	sm, _ := newTestManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodPost, "/", nil))
	require.NoError(t, err)

	sess.SetUser("user-1")
	sess.AddFlash(FlashMessage{Kind: FlashSuccess, Message: "Status updated"})

	loaded := roundTrip(t, sm, sess)
	assert.Equal(t, sess.ID, loaded.ID)
	assert.Equal(t, "user-1", loaded.User())

	flash := loaded.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "Status updated", flash.Message)

	again := roundTrip(t, sm, loaded)
	assert.Nil(t, again.PopFlash(), "a flash is shown once")
}

func TestSessionUnknownCookieGetsFreshID(t *testing.T) {
	sm, _ := newTestManager(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sm.CookieName(), Value: "attacker-chosen"})

	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	assert.NotEqual(t, "attacker-chosen", sess.ID)
	assert.Empty(t, sess.User())
}

func TestSessionRenewDropsPreviousKey(t *testing.T) {
	sm, mr := newTestManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	loaded := roundTrip(t, sm, sess)
	oldID := loaded.ID
	require.True(t, mr.Exists("session:"+oldID))

	sm.Renew(loaded)
	loaded.SetUser("user-2")
	renewed := roundTrip(t, sm, loaded)

	assert.NotEqual(t, oldID, renewed.ID)
	assert.Equal(t, "user-2", renewed.User())
	assert.False(t, mr.Exists("session:"+oldID))
}

func TestSessionDestroyExpiresCookie(t *testing.T) {
	sm, mr := newTestManager(t)
	sess, err := sm.Load(context.Background(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	loaded := roundTrip(t, sm, sess)

	sm.Destroy(loaded)
	rec := httptest.NewRecorder()
	require.NoError(t, sm.Commit(context.Background(), rec, httptest.NewRequest(http.MethodGet, "/", nil), loaded))

	assert.False(t, mr.Exists("session:"+loaded.ID))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, -1, cookies[0].MaxAge)
}
