package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
)

// SessionIdentity exposes a cookie session as the identity state the access resolver reads.
type SessionIdentity struct {
	sess *shared.Session
}

// NewSessionIdentity wraps sess. A nil session reports itself as still loading.
func NewSessionIdentity(sess *shared.Session) *SessionIdentity {
	return &SessionIdentity{sess: sess}
}

// IdentityFromRequest adapts the request session for access.Guard.
func IdentityFromRequest(r *http.Request) access.Session {
	return NewSessionIdentity(shared.SessionFromContext(r.Context()))
}

// Loading reports whether the session has not been loaded yet.
func (s *SessionIdentity) Loading() bool { return s.sess == nil }

// Principal returns the signed-in principal.
func (s *SessionIdentity) Principal() (access.Principal, bool) {
	if s.sess == nil || s.sess.User() == "" {
		return access.Principal{}, false
	}
	p := access.Principal{ID: s.sess.User(), Email: s.sess.Get(sessionKeyEmail)}
	if raw := s.sess.Get(sessionKeyTokenExpires); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			p.ExpiresAt = t
		}
	}
	return p, true
}

// AccessToken returns the bearer token issued at login, expired or not.
func (s *SessionIdentity) AccessToken(context.Context) (string, error) {
	if s.sess == nil {
		return "", access.ErrNoToken
	}
	token := s.sess.Get(sessionKeyAccessToken)
	if token == "" {
		return "", access.ErrNoToken
	}
	return token, nil
}

// signIn records the principal and its access token on the session.
func signIn(sess *shared.Session, user *User, token string, expires time.Time) {
	sess.SetUser(user.ID.String())
	sess.Set(sessionKeyEmail, user.Email)
	sess.Set(sessionKeyAccessToken, token)
	sess.Set(sessionKeyTokenExpires, expires.UTC().Format(time.RFC3339))
}

// signOut drops the principal and its token, keeping flashes and the CSRF secret.
func signOut(sess *shared.Session) {
	sess.SetUser("")
	sess.Delete(sessionKeyEmail)
	sess.Delete(sessionKeyAccessToken)
	sess.Delete(sessionKeyTokenExpires)
}

// ExpireIdentity signs out the request session after its token was rejected.
func ExpireIdentity(r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		signOut(sess)
	}
}
