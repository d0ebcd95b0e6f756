package access

import (
	"context"
	"log/slog"
	"net/http"
)

type verdictContextKey struct{}

// ContextWithVerdict stores the request verdict in context.
func ContextWithVerdict(ctx context.Context, v Verdict) context.Context {
	return context.WithValue(ctx, verdictContextKey{}, v)
}

// VerdictFromContext returns the verdict resolved for the request, if any.
func VerdictFromContext(ctx context.Context) (Verdict, bool) {
	v, ok := ctx.Value(verdictContextKey{}).(Verdict)
	return v, ok
}

// SessionSource adapts an incoming request to the identity session it carries.
type SessionSource func(r *http.Request) Session

// Guard gates routes on the resolved verdict.
type Guard struct {
	Resolver *Resolver
	Sessions SessionSource
	Logger   *slog.Logger
	// Expire drops the principal from a session the verifier rejected.
	Expire func(r *http.Request)

	LoginPath string
	HomePath  string
}

func (g Guard) loginPath() string {
	if g.LoginPath != "" {
		return g.LoginPath
	}
	return "/auth/login"
}

func (g Guard) homePath() string {
	if g.HomePath != "" {
		return g.HomePath
	}
	return "/"
}

// Resolve computes the verdict for r, reusing one already stored on the request.
func (g Guard) Resolve(r *http.Request) Verdict {
	if v, ok := VerdictFromContext(r.Context()); ok {
		return v
	}
	var sess Session
	if g.Sessions != nil {
		sess = g.Sessions(r)
	}
	v := g.Resolver.Resolve(r.Context(), sess)
	if v.Stale && g.Expire != nil {
		g.Expire(r)
	}
	return v
}

// Attach resolves the verdict once and stores it for templates, without gating.
func (g Guard) Attach(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := g.Resolve(r)
		next.ServeHTTP(w, r.WithContext(ContextWithVerdict(r.Context(), v)))
	})
}

// RequirePrincipal only admits signed-in principals.
func (g Guard) RequirePrincipal(next http.Handler) http.Handler {
	return g.require(func(Verdict) bool { return true }, next)
}

// RequireAdmin only admits principals whose verdict carries the admin flag.
// Other principals are sent home without an error page.
func (g Guard) RequireAdmin(next http.Handler) http.Handler {
	return g.require(func(v Verdict) bool { return v.IsAdmin }, next)
}

func (g Guard) require(allow func(Verdict) bool, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		v := g.Resolve(r)
		switch {
		case v.IsLoading:
			w.Header().Set("Retry-After", "1")
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
			return
		case !v.Authenticated():
			http.Redirect(w, r, g.loginPath(), http.StatusSeeOther)
			return
		case !allow(v):
			if g.Logger != nil {
				g.Logger.Info("access denied", slog.String("path", r.URL.Path), slog.String("principal", v.PrincipalID), slog.String("role", v.RoleName()))
			}
			http.Redirect(w, r, g.homePath(), http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithVerdict(r.Context(), v)))
	})
}
