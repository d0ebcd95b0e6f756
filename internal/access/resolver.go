package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// Errors reported by collaborators of the resolver.
var (
	// ErrNotAuthenticated means the verifier rejected the bearer token.
	ErrNotAuthenticated = errors.New("access: not authenticated")
	// ErrNoAuthorization means the verifier received no bearer token.
	ErrNoAuthorization = errors.New("access: no authorization header")
	// ErrNoRole means the principal has no role assignment row.
	ErrNoRole = errors.New("access: no role assignment")
	// ErrNoToken means the session holds no access token.
	ErrNoToken = errors.New("access: session has no access token")
)

// IsStaleSession reports whether err is a verifier signal that the session is no longer valid.
func IsStaleSession(err error) bool {
	return errors.Is(err, ErrNotAuthenticated) || errors.Is(err, ErrNoAuthorization)
}

// Principal is the transient reference to the authenticated actor.
type Principal struct {
	ID        string
	Email     string
	ExpiresAt time.Time
}

// Session exposes the identity state of the current request.
type Session interface {
	Loading() bool
	Principal() (Principal, bool)
	AccessToken(ctx context.Context) (string, error)
}

// Verifier is the privileged, server-side admin check.
type Verifier interface {
	VerifyAdmin(ctx context.Context, token string) (bool, error)
}

// RoleReader reads the principal's role assignment.
type RoleReader interface {
	RoleFor(ctx context.Context, principalID string) (Role, error)
}

// Recorder observes produced verdicts.
type Recorder interface {
	RecordVerdict(state string)
}

// ResolverConfig wires the resolver collaborators.
type ResolverConfig struct {
	Verifier Verifier
	Roles    RoleReader
	Logger   *slog.Logger
	Recorder Recorder
	// MaxRestarts bounds how often resolution restarts after the principal changed mid-flight.
	MaxRestarts int
}

// Resolver computes verdicts, preferring the privileged verifier over the role table.
type Resolver struct {
	verifier    Verifier
	roles       RoleReader
	logger      *slog.Logger
	recorder    Recorder
	maxRestarts int
}

// NewResolver constructs a Resolver.
func NewResolver(cfg ResolverConfig) *Resolver {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	restarts := cfg.MaxRestarts
	if restarts <= 0 {
		restarts = 2
	}
	return &Resolver{
		verifier:    cfg.Verifier,
		roles:       cfg.Roles,
		logger:      logger,
		recorder:    cfg.Recorder,
		maxRestarts: restarts,
	}
}

// Resolve returns the verdict for the session's current principal. It never fails;
// collaborator errors degrade to a non-privileged verdict.
func (r *Resolver) Resolve(ctx context.Context, sess Session) Verdict {
	if sess == nil {
		return r.finish(unauthenticatedVerdict(""))
	}
	for attempt := 0; attempt <= r.maxRestarts; attempt++ {
		if sess.Loading() {
			return loadingVerdict()
		}
		principal, ok := sess.Principal()
		if !ok || principal.ID == "" {
			return r.finish(unauthenticatedVerdict(""))
		}

		verdict := r.resolveFor(ctx, sess, principal)

		current, ok := sess.Principal()
		if ok && current.ID == verdict.PrincipalID {
			return r.finish(verdict)
		}
		r.logger.Debug("discarding verdict for replaced principal",
			slog.String("principal", verdict.PrincipalID), slog.Int("attempt", attempt))
	}
	return r.finish(unauthenticatedVerdict(""))
}

func (r *Resolver) resolveFor(ctx context.Context, sess Session, p Principal) (verdict Verdict) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("access resolution panicked", slog.String("principal", p.ID), slog.Any("panic", rec))
			verdict = unauthenticatedVerdict(p.ID)
		}
	}()

	token, err := sess.AccessToken(ctx)
	switch {
	case err != nil || token == "":
		r.logger.Debug("no access token, using role assignment", slog.String("principal", p.ID), slog.Any("error", err))
	case r.verifier != nil:
		isAdmin, err := r.verify(ctx, token)
		switch {
		case IsStaleSession(err):
			r.logger.Info("stale session rejected by verifier", slog.String("principal", p.ID))
			return staleVerdict(p.ID)
		case err != nil:
			r.logger.Warn("admin verification unavailable", slog.String("principal", p.ID), slog.Any("error", err))
		case isAdmin:
			return authoritativeAdmin(p.ID)
		}
	}

	role, err := r.readRole(ctx, p.ID)
	switch {
	case errors.Is(err, ErrNoRole):
		return fallbackVerdict(p.ID, RoleCustomer)
	case err != nil:
		r.logger.Error("read role assignment", slog.String("principal", p.ID), slog.Any("error", err))
		return fallbackVerdict(p.ID, RoleCustomer)
	}
	return fallbackVerdict(p.ID, role)
}

func (r *Resolver) verify(ctx context.Context, token string) (ok bool, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ok, err = false, fmt.Errorf("access: verifier panic: %v", rec)
		}
	}()
	return r.verifier.VerifyAdmin(ctx, token)
}

func (r *Resolver) readRole(ctx context.Context, principalID string) (role Role, err error) {
	if r.roles == nil {
		return "", ErrNoRole
	}
	defer func() {
		if rec := recover(); rec != nil {
			role, err = "", fmt.Errorf("access: role reader panic: %v", rec)
		}
	}()
	role, err = r.roles.RoleFor(ctx, principalID)
	if err != nil {
		return "", err
	}
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, string(role))
	}
	return role, nil
}

func (r *Resolver) finish(v Verdict) Verdict {
	v.IsLoading = false
	if r.recorder != nil {
		r.recorder.RecordVerdict(v.State.String())
	}
	return v
}
