package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	renderer       *view.Renderer
	sessionManager *shared.SessionManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, renderer *view.Renderer, sessions *shared.SessionManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		logger:         logger,
		service:        service,
		renderer:       renderer,
		sessionManager: sessions,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/login", h.showLogin)
	r.Post("/login", h.handleLogin)
	r.Get("/signup", h.showSignup)
	r.Post("/signup", h.handleSignup)
	r.Post("/logout", h.handleLogout)
}

type loginForm struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

type signupForm struct {
	FullName string `validate:"required,min=2,max=100"`
	Email    string `validate:"required,email"`
	Phone    string `validate:"omitempty,min=10,max=20"`
	Password string `validate:"required,min=8,max=72"`
}

type formPage[T any] struct {
	Form   T
	Errors shared.FormErrors
}

func signedIn(r *http.Request) bool {
	v, ok := access.VerdictFromContext(r.Context())
	return ok && v.Authenticated()
}

func (h *Handler) showLogin(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/login.html", "Login", formPage[loginForm]{})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during login")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	errs := shared.ValidationErrors(h.validator.Struct(form))
	if len(errs) == 0 {
		user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
		if err == nil {
			if err := h.startSession(r, sess, user); err != nil {
				h.logger.Error("start session", slog.Any("error", err))
				errs["general"] = shared.UserSafeMessage(err)
			} else {
				h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashSuccess, "Welcome back!")
				return
			}
		} else {
			errs["general"] = shared.UserSafeMessage(err)
		}
	}

	form.Password = ""
	h.renderer.Page(w, r, http.StatusBadRequest, "pages/login.html", "Login", formPage[loginForm]{Form: form, Errors: errs})
}

func (h *Handler) showSignup(w http.ResponseWriter, r *http.Request) {
	if signedIn(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	h.renderer.Page(w, r, http.StatusOK, "pages/signup.html", "Sign up", formPage[signupForm]{})
}

func (h *Handler) handleSignup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	sess := shared.SessionFromContext(r.Context())
	if sess == nil {
		h.logger.Error("session missing during signup")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	form := signupForm{
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Phone:    strings.TrimSpace(r.PostFormValue("phone")),
		Password: r.PostFormValue("password"),
	}
	errs := shared.ValidationErrors(h.validator.Struct(form))
	if len(errs) == 0 {
		user, err := h.service.Register(r.Context(), form.Email, form.Password, form.FullName, form.Phone)
		switch {
		case errors.Is(err, shared.ErrEmailTaken):
			errs["Email"] = shared.UserSafeMessage(err)
		case err != nil:
			h.logger.Error("register user", slog.Any("error", err))
			errs["general"] = shared.UserSafeMessage(err)
		default:
			if err := h.startSession(r, sess, user); err != nil {
				h.logger.Error("start session", slog.Any("error", err))
				h.renderer.RedirectWithFlash(w, r, "/auth/login", shared.FlashSuccess, "Account created. Please sign in.")
				return
			}
			h.renderer.RedirectWithFlash(w, r, "/dashboard", shared.FlashSuccess, "Account created successfully!")
			return
		}
	}

	form.Password = ""
	h.renderer.Page(w, r, http.StatusBadRequest, "pages/signup.html", "Sign up", formPage[signupForm]{Form: form, Errors: errs})
}

func (h *Handler) startSession(r *http.Request, sess *shared.Session, user *User) error {
	token, expires, err := h.service.IssueToken(user)
	if err != nil {
		return err
	}
	h.sessionManager.Renew(sess)
	signIn(sess, user, token, expires)
	if err := h.service.RegisterSession(r.Context(), sess.ID, user.ID, expires, r.RemoteAddr, r.UserAgent()); err != nil {
		h.logger.Warn("register session", slog.Any("error", err))
	}
	return nil
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess != nil {
		if err := h.service.RemoveSession(r.Context(), sess.ID); err != nil {
			h.logger.Warn("remove session", slog.Any("error", err))
		}
		h.sessionManager.Destroy(sess)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
