package app

import (
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/auth"
	"github.com/yessbangal/agency-web/internal/bookings"
	"github.com/yessbangal/agency-web/internal/careers"
	"github.com/yessbangal/agency-web/internal/catalog"
	"github.com/yessbangal/agency-web/internal/dashboard"
	"github.com/yessbangal/agency-web/internal/observability"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/verify"
	"github.com/yessbangal/agency-web/internal/view"
	"github.com/yessbangal/agency-web/jobs"
	"github.com/yessbangal/agency-web/web"
)

// VerifyAdminPath is where the privileged verification endpoint is served.
const VerifyAdminPath = "/functions/verify-admin"

// AdminSection mounts one back-office page below /admin.
type AdminSection struct {
	Path  string
	Mount func(r chi.Router)
}

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger         *slog.Logger
	Config         *Config
	Renderer       *view.Renderer
	SessionManager *shared.SessionManager
	CSRFManager    *shared.CSRFManager
	Guard          access.Guard
	Metrics        *observability.Metrics

	CatalogHandler   *catalog.Handler
	AuthHandler      *auth.Handler
	BookingHandler   *bookings.Handler
	CareersHandler   *careers.Handler
	DashboardHandler *dashboard.Handler
	AccessHandler    *access.Handler
	VerifyHandler    *verify.Handler
	JobHandler       *jobs.Handler

	AdminSections []AdminSection
}

// NewRouter constructs the chi.Router for the site.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:          params.Logger,
		Config:          params.Config,
		SessionManager:  params.SessionManager,
		CSRFManager:     params.CSRFManager,
		Metrics:         params.Metrics,
		CSRFExempt:      []string{VerifyAdminPath},
		PrivatePrefixes: []string{"/admin", "/dashboard", "/auth"},
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}
	if params.VerifyHandler != nil {
		r.Route(VerifyAdminPath, params.VerifyHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}

	r.Group(func(r chi.Router) {
		r.Use(params.Guard.Attach)

		if params.CatalogHandler != nil {
			params.CatalogHandler.MountRoutes(r)
		}
		r.Route("/auth", params.AuthHandler.MountRoutes)
		if params.AccessHandler != nil {
			r.Route("/api/access", params.AccessHandler.MountRoutes)
		}
		if params.BookingHandler != nil {
			r.Route("/bookings", params.BookingHandler.MountRoutes)
		}
		if params.CareersHandler != nil {
			r.Route("/careers", params.CareersHandler.MountRoutes)
		}
		if params.DashboardHandler != nil {
			r.Route("/dashboard", func(r chi.Router) {
				r.Use(params.Guard.RequirePrincipal)
				params.DashboardHandler.MountCustomer(r)
			})
		}
		r.Route("/admin", func(r chi.Router) {
			r.Use(params.Guard.RequireAdmin)
			if params.DashboardHandler != nil {
				params.DashboardHandler.MountAdmin(r)
			}
			for _, section := range params.AdminSections {
				if section.Path == "" || section.Mount == nil {
					continue
				}
				r.Route(section.Path, section.Mount)
			}
		})
	})

	if params.Renderer != nil {
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			params.Renderer.Page(w, r, http.StatusNotFound, "pages/not_found.html", "Page not found", nil)
		})
	}

	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		params.Logger.Error("create static sub filesystem", slog.Any("error", err))
	} else {
		fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))
		r.Handle("/static/*", staticCacheHandler(fileServer))
	}

	return r
}

// staticCacheHandler wraps a file server with Cache-Control headers.
func staticCacheHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=3600")
		next.ServeHTTP(w, r)
	})
}
