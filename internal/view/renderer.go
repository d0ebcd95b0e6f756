package view

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/yessbangal/agency-web/internal/access"
	"github.com/yessbangal/agency-web/internal/shared"
)

// SiteSource provides the site-wide settings shown in every layout.
type SiteSource interface {
	Values(ctx context.Context) map[string]string
}

// ConfirmPage drives the shared destructive-action confirmation template.
type ConfirmPage struct {
	Title   string
	Message string
	Action  string
	Cancel  string
}

// Renderer fills TemplateData from the request and renders pages.
type Renderer struct {
	Engine *Engine
	CSRF   *shared.CSRFManager
	Logger *slog.Logger
	Site   SiteSource
}

// Page renders the named template with request-scoped data.
func (rd *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	td := rd.templateData(r, title, data)
	if err := rd.Engine.RenderBuffered(w, status, name, td); err != nil {
		rd.logger().Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// PageWithFlash renders a page showing msg instead of any queued flash.
func (rd *Renderer) PageWithFlash(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, flash shared.FlashMessage) {
	td := rd.templateData(r, title, data)
	td.Flash = &flash
	if err := rd.Engine.RenderBuffered(w, status, name, td); err != nil {
		rd.logger().Error("render template", slog.String("template", name), slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

// RedirectWithFlash queues a flash message and redirects with 303.
func (rd *Renderer) RedirectWithFlash(w http.ResponseWriter, r *http.Request, location, kind, message string) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil && message != "" {
		sess.AddFlash(shared.FlashMessage{Kind: kind, Message: message})
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

func (rd *Renderer) templateData(r *http.Request, title string, data any) TemplateData {
	ctx := r.Context()
	sess := shared.SessionFromContext(ctx)
	td := TemplateData{
		Title:       title,
		CurrentPath: r.URL.Path,
		Data:        data,
	}
	if sess != nil {
		if rd.CSRF != nil {
			token, err := rd.CSRF.EnsureToken(ctx, sess)
			if err != nil {
				rd.logger().Warn("ensure csrf token", slog.Any("error", err))
			}
			td.CSRFToken = token
		}
		td.Flash = sess.PopFlash()
	}
	if v, ok := access.VerdictFromContext(ctx); ok {
		td.Verdict = v
	}
	if rd.Site != nil {
		td.Site = rd.Site.Values(ctx)
	}
	return td
}

func (rd *Renderer) logger() *slog.Logger {
	if rd.Logger != nil {
		return rd.Logger
	}
	return slog.Default()
}
