// Package admin mounts the back-office list pages shared by every status-managed resource.
package admin

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
	"github.com/yessbangal/agency-web/internal/view"
)

// DefaultTemplate renders every resource list.
const DefaultTemplate = "admin/resource_list.html"

// Link is an extra per-row action.
type Link struct {
	Label string
	Href  string
}

// Row is one rendered list entry.
type Row struct {
	ID     string
	Cells  []string
	Status lifecycle.Status
	Links  []Link
}

// Page describes one admin list page over a lifecycle manager.
type Page[T any] struct {
	Manager  *lifecycle.Manager[T]
	Renderer *view.Renderer
	Logger   *slog.Logger

	Title    string
	Base     string
	Template string
	Columns  []string
	RowView  func(T) Row
	// NewLink adds a "create" button when set.
	NewLink string
}

// ListData is the template payload.
type ListData struct {
	Title   string
	Base    string
	NewLink string
	Columns []string
	Rows    []Row
	Options []lifecycle.Status
	Filter  string
	Error   string
}

// Mount registers list, status and delete routes for the page.
func Mount[T any](r chi.Router, p Page[T]) {
	if p.Template == "" {
		p.Template = DefaultTemplate
	}
	if p.Logger == nil {
		p.Logger = slog.Default()
	}
	r.Get("/", p.list)
	r.Post("/{id}/status", p.transition)
	r.Get("/{id}/delete", p.confirmDelete)
	r.Post("/{id}/delete", p.delete)
}

func (p Page[T]) data(filter lifecycle.Filter, rows []T) ListData {
	out := ListData{
		Title:   p.Title,
		Base:    p.Base,
		NewLink: p.NewLink,
		Columns: p.Columns,
		Options: p.Manager.Resource().Statuses.Options(),
		Filter:  filter.Value(),
		Rows:    make([]Row, 0, len(rows)),
	}
	for _, row := range rows {
		out.Rows = append(out.Rows, p.RowView(row))
	}
	return out
}

func (p Page[T]) filterFrom(raw string) lifecycle.Filter {
	return lifecycle.FilterFromQuery(p.Manager.Resource().Statuses, raw)
}

func (p Page[T]) listURL(filter lifecycle.Filter) string {
	if filter.Status == nil {
		return p.Base
	}
	return p.Base + "?status=" + url.QueryEscape(filter.Value())
}

func (p Page[T]) list(w http.ResponseWriter, r *http.Request) {
	filter := p.filterFrom(r.URL.Query().Get("status"))
	rows, err := p.Manager.List(r.Context(), filter)
	if err != nil {
		p.Logger.Error("list resource", slog.String("resource", p.Manager.Resource().Name), slog.Any("error", err))
		data := p.data(filter, nil)
		data.Error = "Failed to fetch " + strings.ToLower(p.Title)
		p.Renderer.Page(w, r, http.StatusInternalServerError, p.Template, p.Title, data)
		return
	}
	p.Renderer.Page(w, r, http.StatusOK, p.Template, p.Title, p.data(filter, rows))
}

func (p Page[T]) id(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return uuid.Nil, false
	}
	return id, true
}

func (p Page[T]) transition(w http.ResponseWriter, r *http.Request) {
	id, ok := p.id(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	filter := p.filterFrom(r.PostFormValue("filter"))
	out, err := p.Manager.Transition(r.Context(), shared.ActorFromContext(r.Context()), id, r.PostFormValue("status"), filter)
	p.respond(w, r, filter, out, err)
}

func (p Page[T]) confirmDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := p.id(w, r)
	if !ok {
		return
	}
	res := p.Manager.Resource()
	p.Renderer.Page(w, r, http.StatusOK, "admin/confirm_delete.html", "Delete "+res.Label, view.ConfirmPage{
		Title:   "Delete " + res.Label,
		Message: "Are you sure you want to delete this " + strings.ToLower(res.Label) + "? This action cannot be undone.",
		Action:  p.Base + "/" + id.String() + "/delete",
		Cancel:  p.Base,
	})
}

func (p Page[T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := p.id(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	filter := p.filterFrom(r.PostFormValue("filter"))
	confirm := lifecycle.ParseConfirmation(r.PostFormValue(lifecycle.ConfirmField))
	out, err := p.Manager.Delete(r.Context(), shared.ActorFromContext(r.Context()), id, confirm, filter)
	if errors.Is(err, lifecycle.ErrConfirmationRequired) {
		http.Redirect(w, r, p.listURL(filter), http.StatusSeeOther)
		return
	}
	p.respond(w, r, filter, out, err)
}

// respond renders the store-confirmed list, or redirects back to the previous list with the notification.
func (p Page[T]) respond(w http.ResponseWriter, r *http.Request, filter lifecycle.Filter, out lifecycle.Outcome[T], err error) {
	flash := shared.FlashMessage{Kind: out.Notification.Kind, Message: out.Notification.Message}
	if err != nil || !out.Refreshed {
		if flash.Message == "" {
			flash = shared.FlashMessage{Kind: shared.FlashError, Message: shared.UserSafeMessage(err)}
		}
		p.Renderer.RedirectWithFlash(w, r, p.listURL(filter), flash.Kind, flash.Message)
		return
	}
	p.Renderer.PageWithFlash(w, r, http.StatusOK, p.Template, p.Title, p.data(filter, out.Rows), flash)
}
