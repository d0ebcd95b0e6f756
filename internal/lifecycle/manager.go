package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/yessbangal/agency-web/internal/shared"
)

// Errors returned by Manager.
var (
	ErrPersistence          = errors.New("lifecycle: store rejected the change")
	ErrConfirmationRequired = errors.New("lifecycle: delete requires confirmation")
)

// Store persists single-row status updates and deletions.
type Store interface {
	UpdateStatus(ctx context.Context, res Resource, id uuid.UUID, status Status) error
	Delete(ctx context.Context, res Resource, id uuid.UUID) error
}

// Filter narrows a list; a nil Status means all rows.
type Filter struct {
	Status *Status
}

// FilterFromQuery parses the "status" query value against the enumeration. "all" and unknown
// values select every row.
func FilterFromQuery(e Enumeration, raw string) Filter {
	s, err := e.Parse(raw)
	if err != nil {
		return Filter{}
	}
	return Filter{Status: &s}
}

// Value returns the filter status as text, or "all".
func (f Filter) Value() string {
	if f.Status == nil {
		return "all"
	}
	return string(*f.Status)
}

// Lister fetches the current rows of a resource.
type Lister[T any] interface {
	List(ctx context.Context, filter Filter) ([]T, error)
}

// ListerFunc adapts a function to Lister.
type ListerFunc[T any] func(ctx context.Context, filter Filter) ([]T, error)

// List calls f.
func (f ListerFunc[T]) List(ctx context.Context, filter Filter) ([]T, error) { return f(ctx, filter) }

// Auditor records successful mutations.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// MutationRecorder counts mutations by outcome.
type MutationRecorder interface {
	RecordMutation(resource, operation, outcome string)
}

// Notification is the transient feedback shown to the operator.
type Notification struct {
	Kind    string
	Message string
}

// Outcome is the result of a mutation. Rows are only set when Refreshed is true.
type Outcome[T any] struct {
	Rows         []T
	Notification Notification
	Refreshed    bool
}

// Config wires a Manager.
type Config[T any] struct {
	Resource Resource
	Store    Store
	Lister   Lister[T]
	Auditor  Auditor
	Metrics  MutationRecorder
	Logger   *slog.Logger
}

// Manager applies status transitions and deletions to one resource.
type Manager[T any] struct {
	res     Resource
	store   Store
	lister  Lister[T]
	auditor Auditor
	metrics MutationRecorder
	logger  *slog.Logger
}

// NewManager constructs a Manager.
func NewManager[T any](cfg Config[T]) *Manager[T] {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager[T]{
		res:     cfg.Resource,
		store:   cfg.Store,
		lister:  cfg.Lister,
		auditor: cfg.Auditor,
		metrics: cfg.Metrics,
		logger:  logger.With(slog.String("resource", cfg.Resource.Name)),
	}
}

// Resource returns the managed resource.
func (m *Manager[T]) Resource() Resource { return m.res }

// List fetches rows matching filter.
func (m *Manager[T]) List(ctx context.Context, filter Filter) ([]T, error) {
	return m.lister.List(ctx, filter)
}

// Transition sets the status of one record and re-fetches the list. Setting the current
// status again is a successful write.
func (m *Manager[T]) Transition(ctx context.Context, actor string, id uuid.UUID, target string, filter Filter) (Outcome[T], error) {
	status, err := m.res.Statuses.Parse(target)
	if err != nil {
		m.record("transition", "invalid")
		return Outcome[T]{Notification: m.failure("transition")}, err
	}
	if err := m.store.UpdateStatus(ctx, m.res, id, status); err != nil {
		m.logger.Error("update status", slog.String("id", id.String()), slog.String("status", status.String()), slog.Any("error", err))
		m.record("transition", "failed")
		return Outcome[T]{Notification: m.failure("transition")}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	m.record("transition", "ok")
	m.audit(ctx, actor, "status."+m.res.Name, id, map[string]any{"status": status.String()})
	return m.refresh(ctx, filter, m.transitionMessage(status)), nil
}

// Delete removes one record after explicit confirmation, then re-fetches the list.
func (m *Manager[T]) Delete(ctx context.Context, actor string, id uuid.UUID, confirm Confirmation, filter Filter) (Outcome[T], error) {
	if !confirm.IsConfirmed() {
		m.record("delete", "unconfirmed")
		return Outcome[T]{}, ErrConfirmationRequired
	}
	if err := m.store.Delete(ctx, m.res, id); err != nil {
		m.logger.Error("delete", slog.String("id", id.String()), slog.Any("error", err))
		m.record("delete", "failed")
		return Outcome[T]{Notification: m.failure("delete")}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	m.record("delete", "ok")
	m.audit(ctx, actor, "delete."+m.res.Name, id, nil)
	return m.refresh(ctx, filter, m.res.Label+" deleted"), nil
}

func (m *Manager[T]) refresh(ctx context.Context, filter Filter, message string) Outcome[T] {
	out := Outcome[T]{Notification: Notification{Kind: shared.FlashSuccess, Message: message}}
	rows, err := m.lister.List(ctx, filter)
	if err != nil {
		m.logger.Warn("refresh list after mutation", slog.Any("error", err))
		return out
	}
	out.Rows = rows
	out.Refreshed = true
	return out
}

func (m *Manager[T]) transitionMessage(s Status) string {
	if m.res.Kind != ActiveFlag {
		return "Status updated"
	}
	if s == StatusActive {
		return m.res.Subject + " activated"
	}
	return m.res.Subject + " deactivated"
}

func (m *Manager[T]) failure(op string) Notification {
	msg := "Failed to update status"
	switch {
	case op == "delete":
		msg = "Failed to delete " + strings.ToLower(m.res.Label)
	case m.res.Kind == ActiveFlag:
		msg = "Failed to update " + strings.ToLower(m.res.Subject) + " status"
	}
	return Notification{Kind: shared.FlashError, Message: msg}
}

func (m *Manager[T]) record(op, outcome string) {
	if m.metrics != nil {
		m.metrics.RecordMutation(m.res.Name, op, outcome)
	}
}

func (m *Manager[T]) audit(ctx context.Context, actor, action string, id uuid.UUID, meta map[string]any) {
	if m.auditor == nil {
		return
	}
	entry := shared.AuditLog{ActorID: actor, Action: action, Entity: m.res.Table, EntityID: id.String(), Meta: meta}
	if err := m.auditor.Record(ctx, entry); err != nil {
		m.logger.Warn("audit mutation", slog.String("action", action), slog.Any("error", err))
	}
}
