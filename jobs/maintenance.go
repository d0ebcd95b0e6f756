package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/yessbangal/agency-web/internal/jobs"
)

const (
	// TaskSessionsPrune removes expired rows from user_sessions.
	TaskSessionsPrune = "sessions:prune"
	// TaskIdempotencyCleanup removes old idempotency keys.
	TaskIdempotencyCleanup = "idempotency:cleanup"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

func metricsOrDefault(m *jobmetrics.Metrics) *jobmetrics.Metrics {
	if m != nil {
		return m
	}
	return defaultJobMetrics
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l != nil {
		return l
	}
	return slog.Default()
}

// SessionPruner deletes sessions that expired before now.
type SessionPruner interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// KeyCleaner deletes idempotency keys older than a retention window.
type KeyCleaner interface {
	Cleanup(ctx context.Context, olderThan time.Duration) (int64, error)
}

// MaintenanceJob runs the periodic housekeeping tasks.
type MaintenanceJob struct {
	Sessions  SessionPruner
	Keys      KeyCleaner
	Retention time.Duration
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewMaintenanceJob wires the housekeeping handlers. retention defaults to 7 days.
func NewMaintenanceJob(sessions SessionPruner, keys KeyCleaner, retention time.Duration, logger *slog.Logger, metrics *jobmetrics.Metrics) *MaintenanceJob {
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	return &MaintenanceJob{
		Sessions:  sessions,
		Keys:      keys,
		Retention: retention,
		Logger:    logger,
		Metrics:   metrics,
		clock:     func() time.Time { return time.Now().UTC() },
	}
}

// NewSessionsPruneTask builds the prune task.
func NewSessionsPruneTask() *asynq.Task {
	return asynq.NewTask(TaskSessionsPrune, nil, asynq.Queue(QueueDefault))
}

// NewIdempotencyCleanupTask builds the cleanup task.
func NewIdempotencyCleanupTask() *asynq.Task {
	return asynq.NewTask(TaskIdempotencyCleanup, nil, asynq.Queue(QueueDefault))
}

// HandlePruneSessions processes TaskSessionsPrune.
func (j *MaintenanceJob) HandlePruneSessions(ctx context.Context, _ *asynq.Task) error {
	tracker := metricsOrDefault(j.Metrics).Track(TaskSessionsPrune)
	n, err := j.Sessions.DeleteExpiredSessions(ctx, j.clock())
	if err != nil {
		loggerOrDefault(j.Logger).Error("prune sessions", slog.Any("error", err))
		return tracker.End(err)
	}
	metricsOrDefault(j.Metrics).AddAffected(TaskSessionsPrune, n)
	loggerOrDefault(j.Logger).Info("pruned sessions", slog.Int64("rows", n))
	return tracker.End(nil)
}

// HandleCleanupKeys processes TaskIdempotencyCleanup.
func (j *MaintenanceJob) HandleCleanupKeys(ctx context.Context, _ *asynq.Task) error {
	tracker := metricsOrDefault(j.Metrics).Track(TaskIdempotencyCleanup)
	n, err := j.Keys.Cleanup(ctx, j.Retention)
	if err != nil {
		loggerOrDefault(j.Logger).Error("cleanup idempotency keys", slog.Any("error", err))
		return tracker.End(err)
	}
	metricsOrDefault(j.Metrics).AddAffected(TaskIdempotencyCleanup, n)
	loggerOrDefault(j.Logger).Info("cleaned idempotency keys", slog.Int64("rows", n))
	return tracker.End(nil)
}
