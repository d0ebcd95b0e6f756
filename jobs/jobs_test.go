package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jobmetrics "github.com/yessbangal/agency-web/internal/jobs"
)

type fakeEnqueuer struct {
	tasks []*asynq.Task
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	f.tasks = append(f.tasks, task)
	return &asynq.TaskInfo{Type: task.Type()}, nil
}

func (f *fakeEnqueuer) Close() error { return nil }

type senderSpy struct {
	got []SendEmailPayload
	err error
}

func (s *senderSpy) Send(_ context.Context, msg SendEmailPayload) error {
	s.got = append(s.got, msg)
	return s.err
}

func TestEnqueueMailQueuesSendTask(t *testing.T) {
	q := &fakeEnqueuer{}
	c := NewClientWith(q)

	require.NoError(t, c.EnqueueMail(context.Background(), "a@example.com", "Hello", "Body"))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TaskTypeSendEmail, q.tasks[0].Type())

	var payload SendEmailPayload
	require.NoError(t, json.Unmarshal(q.tasks[0].Payload(), &payload))
	assert.Equal(t, SendEmailPayload{To: "a@example.com", Subject: "Hello", Body: "Body"}, payload)

	assert.Error(t, c.EnqueueMail(context.Background(), " ", "x", "y"))
}

func TestMailJobSendsPayload(t *testing.T) {
	sender := &senderSpy{}
	job := NewMailJob(sender, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewSendEmailTask(SendEmailPayload{To: "a@example.com", Subject: "Hi"})
	require.NoError(t, err)

	require.NoError(t, job.Handle(context.Background(), task))
	require.Len(t, sender.got, 1)
	assert.Equal(t, "a@example.com", sender.got[0].To)
}

func TestMailJobReportsFailureForRetry(t *testing.T) {
	sender := &senderSpy{err: errors.New("smtp refused")}
	job := NewMailJob(sender, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	task, err := NewSendEmailTask(SendEmailPayload{To: "a@example.com"})
	require.NoError(t, err)

	assert.ErrorContains(t, job.Handle(context.Background(), task), "smtp refused")
}

func TestMailJobSkipsMalformedPayload(t *testing.T) {
	job := NewMailJob(&senderSpy{}, nil, nil)
	err := job.Handle(context.Background(), asynq.NewTask(TaskTypeSendEmail, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type prunerSpy struct {
	at time.Time
	n  int64
}

func (p *prunerSpy) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	p.at = now
	return p.n, nil
}

type cleanerSpy struct {
	olderThan time.Duration
	err       error
}

func (c *cleanerSpy) Cleanup(_ context.Context, olderThan time.Duration) (int64, error) {
	c.olderThan = olderThan
	return 2, c.err
}

func TestMaintenanceJobs(t *testing.T) {
	pruner, cleaner := &prunerSpy{n: 3}, &cleanerSpy{}
	job := NewMaintenanceJob(pruner, cleaner, 0, nil, jobmetrics.NewMetrics(prometheus.NewRegistry()))
	now := time.Date(2026, 4, 1, 3, 0, 0, 0, time.UTC)
	job.clock = func() time.Time { return now }

	require.NoError(t, job.HandlePruneSessions(context.Background(), NewSessionsPruneTask()))
	assert.Equal(t, now, pruner.at)

	require.NoError(t, job.HandleCleanupKeys(context.Background(), NewIdempotencyCleanupTask()))
	assert.Equal(t, 7*24*time.Hour, cleaner.olderThan)

	cleaner.err = errors.New("db down")
	assert.Error(t, job.HandleCleanupKeys(context.Background(), NewIdempotencyCleanupTask()))
}

type fakeInspector struct {
	info *asynq.QueueInfo
	err  error
}

func (f fakeInspector) GetQueueInfo(string) (*asynq.QueueInfo, error) { return f.info, f.err }

func TestHealthReportsQueueDepth(t *testing.T) {
	h := NewHandler(fakeInspector{info: &asynq.QueueInfo{Queue: QueueDefault, Pending: 4, Failed: 1}}, nil)
	rec := httptest.NewRecorder()
	h.health(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"queue":"default","pending":4,"active":0,"failed":1}`, rec.Body.String())
}

func TestHealthUnavailable(t *testing.T) {
	h := NewHandler(fakeInspector{err: errors.New("dial tcp: refused")}, nil)
	rec := httptest.NewRecorder()
	h.health(rec, httptest.NewRequest(http.MethodGet, "/jobs/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestSMTPMessage(t *testing.T) {
	s := NewSMTPSender(SMTPConfig{From: "YessBangal <no-reply@example.com>"})
	e := s.message(SendEmailPayload{To: "a@example.com", Subject: "Hi", Body: "Welcome"})
	assert.Equal(t, []string{"a@example.com"}, e.To)
	assert.Equal(t, "Welcome", string(e.Text))
	assert.Equal(t, "YessBangal <no-reply@example.com>", e.From)
}

func TestNewWorkerRequiresHandlers(t *testing.T) {
	_, err := NewWorker(WorkerConfig{RedisOpts: asynq.RedisClientOpt{Addr: "127.0.0.1:0"}})
	assert.Error(t, err)
}
