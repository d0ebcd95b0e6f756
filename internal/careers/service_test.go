package careers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yessbangal/agency-web/internal/lifecycle"
	"github.com/yessbangal/agency-web/internal/shared"
)

type memRepo struct {
	postings  map[uuid.UUID]Posting
	apps      []Application
	insertErr error
}

func newMemRepo(postings ...Posting) *memRepo {
	m := &memRepo{postings: map[uuid.UUID]Posting{}}
	for _, p := range postings {
		m.postings[p.ID] = p
	}
	return m
}

func (m *memRepo) ListPostings(context.Context, lifecycle.Filter) ([]Posting, error) {
	return m.ActivePostings(context.Background())
}

func (m *memRepo) ActivePostings(context.Context) ([]Posting, error) {
	var out []Posting
	for _, p := range m.postings {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memRepo) GetPosting(_ context.Context, id uuid.UUID) (Posting, error) {
	p, ok := m.postings[id]
	if !ok {
		return Posting{}, shared.ErrNotFound
	}
	return p, nil
}

func (m *memRepo) CreatePosting(_ context.Context, in PostingInput) (Posting, error) {
	p := Posting{ID: uuid.New(), Title: in.Title, IsActive: in.IsActive}
	m.postings[p.ID] = p
	return p, nil
}

func (m *memRepo) UpdatePosting(_ context.Context, id uuid.UUID, in PostingInput) error {
	if _, ok := m.postings[id]; !ok {
		return shared.ErrNotFound
	}
	m.postings[id] = Posting{ID: id, Title: in.Title, IsActive: in.IsActive}
	return nil
}

func (m *memRepo) ListApplications(context.Context, lifecycle.Filter) ([]Application, error) {
	return m.apps, nil
}

func (m *memRepo) RecentApplications(context.Context, int) ([]Application, error) { return m.apps, nil }

func (m *memRepo) GetApplication(_ context.Context, id uuid.UUID) (Application, error) {
	for _, a := range m.apps {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, shared.ErrNotFound
}

func (m *memRepo) CreateApplication(_ context.Context, app Application) (Application, error) {
	if m.insertErr != nil {
		return Application{}, m.insertErr
	}
	app.ID = uuid.New()
	m.apps = append(m.apps, app)
	return app, nil
}

func (m *memRepo) CountApplications(context.Context, lifecycle.Status) (int, error) {
	return len(m.apps), nil
}

func (m *memRepo) CountActivePostings(context.Context) (int, error) { return len(m.postings), nil }

type memStore struct {
	objects map[string][]byte
	types   map[string]string
	deleted []string
	ttl     time.Duration
}

func newMemStore() *memStore {
	return &memStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (s *memStore) Upload(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	s.objects[key] = data
	s.types[key] = contentType
	return nil
}

func (s *memStore) PresignedURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.ttl = ttl
	return "https://files.example.com/" + key + "?signed", nil
}

func (s *memStore) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type mailSpy struct {
	to, subject, body string
	err               error
}

func (m *mailSpy) EnqueueMail(_ context.Context, to, subject, body string) error {
	m.to, m.subject, m.body = to, subject, body
	return m.err
}

func pdfResume() *Resume {
	data := []byte("%PDF-1.4\n1 0 obj\n<<>>\nendobj\n%%EOF\n")
	return &Resume{Filename: "CV.PDF", Size: int64(len(data)), File: bytes.NewReader(data)}
}

func validApplication() ApplicationInput {
	return ApplicationInput{FullName: "Rahim Uddin", Email: "rahim@example.com", Phone: "+8801712345678"}
}

func openPosting() Posting {
	return Posting{ID: uuid.New(), Title: "Senior Go Engineer", IsActive: true}
}

func TestApplyStoresResumeAndQueuesMail(t *testing.T) {
	posting := openPosting()
	repo, store, mail := newMemRepo(posting), newMemStore(), &mailSpy{}
	svc := NewService(repo, store, mail, nil, nil)

	app, err := svc.Apply(context.Background(), posting.ID, validApplication(), pdfResume())
	require.NoError(t, err)

	assert.Equal(t, lifecycle.StatusPending, app.Status)
	assert.True(t, strings.HasPrefix(app.ResumePath, "applications/"))
	assert.True(t, strings.HasSuffix(app.ResumePath, ".pdf"))
	assert.Equal(t, "application/pdf", store.types[app.ResumePath])
	assert.True(t, bytes.HasPrefix(store.objects[app.ResumePath], []byte("%PDF")), "resume read from the start")
	assert.Equal(t, "rahim@example.com", mail.to)
	assert.Contains(t, mail.body, "Senior Go Engineer")
}

func TestApplyIgnoresMailFailure(t *testing.T) {
	posting := openPosting()
	_, err := NewService(newMemRepo(posting), newMemStore(), &mailSpy{err: errors.New("redis down")}, nil, nil).
		Apply(context.Background(), posting.ID, validApplication(), pdfResume())
	assert.NoError(t, err)
}

func TestApplyValidation(t *testing.T) {
	posting := openPosting()
	textFile := []byte("just some plain text, not a document")
	cases := map[string]struct {
		in     func(*ApplicationInput)
		resume *Resume
		field  string
		msg    string
	}{
		"short name":    {func(in *ApplicationInput) { in.FullName = "A" }, pdfResume(), "FullName", "Name must be at least 2 characters"},
		"bad email":     {func(in *ApplicationInput) { in.Email = "nope" }, pdfResume(), "Email", "Please enter a valid email address"},
		"short phone":   {func(in *ApplicationInput) { in.Phone = "12345" }, pdfResume(), "Phone", "Phone number must be at least 10 digits"},
		"bad url":       {func(in *ApplicationInput) { in.PortfolioURL = "not a url" }, pdfResume(), "PortfolioURL", "Please enter a valid URL"},
		"long letter":   {func(in *ApplicationInput) { in.CoverLetter = strings.Repeat("x", 2001) }, pdfResume(), "CoverLetter", "Cover letter must be less than 2000 characters"},
		"no resume":     {func(*ApplicationInput) {}, nil, "Resume", "Please upload your resume"},
		"too large":     {func(*ApplicationInput) {}, &Resume{Filename: "cv.pdf", Size: MaxResumeSize + 1, File: bytes.NewReader(nil)}, "Resume", "File size must be less than 5MB"},
		"wrong ext":     {func(*ApplicationInput) {}, &Resume{Filename: "cv.txt", Size: 3, File: bytes.NewReader([]byte("abc"))}, "Resume", "Please upload a PDF or Word document"},
		"wrong content": {func(*ApplicationInput) {}, &Resume{Filename: "cv.pdf", Size: int64(len(textFile)), File: bytes.NewReader(textFile)}, "Resume", "Please upload a PDF or Word document"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			repo, store := newMemRepo(posting), newMemStore()
			in := validApplication()
			tc.in(&in)
			_, err := NewService(repo, store, nil, nil, nil).Apply(context.Background(), posting.ID, in, tc.resume)
			var invalid *shared.InvalidForm
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.msg, invalid.Errors[tc.field])
			assert.Empty(t, store.objects)
			assert.Empty(t, repo.apps)
		})
	}
}

func TestApplyRejectsClosedPosting(t *testing.T) {
	posting := openPosting()
	posting.IsActive = false
	store := newMemStore()
	_, err := NewService(newMemRepo(posting), store, nil, nil, nil).Apply(context.Background(), posting.ID, validApplication(), pdfResume())
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Empty(t, store.objects)
}

func TestApplyRemovesUploadWhenInsertFails(t *testing.T) {
	posting := openPosting()
	repo, store := newMemRepo(posting), newMemStore()
	repo.insertErr = errors.New("insert failed")

	_, err := NewService(repo, store, nil, nil, nil).Apply(context.Background(), posting.ID, validApplication(), pdfResume())
	require.Error(t, err)
	assert.Empty(t, store.objects)
	assert.Len(t, store.deleted, 1)
}

func TestResumeURLIsValidForOneHour(t *testing.T) {
	app := Application{ID: uuid.New(), ResumePath: "applications/a.pdf"}
	repo, store := newMemRepo(), newMemStore()
	repo.apps = []Application{app}

	u, err := NewService(repo, store, nil, nil, nil).ResumeURL(context.Background(), "admin", app.ID)
	require.NoError(t, err)
	assert.Contains(t, u, "applications/a.pdf")
	assert.Equal(t, time.Hour, store.ttl)

	_, err = NewService(repo, store, nil, nil, nil).ResumeURL(context.Background(), "admin", uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestPostingBySlug(t *testing.T) {
	posting := Posting{ID: uuid.New(), Title: "UI / UX  Designer", IsActive: true}
	svc := NewService(newMemRepo(posting), newMemStore(), nil, nil, nil)

	got, err := svc.PostingBySlug(context.Background(), "ui-/-ux-designer")
	require.NoError(t, err)
	assert.Equal(t, posting.ID, got.ID)

	_, err = svc.PostingBySlug(context.Background(), "missing")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

type auditSpy struct{ actions []string }

func (a *auditSpy) Record(_ context.Context, l shared.AuditLog) error {
	a.actions = append(a.actions, l.Action)
	return nil
}

func TestSavePosting(t *testing.T) {
	repo, audit := newMemRepo(), &auditSpy{}
	svc := NewService(repo, newMemStore(), nil, audit, nil)

	_, err := svc.SavePosting(context.Background(), "admin", nil, PostingInput{Title: "Go Engineer", Type: "Freelance"})
	var invalid *shared.InvalidForm
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Please choose one of the listed options", invalid.Errors["Type"])
	assert.Equal(t, "This field is required", invalid.Errors["Department"])

	in := PostingInput{
		Title: " Go Engineer ", Department: "Engineering", Location: "Dhaka", Type: "Full-time",
		Description: "Build services", Requirements: "Go", Responsibilities: "Ship", IsActive: true,
	}
	id, err := svc.SavePosting(context.Background(), "admin", nil, in)
	require.NoError(t, err)
	assert.Equal(t, "Go Engineer", repo.postings[id].Title)

	in.IsActive = false
	_, err = svc.SavePosting(context.Background(), "admin", &id, in)
	require.NoError(t, err)
	assert.False(t, repo.postings[id].IsActive)
	assert.Equal(t, []string{"job_postings.create", "job_postings.update"}, audit.actions)
}
