package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bnema/folio-admin-cli/internal/adapters/httpapi"
	"github.com/bnema/folio-admin-cli/internal/domain"
	"github.com/bnema/folio-admin-cli/internal/testutil/fakeapi"
)

const (
	testIdentifier = "ada@example.com"
	testSecret     = "s3cret"
)

func mockAnyContext() interface{} {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type memorySessionRepo struct {
	mu     sync.Mutex
	record *domain.SessionRecord
}

func (r *memorySessionRepo) Load(context.Context) (domain.SessionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.record == nil {
		return domain.SessionRecord{}, domain.ErrSessionNotFound
	}
	return *r.record, nil
}

func (r *memorySessionRepo) Save(_ context.Context, record domain.SessionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = &record
	return nil
}

func (r *memorySessionRepo) Clear(context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.record = nil
	return nil
}

type memorySecrets struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemorySecrets() *memorySecrets {
	return &memorySecrets{values: make(map[string]string)}
}

func (s *memorySecrets) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", domain.ErrSecretNotFound
	}
	return v, nil
}

func (s *memorySecrets) Put(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *memorySecrets) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// harness wires the real HTTP adapter and a session store against the fake
// content API.
type harness struct {
	api      *fakeapi.Server
	client   httpapi.Client
	repo     *memorySessionRepo
	secrets  *memorySecrets
	sessions *SessionStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := fakeapi.New()
	t.Cleanup(api.Close)
	api.AddOperator(fakeapi.Operator{ID: "op-1", Name: "Ada", Identifier: testIdentifier, Secret: testSecret})

	logger := zaptest.NewLogger(t)
	client := httpapi.Client{BaseURL: api.URL, UserAgent: "fa/test", Logger: logger}
	repo := &memorySessionRepo{}
	secrets := newMemorySecrets()

	return &harness{
		api:      api,
		client:   client,
		repo:     repo,
		secrets:  secrets,
		sessions: NewSessionStore(client, repo, secrets, fixedClock{now: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}, logger),
	}
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	_, err := h.sessions.Login(context.Background(), testIdentifier, testSecret)
	require.NoError(t, err)
}

func newProjects(t *testing.T, h *harness) *ResourceController[domain.Project] {
	t.Helper()
	return NewResourceController[domain.Project](domain.ProjectSchema, h.client, h.sessions, zaptest.NewLogger(t))
}

func newTechStack(t *testing.T, h *harness) *ResourceController[domain.TechStackItem] {
	t.Helper()
	return NewResourceController[domain.TechStackItem](domain.TechStackSchema, h.client, h.sessions, zaptest.NewLogger(t))
}

func newReviews(t *testing.T, h *harness) *ResourceController[domain.Review] {
	t.Helper()
	return NewResourceController[domain.Review](domain.ReviewSchema, h.client, h.sessions, zaptest.NewLogger(t))
}

func textDraft(fields map[string]string) domain.Draft {
	draft := domain.Draft{Fields: make(map[string]domain.Value, len(fields))}
	for k, v := range fields {
		draft.Fields[k] = domain.Text(v)
	}
	return draft
}
