package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"taskhub/internal/app/account"
	"taskhub/internal/app/chat"
	"taskhub/internal/app/storage"
	"taskhub/internal/app/task"
	"taskhub/internal/configs"
	"taskhub/internal/handler"
	"taskhub/internal/pkg/auth/jwt"
)

const testJWTSecret = "handler-test-secret"

// fakeAccountStore keeps accounts in memory, enforcing username uniqueness the
// way the database does: by surfacing SQLSTATE 23505.
type fakeAccountStore struct {
	mu       sync.Mutex
	accounts map[string]account.Account
}

func newFakeAccountStore() *fakeAccountStore {
	return &fakeAccountStore{accounts: make(map[string]account.Account)}
}

func (s *fakeAccountStore) Create(_ context.Context, username, passwordHash string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[username]; exists {
		return account.Account{}, &pgconn.PgError{Code: "23505"}
	}

	a := account.Account{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	s.accounts[username] = a
	return a, nil
}

func (s *fakeAccountStore) GetByUsername(_ context.Context, username string) (account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[username]
	if !ok {
		return account.Account{}, account.ErrNotFound
	}
	return a, nil
}

// fakeTaskStore keeps tasks in memory, newest first, and mirrors the store's
// search and pagination behavior.
type fakeTaskStore struct {
	mu    sync.Mutex
	tasks []task.Task
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{}
}

func (s *fakeTaskStore) List(_ context.Context, q task.ListQuery) ([]task.Task, task.Pagination, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]task.Task, 0, len(s.tasks))
	needle := strings.ToLower(q.Search)
	for _, t := range s.tasks {
		if needle == "" ||
			strings.Contains(strings.ToLower(t.Title), needle) ||
			strings.Contains(strings.ToLower(t.Description), needle) {
			matched = append(matched, t)
		}
	}

	pagination, err := task.NewPagination(q.Page, q.Limit, len(matched))
	if err != nil {
		return nil, task.Pagination{}, err
	}

	start := q.Offset()
	if start > len(matched) {
		start = len(matched)
	}
	end := start + q.Limit
	if end > len(matched) {
		end = len(matched)
	}

	return matched[start:end], pagination, nil
}

func (s *fakeTaskStore) Create(_ context.Context, title, description string) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	t := task.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks = append([]task.Task{t}, s.tasks...)
	return t, nil
}

func (s *fakeTaskStore) ApplyUpdate(_ context.Context, id string, upd task.Update) (task.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID != id {
			continue
		}

		if upd.Title != nil {
			s.tasks[i].Title = *upd.Title
		}
		if upd.Description != nil {
			s.tasks[i].Description = *upd.Description
		}
		if upd.Completed != nil {
			s.tasks[i].Completed = *upd.Completed
		}
		s.tasks[i].UpdatedAt = time.Now()
		return s.tasks[i], nil
	}

	return task.Task{}, task.ErrNotFound
}

func (s *fakeTaskStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

// testEnv bundles the router and its fakes for one handler test.
type testEnv struct {
	router   http.Handler
	accounts *fakeAccountStore
	tasks    *fakeTaskStore
	files    storage.FileStore
}

// newTestEnv builds a router over in-memory stores and a temp-dir file store.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	files, err := storage.NewFileStore(storage.Config{
		Backend:   storage.BackendLocal,
		UploadDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	hub := chat.NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	env := &testEnv{
		accounts: newFakeAccountStore(),
		tasks:    newFakeTaskStore(),
		files:    files,
	}

	env.router = handler.Router(&handler.AppDeps{
		Config: &configs.AppConfig{
			Environment:     "development",
			Port:            8080,
			DefaultPageSize: 10,
			AllowedOrigins:  []string{},
			JWTSecret:       testJWTSecret,
			StorageBackend:  configs.StorageBackendLocal,
		},
		Hub:      hub,
		Accounts: env.accounts,
		Tasks:    env.tasks,
		Files:    files,
	})

	return env
}

// do runs one request through the router and returns the recorded response.
func (env *testEnv) do(t *testing.T, method, target, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

// doJSON marshals body and runs an application/json request.
func (env *testEnv) doJSON(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}

	return env.do(t, method, target, token, bytes.NewReader(raw), "application/json")
}

// authToken issues a signed bearer token accepted by the test router.
func authToken(t *testing.T) string {
	t.Helper()

	token, err := jwt.GenerateToken(&jwt.Payload{
		UserID:   uuid.New().String(),
		Username: "tester",
	}, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	return token
}

// decodeBody unmarshals a recorded JSON response body into dst.
func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()

	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("response body is not valid JSON: %v\nbody: %s", err, rec.Body.String())
	}
}
