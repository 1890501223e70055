package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsalta/compliance-api/internal/api/handler"
	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeAuthenticator map[string]domain.Principal

func (f fakeAuthenticator) Authenticate(_ context.Context, raw string) (domain.Principal, error) {
	p, ok := f[raw]
	if !ok {
		return domain.Principal{}, domain.ErrInvalidToken
	}
	return p, nil
}

type fakeAuthService struct{}

func (fakeAuthService) Login(_ context.Context, username, password string) (*ports.LoginResult, error) {
	if username == "admin" && password == "admin123" {
		return &ports.LoginResult{Token: "admin-token", User: domain.UserProfile{ID: "1", Username: "admin", Role: domain.RoleAdmin}}, nil
	}
	return nil, domain.ErrInvalidCredentials
}

func (fakeAuthService) Logout(context.Context, string) error { return nil }

func (fakeAuthService) ListUsers(context.Context) ([]*domain.User, error) {
	return []*domain.User{{ID: "1", Username: "admin", Role: domain.RoleAdmin, IsActive: true}}, nil
}

// memTasks is a minimal in-memory TaskService.
type memTasks struct {
	byID map[string]*domain.Task
}

func (m *memTasks) CreateTask(_ context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	status := in.Status
	if status == "" {
		status = domain.TaskStatusOpen
	}
	now := time.Now().UTC()
	t := &domain.Task{ID: uuid.NewString(), Name: in.Name, Description: in.Description, Framework: in.Framework,
		Category: in.Category, Status: status, CreatedAt: now, UpdatedAt: now}
	m.byID[t.ID] = t
	return t, nil
}

func (m *memTasks) ListTasks(_ context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	out := []*domain.Task{}
	for _, t := range m.byID {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memTasks) GetTask(_ context.Context, id string) (*domain.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.NewTaskNotFound(id)
	}
	return t, nil
}

func (m *memTasks) UpdateTask(_ context.Context, id string, c domain.TaskChanges) (*domain.Task, error) {
	t, ok := m.byID[id]
	if !ok {
		return nil, domain.NewTaskNotFound(id)
	}
	t.Apply(c, time.Now().UTC())
	return t, nil
}

func (m *memTasks) DeleteTask(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return domain.NewTaskNotFound(id)
	}
	delete(m.byID, id)
	return nil
}

func (m *memTasks) TaskHistory(context.Context, string) ([]*domain.TaskEvent, error) {
	return []*domain.TaskEvent{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Log:      zerolog.Nop(),
		BasePath: "/api/v1",
		Auth:     fakeAuthService{},
		Authenticator: fakeAuthenticator{
			"admin-token": {ID: "1", Username: "admin", Role: domain.RoleAdmin},
			"user-token":  {ID: "2", Username: "user", Role: domain.RoleStandard},
		},
		Tasks:    &memTasks{byID: map[string]*domain.Task{}},
		Health:   map[string]handler.PingFunc{},
		Registry: prometheus.NewRegistry(),
	})
}

func do(t *testing.T, h http.Handler, method, path, token, body string) (int, map[string]any) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec.Code, resp
}

func errorCode(resp map[string]any) string {
	e, _ := resp["error"].(map[string]any)
	code, _ := e["code"].(string)
	return code
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestRouter_TaskLifecycle(t *testing.T) {
	r := newTestRouter(t)

	status, resp := do(t, r, http.MethodPost, "/api/v1/tasks", "user-token",
		`{"name":"Review access controls","framework":"DSALTA","category":"Access Control"}`)
	require.Equal(t, http.StatusCreated, status)
	id := resp["data"].(map[string]any)["id"].(string)

	status, resp = do(t, r, http.MethodGet, "/api/v1/tasks/"+id, "user-token", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "open", resp["data"].(map[string]any)["status"])

	status, _ = do(t, r, http.MethodPut, "/api/v1/tasks/"+id, "user-token", `{"status":"in_progress"}`)
	require.Equal(t, http.StatusOK, status)

	status, resp = do(t, r, http.MethodDelete, "/api/v1/tasks/"+id, "user-token", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, CodeForbidden, errorCode(resp))

	status, _ = do(t, r, http.MethodDelete, "/api/v1/tasks/"+id, "admin-token", "")
	require.Equal(t, http.StatusOK, status)

	status, resp = do(t, r, http.MethodGet, "/api/v1/tasks/"+id, "admin-token", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeTaskNotFound, errorCode(resp))
	assert.Equal(t, "Task with ID "+id+" not found", resp["message"])
}

func TestRouter_AuthenticationRequired(t *testing.T) {
	r := newTestRouter(t)

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/tasks"},
		{http.MethodPost, "/api/v1/tasks"},
		{http.MethodGet, "/api/v1/tasks/" + uuid.NewString()},
		{http.MethodDelete, "/api/v1/tasks/" + uuid.NewString()},
		{http.MethodGet, "/api/v1/auth/users"},
		{http.MethodPost, "/api/v1/auth/logout"},
	}
	for _, rt := range routes {
		for _, token := range []string{"", "forged"} {
			status, resp := do(t, r, rt.method, rt.path, token, "")
			assert.Equal(t, http.StatusUnauthorized, status, "%s %s token=%q", rt.method, rt.path, token)
			assert.Equal(t, CodeUnauthenticated, errorCode(resp))
			assert.Equal(t, false, resp["success"])
		}
	}
}

func TestRouter_AdminOnlyRoutes(t *testing.T) {
	r := newTestRouter(t)

	status, resp := do(t, r, http.MethodGet, "/api/v1/auth/users", "user-token", "")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, CodeForbidden, errorCode(resp))

	status, _ = do(t, r, http.MethodGet, "/api/v1/auth/users", "admin-token", "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, r, http.MethodGet, "/api/v1/tasks/"+uuid.NewString()+"/history", "user-token", "")
	assert.Equal(t, http.StatusForbidden, status)
}

func TestRouter_Login(t *testing.T) {
	r := newTestRouter(t)

	status, resp := do(t, r, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"admin123"}`)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin-token", resp["data"].(map[string]any)["token"])

	status, resp = do(t, r, http.MethodPost, "/api/v1/auth/login", "", `{"username":"admin","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, CodeUnauthenticated, errorCode(resp))
}

func TestRouter_MalformedIDRejected(t *testing.T) {
	r := newTestRouter(t)

	status, resp := do(t, r, http.MethodGet, "/api/v1/tasks/123", "user-token", "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, CodeValidation, errorCode(resp))
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter(t)

	status, resp := do(t, r, http.MethodGet, "/api/v1/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, CodeHTTP, errorCode(resp))
}

func TestRouter_Probes(t *testing.T) {
	r := newTestRouter(t)

	status, _ := do(t, r, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	status, _ = do(t, r, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, status)
}
