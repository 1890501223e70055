package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/dsalta/compliance-api/internal/core/domain"
	"github.com/dsalta/compliance-api/internal/core/ports"
)

type stubAuthService struct {
	loginFn  func(ctx context.Context, username, password string) (*ports.LoginResult, error)
	logoutFn func(ctx context.Context, token string) error
	listFn   func(ctx context.Context) ([]*domain.User, error)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) (*ports.LoginResult, error) {
	return s.loginFn(ctx, username, password)
}

func (s *stubAuthService) Logout(ctx context.Context, token string) error {
	return s.logoutFn(ctx, token)
}

func (s *stubAuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	return s.listFn(ctx)
}

type stubTaskService struct {
	createFn  func(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error)
	listFn    func(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error)
	getFn     func(ctx context.Context, id string) (*domain.Task, error)
	updateFn  func(ctx context.Context, id string, c domain.TaskChanges) (*domain.Task, error)
	deleteFn  func(ctx context.Context, id string) error
	historyFn func(ctx context.Context, id string) ([]*domain.TaskEvent, error)
}

func (s *stubTaskService) CreateTask(ctx context.Context, in ports.CreateTaskInput) (*domain.Task, error) {
	return s.createFn(ctx, in)
}

func (s *stubTaskService) ListTasks(ctx context.Context, f domain.TaskFilter) ([]*domain.Task, error) {
	return s.listFn(ctx, f)
}

func (s *stubTaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.getFn(ctx, id)
}

func (s *stubTaskService) UpdateTask(ctx context.Context, id string, c domain.TaskChanges) (*domain.Task, error) {
	return s.updateFn(ctx, id, c)
}

func (s *stubTaskService) DeleteTask(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubTaskService) TaskHistory(ctx context.Context, id string) ([]*domain.TaskEvent, error) {
	return s.historyFn(ctx, id)
}

// newContext builds an echo context with the validator installed.
func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	return resp
}

func assertStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

