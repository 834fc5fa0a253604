package router

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"coligo-portal/config"
	"coligo-portal/internal/api/handler"
	"coligo-portal/internal/dto"
	"coligo-portal/internal/model"
	"coligo-portal/internal/service"
	"coligo-portal/pkg/jwt"
	"coligo-portal/pkg/metrics"
)

// ── Stub Services ──

const (
	studentID = "11111111-1111-1111-1111-111111111111"
	teacherID = "22222222-2222-2222-2222-222222222222"
)

type stubAuth struct{}

func (stubAuth) Login(context.Context) (*dto.LoginResult, error) {
	return &dto.LoginResult{Token: "t", User: dto.UserResponse{ID: studentID}}, nil
}
func (stubAuth) Logout(context.Context, string) error { return nil }
func (stubAuth) Me(_ context.Context, id string) (*dto.UserDetailResponse, error) {
	return &dto.UserDetailResponse{ID: id}, nil
}
func (stubAuth) LoadUser(_ context.Context, id string) (*model.User, error) {
	switch id {
	case studentID:
		return &model.User{UserID: id, Role: model.RoleStudent}, nil
	case teacherID:
		return &model.User{UserID: id, Role: model.RoleTeacher}, nil
	}
	return nil, service.ErrUserNotFound
}

// writeCounter 记录写操作到达 Service 层的次数
type writeCounter struct{ n *atomic.Int32 }

func (w writeCounter) hit() { w.n.Add(1) }

type stubAnnouncements struct{ writeCounter }

func (stubAnnouncements) List(context.Context) ([]dto.AnnouncementResponse, error) {
	return []dto.AnnouncementResponse{}, nil
}
func (stubAnnouncements) GetByID(context.Context, string) (*dto.AnnouncementResponse, error) {
	return nil, service.ErrAnnouncementNotFound
}
func (s stubAnnouncements) Create(context.Context, *dto.CreateAnnouncementRequest, *model.User) (*dto.AnnouncementResponse, error) {
	s.hit()
	return &dto.AnnouncementResponse{}, nil
}
func (s stubAnnouncements) Update(context.Context, string, *dto.UpdateAnnouncementRequest, *model.User) (*dto.AnnouncementResponse, error) {
	s.hit()
	return nil, service.ErrAnnouncementForbidden
}
func (s stubAnnouncements) Delete(context.Context, string, *model.User) error {
	s.hit()
	return nil
}

type stubQuizzes struct{ writeCounter }

func (stubQuizzes) List(context.Context, *dto.QuizListRequest) ([]dto.QuizResponse, error) {
	return []dto.QuizResponse{}, nil
}
func (stubQuizzes) GetByID(context.Context, string) (*dto.QuizResponse, error) {
	return nil, service.ErrQuizNotFound
}
func (s stubQuizzes) Create(_ context.Context, _ *dto.CreateQuizRequest, caller *model.User) (*dto.QuizResponse, error) {
	s.hit()
	if !service.CanManageQuizzes(caller) {
		return nil, service.ErrQuizForbidden
	}
	return &dto.QuizResponse{}, nil
}
func (s stubQuizzes) Update(context.Context, string, *dto.UpdateQuizRequest, *model.User) (*dto.QuizResponse, error) {
	s.hit()
	return nil, service.ErrQuizNotFound
}
func (s stubQuizzes) Delete(context.Context, string, *model.User) error {
	s.hit()
	return nil
}

type stubExport struct{}

func (stubExport) ExportQuizzes(context.Context, string) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("x"), "quizzes.xlsx", nil
}
func (stubExport) ExportCalendar(context.Context, string) (*bytes.Buffer, string, error) {
	return bytes.NewBufferString("BEGIN:VCALENDAR"), "quizzes.ics", nil
}

// ── 测试辅助 ──

type testEnv struct {
	jwtMgr *jwt.Manager
	engine http.Handler
	writes *atomic.Int32
}

func setupRouter(t *testing.T, ping func(context.Context) error) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Server: config.ServerConfig{Env: config.EnvTest, BodyLimit: 1 << 20},
		Auth:   config.AuthConfig{JWTSecret: "secret", TokenTTL: time.Hour},
	}
	jwtMgr := jwt.NewManager(&cfg.Auth)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	writes := new(atomic.Int32)
	svc := &service.Service{
		Auth:         stubAuth{},
		Announcement: stubAnnouncements{writeCounter{writes}},
		Quiz:         stubQuizzes{writeCounter{writes}},
		Export:       stubExport{},
	}
	h := handler.NewHandler(cfg, svc, m)

	engine := Setup(cfg, h, Deps{
		JWT:      jwtMgr,
		Users:    svc.Auth,
		Metrics:  m,
		Gatherer: reg,
		Ping:     ping,
		Logger:   zap.NewNop(),
	})
	return &testEnv{jwtMgr: jwtMgr, engine: engine, writes: writes}
}

func (e *testEnv) do(t *testing.T, method, path, userID string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if userID != "" {
		token, err := e.jwtMgr.Issue(userID)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)
	return w
}

// ── 路由测试 ──

func TestRouter_PublicRoutes(t *testing.T) {
	env := setupRouter(t, nil)

	w := env.do(t, http.MethodGet, "/", "", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Hello World") {
		t.Errorf("GET / unexpected: %d %s", w.Code, w.Body.String())
	}

	w = env.do(t, http.MethodPost, "/api/auth/login", "", "")
	if w.Code != http.StatusOK {
		t.Errorf("login should be public, got %d", w.Code)
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestRouter_Health(t *testing.T) {
	if w := setupRouter(t, func(context.Context) error { return nil }).do(t, http.MethodGet, "/health", "", ""); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if w := setupRouter(t, func(context.Context) error { return errors.New("down") }).do(t, http.MethodGet, "/health", "", ""); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestRouter_ProtectedRoutesRequireToken(t *testing.T) {
	const id = "33333333-3333-3333-3333-333333333333"

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/auth/me", ""},
		{http.MethodPost, "/api/auth/logout", ""},
		{http.MethodGet, "/api/export/calendar", ""},
		{http.MethodGet, "/api/export/quizzes", ""},
		{http.MethodGet, "/api/announcements", ""},
		{http.MethodGet, "/api/announcements/" + id, ""},
		{http.MethodPost, "/api/announcements", `{"title":"t","content":"c","course":"Math"}`},
		{http.MethodPut, "/api/announcements/" + id, `{"title":"new"}`},
		{http.MethodDelete, "/api/announcements/" + id, ""},
		{http.MethodGet, "/api/quizzes", ""},
		{http.MethodGet, "/api/quizzes/" + id, ""},
		{http.MethodPost, "/api/quizzes", `{"title":"q","course":"Math","topic":"t","dueDate":"2024-06-01T09:00:00Z"}`},
		{http.MethodPut, "/api/quizzes/" + id, `{"title":"new"}`},
		{http.MethodDelete, "/api/quizzes/" + id, ""},
	}

	env := setupRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := env.do(t, tt.method, tt.path, "", tt.body)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "Not authorized to access this route") {
				t.Errorf("unexpected body: %s", w.Body.String())
			}
		})
	}

	if n := env.writes.Load(); n != 0 {
		t.Errorf("unauthenticated requests reached %d write operations", n)
	}
}

func TestRouter_UnknownUserTokenMutatesNothing(t *testing.T) {
	const ghost = "44444444-4444-4444-4444-444444444444"
	env := setupRouter(t, nil)

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		path := "/api/quizzes"
		if method != http.MethodPost {
			path += "/" + ghost
		}
		if w := env.do(t, method, path, ghost, `{"title":"x"}`); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", method, path, w.Code)
		}
	}

	if n := env.writes.Load(); n != 0 {
		t.Errorf("deleted-user token reached %d write operations", n)
	}
}

func TestRouter_PolicyAsymmetry(t *testing.T) {
	env := setupRouter(t, nil)

	w := env.do(t, http.MethodPut, "/api/announcements/abc", studentID, `{"title":"x"}`)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("announcement ownership failure: expected 401, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/quizzes", studentID, `{"title":"x"}`)
	if w.Code != http.StatusForbidden {
		t.Errorf("quiz role failure: expected 403, got %d", w.Code)
	}

	w = env.do(t, http.MethodPost, "/api/quizzes", teacherID, `{"title":"x"}`)
	if w.Code != http.StatusCreated {
		t.Errorf("teacher create: expected 201, got %d", w.Code)
	}
}

func TestRouter_ExportRoleGate(t *testing.T) {
	env := setupRouter(t, nil)

	if w := env.do(t, http.MethodGet, "/api/export/quizzes", studentID, ""); w.Code != http.StatusForbidden {
		t.Errorf("student export: expected 403, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/export/quizzes", teacherID, ""); w.Code != http.StatusOK {
		t.Errorf("teacher export: expected 200, got %d", w.Code)
	}
	if w := env.do(t, http.MethodGet, "/api/export/calendar", studentID, ""); w.Code != http.StatusOK {
		t.Errorf("calendar: expected 200, got %d", w.Code)
	}
}

func TestRouter_MetricsEndpoint(t *testing.T) {
	env := setupRouter(t, nil)
	env.do(t, http.MethodGet, "/", "", "")

	w := env.do(t, http.MethodGet, "/metrics", "", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "portal_http_requests_total") {
		t.Error("expected request counter in metrics output")
	}
}

func TestRouter_NoRoute(t *testing.T) {
	env := setupRouter(t, nil)

	w := env.do(t, http.MethodGet, "/api/unknown", "", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}
