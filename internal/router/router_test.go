package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/codetest-backend/internal/config"
	"github.com/stemsi/codetest-backend/internal/handler"
	"github.com/stemsi/codetest-backend/internal/model"
	"github.com/stemsi/codetest-backend/internal/report"
	"github.com/stemsi/codetest-backend/internal/repository"
	"github.com/stemsi/codetest-backend/internal/service"
	"github.com/stemsi/codetest-backend/internal/service/mocks"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	engine *gin.Engine
	auth   *service.AuthService
	tests  *mocks.MockTestStore
	cands  *mocks.MockCandidateStore
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	nop := zerolog.Nop()

	tests := mocks.NewMockTestStore(ctrl)
	cands := mocks.NewMockCandidateStore(ctrl)
	auth := service.NewAuthService("router-test-secret", time.Hour)

	catalog := service.NewCatalogService(tests, nil, time.Minute, nop)
	portal := service.NewPortalService(tests, catalog, cands, false, nop)
	reports := service.NewReportService(tests, cands, report.NewWriter(tests, nop), nil)
	lifecycle := service.NewLifecycleService(tests, catalog, nop)
	live := service.NewLiveService(service.LiveDeps{}, nop)
	t.Cleanup(live.Shutdown)

	handlers := &Handlers{
		Portal:  handler.NewPortalHandler(portal, reports, nop),
		WS:      handler.NewWSHandler(live, nop, nil),
		Test:    handler.NewTestHandler(lifecycle),
		Report:  handler.NewReportHandler(reports, nop),
		Monitor: handler.NewMonitorHandler(tests, live, service.NewMonitorService(nil, nop), nop),
		System:  handler.NewSystemHandler(nil, live, map[string]handler.Pinger{}, nop),
	}
	cfg := &config.Config{GinMode: gin.TestMode}

	return &fixture{
		engine: SetupRouter(auth, handlers, nil, cfg, nop),
		auth:   auth,
		tests:  tests,
		cands:  cands,
	}
}

func (f *fixture) do(method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	f := newFixture(t)
	if w := f.do(http.MethodGet, "/health", ""); w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestAdminRouteAuth(t *testing.T) {
	f := newFixture(t)

	candidate, _ := f.auth.GenerateCandidateToken("ana@example.com")
	reader, _ := f.auth.GenerateAdminToken("ops@example.com", []string{string(model.PermissionReportsRead)})

	cases := []struct {
		name  string
		token string
		want  int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"garbage token", "not-a-jwt", http.StatusUnauthorized},
		{"candidate token", candidate, http.StatusForbidden},
		{"missing permission", reader, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if w := f.do(http.MethodPost, "/api/v1/admin/tests/t1/start", tc.token); w.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", w.Code, tc.want, w.Body.String())
			}
		})
	}
}

func TestAdminStartAndReport(t *testing.T) {
	f := newFixture(t)
	admin, _ := f.auth.GenerateAdminToken("ops@example.com", model.PermissionStrings())

	f.tests.EXPECT().Start(gomock.Any(), "t1", gomock.Any()).Return(nil)
	if w := f.do(http.MethodPost, "/api/v1/admin/tests/t1/start", admin); w.Code != http.StatusOK {
		t.Fatalf("start status = %d: %s", w.Code, w.Body.String())
	}

	f.tests.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, repository.ErrNotFound)
	if w := f.do(http.MethodGet, "/api/v1/admin/tests/missing/report", admin); w.Code != http.StatusNotFound {
		t.Fatalf("report status = %d: %s", w.Code, w.Body.String())
	}
}

func TestCandidateRoutes(t *testing.T) {
	f := newFixture(t)
	candidate, _ := f.auth.GenerateCandidateToken("ana@example.com")
	admin, _ := f.auth.GenerateAdminToken("ops@example.com", model.PermissionStrings())

	f.tests.EXPECT().ListRunning(gomock.Any()).Return(nil, nil)
	f.cands.EXPECT().GetByEmail(gomock.Any(), "ana@example.com").Return(nil, repository.ErrNotFound)
	if w := f.do(http.MethodGet, "/api/v1/candidate/tests", candidate); w.Code != http.StatusOK {
		t.Fatalf("list status = %d: %s", w.Code, w.Body.String())
	}

	if w := f.do(http.MethodGet, "/api/v1/candidate/tests", admin); w.Code != http.StatusForbidden {
		t.Fatalf("admin on candidate route = %d", w.Code)
	}

	// The stream only accepts the token as a query parameter.
	if w := f.do(http.MethodGet, "/ws/v1/candidate/tests/t1/stream", candidate); w.Code != http.StatusUnauthorized {
		t.Fatalf("stream with header token = %d", w.Code)
	}
}
