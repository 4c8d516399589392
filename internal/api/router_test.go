package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/prepinter/prepinter/internal/api/middleware"
	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/origin"
	"github.com/prepinter/prepinter/internal/core/service"
)

const testSecret = "router-test-secret"

type stubAnalytics struct{}

func (stubAnalytics) Record(context.Context, domain.ActivityEvent) error { return nil }

func (stubAnalytics) Summary(context.Context, string) (*domain.PerformanceSummary, error) {
	return &domain.PerformanceSummary{}, nil
}

func (stubAnalytics) Activity(context.Context, string, int) ([]*domain.ActivityEvent, error) {
	return nil, nil
}

func (stubAnalytics) Overview(context.Context) (map[domain.ActivityType]int64, error) {
	return map[domain.ActivityType]int64{domain.ActivityInterviewCompleted: 3}, nil
}

type routerOpts struct {
	production bool
	origins    []string
	limiter    *middleware.RateLimiter
	uploads    string
}

func newTestRouter(t *testing.T, o routerOpts) *echo.Echo {
	t.Helper()
	return NewRouter(Deps{
		Log:               zerolog.Nop(),
		Production:        o.production,
		Policy:            origin.NewPolicy(o.origins, o.production),
		Verifier:          service.NewTokenManager(testSecret, time.Hour),
		Analytics:         stubAnalytics{},
		RateLimiter:       o.limiter,
		UploadsDir:        o.uploads,
		BodyLimit:         "1K",
		MetricsRegisterer: prometheus.NewRegistry(),
	})
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := service.NewTokenManager(testSecret, time.Hour).Issue(&domain.User{ID: "u1", Email: "a@example.com", Role: role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return tok
}

func serve(e *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"OK"`) {
		t.Errorf("health: %d %s", rec.Code, rec.Body.String())
	}

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/", nil))
	if !strings.Contains(rec.Body.String(), "Welcome to PrepInter API") {
		t.Errorf("welcome: %s", rec.Body.String())
	}

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/favicon.ico", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("favicon: %d %q", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownPath(t *testing.T) {
	e := newTestRouter(t, routerOpts{production: true, origins: []string{"https://app.example.com"}})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/x", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"message":"Not Found - /x"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_UnknownAPIPathIsNotFound(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_GuardedWithoutToken(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/users/profile"},
		{http.MethodPut, "/api/users/profile"},
		{http.MethodPost, "/api/interviews"},
		{http.MethodPost, "/api/interviews/start"},
		{http.MethodGet, "/api/interviews"},
		{http.MethodGet, "/api/interviews/abc"},
		{http.MethodPut, "/api/interviews/abc"},
		{http.MethodDelete, "/api/interviews/abc"},
		{http.MethodPost, "/api/interview/session"},
		{http.MethodGet, "/api/interview/session/abc"},
		{http.MethodPost, "/api/interview/session/abc/answer"},
		{http.MethodPost, "/api/interview/session/abc/end"},
		{http.MethodPost, "/api/payments"},
		{http.MethodGet, "/api/payments"},
		{http.MethodGet, "/api/payments/abc"},
		{http.MethodPost, "/api/payments/abc/verify"},
		{http.MethodGet, "/api/analytics/summary"},
		{http.MethodGet, "/api/analytics/activity"},
		{http.MethodGet, "/api/analytics/overview"},
	}

	for _, r := range routes {
		req := httptest.NewRequest(r.method, r.path, strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := serve(e, req)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", r.method, r.path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Not authorized, no token") {
			t.Errorf("%s %s: unexpected body %s", r.method, r.path, rec.Body.String())
		}
	}
}

func TestRouter_OverviewRequiresAdmin(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, domain.RoleUser))
	if rec := serve(e, req); rec.Code != http.StatusForbidden {
		t.Errorf("user: expected 403, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+tokenFor(t, domain.RoleAdmin))
	rec := serve(e, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), string(domain.ActivityInterviewCompleted)) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestRouter_CORS(t *testing.T) {
	e := newTestRouter(t, routerOpts{production: true, origins: []string{"https://app.example.com", "https://*.vercel.app"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	rec := serve(e, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("denied origin: expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not allowed by CORS") {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodOptions, "/api/interviews", nil)
	req.Header.Set(echo.HeaderOrigin, "https://preview-1.vercel.app")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	rec = serve(e, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://preview-1.vercel.app" {
		t.Errorf("allow-origin: %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowCredentials); got != "true" {
		t.Errorf("allow-credentials: %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	rec = serve(e, req)
	if rec.Code != http.StatusOK {
		t.Errorf("no origin: expected 200, got %d", rec.Code)
	}
}

func TestRouter_DevelopmentAllowsAnyOrigin(t *testing.T) {
	e := newTestRouter(t, routerOpts{origins: []string{"https://app.example.com"}})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "https://evil.example.com")
	if rec := serve(e, req); rec.Code != http.StatusOK {
		t.Errorf("expected 200 outside production, got %d", rec.Code)
	}
}

func TestRouter_RegisterValidation(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	req := httptest.NewRequest(http.MethodPost, "/api/users/register", strings.NewReader(`{"email":"nope"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(e, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"errors"`) {
		t.Errorf("expected field errors: %s", rec.Body.String())
	}
}

func TestRouter_BodyLimit(t *testing.T) {
	e := newTestRouter(t, routerOpts{})

	body := `{"email":"` + strings.Repeat("a", 2048) + `@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if rec := serve(e, req); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", rec.Code)
	}
}

func TestRouter_CredentialEndpointsRateLimited(t *testing.T) {
	e := newTestRouter(t, routerOpts{limiter: middleware.NewRateLimiter(rate.Every(time.Hour), 1)})

	login := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/users/login", strings.NewReader(`{}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		req.RemoteAddr = "203.0.113.7:4000"
		return serve(e, req).Code
	}

	if code := login(); code != http.StatusBadRequest {
		t.Fatalf("first attempt: expected 400, got %d", code)
	}
	if code := login(); code != http.StatusTooManyRequests {
		t.Errorf("second attempt: expected 429, got %d", code)
	}
}

func TestRouter_Uploads(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "avatar.txt"), []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	e := newTestRouter(t, routerOpts{uploads: dir})

	rec := serve(e, httptest.NewRequest(http.MethodGet, "/uploads/avatar.txt", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "hello" {
		t.Errorf("uploads: %d %q", rec.Code, rec.Body.String())
	}

	rec = serve(e, httptest.NewRequest(http.MethodGet, "/uploads/missing.txt", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing upload: expected 404, got %d", rec.Code)
	}
}

func TestRouter_PanicRecovered(t *testing.T) {
	for _, production := range []bool{false, true} {
		e := newTestRouter(t, routerOpts{production: production})
		e.GET("/boom", func(echo.Context) error { panic("kaboom") })

		rec := serve(e, httptest.NewRequest(http.MethodGet, "/boom", nil))
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("expected 500, got %d", rec.Code)
		}
		hasStack := strings.Contains(rec.Body.String(), `"stack"`)
		if hasStack == production {
			t.Errorf("production=%v: stack present=%v body=%s", production, hasStack, rec.Body.String())
		}

		// The router keeps serving after a panic.
		if rec := serve(e, httptest.NewRequest(http.MethodGet, "/health", nil)); rec.Code != http.StatusOK {
			t.Errorf("health after panic: %d", rec.Code)
		}
	}
}
