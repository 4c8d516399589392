package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/origin"
)

func serveCORS(t *testing.T, policy *origin.Policy, method, requestOrigin string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/api/interviews", nil)
	if requestOrigin != "" {
		req.Header.Set(echo.HeaderOrigin, requestOrigin)
	}
	if method == http.MethodOptions {
		req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := CORS(policy)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})(c)
	return rec, err
}

func TestCORS_ProductionAllowsListedOrigin(t *testing.T) {
	policy := origin.NewPolicy(nil, true, origin.WithLogger(zerolog.Nop()))

	rec, err := serveCORS(t, policy, http.MethodGet, "https://preview-42.vercel.app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowOrigin); got != "https://preview-42.vercel.app" {
		t.Fatalf("unexpected allow-origin %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowCredentials); got != "true" {
		t.Fatalf("expected credentials flag, got %q", got)
	}
}

func TestCORS_ProductionRejectsUnknownOrigin(t *testing.T) {
	policy := origin.NewPolicy(nil, true, origin.WithLogger(zerolog.Nop()))

	_, err := serveCORS(t, policy, http.MethodGet, "https://evil.example.com")
	if !errors.Is(err, domain.ErrOriginNotAllowed) {
		t.Fatalf("expected ErrOriginNotAllowed, got %v", err)
	}
}

func TestCORS_DevelopmentAllowsAnyOrigin(t *testing.T) {
	policy := origin.NewPolicy(nil, false)

	rec, err := serveCORS(t, policy, http.MethodGet, "https://evil.example.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Header().Get(echo.HeaderAccessControlAllowOrigin) != "https://evil.example.com" {
		t.Fatalf("origin not echoed back")
	}
}

func TestCORS_NoOriginPassesThrough(t *testing.T) {
	policy := origin.NewPolicy(nil, true, origin.WithLogger(zerolog.Nop()))

	rec, err := serveCORS(t, policy, http.MethodGet, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORS_PreflightAdvertisesMethodsAndHeaders(t *testing.T) {
	policy := origin.NewPolicy([]string{"http://localhost:5173"}, true)

	rec, err := serveCORS(t, policy, http.MethodOptions, "http://localhost:5173")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowMethods); got != "GET,POST,PUT,DELETE,PATCH,OPTIONS" {
		t.Fatalf("unexpected methods %q", got)
	}
	if got := rec.Header().Get(echo.HeaderAccessControlAllowHeaders); got != "Content-Type,Authorization,X-Requested-With" {
		t.Fatalf("unexpected headers %q", got)
	}
}
