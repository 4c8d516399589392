package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/core/domain"
)

type stubVerifier struct {
	tokens map[string]*domain.Identity
	calls  int
}

func (v *stubVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	v.calls++
	if id, ok := v.tokens[token]; ok {
		return id, nil
	}
	return nil, domain.ErrUnauthorized
}

func newVerifier() *stubVerifier {
	return &stubVerifier{tokens: map[string]*domain.Identity{
		"good-token":  {UserID: "u1", Email: "alice@example.com", Role: domain.RoleUser},
		"admin-token": {UserID: "a1", Email: "root@example.com", Role: domain.RoleAdmin},
	}}
}

func runGuard(t *testing.T, header string, v *stubVerifier) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Guard(v)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, called
}

func TestGuard_ValidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Guard(newVerifier())(func(c echo.Context) error {
		id := IdentityFrom(c)
		if id == nil {
			t.Fatalf("identity not set")
		}
		if id.UserID != "u1" || id.Email != "alice@example.com" || id.Role != domain.RoleUser {
			t.Fatalf("unexpected identity: %+v", id)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestGuard_MissingHeader(t *testing.T) {
	v := newVerifier()
	rec, called := runGuard(t, "", v)

	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not authorized, no token") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
	if v.calls != 0 {
		t.Fatalf("verifier must not be consulted without a token")
	}
}

func TestGuard_InvalidHeaderFormat(t *testing.T) {
	for _, header := range []string{"Token abc", "Bearer", "Bearer   "} {
		rec, called := runGuard(t, header, newVerifier())
		if called {
			t.Fatalf("%q: should not reach next", header)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%q: expected 401, got %d", header, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "Not authorized, token failed") {
			t.Fatalf("%q: unexpected body: %s", header, rec.Body.String())
		}
	}
}

func TestGuard_InvalidToken(t *testing.T) {
	rec, called := runGuard(t, "Bearer forged", newVerifier())

	if called {
		t.Fatalf("should not reach next")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Not authorized, token failed") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestGuard_LowercaseScheme(t *testing.T) {
	_, called := runGuard(t, "bearer good-token", newVerifier())
	if !called {
		t.Fatalf("scheme match should be case-insensitive")
	}
}

func TestGuard_KeepsVerifierCause(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer forged")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Guard(newVerifier())(func(echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if !errors.Is(he.Internal, domain.ErrUnauthorized) {
		t.Fatalf("expected internal cause to be kept, got %v", he.Internal)
	}
}
