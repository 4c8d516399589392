package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const identityKey = "identity"

const (
	msgNoToken     = "Not authorized, no token"
	msgTokenFailed = "Not authorized, token failed"
)

// Guard validates the bearer token and injects the caller's identity into
// context. The handler never runs when verification fails.
func Guard(verifier ports.IdentityVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				metrics.AuthFailuresTotal.WithLabelValues("missing_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgNoToken)
			}

			token, ok := BearerToken(authHeader)
			if !ok {
				metrics.AuthFailuresTotal.WithLabelValues("malformed_header").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenFailed)
			}

			identity, err := verifier.Verify(c.Request().Context(), token)
			if err != nil || identity == nil {
				metrics.AuthFailuresTotal.WithLabelValues("invalid_token").Inc()
				return echo.NewHTTPError(http.StatusUnauthorized, msgTokenFailed).SetInternal(err)
			}

			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func BearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// IdentityFrom returns the identity attached by Guard, or nil.
func IdentityFrom(c echo.Context) *domain.Identity {
	identity, _ := c.Get(identityKey).(*domain.Identity)
	return identity
}

// WithIdentity attaches identity to c. Used by tests and by the shell.
func WithIdentity(c echo.Context, identity *domain.Identity) {
	c.Set(identityKey, identity)
}
