package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/api/middleware"
	"github.com/prepinter/prepinter/internal/core/domain"
)

// caller returns the identity attached by the Guard. Its absence means the
// route was registered without the Guard, which is a wiring bug; answer 401
// rather than run the handler anonymously.
func caller(c echo.Context) (*domain.Identity, error) {
	identity := middleware.IdentityFrom(c)
	if identity == nil || identity.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	return identity, nil
}

// bindAndValidate decodes the request body into req and runs the struct
// validator. Malformed bodies become a shape-level ValidationError.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid request body")
	}
	return c.Validate(req)
}
