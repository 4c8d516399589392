package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/prepinter/prepinter/internal/core/origin"
)

// CORS wires the origin policy into echo's CORS middleware. A rejected
// origin surfaces as domain.ErrOriginNotAllowed through the error handler.
func CORS(policy *origin.Policy) echo.MiddlewareFunc {
	return echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOriginFunc:  policy.AllowOrigin,
		AllowMethods:     origin.AllowedMethods,
		AllowHeaders:     origin.AllowedHeaders,
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderXRequestID},
	})
}

