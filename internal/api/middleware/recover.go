package middleware

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/api/metrics"
	"github.com/prepinter/prepinter/internal/core/domain"
)

// Recover turns a handler panic into a *domain.PanicError handed to the
// error handler. The process keeps serving.
func Recover(log zerolog.Logger) echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		StackSize:       8 << 10,
		DisableStackAll: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			metrics.PanicsRecoveredTotal.WithLabelValues("http").Inc()
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("uri", c.Request().RequestURI).
				Bytes("stack", stack).
				Msg("recovered from panic")
			return &domain.PanicError{Value: err, Stack: stack}
		},
	})
}

