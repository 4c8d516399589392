package http

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/prepinter/prepinter/docs"
	"github.com/prepinter/prepinter/internal/infrastructure/http/handlers"
)

// NewOpsRouter builds the operations listener: Prometheus metrics, probes
// and API docs. It is served on its own port, apart from the public API.
func NewOpsRouter(checks ...handlers.Check) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())

	health := handlers.NewHealthHandler(checks...)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
