package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves the public, unauthenticated probes of the API.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Welcome godoc
//
// @Summary  API banner
// @Tags     health
// @Produce  json
// @Success  200  {object}  messageResponse
// @Router   / [get]
func (h *HealthHandler) Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, messageResponse{Message: "Welcome to PrepInter API"})
}

// Health is the liveness probe. It never consults dependencies.
//
// @Summary  Liveness probe
// @Tags     health
// @Produce  json
// @Success  200  {object}  map[string]string
// @Router   /health [get]
func (h *HealthHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "OK"})
}

// Favicon answers browsers' automatic icon requests without a body.
func (h *HealthHandler) Favicon(c echo.Context) error {
	return c.NoContent(http.StatusNoContent)
}
