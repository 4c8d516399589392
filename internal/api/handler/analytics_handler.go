package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

type AnalyticsHandler struct {
	service ports.AnalyticsService
}

func NewAnalyticsHandler(service ports.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// Summary returns the caller's performance summary.
//
// @Summary      Performance summary
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.PerformanceSummary
// @Router       /api/analytics/summary [get]
func (h *AnalyticsHandler) Summary(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	sum, err := h.service.Summary(c.Request().Context(), who.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sum)
}

// Activity returns the caller's most recent activity events.
//
// @Summary      Recent activity
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max events (1-100, default 20)"
// @Success      200    {array}   domain.ActivityEvent
// @Failure      400    {object}  messageResponse
// @Router       /api/analytics/activity [get]
func (h *AnalyticsHandler) Activity(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return domain.FieldError("limit", "limit must be a positive integer")
		}
	}

	events, err := h.service.Activity(c.Request().Context(), who.UserID, limit)
	if err != nil {
		return err
	}
	if events == nil {
		events = []*domain.ActivityEvent{}
	}
	return c.JSON(http.StatusOK, events)
}

// Overview returns activity counts across all users. Admin only.
//
// @Summary      Activity overview
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  overviewResponse
// @Failure      403  {object}  messageResponse
// @Router       /api/analytics/overview [get]
func (h *AnalyticsHandler) Overview(c echo.Context) error {
	counts, err := h.service.Overview(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, overviewResponse{Counts: counts})
}
