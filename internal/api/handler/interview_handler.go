package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

// InterviewHandler handles HTTP requests for mock interviews.
type InterviewHandler struct {
	service ports.InterviewService
}

func NewInterviewHandler(service ports.InterviewService) *InterviewHandler {
	return &InterviewHandler{service: service}
}

// Create schedules a new interview.
//
// @Summary      Create interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInterviewRequest  true  "Interview"
// @Success      201   {object}  domain.Interview
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/interviews [post]
func (h *InterviewHandler) Create(c echo.Context) error {
	return h.create(c, h.service.Create)
}

// Start creates an interview that begins immediately with questions drawn
// from the question bank.
//
// @Summary      Start interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createInterviewRequest  true  "Interview"
// @Success      201   {object}  domain.Interview
// @Failure      400   {object}  messageResponse
// @Failure      401   {object}  messageResponse
// @Router       /api/interviews/start [post]
func (h *InterviewHandler) Start(c echo.Context) error {
	return h.create(c, h.service.Start)
}

type createFunc func(ctx context.Context, who *domain.Identity, in ports.CreateInterviewInput) (*domain.Interview, error)

func (h *InterviewHandler) create(c echo.Context, fn createFunc) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req createInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	questions := make([]domain.Question, 0, len(req.Questions))
	for _, q := range req.Questions {
		questions = append(questions, domain.Question{Text: q.Text, Category: q.Category})
	}

	iv, err := fn(c.Request().Context(), who, ports.CreateInterviewInput{
		Title:         req.Title,
		JobRole:       req.JobRole,
		Type:          req.Type,
		Difficulty:    req.Difficulty,
		Questions:     questions,
		QuestionCount: req.QuestionCount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, iv)
}

// List returns the caller's interviews, newest first.
//
// @Summary      List interviews
// @Tags         interviews
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by status"
// @Param        type    query     string  false  "Filter by type"
// @Success      200     {array}   domain.Interview
// @Failure      401     {object}  messageResponse
// @Router       /api/interviews [get]
func (h *InterviewHandler) List(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), who, c.QueryParam("status"), c.QueryParam("type"))
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Interview{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one interview.
//
// @Summary      Get interview
// @Tags         interviews
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Interview ID"
// @Success      200  {object}  domain.Interview
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/interviews/{id} [get]
func (h *InterviewHandler) Get(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	iv, err := h.service.Get(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, iv)
}

// Update changes title, notes, score, feedback or status.
//
// @Summary      Update interview
// @Tags         interviews
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                  true  "Interview ID"
// @Param        body  body      updateInterviewRequest  true  "Changes"
// @Success      200   {object}  domain.Interview
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/interviews/{id} [put]
func (h *InterviewHandler) Update(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req updateInterviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	iv, err := h.service.Update(c.Request().Context(), who, c.Param("id"), ports.UpdateInterviewInput{
		Title:    req.Title,
		Notes:    req.Notes,
		Status:   req.Status,
		Score:    req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, iv)
}

// Delete removes an interview.
//
// @Summary      Delete interview
// @Tags         interviews
// @Security     BearerAuth
// @Param        id   path  string  true  "Interview ID"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/interviews/{id} [delete]
func (h *InterviewHandler) Delete(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), who, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Interview deleted"})
}
