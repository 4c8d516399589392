package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/core/ports"
)

// SessionHandler drives live interview sessions.
type SessionHandler struct {
	service ports.SessionService
}

func NewSessionHandler(service ports.SessionService) *SessionHandler {
	return &SessionHandler{service: service}
}

// Start opens a session for an interview.
//
// @Summary      Start session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      startSessionRequest  true  "Interview to run"
// @Success      201   {object}  domain.InterviewSession
// @Failure      403   {object}  messageResponse
// @Failure      404   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/interview/session [post]
func (h *SessionHandler) Start(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req startSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.Start(c.Request().Context(), who, req.InterviewID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, sess)
}

// Get returns a session with its answers.
//
// @Summary      Get session
// @Tags         sessions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Session ID"
// @Success      200  {object}  domain.InterviewSession
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/interview/session/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	sess, err := h.service.Get(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// Answer records the answer to one question.
//
// @Summary      Submit answer
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Session ID"
// @Param        body  body      answerRequest  true  "Answer"
// @Success      200   {object}  domain.InterviewSession
// @Failure      400   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/interview/session/{id}/answer [post]
func (h *SessionHandler) Answer(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req answerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.SubmitAnswer(c.Request().Context(), who, c.Param("id"), ports.AnswerInput{
		QuestionIndex:   req.QuestionIndex,
		Text:            req.Answer,
		DurationSeconds: req.DurationSeconds,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}

// End finishes the session and completes its interview.
//
// @Summary      End session
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Session ID"
// @Param        body  body      endSessionRequest  false "Outcome"
// @Success      200   {object}  domain.InterviewSession
// @Failure      422   {object}  messageResponse
// @Router       /api/interview/session/{id}/end [post]
func (h *SessionHandler) End(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req endSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.service.End(c.Request().Context(), who, c.Param("id"), ports.EndSessionInput{
		Score:    req.Score,
		Feedback: req.Feedback,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, sess)
}
