package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/prepinter/prepinter/internal/core/domain"
)

const internalErrorMessage = "internal server error"

// validationResponse is written by the validation stage.
type validationResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// errorResponse is the generic error envelope. Stack is only populated
// outside production.
type errorResponse struct {
	Message string `json:"message"`
	Stack   string `json:"stack,omitempty"`
}

// stage inspects err and either writes the response (handled) or hands a
// possibly replaced error to the next stage.
type stage func(err error, c echo.Context) (next error, handled bool)

type errorNormalizer struct {
	log        zerolog.Logger
	production bool
	stages     []stage
}

// sentinelStatus maps domain sentinels to HTTP status codes. Order matters:
// the first match wins.
var sentinelStatus = []struct {
	target error
	code   int
}{
	{domain.ErrOriginNotAllowed, http.StatusForbidden},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrUserExists, http.StatusConflict},
	{domain.ErrRequestInProgress, http.StatusConflict},
	{domain.ErrInvalidTransition, http.StatusUnprocessableEntity},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that runs every
// error through three stages in fixed order: not-found, validation and
// generic. The first stage that writes a response ends the chain.
func NewHTTPErrorHandler(log zerolog.Logger, production bool) echo.HTTPErrorHandler {
	n := &errorNormalizer{log: log, production: production}
	n.stages = []stage{n.notFound, n.validation, n.generic}
	return n.handle
}

func (n *errorNormalizer) handle(err error, c echo.Context) {
	for _, s := range n.stages {
		if c.Response().Committed {
			return
		}
		var handled bool
		if err, handled = s(err, c); handled {
			return
		}
	}
}

// notFound turns the router's 404 into a NotFoundError naming the original
// URI. It never writes the response itself.
func (n *errorNormalizer) notFound(err error, c echo.Context) (error, bool) {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusNotFound && he.Internal == nil {
		return &domain.NotFoundError{URI: c.Request().RequestURI}, false
	}
	return err, false
}

func (n *errorNormalizer) validation(err error, c echo.Context) (error, bool) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return err, false
	}

	msg := ve.Message
	if msg == "" {
		msg = "validation failed"
	}
	n.write(c, http.StatusBadRequest, validationResponse{Message: msg, Errors: ve.Fields})
	return nil, true
}

func (n *errorNormalizer) generic(err error, c echo.Context) (error, bool) {
	code, msg := resolveError(err)

	if code >= http.StatusInternalServerError {
		n.log.Error().
			Err(err).
			Int("status", code).
			Str("method", c.Request().Method).
			Str("uri", c.Request().RequestURI).
			Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
			Msg("unhandled error")
		if n.production {
			msg = internalErrorMessage
		}
	}

	resp := errorResponse{Message: msg}
	if !n.production {
		resp.Stack = stackOf(err)
	}
	n.write(c, code, resp)
	return nil, true
}

func (n *errorNormalizer) write(c echo.Context, code int, body any) {
	var err error
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		n.log.Error().Err(err).Msg("failed to write error response")
	}
}

func resolveError(err error) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprint(he.Message)
	}

	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, nf.Error()
	}

	for _, s := range sentinelStatus {
		if errors.Is(err, s.target) {
			return s.code, err.Error()
		}
	}

	if err == nil {
		return http.StatusInternalServerError, internalErrorMessage
	}
	return http.StatusInternalServerError, err.Error()
}

// stackOf renders diagnostic detail for err: the goroutine stack for
// recovered panics, the unwrap chain otherwise.
func stackOf(err error) string {
	var pe *domain.PanicError
	if errors.As(err, &pe) && len(pe.Stack) > 0 {
		return pe.StackTrace()
	}

	var b strings.Builder
	for e := err; e != nil; e = errors.Unwrap(e) {
		if b.Len() > 0 {
			b.WriteString("\n    caused by: ")
		}
		b.WriteString(e.Error())
	}
	return b.String()
}
