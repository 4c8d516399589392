package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/prepinter/prepinter/internal/core/domain"
	"github.com/prepinter/prepinter/internal/core/ports"
)

const headerIdempotencyKey = "Idempotency-Key"

// PaymentHandler handles plan purchases.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create opens a pending payment. Replaying the same Idempotency-Key returns
// the original payment with 200 instead of 201.
//
// @Summary      Create payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Client-generated key for safe retries"
// @Param        body             body      createPaymentRequest  true   "Plan"
// @Success      201              {object}  domain.Payment
// @Success      200              {object}  domain.Payment  "Idempotent replay"
// @Failure      400              {object}  messageResponse
// @Failure      409              {object}  messageResponse
// @Router       /api/payments [post]
func (h *PaymentHandler) Create(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req createPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.service.Create(c.Request().Context(), ports.CreatePaymentInput{
		UserID:         who.UserID,
		PlanCode:       req.Plan,
		IdempotencyKey: c.Request().Header.Get(headerIdempotencyKey),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	if result.AlreadyExisted {
		status = http.StatusOK
	}
	return c.JSON(status, result.Payment)
}

// List returns the caller's payments.
//
// @Summary      List payments
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Payment
// @Router       /api/payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	items, err := h.service.List(c.Request().Context(), who)
	if err != nil {
		return err
	}
	if items == nil {
		items = []*domain.Payment{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get returns one of the caller's payments.
//
// @Summary      Get payment
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Payment ID"
// @Success      200  {object}  domain.Payment
// @Failure      403  {object}  messageResponse
// @Failure      404  {object}  messageResponse
// @Router       /api/payments/{id} [get]
func (h *PaymentHandler) Get(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}

	p, err := h.service.Get(c.Request().Context(), who, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}

// Verify confirms a payment and upgrades the caller's plan.
//
// @Summary      Verify payment
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Payment ID"
// @Param        body  body      verifyPaymentRequest  true  "Gateway reference"
// @Success      200   {object}  domain.Payment
// @Failure      400   {object}  messageResponse
// @Failure      403   {object}  messageResponse
// @Failure      422   {object}  messageResponse
// @Router       /api/payments/{id}/verify [post]
func (h *PaymentHandler) Verify(c echo.Context) error {
	who, err := caller(c)
	if err != nil {
		return err
	}
	var req verifyPaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	p, err := h.service.Verify(c.Request().Context(), who, c.Param("id"), req.Reference)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, p)
}
