package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minutehire/auth-gateway/internal/core/domain"
	"github.com/minutehire/auth-gateway/internal/core/ports"
)

type webhookRequest struct {
	TransactionID string `json:"transactionId" validate:"required"`
	UserID        string `json:"userId"`

	// Amount in paise; only compared against the verified amount.
	Amount int64 `json:"amount"`
}

type webhookResponse struct {
	Status string        `json:"status"`
	Order  *domain.Order `json:"order,omitempty"`
}

// PaymentHandler receives payment notifications and serves recorded orders.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Webhook verifies a transaction with the payment provider and records the
// order once it is completed. The body is only a hint: the amount and state
// always come from the provider.
//
// @Summary      PhonePe payment webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        body  body      webhookRequest  true  "Transaction notification"
// @Success      200   {object}  webhookResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string  "Payment not completed"
// @Failure      502   {object}  map[string]string
// @Router       /webhooks/phonepe [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	var req webhookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.HandleWebhook(c.Request().Context(), ports.WebhookInput{
		TransactionID:      req.TransactionID,
		UserID:             req.UserID,
		ClaimedAmountPaise: req.Amount,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, webhookResponse{Status: "recorded", Order: order})
}

// GetOrder returns a recorded order by transaction id.
//
// @Summary      Get an order
// @Tags         payments
// @Produce      json
// @Security     SessionCookie
// @Param        transaction_id  path      string  true  "PhonePe transaction id"
// @Success      200             {object}  domain.Order
// @Failure      401             {object}  map[string]string
// @Failure      403             {object}  map[string]string
// @Failure      404             {object}  map[string]string
// @Router       /v1/orders/{transaction_id} [get]
func (h *PaymentHandler) GetOrder(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), c.Param("transaction_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}
