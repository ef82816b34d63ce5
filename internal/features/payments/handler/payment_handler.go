package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"payurl-service/internal/core/logger"
	"payurl-service/internal/features/payments/domain"
	"payurl-service/internal/features/payments/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PaymentHandler handles HTTP requests for pay URLs and pay statuses.
type PaymentHandler struct {
	// service resolves pay URLs and statuses.
	service ports.PaymentService
}

// NewPaymentHandler creates a new instance of PaymentHandler.
func NewPaymentHandler(s ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service: s,
	}
}

// PayURLRequest is the request body of POST /api/pay-url.
type PayURLRequest struct {
	// OrderIDs are the 1688 order IDs to pay together, at most 30.
	OrderIDs OrderIDList `json:"order_ids" swaggertype:"array,string"`
}

// OrderIDList accepts order IDs given as JSON strings or JSON integers.
// Numbers keep their literal digits; 1688 IDs do not fit a float64.
type OrderIDList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *OrderIDList) UnmarshalJSON(b []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	ids := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if err := json.Unmarshal(r, &s); err == nil {
			ids = append(ids, s)
			continue
		}
		var n json.Number
		if err := json.Unmarshal(r, &n); err == nil {
			ids = append(ids, n.String())
			continue
		}
		return fmt.Errorf("order id %s must be a string or a number", r)
	}

	*l = ids
	return nil
}

// ErrorResponse represents the structure of an error response.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for debugging.
	RayID string `json:"ray_id"`
}

// GetPayURL resolves a batch of orders into one cross-border pay URL.
// @Summary Get pay URL
// @Description Resolves up to 30 orders into a single pay URL. Orders the platform rejects are dropped and retried once without them.
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body PayURLRequest true "Order IDs"
// @Success 200 {object} domain.BatchOutcome
// @Failure 400 {object} ErrorResponse
// @Router /api/pay-url [post]
func (h *PaymentHandler) GetPayURL(c *fiber.Ctx) error {
	rayID := requestID(c)

	var req PayURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid request body",
			RayID:   rayID,
		})
	}

	if len(req.OrderIDs) > domain.MaxBatchSize {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: domain.ErrBatchTooLarge.Error(),
			RayID:   rayID,
		})
	}

	outcome, err := h.service.ResolvePayURL(c.UserContext(), []string(req.OrderIDs))
	if err != nil {
		return h.fail(c, rayID, err, zap.Int("order_count", len(req.OrderIDs)))
	}

	logger.Get().Info("Pay URL request completed",
		zap.String("ray_id", rayID),
		zap.Bool("success", outcome.Success),
		zap.Int("success_count", outcome.SuccessCount),
		zap.Int("failed_count", outcome.FailedCount),
	)

	return c.Status(http.StatusOK).JSON(outcome)
}

// GetPayStatus returns the pay status description of one order.
// @Summary Get pay status
// @Description Fetches the buyer view of an order and returns tradeTerms[0].payStatusDesc.
// @Tags Payments
// @Produce json
// @Param order_id path string true "Order ID"
// @Success 200 {object} domain.PayStatusResult
// @Failure 400 {object} ErrorResponse
// @Router /api/pay-status/{order_id} [get]
func (h *PaymentHandler) GetPayStatus(c *fiber.Ctx) error {
	rayID := requestID(c)

	orderID, err := url.PathUnescape(c.Params("order_id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: "Invalid order ID",
			RayID:   rayID,
		})
	}

	result, err := h.service.GetPayStatus(c.UserContext(), orderID)
	if err != nil {
		return h.fail(c, rayID, err, zap.String("order_id", orderID))
	}

	return c.Status(http.StatusOK).JSON(result)
}

func (h *PaymentHandler) fail(c *fiber.Ctx, rayID string, err error, field zap.Field) error {
	if errors.Is(err, domain.ErrValidation) {
		return c.Status(http.StatusBadRequest).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   rayID,
		})
	}

	logger.Get().Error("Payment request failed",
		field,
		zap.String("ray_id", rayID),
		zap.Error(err),
	)
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Message: "Internal Server Error",
		RayID:   rayID,
	})
}

func requestID(c *fiber.Ctx) string {
	rayID, ok := c.Locals("requestid").(string)
	if !ok {
		return "unknown"
	}
	return rayID
}
