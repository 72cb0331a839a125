package payment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/hireready/hireready/internal/dto"
	"github.com/hireready/hireready/internal/payment"
)

type PaymentController struct {
	payments *payment.Service
}

func NewPaymentController(payments *payment.Service) *PaymentController {
	return &PaymentController{payments: payments}
}

// CreateOrder godoc
// @Summary Create a payment order
// @Tags Payments
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderDTO true "Order parameters"
// @Success 201 {object} dto.OrderResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 502 {object} dto.ErrorResponse "Provider rejected the order"
// @Router /payments/orders [post]
func (c *PaymentController) CreateOrder(ctx *gin.Context) {
	var req dto.CreateOrderDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	order, err := c.payments.CreateOrder(ctx.Request.Context(), req.Amount, req.Currency)
	if err != nil {
		log.Error().Err(err).Int64("amount", req.Amount).Msg("CreateOrder: Provider error")
		ctx.JSON(http.StatusBadGateway, dto.ErrorResponse{Message: "Failed to create order", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, dto.OrderResponseDTO{
		OrderID:  order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
	})
}

// VerifyPayment godoc
// @Summary Verify a payment callback signature
// @Description Checks the provider's HMAC signature over the order and payment ids. A mismatch is a 400, not a server error.
// @Tags Payments
// @Accept json
// @Produce json
// @Param verification body dto.VerifyPaymentDTO true "Verification parameters"
// @Success 200 {object} dto.VerifyPaymentResponseDTO
// @Failure 400 {object} dto.VerifyPaymentResponseDTO "Signature mismatch"
// @Router /payments/verify [post]
func (c *PaymentController) VerifyPayment(ctx *gin.Context) {
	var req dto.VerifyPaymentDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if !c.payments.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		log.Warn().Str("orderID", req.OrderID).Str("paymentID", req.PaymentID).Msg("Payment signature mismatch")
		ctx.JSON(http.StatusBadRequest, dto.VerifyPaymentResponseDTO{Success: false, Message: "Payment verification failed"})
		return
	}
	ctx.JSON(http.StatusOK, dto.VerifyPaymentResponseDTO{Success: true, Message: "Payment verified successfully"})
}
