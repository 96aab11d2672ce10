package handlers

import (
	"log/slog"
	"net/http"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/api/middleware"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	service "github.com/ThanhPhat1604/Assignment3SDN/internal/services"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type PaymentHandler struct {
	paymentService service.PaymentService
	validator      *validator.Validate
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService, validator: validator.New()}
}

// SimulatePayment godoc
//	@Summary		Simulate paying for an order
//	@Description	Marks one of the caller's unpaid orders as paid. No gateway is involved.
//	@Tags			Payments
//	@Accept			json
//	@Produce		json
//	@Param			payment	body		models.SimulatePaymentRequest	true	"Order to settle"
//	@Success		200		{object}	models.Order					"Paid order"
//	@Failure		400		{object}	response.ErrorResponse			"Order is already paid"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Security		BearerAuth
//	@Router			/payments/simulate [post]
func (h *PaymentHandler) SimulatePayment() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.SimulatePaymentRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid payment input")

			return
		}

		order, err := h.paymentService.SimulatePayment(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Payment simulation failed", slog.String("orderId", req.OrderID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order paid", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusOK, order)
	}
}
