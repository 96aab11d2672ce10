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

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// CreateOrder godoc
//	@Summary		Check out the cart
//	@Description	Converts the cart into an unpaid order with item snapshots, then deletes the cart.
//	@Tags			Orders
//	@Produce		json
//	@Success		201	{object}	models.Order			"Created order"
//	@Failure		400	{object}	response.ErrorResponse	"Cart is empty"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [post]
func (h *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			logger.Warn("Unauthorized order creation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		order, err := h.orderService.CreateOrderFromCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Warn("Failed to create order", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order created", slog.String("orderId", order.ID.String()))
		response.Success(w, http.StatusCreated, order)
	}
}

// ListMyOrders godoc
//	@Summary		List the authenticated user's orders
//	@Description	Newest first, with item snapshots.
//	@Tags			Orders
//	@Produce		json
//	@Success		200	{array}		models.Order			"Orders"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/orders [get]
func (h *OrderHandler) ListMyOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		orders, err := h.orderService.ListMyOrders(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to list orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// GetOrder godoc
//	@Summary		Get one of the authenticated user's orders
//	@Description	Another user's order answers 404, not 403.
//	@Tags			Orders
//	@Produce		json
//	@Param			id	path		string					true	"Order ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Order			"Order"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid order ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Order not found"
//	@Security		BearerAuth
//	@Router			/orders/{id} [get]
func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		order, err := h.orderService.GetOrderByID(r.Context(), claims.UserID, id)
		if err != nil {
			logger.Warn("Failed to get order", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, order)
	}
}

// ListAllOrders godoc
//	@Summary		List every order (admin)
//	@Description	All orders newest first, each with the owning user's name and email.
//	@Tags			Admin
//	@Produce		json
//	@Success		200	{array}		models.Order			"Orders"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Admin access required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/admin/orders [get]
func (h *OrderHandler) ListAllOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		orders, err := h.orderService.ListAllOrders(r.Context())
		if err != nil {
			logger.Error("Failed to list all orders", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, orders)
	}
}

// UpdateOrderStatus godoc
//	@Summary		Set an order's status (admin)
//	@Description	Overwrites the status unconditionally; there is no transition graph.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Order ID (UUID)"	Format(uuid)
//	@Param			status	body		models.UpdateOrderStatusRequest	true	"New status"
//	@Success		200		{object}	models.Order					"Updated order"
//	@Failure		400		{object}	response.ErrorResponse			"Validation error"
//	@Failure		401		{object}	response.ErrorResponse			"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse			"Admin access required"
//	@Failure		404		{object}	response.ErrorResponse			"Order not found"
//	@Security		BearerAuth
//	@Router			/admin/orders/{id}/status [patch]
func (h *OrderHandler) UpdateOrderStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.ParseID(r, "id")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateOrderStatusRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid status update input")

			return
		}

		order, err := h.orderService.UpdateOrderStatus(r.Context(), id, req.Status)
		if err != nil {
			logger.Warn("Failed to update order status", slog.String("orderId", id.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Order status updated",
			slog.String("orderId", id.String()),
			slog.String("status", string(req.Status)))
		response.Success(w, http.StatusOK, order)
	}
}
