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

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the authenticated user's cart
//	@Description	Returns the cart with product details resolved. A user without a cart gets an empty item list.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	models.ResolvedCart		"Cart contents"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/cart [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// AddItem godoc
//	@Summary		Add a product to the cart
//	@Description	Creates the cart on first use. Adding a product that is already in the cart increments its quantity.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.AddCartItemRequest	true	"Product and quantity (quantity defaults to 1)"
//	@Success		200		{object}	models.ResolvedCart			"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse		"Validation error"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse		"Product not found"
//	@Security		BearerAuth
//	@Router			/cart/items [post]
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		var req models.AddCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")

			return
		}

		cart, err := h.cartService.AddItem(r.Context(), claims.UserID, &req)
		if err != nil {
			logger.Warn("Failed to add cart item", slog.String("productId", req.ProductID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart item added", slog.String("productId", req.ProductID.String()))
		response.Success(w, http.StatusOK, cart)
	}
}

// UpdateItem godoc
//	@Summary		Set a cart line's quantity
//	@Description	Overwrites the quantity with the submitted value.
//	@Tags			Cart
//	@Accept			json
//	@Produce		json
//	@Param			productId	path		string							true	"Product ID (UUID)"	Format(uuid)
//	@Param			item		body		models.UpdateCartItemRequest	true	"New quantity"
//	@Success		200			{object}	models.ResolvedCart				"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse			"Validation error"
//	@Failure		401			{object}	response.ErrorResponse			"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse			"Cart or item not found"
//	@Security		BearerAuth
//	@Router			/cart/items/{productId} [put]
func (h *CartHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)

			return
		}

		var req models.UpdateCartItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update item input")

			return
		}

		cart, err := h.cartService.UpdateItem(r.Context(), claims.UserID, productID, &req)
		if err != nil {
			logger.Warn("Failed to update cart item", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove a product from the cart
//	@Description	Removing a product that is not in the cart is a no-op.
//	@Tags			Cart
//	@Produce		json
//	@Param			productId	path		string					true	"Product ID (UUID)"	Format(uuid)
//	@Success		200			{object}	models.ResolvedCart		"Updated cart"
//	@Failure		401			{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse	"Cart not found"
//	@Security		BearerAuth
//	@Router			/cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		productID, err := utils.ParseID(r, "productId")
		if err != nil {
			response.Error(w, err)

			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, productID)
		if err != nil {
			logger.Warn("Failed to remove cart item", slog.String("productId", productID.String()), slog.Any("error", err))
			response.Error(w, err)

			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//	@Summary		Clear the cart
//	@Description	Empties the cart's line list; the cart itself survives.
//	@Tags			Cart
//	@Produce		json
//	@Success		200	{object}	response.APIResponse	"Cart cleared"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404	{object}	response.ErrorResponse	"Cart not found"
//	@Security		BearerAuth
//	@Router			/cart [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims := middleware.ClaimsFromContext(r.Context())
		if claims == nil {
			response.Error(w, errors.UnauthorizedError("Authentication required"))

			return
		}

		if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
			logger.Warn("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)

			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
	}
}
