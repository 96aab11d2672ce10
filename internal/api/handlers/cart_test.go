package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/api/handlers"
	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/services/mocks"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestGetCartHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Empty Cart", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("GetCart", mock.Anything, userID).
			Return(&models.ResolvedCart{Items: []models.ResolvedCartItem{}}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/api/v1/cart", nil, userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"items":[]`)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - No Claims", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		req := testutils.CreateTestRequestWithoutContext(http.MethodGet, "/api/v1/cart", nil, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.GetCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		mockCartService.AssertNotCalled(t, "GetCart", mock.Anything, mock.Anything)
	})
}

func TestAddItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		resolved := &models.ResolvedCart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  []models.ResolvedCartItem{{ProductID: productID, Quantity: 2}},
		}

		mockCartService.On("AddItem", mock.Anything, userID, mock.MatchedBy(func(r *models.AddCartItemRequest) bool {
			return r.ProductID == productID && r.Quantity == 2
		})).Return(resolved, nil).Once()

		body, _ := json.Marshal(map[string]any{"productId": productID, "quantity": 2})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body), userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"success":true`)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Missing Product ID", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		body := []byte(`{"quantity": 2}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body), userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("AddItem", mock.Anything, userID, mock.AnythingOfType("*models.AddCartItemRequest")).
			Return(nil, appErrors.NotFoundError("Product not found")).Once()

		body, _ := json.Marshal(map[string]any{"productId": productID, "quantity": 1})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/api/v1/cart/items", bytes.NewReader(body), userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.AddItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Contains(t, rr.Body.String(), "NOT_FOUND")
	})
}

func TestUpdateItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		resolved := &models.ResolvedCart{
			Items: []models.ResolvedCartItem{{ProductID: productID, Quantity: 9}},
		}

		mockCartService.On("UpdateItem", mock.Anything, userID, productID, mock.MatchedBy(func(r *models.UpdateCartItemRequest) bool {
			return r.Quantity == 9
		})).Return(resolved, nil).Once()

		body := []byte(`{"quantity": 9}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut,
			fmt.Sprintf("/api/v1/cart/items/%s", productID), bytes.NewReader(body),
			userID, models.RoleUser, map[string]string{"productId": productID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Success - Zero Quantity Passed Through", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		resolved := &models.ResolvedCart{
			Items: []models.ResolvedCartItem{{ProductID: productID, Quantity: 0}},
		}

		mockCartService.On("UpdateItem", mock.Anything, userID, productID, mock.MatchedBy(func(r *models.UpdateCartItemRequest) bool {
			return r.Quantity == 0
		})).Return(resolved, nil).Once()

		body := []byte(`{"quantity": 0}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut,
			fmt.Sprintf("/api/v1/cart/items/%s", productID), bytes.NewReader(body),
			userID, models.RoleUser, map[string]string{"productId": productID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code, "Zero must not be rejected as a missing quantity")
		mockCartService.AssertExpectations(t)
	})

	t.Run("Success - Negative Quantity Passed Through", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		resolved := &models.ResolvedCart{
			Items: []models.ResolvedCartItem{{ProductID: productID, Quantity: -5}},
		}

		mockCartService.On("UpdateItem", mock.Anything, userID, productID, mock.MatchedBy(func(r *models.UpdateCartItemRequest) bool {
			return r.Quantity == -5
		})).Return(resolved, nil).Once()

		body := []byte(`{"quantity": -5}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut,
			fmt.Sprintf("/api/v1/cart/items/%s", productID), bytes.NewReader(body),
			userID, models.RoleUser, map[string]string{"productId": productID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - Bad Product ID In Path", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		body := []byte(`{"quantity": 9}`)
		req := testutils.CreateTestRequestWithContext(http.MethodPut,
			"/api/v1/cart/items/not-a-uuid", bytes.NewReader(body),
			userID, models.RoleUser, map[string]string{"productId": "not-a-uuid"})
		rr := httptest.NewRecorder()

		// Act
		handler.UpdateItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCartService.AssertNotCalled(t, "UpdateItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRemoveItemHandler(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("RemoveItem", mock.Anything, userID, productID).
			Return(&models.ResolvedCart{Items: []models.ResolvedCartItem{}}, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete,
			fmt.Sprintf("/api/v1/cart/items/%s", productID), nil,
			userID, models.RoleUser, map[string]string{"productId": productID.String()})
		rr := httptest.NewRecorder()

		// Act
		handler.RemoveItem().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCartService.AssertExpectations(t)
	})
}

func TestClearCartHandler(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("ClearCart", mock.Anything, userID).Return(nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart", nil, userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockCartService.AssertExpectations(t)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		mockCartService := new(mocks.CartService)
		handler := handlers.NewCartHandler(mockCartService)

		mockCartService.On("ClearCart", mock.Anything, userID).
			Return(appErrors.NotFoundError("Cart not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodDelete, "/api/v1/cart", nil, userID, models.RoleUser, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ClearCart().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
