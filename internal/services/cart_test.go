package service_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/repositories/mocks"
	service "github.com/ThanhPhat1604/Assignment3SDN/internal/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func cartFixture(userID uuid.UUID, items ...models.CartItem) *models.Cart {
	return &models.Cart{
		ID:     uuid.New(),
		UserID: userID,
		Items:  items,
	}
}

func emptyProductMap(ids []uuid.UUID) map[uuid.UUID]*models.Product {
	return make(map[uuid.UUID]*models.Product, len(ids))
}

func TestGetCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()

	t.Run("Success - Cart Found", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: productID, Quantity: 2})
		product := &models.Product{ID: productID, Name: "Keyboard", Price: 49.99}

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{productID}).
			Return(map[uuid.UUID]*models.Product{productID: product}, nil).Once()

		// Act
		resolved, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, resolved)
		assert.Len(t, resolved.Items, 1)
		assert.Equal(t, 2, resolved.Items[0].Quantity)
		assert.Equal(t, product, resolved.Items[0].Product)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - No Cart Yet Returns Empty Items", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		resolved, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.NotNil(t, resolved)
		assert.Empty(t, resolved.Items)
		assert.NotNil(t, resolved.Items, "items must serialize as [] not null")
		cartRepo.AssertExpectations(t)
	})

	t.Run("Success - Deleted Product Resolves To Nil", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: productID, Quantity: 1})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{productID}).
			Return(emptyProductMap(nil), nil).Once()

		// Act
		resolved, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resolved.Items, 1)
		assert.Nil(t, resolved.Items[0].Product)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Failure - Database Error", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		dbError := errors.New("connection reset")
		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, dbError).Once()

		// Act
		resolved, err := cartService.GetCart(ctx, userID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resolved)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
		assert.ErrorIs(t, err, dbError)
		cartRepo.AssertExpectations(t)
	})
}

func TestAddItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Name: "Keyboard", Price: 49.99}

	t.Run("Success - First Add Creates Cart", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()
		cartRepo.On("CreateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.UserID == userID && len(c.Items) == 1 &&
				c.Items[0].ProductID == productID && c.Items[0].Quantity == 1
		})).Return(nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{productID}).
			Return(map[uuid.UUID]*models.Product{productID: product}, nil).Once()

		// Act
		resolved, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: productID})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resolved.Items, 1)
		assert.Equal(t, 1, resolved.Items[0].Quantity, "omitted quantity defaults to one")
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - Duplicate Product Merges Into One Line", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: productID, Quantity: 2})

		productRepo.On("GetProductByID", ctx, productID).Return(product, nil).Once()
		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		cartRepo.On("UpdateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Items) == 1 && c.Items[0].Quantity == 5
		})).Return(nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{productID}).
			Return(map[uuid.UUID]*models.Product{productID: product}, nil).Once()

		// Act
		resolved, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: productID, Quantity: 3})

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resolved.Items, 1)
		assert.Equal(t, 5, resolved.Items[0].Quantity)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Failure - Unknown Product", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		productRepo.On("GetProductByID", ctx, productID).Return(nil, sql.ErrNoRows).Once()

		// Act
		resolved, err := cartService.AddItem(ctx, userID, &models.AddCartItemRequest{ProductID: productID, Quantity: 1})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resolved)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		productRepo.AssertExpectations(t)
		cartRepo.AssertNotCalled(t, "CreateCart", mock.Anything, mock.Anything)
	})
}

func TestUpdateItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	product := &models.Product{ID: productID, Name: "Keyboard", Price: 49.99}

	t.Run("Success - Quantity Overwritten Verbatim", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: productID, Quantity: 2})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		cartRepo.On("UpdateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.Items[0].Quantity == 7
		})).Return(nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{productID}).
			Return(map[uuid.UUID]*models.Product{productID: product}, nil).Once()

		// Act
		resolved, err := cartService.UpdateItem(ctx, userID, productID, &models.UpdateCartItemRequest{Quantity: 7})

		// Assert
		assert.NoError(t, err)
		assert.Equal(t, 7, resolved.Items[0].Quantity)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		resolved, err := cartService.UpdateItem(ctx, userID, productID, &models.UpdateCartItemRequest{Quantity: 7})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resolved)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - Product Not In Cart", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: uuid.New(), Quantity: 2})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()

		// Act
		resolved, err := cartService.UpdateItem(ctx, userID, productID, &models.UpdateCartItemRequest{Quantity: 7})

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resolved)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})
}

func TestRemoveItem(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	productID := uuid.New()
	otherID := uuid.New()
	product := &models.Product{ID: otherID, Name: "Mouse", Price: 19.99}

	t.Run("Success - Line Removed", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID,
			models.CartItem{ProductID: productID, Quantity: 2},
			models.CartItem{ProductID: otherID, Quantity: 1})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		cartRepo.On("UpdateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return len(c.Items) == 1 && c.Items[0].ProductID == otherID
		})).Return(nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{otherID}).
			Return(map[uuid.UUID]*models.Product{otherID: product}, nil).Once()

		// Act
		resolved, err := cartService.RemoveItem(ctx, userID, productID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resolved.Items, 1)
		cartRepo.AssertExpectations(t)
		productRepo.AssertExpectations(t)
	})

	t.Run("Success - Absent Product Is A No-Op", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: otherID, Quantity: 1})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		productRepo.On("GetProductsByIDs", ctx, []uuid.UUID{otherID}).
			Return(map[uuid.UUID]*models.Product{otherID: product}, nil).Once()

		// Act
		resolved, err := cartService.RemoveItem(ctx, userID, productID)

		// Assert
		assert.NoError(t, err)
		assert.Len(t, resolved.Items, 1)
		cartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		resolved, err := cartService.RemoveItem(ctx, userID, productID)

		// Assert
		assert.Error(t, err)
		assert.Nil(t, resolved)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
	})
}

func TestClearCart(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success - Empties The Line List", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: uuid.New(), Quantity: 3})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		cartRepo.On("UpdateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.ID == cart.ID && len(c.Items) == 0
		})).Return(nil).Once()

		// Act
		err := cartService.ClearCart(ctx, userID)

		// Assert
		assert.NoError(t, err)
		cartRepo.AssertExpectations(t)
		cartRepo.AssertNotCalled(t, "DeleteCartByUserID", mock.Anything, mock.Anything)
	})

	t.Run("Success - Clearing Twice", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: uuid.New(), Quantity: 1})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Twice()
		cartRepo.On("UpdateCart", ctx, mock.MatchedBy(func(c *models.Cart) bool {
			return c.ID == cart.ID && len(c.Items) == 0
		})).Return(nil).Twice()

		// Act
		firstErr := cartService.ClearCart(ctx, userID)
		secondErr := cartService.ClearCart(ctx, userID)

		// Assert
		assert.NoError(t, firstErr, "First clear should succeed")
		assert.NoError(t, secondErr, "Clearing an already empty cart should succeed again")
		cartRepo.AssertExpectations(t)
	})

	t.Run("Failure - No Cart", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cartRepo.On("GetCartByUserID", ctx, userID).Return(nil, sql.ErrNoRows).Once()

		// Act
		err := cartService.ClearCart(ctx, userID)

		// Assert
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeNotFound, appErr.Code)
		cartRepo.AssertNotCalled(t, "UpdateCart", mock.Anything, mock.Anything)
	})

	t.Run("Failure - Update Error", func(t *testing.T) {
		// Arrange
		cartRepo := new(mocks.CartRepository)
		productRepo := new(mocks.ProductRepository)
		cartService := service.NewCartService(cartRepo, productRepo)

		cart := cartFixture(userID, models.CartItem{ProductID: uuid.New(), Quantity: 1})

		cartRepo.On("GetCartByUserID", ctx, userID).Return(cart, nil).Once()
		cartRepo.On("UpdateCart", ctx, mock.Anything).Return(errors.New("connection reset")).Once()

		// Act
		err := cartService.ClearCart(ctx, userID)

		// Assert
		assert.Error(t, err)

		var appErr *appErrors.AppError
		assert.True(t, errors.As(err, &appErr))
		assert.Equal(t, appErrors.ErrCodeDatabaseError, appErr.Code)
	})
}
