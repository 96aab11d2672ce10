package repository_test

import (
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOrderRepoTest(t *testing.T) (repository.OrderRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewOrderRepo(db)
	require.NotNil(t, repo, "NewOrderRepo should return a non-nil repository")

	return repo, mock
}

var (
	orderInsertSQL = regexp.QuoteMeta(`
		INSERT INTO orders (id, user_id, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`)
	orderItemInsertSQL = regexp.QuoteMeta(`
		INSERT INTO order_items (id, order_id, product_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	orderItemsSelectSQL = regexp.QuoteMeta(`
		SELECT id, product_id, name, price, quantity
		FROM order_items
		WHERE order_id = $1
	`)
)

func TestOrderRepository(t *testing.T) {
	repo, mock := setupOrderRepoTest(t)
	ctx := t.Context()

	t.Run("CreateOrder", func(t *testing.T) {
		now := time.Now()
		order := &models.Order{
			ID:     uuid.New(),
			UserID: uuid.New(),
			Items: []models.OrderItem{
				{ID: uuid.New(), ProductID: uuid.New(), Name: "Mechanical Keyboard", Price: 89.99, Quantity: 1},
				{ID: uuid.New(), ProductID: uuid.New(), Name: "Desk Mat", Price: 19.99, Quantity: 2},
			},
			TotalAmount: 129.97,
			Status:      models.OrderStatusUnpaid,
		}

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(orderInsertSQL).
				WithArgs(order.ID, order.UserID, order.TotalAmount, order.Status).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))

			for _, item := range order.Items {
				mock.ExpectExec(orderItemInsertSQL).
					WithArgs(item.ID, order.ID, item.ProductID, item.Name, item.Price, item.Quantity).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.NoError(t, err, "CreateOrder should not return an error on success")
			assert.WithinDuration(t, now, order.CreatedAt, time.Second)
			assert.Equal(t, order.ID, order.Items[0].OrderID, "Items should be linked to the order")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Order Insert Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database insertion error")
			mock.ExpectQuery(orderInsertSQL).
				WithArgs(order.ID, order.UserID, order.TotalAmount, order.Status).
				WillReturnError(dbError)

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err, "CreateOrder should return an error on DB failure")
			assert.ErrorIs(t, err, dbError)
			assert.ErrorContains(t, err, "failed to insert order")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Item Insert Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database insertion error")
			mock.ExpectQuery(orderInsertSQL).
				WithArgs(order.ID, order.UserID, order.TotalAmount, order.Status).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(now))
			mock.ExpectExec(orderItemInsertSQL).
				WillReturnError(dbError)

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err)
			assert.ErrorContains(t, err, "failed to insert an order item")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("GetOrderByID", func(t *testing.T) {
		orderID := uuid.New()
		userID := uuid.New()
		now := time.Now()

		orderSelectSQL := regexp.QuoteMeta(`
			SELECT user_id, total_amount, status, created_at
			FROM orders
			WHERE id = $1
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(orderSelectSQL).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"user_id", "total_amount", "status", "created_at"}).
					AddRow(userID, 89.99, "unpaid", now))

			itemID := uuid.New()
			productID := uuid.New()
			mock.ExpectQuery(orderItemsSelectSQL).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "price", "quantity"}).
					AddRow(itemID, productID, "Mechanical Keyboard", 89.99, 1))

			// Act
			order, err := repo.GetOrderByID(ctx, orderID)

			// Assert
			require.NoError(t, err, "GetOrderByID should not return an error when order is found")
			require.NotNil(t, order)
			assert.Equal(t, orderID, order.ID)
			assert.Equal(t, userID, order.UserID)
			assert.Equal(t, models.OrderStatusUnpaid, order.Status)
			require.Len(t, order.Items, 1)
			assert.Equal(t, orderID, order.Items[0].OrderID)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(orderSelectSQL).
				WithArgs(orderID).
				WillReturnError(sql.ErrNoRows)

			// Act
			order, err := repo.GetOrderByID(ctx, orderID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows, "Error should be sql.ErrNoRows")
			assert.Nil(t, order)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("ListOrdersByUser", func(t *testing.T) {
		userID := uuid.New()
		now := time.Now()

		listSQL := regexp.QuoteMeta(`
			SELECT id, total_amount, status, created_at
			FROM orders
			WHERE user_id = $1
			ORDER BY created_at DESC
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			firstID := uuid.New()
			secondID := uuid.New()
			mock.ExpectQuery(listSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount", "status", "created_at"}).
					AddRow(firstID, 89.99, "paid", now).
					AddRow(secondID, 19.99, "unpaid", now.Add(-time.Hour)))

			mock.ExpectQuery(orderItemsSelectSQL).
				WithArgs(firstID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "price", "quantity"}).
					AddRow(uuid.New(), uuid.New(), "Mechanical Keyboard", 89.99, 1))
			mock.ExpectQuery(orderItemsSelectSQL).
				WithArgs(secondID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "price", "quantity"}).
					AddRow(uuid.New(), uuid.New(), "Desk Mat", 19.99, 1))

			// Act
			orders, err := repo.ListOrdersByUser(ctx, userID)

			// Assert
			require.NoError(t, err)
			require.Len(t, orders, 2)
			assert.Equal(t, firstID, orders[0].ID)
			assert.Equal(t, userID, orders[0].UserID)
			require.Len(t, orders[0].Items, 1)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Success - No Orders", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(listSQL).
				WithArgs(userID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "total_amount", "status", "created_at"}))

			// Act
			orders, err := repo.ListOrdersByUser(ctx, userID)

			// Assert
			require.NoError(t, err)
			assert.Empty(t, orders)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("ListAllOrders", func(t *testing.T) {
		now := time.Now()

		listAllSQL := regexp.QuoteMeta(`JOIN users u ON o.user_id = u.id`)

		t.Run("Success - User Identity Joined", func(t *testing.T) {
			// Arrange
			orderID := uuid.New()
			ownerID := uuid.New()
			mock.ExpectQuery(listAllSQL).
				WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "total_amount", "status", "created_at", "name", "email"}).
					AddRow(orderID, ownerID, 89.99, "paid", now, "Jane Doe", "jane@example.com"))

			mock.ExpectQuery(orderItemsSelectSQL).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "name", "price", "quantity"}).
					AddRow(uuid.New(), uuid.New(), "Mechanical Keyboard", 89.99, 1))

			// Act
			orders, err := repo.ListAllOrders(ctx)

			// Assert
			require.NoError(t, err)
			require.Len(t, orders, 1)
			require.NotNil(t, orders[0].User)
			assert.Equal(t, ownerID, orders[0].User.ID)
			assert.Equal(t, "jane@example.com", orders[0].User.Email)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database query error")
			mock.ExpectQuery(listAllSQL).
				WillReturnError(dbError)

			// Act
			orders, err := repo.ListAllOrders(ctx)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, dbError)
			assert.Nil(t, orders)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("UpdateOrderStatus", func(t *testing.T) {
		orderID := uuid.New()

		updateSQL := regexp.QuoteMeta(`UPDATE orders SET status = $1 WHERE id = $2`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(updateSQL).
				WithArgs(models.OrderStatusShipped, orderID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusShipped)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(updateSQL).
				WithArgs(models.OrderStatusPaid, orderID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.UpdateOrderStatus(ctx, orderID, models.OrderStatusPaid)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})
}
