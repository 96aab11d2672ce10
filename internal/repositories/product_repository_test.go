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

func setupProductRepoTest(t *testing.T) (repository.ProductRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err, "Failed to create sqlmock")

	t.Cleanup(func() {
		db.Close()
	})

	repo := repository.NewProductRepo(db)
	require.NotNil(t, repo, "NewProductRepo should return a non-nil repository")

	return repo, mock
}

var productJoinColumns = []string{
	"id", "name", "description", "price", "image", "category", "in_stock",
	"created_by", "created_at", "updated_at",
	"creator_id", "creator_name", "creator_email", "creator_image",
}

func addProductRow(rows *sqlmock.Rows, product *models.Product, creator *models.UserSummary) *sqlmock.Rows {
	return rows.AddRow(
		product.ID, product.Name, product.Description, product.Price,
		product.Image, product.Category, product.InStock,
		product.CreatedBy, product.CreatedAt, product.UpdatedAt,
		creator.ID, creator.Name, creator.Email, creator.Image)
}

func TestProductRepository(t *testing.T) {
	repo, mock := setupProductRepoTest(t)
	ctx := t.Context()

	creatorID := uuid.New()
	creator := &models.UserSummary{ID: creatorID, Name: "Jane Doe", Email: "jane@example.com"}
	now := time.Now()

	sample := &models.Product{
		ID:          uuid.New(),
		Name:        "Mechanical Keyboard",
		Description: "Tenkeyless, brown switches",
		Price:       89.99,
		Image:       models.DefaultProductImage,
		Category:    "electronics",
		InStock:     true,
		CreatedBy:   creatorID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	t.Run("CreateProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
			INSERT INTO products (id, name, description, price, image, category, in_stock, created_by, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
			RETURNING created_at, updated_at
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(sample.ID, sample.Name, sample.Description, sample.Price,
					sample.Image, sample.Category, sample.InStock, sample.CreatedBy).
				WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

			// Act
			err := repo.CreateProduct(ctx, sample)

			// Assert
			require.NoError(t, err, "CreateProduct should not return an error on success")
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database insertion error")
			mock.ExpectQuery(expectedSQL).
				WithArgs(sample.ID, sample.Name, sample.Description, sample.Price,
					sample.Image, sample.Category, sample.InStock, sample.CreatedBy).
				WillReturnError(dbError)

			// Act
			err := repo.CreateProduct(ctx, sample)

			// Assert
			require.Error(t, err, "CreateProduct should return an error on DB failure")
			assert.Equal(t, dbError, err)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("GetProductByID", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`FROM products p JOIN users u ON p.created_by = u.id WHERE p.id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			rows := addProductRow(sqlmock.NewRows(productJoinColumns), sample, creator)
			mock.ExpectQuery(expectedSQL).
				WithArgs(sample.ID).
				WillReturnRows(rows)

			// Act
			product, err := repo.GetProductByID(ctx, sample.ID)

			// Assert
			require.NoError(t, err, "GetProductByID should not return an error when product is found")
			require.NotNil(t, product)
			assert.Equal(t, sample.ID, product.ID)
			assert.Equal(t, sample.Name, product.Name)
			require.NotNil(t, product.Creator, "Creator summary should be joined in")
			assert.Equal(t, creator.Email, product.Creator.Email)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			missingID := uuid.New()
			mock.ExpectQuery(expectedSQL).
				WithArgs(missingID).
				WillReturnError(sql.ErrNoRows)

			// Act
			product, err := repo.GetProductByID(ctx, missingID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows, "Error should be sql.ErrNoRows")
			assert.Nil(t, product)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("GetProductsByIDs", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`WHERE p.id = ANY($1)`)

		t.Run("Success - Partial Resolution", func(t *testing.T) {
			// Arrange
			deletedID := uuid.New()
			rows := addProductRow(sqlmock.NewRows(productJoinColumns), sample, creator)
			mock.ExpectQuery(expectedSQL).
				WillReturnRows(rows)

			// Act
			products, err := repo.GetProductsByIDs(ctx, []uuid.UUID{sample.ID, deletedID})

			// Assert
			require.NoError(t, err)
			require.Len(t, products, 1, "Only existing products should be in the map")
			assert.Contains(t, products, sample.ID)
			assert.NotContains(t, products, deletedID)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Success - Empty Input Skips Query", func(t *testing.T) {
			// Act
			products, err := repo.GetProductsByIDs(ctx, nil)

			// Assert
			require.NoError(t, err)
			assert.Empty(t, products)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Database Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database query error")
			mock.ExpectQuery(expectedSQL).
				WillReturnError(dbError)

			// Act
			products, err := repo.GetProductsByIDs(ctx, []uuid.UUID{sample.ID})

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, dbError)
			assert.Nil(t, products)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("UpdateProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`
			UPDATE products
			SET name = $1, description = $2, price = $3, image = $4, category = $5, in_stock = $6, updated_at = NOW()
			WHERE id = $7
			RETURNING updated_at
		`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(sample.Name, sample.Description, sample.Price,
					sample.Image, sample.Category, sample.InStock, sample.ID).
				WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(time.Now()))

			// Act
			err := repo.UpdateProduct(ctx, sample)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(expectedSQL).
				WithArgs(sample.Name, sample.Description, sample.Price,
					sample.Image, sample.Category, sample.InStock, sample.ID).
				WillReturnError(sql.ErrNoRows)

			// Act
			err := repo.UpdateProduct(ctx, sample)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		expectedSQL := regexp.QuoteMeta(`DELETE FROM products WHERE id = $1`)

		t.Run("Success", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(sample.ID).
				WillReturnResult(sqlmock.NewResult(0, 1))

			// Act
			err := repo.DeleteProduct(ctx, sample.ID)

			// Assert
			require.NoError(t, err)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Not Found", func(t *testing.T) {
			// Arrange
			mock.ExpectExec(expectedSQL).
				WithArgs(sample.ID).
				WillReturnResult(sqlmock.NewResult(0, 0))

			// Act
			err := repo.DeleteProduct(ctx, sample.ID)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, sql.ErrNoRows)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})

	t.Run("ListProducts", func(t *testing.T) {
		countSQL := regexp.QuoteMeta(`SELECT COUNT(*) FROM products`)

		t.Run("Success - Full Catalog", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(countSQL).
				WithArgs("%%").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

			rows := addProductRow(sqlmock.NewRows(productJoinColumns), sample, creator)
			mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY p.created_at DESC`)).
				WithArgs("%%").
				WillReturnRows(rows)

			// Act
			products, total, err := repo.ListProducts(ctx, &models.ListProductsQuery{})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 1, total)
			require.Len(t, products, 1)
			assert.Equal(t, sample.ID, products[0].ID)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Success - Paged Search", func(t *testing.T) {
			// Arrange
			mock.ExpectQuery(countSQL).
				WithArgs("%keyboard%").
				WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

			rows := addProductRow(sqlmock.NewRows(productJoinColumns), sample, creator)
			mock.ExpectQuery(regexp.QuoteMeta(`LIMIT $2 OFFSET $3`)).
				WithArgs("%keyboard%", 10, 10).
				WillReturnRows(rows)

			// Act
			products, total, err := repo.ListProducts(ctx, &models.ListProductsQuery{Search: "keyboard", Page: 2, Limit: 10})

			// Assert
			require.NoError(t, err)
			assert.Equal(t, 25, total)
			require.Len(t, products, 1)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})

		t.Run("Failure - Count Error", func(t *testing.T) {
			// Arrange
			dbError := errors.New("database query error")
			mock.ExpectQuery(countSQL).
				WithArgs("%%").
				WillReturnError(dbError)

			// Act
			products, total, err := repo.ListProducts(ctx, &models.ListProductsQuery{})

			// Assert
			require.Error(t, err)
			assert.Equal(t, dbError, err)
			assert.Zero(t, total)
			assert.Nil(t, products)
			require.NoError(t, mock.ExpectationsWereMet(), "SQL mock expectations were not met")
		})
	})
}
