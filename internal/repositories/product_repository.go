package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/utils"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListProducts(ctx context.Context, query *models.ListProductsQuery) ([]*models.Product, int, error)
}

type productRepository struct {
	DB *sql.DB
}

func NewProductRepo(db *sql.DB) ProductRepository {
	return &productRepository{DB: db}
}

const productColumns = `p.id, p.name, p.description, p.price, p.image, p.category, p.in_stock,
	       p.created_by, p.created_at, p.updated_at,
	       u.id, u.name, u.email, COALESCE(u.image, '')`

func scanProduct(row interface{ Scan(...any) error }) (*models.Product, error) {
	product := &models.Product{}
	creator := &models.UserSummary{}

	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.Price,
		&product.Image, &product.Category, &product.InStock,
		&product.CreatedBy, &product.CreatedAt, &product.UpdatedAt,
		&creator.ID, &creator.Name, &creator.Email, &creator.Image)
	if err != nil {
		return nil, err
	}

	product.Creator = creator

	return product, nil
}

func (r *productRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO products (id, name, description, price, image, category, in_stock, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.ID, product.Name, product.Description, product.Price,
		product.Image, product.Category, product.InStock, product.CreatedBy).
		Scan(&product.CreatedAt, &product.UpdatedAt)
}

func (r *productRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN users u ON p.created_by = u.id
		WHERE p.id = $1
	`

	product, err := scanProduct(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("querying database: %w", err)
	}

	return product, nil
}

// GetProductsByIDs loads several products at once, keyed by id. Missing
// products are simply absent from the map; the caller decides what an
// unresolved reference means.
func (r *productRepository) GetProductsByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	products := make(map[uuid.UUID]*models.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN users u ON p.created_by = u.id
		WHERE p.id = ANY($1)
	`

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = id.String()
	}

	rows, err := r.DB.QueryContext(dbCtx, query, pq.Array(idStrings))
	if err != nil {
		return nil, fmt.Errorf("querying database: %w", err)
	}

	defer rows.Close()

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}

		products[product.ID] = product
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return products, nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, product *models.Product) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, image = $4, category = $5, in_stock = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`

	return r.DB.QueryRowContext(dbCtx, query,
		product.Name, product.Description, product.Price,
		product.Image, product.Category, product.InStock, product.ID).
		Scan(&product.UpdatedAt)
}

func (r *productRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.DB.ExecContext(dbCtx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get deleted rows: %w", err)
	}

	if deleted == 0 {
		return sql.ErrNoRows
	}

	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, listQuery *models.ListProductsQuery) ([]*models.Product, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	search := "%" + listQuery.Search + "%"

	var total int

	countQuery := `
		SELECT COUNT(*)
		FROM products
		WHERE ($1 = '%%' OR name ILIKE $1 OR description ILIKE $1)
	`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, search).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT ` + productColumns + `
		FROM products p
		JOIN users u ON p.created_by = u.id
		WHERE ($1 = '%%' OR p.name ILIKE $1 OR p.description ILIKE $1)
		ORDER BY p.created_at DESC
	`

	args := []any{search}

	// limit 0 means the whole catalog, matching the public listing contract
	if listQuery.Limit > 0 {
		offset := (listQuery.Page - 1) * listQuery.Limit
		query += ` LIMIT $2 OFFSET $3`
		args = append(args, listQuery.Limit, offset)
	}

	rows, err := r.DB.QueryContext(dbCtx, query, args...)
	if err != nil {
		return nil, 0, err
	}

	defer rows.Close()

	var products []*models.Product

	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}

		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}
