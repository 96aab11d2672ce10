package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/ThanhPhat1604/Assignment3SDN/internal/cache"
	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type ProductService interface {
	CreateProduct(ctx context.Context, claims *models.Claims, req *models.CreateProductRequest) (*models.Product, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UpdateProduct(ctx context.Context, claims *models.Claims, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error)
	DeleteProduct(ctx context.Context, claims *models.Claims, id uuid.UUID) error
	ListProducts(ctx context.Context, query *models.ListProductsQuery) (*models.ProductListResponse, error)
}

type productService struct {
	repo      repository.ProductRepository
	cache     cache.Cache
	sanitizer *bluemonday.Policy
}

func NewProductService(repo repository.ProductRepository, productCache cache.Cache) ProductService {
	return &productService{
		repo:      repo,
		cache:     productCache,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

func (s *productService) CreateProduct(ctx context.Context, claims *models.Claims, req *models.CreateProductRequest) (*models.Product, error) {

	product := &models.Product{
		ID:          uuid.New(),
		Name:        s.sanitizer.Sanitize(req.Name),
		Description: s.sanitizer.Sanitize(req.Description),
		Price:       *req.Price,
		Image:       req.Image,
		Category:    req.Category,
		InStock:     true,
		CreatedBy:   claims.UserID,
	}

	if product.Image == "" {
		product.Image = models.DefaultProductImage
	}

	if product.Category == "" {
		product.Category = models.DefaultProductCategory
	}

	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to create product").WithError(err)
	}

	s.invalidateListCache(ctx)

	return product, nil
}

func (s *productService) GetProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {

	cacheKey := cache.Key(cache.ProductKeyPrefix, id.String())

	var cached models.Product

	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if err := s.cache.Set(ctx, cacheKey, product, 0); err != nil {
		slog.WarnContext(ctx, "Failed to cache product", slog.String("productId", id.String()), slog.Any("error", err))
	}

	return product, nil
}

// UpdateProduct applies the submitted fields. Only the creator or an
// admin may modify a product.
func (s *productService) UpdateProduct(ctx context.Context, claims *models.Claims, id uuid.UUID, req *models.UpdateProductRequest) (*models.Product, error) {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if product.CreatedBy != claims.UserID && !claims.IsAdmin() {
		return nil, appErrors.ForbiddenError("Not allowed to modify this product")
	}

	if req.Name != nil {
		product.Name = s.sanitizer.Sanitize(*req.Name)
	}

	if req.Description != nil {
		product.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.Price != nil {
		product.Price = *req.Price
	}

	if req.Image != nil {
		product.Image = *req.Image
	}

	if req.Category != nil {
		product.Category = *req.Category
	}

	if req.InStock != nil {
		product.InStock = *req.InStock
	}

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, appErrors.DatabaseError("Failed to update product").WithError(err)
	}

	s.invalidateProductCache(ctx, id)

	return product, nil
}

func (s *productService) DeleteProduct(ctx context.Context, claims *models.Claims, id uuid.UUID) error {

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	if product.CreatedBy != claims.UserID && !claims.IsAdmin() {
		return appErrors.ForbiddenError("Not allowed to modify this product")
	}

	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Product not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to delete product").WithError(err)
	}

	s.invalidateProductCache(ctx, id)

	return nil
}

func (s *productService) ListProducts(ctx context.Context, query *models.ListProductsQuery) (*models.ProductListResponse, error) {

	if query.Page < 1 {
		query.Page = 1
	}

	// the full catalog without a search term is the hot path worth caching
	cacheable := query.Search == "" && query.Limit == 0

	if cacheable {

		var cached models.ProductListResponse

		if found, err := s.cache.Get(ctx, cache.ProductListCacheKey, &cached); err == nil && found {
			return &cached, nil
		}
	}

	products, total, err := s.repo.ListProducts(ctx, query)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list products").WithError(err)
	}

	if products == nil {
		products = []*models.Product{}
	}

	pages := 1
	limit := query.Limit

	if limit > 0 {
		pages = (total + limit - 1) / limit
	} else {
		limit = total
	}

	result := &models.ProductListResponse{
		Products: products,
		Pagination: models.Pagination{
			Page:  query.Page,
			Limit: limit,
			Total: total,
			Pages: pages,
		},
	}

	if cacheable {
		if err := s.cache.Set(ctx, cache.ProductListCacheKey, result, 0); err != nil {
			slog.WarnContext(ctx, "Failed to cache product listing", slog.Any("error", err))
		}
	}

	return result, nil
}

func (s *productService) invalidateProductCache(ctx context.Context, id uuid.UUID) {

	if err := s.cache.Delete(ctx, cache.Key(cache.ProductKeyPrefix, id.String())); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate product cache", slog.String("productId", id.String()), slog.Any("error", err))
	}

	s.invalidateListCache(ctx)
}

func (s *productService) invalidateListCache(ctx context.Context) {
	if err := s.cache.Delete(ctx, cache.ProductListCacheKey); err != nil {
		slog.WarnContext(ctx, "Failed to invalidate product listing cache", slog.Any("error", err))
	}
}
