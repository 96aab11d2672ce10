package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID uuid.UUID) (*models.ResolvedCart, error)
	AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.ResolvedCart, error)
	UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req *models.UpdateCartItemRequest) (*models.ResolvedCart, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.ResolvedCart, error)
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewCartService(cartRepo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{cartRepo: cartRepo, productRepo: productRepo}
}

// GetCart returns the caller's cart with product details resolved. A
// caller who never added anything gets an empty item list, not an error.
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.ResolvedCart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &models.ResolvedCart{Items: []models.ResolvedCartItem{}}, nil
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return s.resolveCart(ctx, cart)
}

// AddItem puts a product into the cart, creating the cart on first use.
// Adding a product already present increments its quantity.
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req *models.AddCartItemRequest) (*models.ResolvedCart, error) {

	if _, err := s.productRepo.GetProductByID(ctx, req.ProductID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Product not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve product").WithError(err)
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)

	switch {
	case err == nil:
		if i := cart.FindItem(req.ProductID); i >= 0 {
			cart.Items[i].Quantity += quantity
		} else {
			cart.Items = append(cart.Items, models.CartItem{ProductID: req.ProductID, Quantity: quantity})
		}

		cart.UpdatedAt = time.Now()

		if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
			return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
		}
	case errors.Is(err, sql.ErrNoRows):
		cart = &models.Cart{
			ID:     uuid.New(),
			UserID: userID,
			Items:  []models.CartItem{{ProductID: req.ProductID, Quantity: quantity}},
		}

		if err := s.cartRepo.CreateCart(ctx, cart); err != nil {
			return nil, appErrors.DatabaseError("Failed to create cart").WithError(err)
		}
	default:
		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	return s.resolveCart(ctx, cart)
}

// UpdateItem sets the line's quantity to exactly the submitted value.
func (s *cartService) UpdateItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID, req *models.UpdateCartItemRequest) (*models.ResolvedCart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	i := cart.FindItem(productID)
	if i < 0 {
		return nil, appErrors.NotFoundError("Item not found in the cart")
	}

	cart.Items[i].Quantity = req.Quantity
	cart.UpdatedAt = time.Now()

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
	}

	return s.resolveCart(ctx, cart)
}

// RemoveItem drops the line for productID. Removing a product that is
// not in the cart leaves the cart unchanged.
func (s *cartService) RemoveItem(ctx context.Context, userID uuid.UUID, productID uuid.UUID) (*models.ResolvedCart, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if i := cart.FindItem(productID); i >= 0 {
		cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
		cart.UpdatedAt = time.Now()

		if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
			return nil, appErrors.DatabaseError("Failed to update cart").WithError(err)
		}
	}

	return s.resolveCart(ctx, cart)
}

// ClearCart empties the cart's line list and persists it. The cart
// document survives, so clearing an already empty cart succeeds again.
func (s *cartService) ClearCart(ctx context.Context, userID uuid.UUID) error {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NotFoundError("Cart not found").WithError(err)
		}

		return appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	cart.Items = []models.CartItem{}

	if err := s.cartRepo.UpdateCart(ctx, cart); err != nil {
		return appErrors.DatabaseError("Failed to clear cart").WithError(err)
	}

	return nil
}

// resolveCart joins the stored lines with their products in one batch
// read. Lines whose product has been deleted keep a nil Product.
func (s *cartService) resolveCart(ctx context.Context, cart *models.Cart) (*models.ResolvedCart, error) {

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to resolve cart products").WithError(err)
	}

	resolved := &models.ResolvedCart{
		ID:        cart.ID,
		UserID:    cart.UserID,
		Items:     make([]models.ResolvedCartItem, 0, len(cart.Items)),
		UpdatedAt: cart.UpdatedAt,
	}

	for _, item := range cart.Items {
		resolved.Items = append(resolved.Items, models.ResolvedCartItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Product:   products[item.ProductID],
		})
	}

	return resolved, nil
}
