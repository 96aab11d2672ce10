package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	appErrors "github.com/ThanhPhat1604/Assignment3SDN/internal/errors"
	"github.com/ThanhPhat1604/Assignment3SDN/internal/models"
	repository "github.com/ThanhPhat1604/Assignment3SDN/internal/repositories"
	"github.com/ThanhPhat1604/Assignment3SDN/pkg/email"
	"github.com/google/uuid"
)

type OrderService interface {
	CreateOrderFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error)
	GetOrderByID(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error)
	ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	ListAllOrders(ctx context.Context) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	emailSender email.Sender
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository, userRepo repository.UserRepository, emailSender email.Sender) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		emailSender: emailSender,
	}
}

// CreateOrderFromCart checks out the caller's cart: every line is
// snapshotted with the product's current name and price, the order
// starts unpaid, and the cart is deleted.
func (s *orderService) CreateOrderFromCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {

	cart, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.InvalidStateError("Cart is empty")
		}

		return nil, appErrors.DatabaseError("Failed to retrieve cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, appErrors.InvalidStateError("Cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to resolve cart products").WithError(err)
	}

	order := &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Items:  make([]models.OrderItem, 0, len(cart.Items)),
		Status: models.OrderStatusUnpaid,
	}

	for _, item := range cart.Items {

		orderItem := models.OrderItem{
			ID:        uuid.New(),
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}

		// a deleted product still checks out, at price zero
		if product := products[item.ProductID]; product != nil {
			orderItem.Name = product.Name
			orderItem.Price = product.Price
		}

		order.TotalAmount += orderItem.Price * float64(orderItem.Quantity)
		order.Items = append(order.Items, orderItem)
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, appErrors.DatabaseError("Failed to create order").WithError(err)
	}

	if err := s.cartRepo.DeleteCartByUserID(ctx, userID); err != nil {
		slog.WarnContext(ctx, "Failed to clear cart after checkout",
			slog.String("orderId", order.ID.String()), slog.Any("error", err))
	}

	s.sendConfirmation(ctx, userID, order)

	return order, nil
}

// GetOrderByID hides other users' orders behind a not-found answer.
func (s *orderService) GetOrderByID(ctx context.Context, userID uuid.UUID, orderID uuid.UUID) (*models.Order, error) {

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.NotFoundError("Order not found")
	}

	return order, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {

	orders, err := s.orderRepo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	if orders == nil {
		orders = []models.Order{}
	}

	return orders, nil
}

func (s *orderService) ListAllOrders(ctx context.Context) ([]models.Order, error) {

	orders, err := s.orderRepo.ListAllOrders(ctx)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list orders").WithError(err)
	}

	if orders == nil {
		orders = []models.Order{}
	}

	return orders, nil
}

// UpdateOrderStatus overwrites the status with whatever the admin
// submitted; there is no transition graph.
func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order status").WithError(err)
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to retrieve order").WithError(err)
	}

	return order, nil
}

func (s *orderService) sendConfirmation(ctx context.Context, userID uuid.UUID, order *models.Order) {

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		slog.WarnContext(ctx, "Failed to load user for order confirmation",
			slog.String("orderId", order.ID.String()), slog.Any("error", err))

		return
	}

	if err := s.emailSender.SendOrderConfirmation(ctx, user.Email, order); err != nil {
		slog.WarnContext(ctx, "Failed to send order confirmation email",
			slog.String("orderId", order.ID.String()), slog.Any("error", err))
	}
}
